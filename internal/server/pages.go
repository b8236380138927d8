package server

import "ictportal/pkg/types"

type HomePageData struct {
	Title  string
	Notice string
}

type LoginPageData struct {
	Title string
	Error string
}

// DashboardRow pairs a submission with its media counts for the table.
type DashboardRow struct {
	*types.Submission
	Images int64
	Videos int64
}

type DashboardPageData struct {
	Title      string
	Role       types.Role
	Username   string
	Search     string
	Page       int
	TotalPages int
	Total      int64
	Stats      *types.SubmissionStats
	Rows       []DashboardRow
	ShowMedia  bool
	Notice     string
	Error      string
}

type SubmissionPageData struct {
	Title      string
	Username   string
	Submission *types.Submission
	Media      []types.MediaAsset
}
