package types

import "time"

// Submission is one completed assessment form. Rows are immutable after
// creation; the only mutation is a whole-row delete by an admin.
type Submission struct {
	ID                  int64     `db:"id" json:"id"`
	SchoolName          string    `db:"school_name" json:"school_name"`
	ContactPerson       string    `db:"contact_person" json:"contact_person"`
	ContactPhone        string    `db:"contact_phone" json:"contact_phone"`
	ContactEmail        string    `db:"contact_email" json:"contact_email"`
	DedicatedBuilding   string    `db:"dedicated_building" json:"dedicated_building"`
	FacilityType        string    `db:"facility_type" json:"facility_type"`
	Status              string    `db:"status" json:"status"`
	HealthState         string    `db:"health_state" json:"health_state"`
	FloorArea           string    `db:"floor_area" json:"floor_area"`
	MeetsMinArea        string    `db:"meets_min_area" json:"meets_min_area"`
	TotalSize           string    `db:"total_size" json:"total_size"`
	NumFloors           string    `db:"num_floors" json:"num_floors"`
	Location            string    `db:"location" json:"location"`
	ComputerSystem      string    `db:"computer_system" json:"computer_system"`
	NumComputers        string    `db:"num_computers" json:"num_computers"`
	SpecMeet            string    `db:"spec_meet" json:"spec_meet"`
	HasNetworking       string    `db:"has_networking" json:"has_networking"`
	InternetSpeed       string    `db:"internet_speed" json:"internet_speed"`
	NumExits            string    `db:"num_exits" json:"num_exits"`
	Conveniences        string    `db:"conveniences" json:"conveniences"`
	ConvenienceAttached string    `db:"convenience_attached" json:"convenience_attached"`
	IsFurnished         string    `db:"is_furnished" json:"is_furnished"`
	FurnitureList       string    `db:"furniture_list" json:"furniture_list"`
	IPAddress           string    `db:"ip_address" json:"-"`
	SubmittedAt         time.Time `db:"submitted_at" json:"submitted_at"`
}

// MediaKind partitions uploads on disk and in media_assets.kind.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// MediaAsset is one stored upload tied to a submission. Rows cascade on
// submission delete; backing files are unlinked by the store caller.
type MediaAsset struct {
	ID           int64     `db:"id" json:"id"`
	SubmissionID int64     `db:"submission_id" json:"submission_id"`
	Kind         MediaKind `db:"kind" json:"kind"`
	FileName     string    `db:"file_name" json:"file_name"`
	FilePath     string    `db:"file_path" json:"file_path"`
	FileSize     int64     `db:"file_size" json:"file_size"`
	MimeType     string    `db:"mime_type" json:"mime_type"`
	UploadedAt   time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// MediaUpload is an accepted file coming out of the ingestor, not yet
// persisted to the store.
type MediaUpload struct {
	Kind      MediaKind
	FileName  string
	Path      string
	SizeBytes int64
	MimeType  string
}

// SubmissionStats are the dashboard aggregate counters, always computed
// over the unfiltered table.
type SubmissionStats struct {
	Total     int64 `db:"total_submissions" json:"total"`
	Today     int64 `db:"today_submissions" json:"today"`
	ThisWeek  int64 `db:"week_submissions" json:"this_week"`
	ThisMonth int64 `db:"month_submissions" json:"this_month"`
}
