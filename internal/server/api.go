package server

import (
	"net/http"
	"strconv"
	"strings"

	"ictportal/pkg/types"
)

type submissionListResponse struct {
	Submissions []*types.Submission          `json:"submissions"`
	Media       map[int64][]types.MediaAsset `json:"media,omitempty"`
	Total       int64                        `json:"total"`
	Page        int                          `json:"page"`
}

// handleAPISubmissions is the JSON listing. Reviewers get the rows
// without media; admins additionally get each row's assets.
func (s *Service) handleAPISubmissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	subs, total, err := s.subs.List(ctx, search, page, pageSize)
	if err != nil {
		s.logger.WithError(err).Error("failed to list submissions")
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch submissions"})
		return
	}

	resp := submissionListResponse{
		Submissions: subs,
		Total:       total,
		Page:        page,
	}

	if roleFromContext(ctx) == types.RoleAdmin {
		resp.Media = make(map[int64][]types.MediaAsset, len(subs))
		for _, sub := range subs {
			assets, err := s.media.MediaBySubmissionID(ctx, sub.ID)
			if err != nil {
				s.logger.WithError(err).Error("failed to load media assets")
				s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch submissions"})
				return
			}
			resp.Media[sub.ID] = assets
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}
