package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ictportal/pkg/types"

	"github.com/alexedwards/flow"
)

func (s *Service) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, true)
}

func (s *Service) handleReviewDashboard(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, false)
}

func (s *Service) renderDashboard(w http.ResponseWriter, r *http.Request, showMedia bool) {
	ctx := r.Context()

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	subs, total, err := s.subs.List(ctx, search, page, pageSize)
	if err != nil {
		s.logger.WithError(err).Error("failed to list submissions")
		s.internalServerError(w)
		return
	}

	stats, err := s.subs.Stats(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to load submission stats")
		s.internalServerError(w)
		return
	}

	rows := make([]DashboardRow, 0, len(subs))
	if showMedia {
		ids := make([]int64, 0, len(subs))
		for _, sub := range subs {
			ids = append(ids, sub.ID)
		}
		counts, err := s.media.MediaCounts(ctx, ids)
		if err != nil {
			s.logger.WithError(err).Error("failed to count media assets")
			s.internalServerError(w)
			return
		}
		for _, sub := range subs {
			rows = append(rows, DashboardRow{
				Submission: sub,
				Images:     counts[sub.ID][types.MediaKindImage],
				Videos:     counts[sub.ID][types.MediaKindVideo],
			})
		}
	} else {
		for _, sub := range subs {
			rows = append(rows, DashboardRow{Submission: sub})
		}
	}

	totalPages := int((total + pageSize - 1) / pageSize)

	role := roleFromContext(ctx)
	title := "Review Dashboard"
	if showMedia {
		title = "Admin Dashboard"
	}

	data := DashboardPageData{
		Title:      title,
		Role:       role,
		Username:   usernameFromContext(ctx),
		Search:     search,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		Stats:      stats,
		Rows:       rows,
		ShowMedia:  showMedia,
		Notice:     r.URL.Query().Get("notice"),
		Error:      r.URL.Query().Get("error"),
	}

	template := "page.review"
	if showMedia {
		template = "page.admin"
	}
	s.renderTemplate(w, template, data)
}

func (s *Service) handleSubmissionDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(flow.Param(ctx, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	sub, err := s.subs.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrSubmissionNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.WithError(err).Error("failed to load submission")
		s.internalServerError(w)
		return
	}

	media, err := s.media.MediaBySubmissionID(ctx, id)
	if err != nil {
		s.logger.WithError(err).Error("failed to load media assets")
		s.internalServerError(w)
		return
	}

	data := SubmissionPageData{
		Title:      "Submission - " + sub.SchoolName,
		Username:   usernameFromContext(ctx),
		Submission: sub,
		Media:      media,
	}
	s.renderTemplate(w, "page.submission", data)
}

// handleDeleteSubmission removes the row (media rows cascade) and then
// unlinks the backing files. Unlink failures are reported, not
// swallowed, but the row deletion stands either way.
func (s *Service) handleDeleteSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(flow.Param(ctx, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	paths, err := s.subs.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrSubmissionNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.WithError(err).Error("failed to delete submission")
		s.internalServerError(w)
		return
	}

	var failed []string
	for _, path := range paths {
		if err := s.ingestor.Unlink(path); err != nil {
			s.logger.WithError(err).WithField("path", path).Error("failed to unlink media file")
			failed = append(failed, path)
		}
	}

	description := fmt.Sprintf("deleted submission %d (%d files)", id, len(paths))
	if err := s.audit.Record(ctx, string(roleFromContext(ctx)), usernameFromContext(ctx), "DELETE_SUBMISSION", description, clientIP(r)); err != nil {
		s.logger.WithError(err).Error("failed to record delete action")
	}

	v := url.Values{}
	if len(failed) > 0 {
		v.Set("error", fmt.Sprintf("submission %d deleted, but %d file(s) could not be removed", id, len(failed)))
	} else {
		v.Set("notice", fmt.Sprintf("submission %d deleted", id))
	}
	http.Redirect(w, r, "/admin?"+v.Encode(), http.StatusSeeOther)
}
