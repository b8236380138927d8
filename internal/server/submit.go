package server

import (
	"errors"
	"mime/multipart"
	"net/http"

	"ictportal/internal/forms"
	"ictportal/internal/mailer"
	"ictportal/pkg/types"
)

// submitResponse is the JSON contract of POST /submit.
type submitResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	SubmissionID  int64  `json:"submission_id,omitempty"`
	FilesUploaded *int   `json:"files_uploaded,omitempty"`
}

func (s *Service) handleHome(w http.ResponseWriter, r *http.Request) {
	data := HomePageData{
		Title:  "ICT Infrastructure Assessment",
		Notice: r.URL.Query().Get("notice"),
	}
	s.renderTemplate(w, "page.home", data)
}

// handleSubmit runs the intake pipeline: validate, ingest media, store
// transactionally, then notify best-effort.
func (s *Service) handleSubmit(w http.ResponseWriter, r *http.Request) {
	// 32MB in memory; larger parts spill to temp files.
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeJSON(w, http.StatusBadRequest, submitResponse{Status: "error", Message: "invalid multipart payload"})
		return
	}

	var input types.SubmissionInput
	if err := decoder.Decode(&input, r.MultipartForm.Value); err != nil {
		s.writeJSON(w, http.StatusBadRequest, submitResponse{Status: "error", Message: "invalid form payload"})
		return
	}

	sub, err := forms.Validate(&input)
	if err != nil {
		var verr *forms.ValidationError
		if errors.As(err, &verr) {
			s.writeJSON(w, http.StatusBadRequest, submitResponse{Status: "error", Message: verr.Message})
			return
		}
		s.logger.WithError(err).Error("validation failed unexpectedly")
		s.writeJSON(w, http.StatusInternalServerError, submitResponse{Status: "error", Message: "internal server error"})
		return
	}

	var video *multipart.FileHeader
	if headers := r.MultipartForm.File["video"]; len(headers) > 0 {
		video = headers[0]
	}
	images := r.MultipartForm.File["images"]

	uploads := s.ingestor.Ingest(video, images)

	sub.IPAddress = clientIP(r)

	id, err := s.subs.Create(r.Context(), sub, uploads)
	if err != nil {
		s.logger.WithError(err).Error("failed to store submission")
		// Files written for this request stay on disk as orphans.
		s.writeJSON(w, http.StatusInternalServerError, submitResponse{Status: "error", Message: "failed to save submission"})
		return
	}

	s.mail.Send(mailer.BuildReceipt(sub, uploads, s.config.BaseURL))

	count := len(uploads)
	s.writeJSON(w, http.StatusOK, submitResponse{
		Status:        "success",
		Message:       "Form submitted successfully",
		SubmissionID:  id,
		FilesUploaded: &count,
	})
}
