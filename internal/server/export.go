package server

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ictportal/pkg/types"
)

var exportColumns = []string{
	"id", "school_name", "contact_person", "contact_phone", "contact_email",
	"dedicated_building", "facility_type", "status", "health_state",
	"floor_area", "meets_min_area", "total_size", "num_floors", "location",
	"computer_system", "num_computers", "spec_meet", "has_networking",
	"internet_speed", "num_exits", "conveniences", "convenience_attached",
	"is_furnished", "furniture_list", "ip_address", "submitted_at",
}

// handleExportCSV streams every submission as CSV, newest first. The
// /admin variant appends media path columns; the /review variant omits
// them. A UTF-8 BOM leads the body so spreadsheet tools decode it right.
func (s *Service) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	includeMedia := strings.HasPrefix(r.URL.Path, "/admin/")

	subs, err := s.subs.ExportRows(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to load export rows")
		s.internalServerError(w)
		return
	}

	imagePaths := map[int64][]string{}
	videoPaths := map[int64][]string{}
	if includeMedia {
		assets, err := s.media.AllMedia(ctx)
		if err != nil {
			s.logger.WithError(err).Error("failed to load media for export")
			s.internalServerError(w)
			return
		}
		for _, a := range assets {
			if a.Kind == types.MediaKindVideo {
				videoPaths[a.SubmissionID] = append(videoPaths[a.SubmissionID], a.FilePath)
			} else {
				imagePaths[a.SubmissionID] = append(imagePaths[a.SubmissionID], a.FilePath)
			}
		}
	}

	filename := fmt.Sprintf("submissions_%s.csv", time.Now().Format("2006-01-02_15-04-05"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	// UTF-8 BOM
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		s.logger.WithError(err).Error("failed to write csv export")
		return
	}

	cw := csv.NewWriter(w)

	header := exportColumns
	if includeMedia {
		header = append(append([]string{}, exportColumns...), "image_files", "video_files")
	}
	if err := cw.Write(header); err != nil {
		s.logger.WithError(err).Error("failed to write csv export")
		return
	}

	for _, sub := range subs {
		record := []string{
			strconv.FormatInt(sub.ID, 10),
			sub.SchoolName, sub.ContactPerson, sub.ContactPhone, sub.ContactEmail,
			sub.DedicatedBuilding, sub.FacilityType, sub.Status, sub.HealthState,
			sub.FloorArea, sub.MeetsMinArea, sub.TotalSize, sub.NumFloors, sub.Location,
			sub.ComputerSystem, sub.NumComputers, sub.SpecMeet, sub.HasNetworking,
			sub.InternetSpeed, sub.NumExits, sub.Conveniences, sub.ConvenienceAttached,
			sub.IsFurnished, sub.FurnitureList, sub.IPAddress,
			sub.SubmittedAt.Format("2006-01-02 15:04:05"),
		}
		if includeMedia {
			record = append(record,
				strings.Join(imagePaths[sub.ID], "; "),
				strings.Join(videoPaths[sub.ID], "; "),
			)
		}
		if err := cw.Write(record); err != nil {
			s.logger.WithError(err).Error("failed to write csv export")
			return
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		s.logger.WithError(err).Error("failed to flush csv export")
	}
}
