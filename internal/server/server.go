package server

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"ictportal/internal/mailer"
	"ictportal/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

//go:embed templates
var uiFS embed.FS
var decoder = form.NewDecoder()

const pageSize = 20

// SubmissionStore is the slice of the store the handlers need. Handlers
// take it as an interface so tests can run against an in-memory fake.
type SubmissionStore interface {
	Create(ctx context.Context, sub *types.Submission, media []types.MediaUpload) (int64, error)
	List(ctx context.Context, search string, page, pageSize int) ([]*types.Submission, int64, error)
	ByID(ctx context.Context, id int64) (*types.Submission, error)
	Delete(ctx context.Context, id int64) ([]string, error)
	Stats(ctx context.Context) (*types.SubmissionStats, error)
	ExportRows(ctx context.Context) ([]*types.Submission, error)
}

type MediaStore interface {
	MediaBySubmissionID(ctx context.Context, submissionID int64) ([]types.MediaAsset, error)
	MediaCounts(ctx context.Context, submissionIDs []int64) (map[int64]map[types.MediaKind]int64, error)
	AllMedia(ctx context.Context) ([]types.MediaAsset, error)
}

type AuditLog interface {
	Record(ctx context.Context, role, username, action, description, ipAddress string) error
}

type MediaIngestor interface {
	Ingest(video *multipart.FileHeader, images []*multipart.FileHeader) []types.MediaUpload
	Unlink(relPath string) error
}

type Service struct {
	logger   *logrus.Logger
	config   *types.Config
	subs     SubmissionStore
	media    MediaStore
	audit    AuditLog
	ingestor MediaIngestor
	mail     mailer.Service

	templates *template.Template
	cookie    *securecookie.SecureCookie

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	subs SubmissionStore,
	media MediaStore,
	audit AuditLog,
	ingestor MediaIngestor,
	mail mailer.Service,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger:   logger,
		config:   config,
		subs:     subs,
		media:    media,
		audit:    audit,
		ingestor: ingestor,
		mail:     mail,
		cookie:   securecookie.New(hashKey, blockKey),
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/", s.handleHome, http.MethodGet)
	r.HandleFunc("/submit", s.handleSubmit, http.MethodPost)

	r.HandleFunc("/login", s.handleGetLogin, http.MethodGet)
	r.HandleFunc("/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout, http.MethodGet)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireRole(types.RoleAdmin))

		r.HandleFunc("/admin", s.handleAdminDashboard, http.MethodGet)
		r.HandleFunc("/admin/submissions/:id", s.handleSubmissionDetail, http.MethodGet)
		r.HandleFunc("/admin/submissions/:id/delete", s.handleDeleteSubmission, http.MethodPost)
		r.HandleFunc("/admin/export.csv", s.handleExportCSV, http.MethodGet)
	})

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireRole(types.RoleReview, types.RoleAdmin))

		r.HandleFunc("/review", s.handleReviewDashboard, http.MethodGet)
		r.HandleFunc("/review/export.csv", s.handleExportCSV, http.MethodGet)
		r.HandleFunc("/api/submissions", s.handleAPISubmissions, http.MethodGet)
	})

	// Stored media, read-only.
	r.Handle("/uploads/...", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.config.UploadDir))), http.MethodGet)
}

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}
