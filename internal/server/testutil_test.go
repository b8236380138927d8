package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"ictportal/internal/mailer"
	"ictportal/pkg/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAdminPassword  = "admin-secret"
	testReviewPassword = "review-secret"
)

type fakeStore struct {
	mu     sync.Mutex
	nextID int64
	subs   map[int64]*types.Submission
	media  map[int64][]types.MediaAsset

	createErr error
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		subs:  make(map[int64]*types.Submission),
		media: make(map[int64][]types.MediaAsset),
	}
}

func (f *fakeStore) Create(_ context.Context, sub *types.Submission, media []types.MediaUpload) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return 0, f.createErr
	}

	f.nextID++
	stored := *sub
	stored.ID = f.nextID
	f.subs[stored.ID] = &stored

	for _, m := range media {
		f.media[stored.ID] = append(f.media[stored.ID], types.MediaAsset{
			ID:           int64(len(f.media[stored.ID]) + 1),
			SubmissionID: stored.ID,
			Kind:         m.Kind,
			FileName:     m.FileName,
			FilePath:     m.Path,
			FileSize:     m.SizeBytes,
			MimeType:     m.MimeType,
		})
	}

	return stored.ID, nil
}

func (f *fakeStore) sorted() []*types.Submission {
	out := make([]*types.Submission, 0, len(f.subs))
	for _, sub := range f.subs {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (f *fakeStore) List(_ context.Context, search string, page, pageSize int) ([]*types.Submission, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make([]*types.Submission, 0)
	for _, sub := range f.sorted() {
		if search == "" || containsFold(sub.SchoolName, search) ||
			containsFold(sub.ContactPerson, search) || containsFold(sub.ContactEmail, search) {
			matched = append(matched, sub)
		}
	}

	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeStore) ByID(_ context.Context, id int64) (*types.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subs[id]
	if !ok {
		return nil, types.ErrSubmissionNotFound
	}
	return sub, nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	if _, ok := f.subs[id]; !ok {
		return nil, types.ErrSubmissionNotFound
	}

	paths := make([]string, 0)
	for _, a := range f.media[id] {
		paths = append(paths, a.FilePath)
	}
	delete(f.subs, id)
	delete(f.media, id)
	return paths, nil
}

func (f *fakeStore) Stats(_ context.Context) (*types.SubmissionStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &types.SubmissionStats{Total: int64(len(f.subs))}, nil
}

func (f *fakeStore) ExportRows(_ context.Context) ([]*types.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(), nil
}

func (f *fakeStore) MediaBySubmissionID(_ context.Context, submissionID int64) ([]types.MediaAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.media[submissionID], nil
}

func (f *fakeStore) MediaCounts(_ context.Context, ids []int64) (map[int64]map[types.MediaKind]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	counts := make(map[int64]map[types.MediaKind]int64)
	for _, id := range ids {
		for _, a := range f.media[id] {
			if counts[id] == nil {
				counts[id] = make(map[types.MediaKind]int64)
			}
			counts[id][a.Kind]++
		}
	}
	return counts, nil
}

func (f *fakeStore) AllMedia(_ context.Context) ([]types.MediaAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]types.MediaAsset, 0)
	for _, sub := range f.sorted() {
		out = append(out, f.media[sub.ID]...)
	}
	return out, nil
}

func containsFold(haystack, needle string) bool {
	return bytes.Contains(bytes.ToLower([]byte(haystack)), bytes.ToLower([]byte(needle)))
}

type auditEntry struct {
	Role, Username, Action, Description, IP string
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (f *fakeAudit) Record(_ context.Context, role, username, action, description, ip string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, auditEntry{role, username, action, description, ip})
	return nil
}

func (f *fakeAudit) last() (auditEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.entries) == 0 {
		return auditEntry{}, false
	}
	return f.entries[len(f.entries)-1], true
}

type fakeIngestor struct {
	mu       sync.Mutex
	uploads  []types.MediaUpload
	unlinked []string
	failPath string
}

func (f *fakeIngestor) Ingest(_ *multipart.FileHeader, _ []*multipart.FileHeader) []types.MediaUpload {
	return f.uploads
}

func (f *fakeIngestor) Unlink(relPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if relPath == f.failPath {
		return fmt.Errorf("unlink %s: permission denied", relPath)
	}
	f.unlinked = append(f.unlinked, relPath)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (f *fakeMailer) Send(msg mailer.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
}

type testEnv struct {
	svc      *Service
	store    *fakeStore
	audit    *fakeAudit
	ingestor *fakeIngestor
	mail     *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	adminHash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash admin password: %v", err)
	}
	reviewHash, err := bcrypt.GenerateFromPassword([]byte(testReviewPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash review password: %v", err)
	}

	config := &types.Config{
		ServerPort:         0,
		BaseURL:            "http://localhost:8080",
		UploadDir:          t.TempDir(),
		AdminUsername:      "admin",
		AdminPasswordHash:  string(adminHash),
		ReviewUsername:     "reviewer",
		ReviewPasswordHash: string(reviewHash),
		CookieName:         "portal_session",
		SessionMaxAgeSec:   3600,
		CookieHashKey:      base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x42}, 32)),
		CookieBlockKey:     base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x24}, 32)),
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	env := &testEnv{
		store:    newFakeStore(),
		audit:    &fakeAudit{},
		ingestor: &fakeIngestor{},
		mail:     &fakeMailer{},
	}

	svc, err := New(config, logger, env.store, env.store, env.audit, env.ingestor, env.mail)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	env.svc = svc

	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.svc.server.Handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) sessionCookie(t *testing.T, role types.Role, username string) *http.Cookie {
	t.Helper()
	encoded, err := e.svc.cookie.Encode(sessionCookieValueName, session{Role: role, Username: username})
	if err != nil {
		t.Fatalf("encode session: %v", err)
	}
	return &http.Cookie{Name: e.svc.config.CookieName, Value: encoded}
}

var requiredFormFields = map[string]string{
	"school_name":        "Unity High",
	"contact_person":     "J. Doe",
	"contact_phone":      "0800-000-0000",
	"contact_email":      "j@example.com",
	"dedicated_building": "Yes",
	"facility_type":      "Laboratory",
	"status":             "Completed",
	"health_state":       "Good",
	"floor_area":         "120",
	"meets_min_area":     "yes",
	"num_floors":         "1",
	"location":           "Lagos",
	"computer_system":    "Desktop",
	"num_computers":      "25",
	"spec_meet":          "yes",
	"has_networking":     "yes",
	"internet_speed":     "10mbps",
	"num_exits":          "2",
	"is_furnished":       "yes",
}

func multipartRequest(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/submit", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func submitFields(overrides map[string]string) map[string]string {
	fields := make(map[string]string, len(requiredFormFields))
	for k, v := range requiredFormFields {
		fields[k] = v
	}
	for k, v := range overrides {
		if v == "" {
			delete(fields, k)
		} else {
			fields[k] = v
		}
	}
	return fields
}
