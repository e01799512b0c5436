package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/openhire/jobboard/api"
	dbfs "github.com/openhire/jobboard/db"
	"github.com/openhire/jobboard/internal/config"
	dbpkg "github.com/openhire/jobboard/internal/db"
	"github.com/openhire/jobboard/internal/provision"
	"github.com/openhire/jobboard/internal/repository/sqlite"
	"github.com/openhire/jobboard/pkg/models"
)

type testServer struct {
	ts  *httptest.Server
	cfg *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{
		Addr:          ":0",
		JWTSecret:     "integration-secret",
		APITimeout:    5 * time.Second,
		DatabasePath:  filepath.Join(t.TempDir(), "test.db"),
		TokenDuration: 8 * time.Hour,
		Admin:         config.AdminSeed{FullName: "Root Admin", Email: "admin@example.com", Password: "adminpass"},
	}

	d, err := dbpkg.New(ctx, cfg.DatabasePath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	d.GetConn().SetMaxOpenConns(1)

	if err := dbpkg.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := provision.EnsureAdmin(ctx, sqlite.New(d), cfg.Admin, nil); err != nil {
		t.Fatalf("provision admin: %v", err)
	}

	ts := httptest.NewServer(api.SetupRoutes(cfg, "test", "now", d))
	t.Cleanup(ts.Close)

	return &testServer{ts: ts, cfg: cfg}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.ts.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := s.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(res.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, buf.Bytes()
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	res, body := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d body=%s", email, res.StatusCode, body)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Token == "" {
		t.Fatalf("login %s: bad token response %s", email, body)
	}
	return resp.Token
}

func TestEndToEnd_ApplicationLifecycle(t *testing.T) {
	s := newTestServer(t)

	// applicant self-registers, admin comes from the seed
	res, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullName": "Bob", "email": "bob@example.com", "password": "hunter22",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("register: status %d body=%s", res.StatusCode, body)
	}

	adminToken := s.login(t, "admin@example.com", "adminpass")
	bobToken := s.login(t, "bob@example.com", "hunter22")

	// admin creates a job
	res, body = s.do(t, http.MethodPost, "/api/jobs", adminToken, map[string]string{
		"title": "Engineer", "company": "Acme", "location": "Berlin",
		"description": "Build things", "requirements": "Go",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create job: status %d body=%s", res.StatusCode, body)
	}
	var created struct {
		JobID int64 `json:"jobId"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.JobID == 0 {
		t.Fatalf("create job: bad body %s", body)
	}
	jobPath := fmt.Sprintf("/api/jobs/%d", created.JobID)

	// anonymous list sees it with zero applications
	res, body = s.do(t, http.MethodGet, "/api/jobs", "", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list jobs: status %d", res.StatusCode)
	}
	var jobs []models.JobView
	if err := json.Unmarshal(body, &jobs); err != nil {
		t.Fatalf("decode jobs: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ApplicationCount != 0 || jobs[0].PostedBy != "Root Admin" {
		t.Fatalf("unexpected listing: %s", body)
	}

	// applicant applies
	res, body = s.do(t, http.MethodPost, fmt.Sprintf("/api/applications/job/%d", created.JobID), bobToken, map[string]string{"coverLetter": "Hi"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("apply: status %d body=%s", res.StatusCode, body)
	}

	// count is now visible on the single-job read
	res, body = s.do(t, http.MethodGet, jobPath, "", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get job: status %d", res.StatusCode)
	}
	var job models.JobView
	if err := json.Unmarshal(body, &job); err != nil || job.ApplicationCount != 1 {
		t.Fatalf("expected applicationCount 1, body=%s", body)
	}

	// a second application by the same applicant is rejected
	res, body = s.do(t, http.MethodPost, fmt.Sprintf("/api/applications/job/%d", created.JobID), bobToken, map[string]string{"coverLetter": "Hi again"})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate apply: status %d body=%s", res.StatusCode, body)
	}
	_, body = s.do(t, http.MethodGet, jobPath, "", nil)
	if err := json.Unmarshal(body, &job); err != nil || job.ApplicationCount != 1 {
		t.Fatalf("duplicate apply must not bump count, body=%s", body)
	}

	// admin accepts, applicant sees the new status
	res, body = s.do(t, http.MethodGet, fmt.Sprintf("/api/applications/job/%d", created.JobID), adminToken, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list for job: status %d body=%s", res.StatusCode, body)
	}
	var views []models.ApplicationView
	if err := json.Unmarshal(body, &views); err != nil || len(views) != 1 {
		t.Fatalf("expected one application, body=%s", body)
	}

	res, body = s.do(t, http.MethodPut, fmt.Sprintf("/api/applications/%d/status", views[0].ID), adminToken, map[string]string{"status": models.StatusAccepted})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update status: status %d body=%s", res.StatusCode, body)
	}

	res, body = s.do(t, http.MethodGet, "/api/applications/my", bobToken, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list mine: status %d", res.StatusCode)
	}
	if err := json.Unmarshal(body, &views); err != nil || len(views) != 1 || views[0].Status != models.StatusAccepted {
		t.Fatalf("expected Accepted application, body=%s", body)
	}
}

func TestEndToEnd_VisibilityAndAuthorization(t *testing.T) {
	s := newTestServer(t)

	res, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullName": "Bob", "email": "bob@example.com", "password": "hunter22",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("register: status %d body=%s", res.StatusCode, body)
	}
	adminToken := s.login(t, "admin@example.com", "adminpass")
	bobToken := s.login(t, "bob@example.com", "hunter22")

	// admin creates, then deactivates, a job
	res, body = s.do(t, http.MethodPost, "/api/jobs", adminToken, map[string]string{
		"title": "Engineer", "company": "Acme", "location": "Berlin",
		"description": "d", "requirements": "r",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create job: status %d body=%s", res.StatusCode, body)
	}
	var created struct {
		JobID int64 `json:"jobId"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	jobPath := fmt.Sprintf("/api/jobs/%d", created.JobID)

	res, body = s.do(t, http.MethodPut, jobPath, adminToken, map[string]any{
		"title": "Engineer", "company": "Acme", "location": "Berlin",
		"description": "d", "requirements": "r", "isActive": false,
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("deactivate: status %d body=%s", res.StatusCode, body)
	}

	// anonymous callers no longer see it, in the list or directly
	res, body = s.do(t, http.MethodGet, "/api/jobs", "", nil)
	var jobs []models.JobView
	if err := json.Unmarshal(body, &jobs); err != nil || len(jobs) != 0 {
		t.Fatalf("anonymous list must exclude inactive jobs, body=%s", body)
	}
	res, _ = s.do(t, http.MethodGet, jobPath, "", nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("anonymous get of inactive job: status %d", res.StatusCode)
	}

	// the admin still sees it everywhere
	res, body = s.do(t, http.MethodGet, "/api/jobs/admin/all", adminToken, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("admin all: status %d", res.StatusCode)
	}
	if err := json.Unmarshal(body, &jobs); err != nil || len(jobs) != 1 {
		t.Fatalf("admin list must include inactive jobs, body=%s", body)
	}
	res, _ = s.do(t, http.MethodGet, jobPath, adminToken, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("admin get of inactive job: status %d", res.StatusCode)
	}

	// role gates
	res, _ = s.do(t, http.MethodPost, "/api/jobs", bobToken, map[string]string{
		"title": "t", "company": "c", "location": "l", "description": "d", "requirements": "r",
	})
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("applicant creating job: status %d", res.StatusCode)
	}
	res, _ = s.do(t, http.MethodGet, "/api/applications/admin/all", bobToken, nil)
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("applicant reading all applications: status %d", res.StatusCode)
	}
	res, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/applications/job/%d", created.JobID), bobToken, nil)
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("applicant reading job applications: status %d", res.StatusCode)
	}
	// admins do not hold the applicant role; apply is forbidden for them
	res, _ = s.do(t, http.MethodPost, fmt.Sprintf("/api/applications/job/%d", created.JobID), adminToken, map[string]string{"coverLetter": "Hi"})
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("admin applying: status %d", res.StatusCode)
	}

	// missing token on a protected route
	res, _ = s.do(t, http.MethodGet, "/api/applications/my", "", nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list mine: status %d", res.StatusCode)
	}
}
