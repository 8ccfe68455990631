package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pawell24/TimeTracker/internal/auth"
	"github.com/pawell24/TimeTracker/internal/handlers"
	"github.com/pawell24/TimeTracker/internal/repo"
	"github.com/pawell24/TimeTracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var testSecret = []byte("test-secret")

type workFixture struct {
	router *gin.Engine
	users  *repo.MemoryUserRepo
	works  *repo.MemoryWorkRepo
	token  string // bearer token for a confirmed user
	userID string
}

func newFixture(t *testing.T) *workFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := repo.NewMemoryUserRepo()
	works := repo.NewMemoryWorkRepo()
	svc := service.NewWorkService(users, works, nil)

	r := gin.New()
	protected := r.Group("/api/v1", auth.RequireAuth(testSecret))
	h := handlers.NewWorkHandler(svc)
	protected.POST("/work/start", h.Start)
	protected.POST("/work/stop", h.Stop)
	protected.GET("/work/status", h.Status)
	protected.GET("/work/total-working-time-by-day", h.TotalByDay)
	protected.GET("/work/total-working-time-for-all-users", h.TotalAllUsers)

	ctx := context.Background()
	u, err := users.Create(ctx, uuid.NewString(), "worker@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := users.SetConfirmed(ctx, u.ID); err != nil {
		t.Fatalf("confirm user: %v", err)
	}
	token, err := auth.GenerateToken(u.ID, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	return &workFixture{router: r, users: users, works: works, token: token, userID: u.ID}
}

func (f *workFixture) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestStart_RequiresAuth(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodPost, "/api/v1/work/start", `{"description":"x"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestStart_Success(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodPost, "/api/v1/work/start", `{"description":"Working on a project"}`, f.token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		WorkID  string `json:"workId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.WorkID == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Message != "Started working on Working on a project" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestStart_MissingDescription(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodPost, "/api/v1/work/start", `{}`, f.token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestStart_Conflict(t *testing.T) {
	f := newFixture(t)
	if w := f.do(t, http.MethodPost, "/api/v1/work/start", `{"description":"first"}`, f.token); w.Code != http.StatusOK {
		t.Fatalf("first start: %d", w.Code)
	}
	w := f.do(t, http.MethodPost, "/api/v1/work/start", `{"description":"second"}`, f.token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestStart_UnknownUser(t *testing.T) {
	f := newFixture(t)
	ghost, err := auth.GenerateToken(uuid.NewString(), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	w := f.do(t, http.MethodPost, "/api/v1/work/start", `{"description":"x"}`, ghost)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestStopAndStatus(t *testing.T) {
	f := newFixture(t)

	// Nothing open yet.
	w := f.do(t, http.MethodPost, "/api/v1/work/stop", "", f.token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("stop with no open work: expected 404, got %d", w.Code)
	}

	if w := f.do(t, http.MethodPost, "/api/v1/work/start", `{"description":"task"}`, f.token); w.Code != http.StatusOK {
		t.Fatalf("start: %d", w.Code)
	}

	w = f.do(t, http.MethodGet, "/api/v1/work/status", "", f.token)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	var status struct {
		Working bool `json:"working"`
		Work    *struct {
			Description string `json:"description"`
		} `json:"work"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !status.Working || status.Work == nil || status.Work.Description != "task" {
		t.Fatalf("unexpected status: %s", w.Body.String())
	}

	if w := f.do(t, http.MethodPost, "/api/v1/work/stop", "", f.token); w.Code != http.StatusOK {
		t.Fatalf("stop: %d", w.Code)
	}

	w = f.do(t, http.MethodGet, "/api/v1/work/status", "", f.token)
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Working {
		t.Fatal("expected working=false after stop")
	}
}

func TestTotalByDay_Endpoint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	day := time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local)
	if _, err := f.works.Create(ctx, uuid.NewString(), f.userID, "seeded", day); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.works.CloseOpen(ctx, f.userID, day.Add(2*time.Hour)); err != nil {
		t.Fatalf("seed close: %v", err)
	}

	w := f.do(t, http.MethodGet, "/api/v1/work/total-working-time-by-day", "", f.token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var totals []struct {
		Date       string  `json:"date"`
		TotalHours float64 `json:"totalHours"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &totals); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(totals) != 1 || totals[0].Date != "2024-03-10" || totals[0].TotalHours != 2 {
		t.Fatalf("unexpected totals: %s", w.Body.String())
	}
}

func TestTotalAllUsers_EmptyIsOK(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/api/v1/work/total-working-time-for-all-users", "", f.token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Fatalf("expected empty array, got %s", body)
	}
}
