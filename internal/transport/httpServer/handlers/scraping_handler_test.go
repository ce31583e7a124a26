package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"gig-scraper/internal/scheduler"
)

type stubScheduler struct {
	status     []scheduler.JobStatus
	triggerErr error
	fullCalls  int
	quickCalls int
}

func (s *stubScheduler) Status() []scheduler.JobStatus { return s.status }

func (s *stubScheduler) TriggerFull(context.Context) error {
	s.fullCalls++
	return s.triggerErr
}

func (s *stubScheduler) TriggerQuick(context.Context) error {
	s.quickCalls++
	return s.triggerErr
}

func TestHealth(t *testing.T) {
	h := NewScrapingHandler(slog.Default(), &stubScheduler{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "OK" || body.Service != "gig-scraper" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestStatus_ReportsJobs(t *testing.T) {
	h := NewScrapingHandler(slog.Default(), &stubScheduler{
		status: []scheduler.JobStatus{
			{Name: "daily-full-scrape", IsRunning: true},
			{Name: "weekly-cleanup", IsRunning: true},
		},
	})

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/api/scraping/status", nil))

	var body struct {
		Jobs []scheduler.JobStatus `json:"jobs"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Jobs) != 2 || body.Jobs[0].Name != "daily-full-scrape" {
		t.Errorf("unexpected jobs %+v", body.Jobs)
	}
}

func TestStatus_EmptyJobsIsArrayNotNull(t *testing.T) {
	h := NewScrapingHandler(slog.Default(), &stubScheduler{})

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/api/scraping/status", nil))

	if got := rec.Body.String(); !json.Valid([]byte(got)) || !containsJSONArray(got) {
		t.Fatalf("expected jobs array in %q", got)
	}
}

func containsJSONArray(body string) bool {
	var parsed struct {
		Jobs []scheduler.JobStatus `json:"jobs"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return false
	}
	return parsed.Jobs != nil
}

func TestTriggerFull_Success(t *testing.T) {
	stub := &stubScheduler{}
	h := NewScrapingHandler(slog.Default(), stub)

	rec := httptest.NewRecorder()
	h.TriggerFull(rec, httptest.NewRequest(http.MethodPost, "/api/scraping/trigger/full", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.fullCalls != 1 {
		t.Fatalf("expected scheduler trigger to be invoked, calls=%d", stub.fullCalls)
	}
}

func TestTriggerQuick_SchedulerNotRunning(t *testing.T) {
	stub := &stubScheduler{triggerErr: errors.New("scheduler is not running")}
	h := NewScrapingHandler(slog.Default(), stub)

	rec := httptest.NewRecorder()
	h.TriggerQuick(rec, httptest.NewRequest(http.MethodPost, "/api/scraping/trigger/quick", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when run cannot start, got %d", rec.Code)
	}
}
