package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"gig-scraper/internal/config"
	"gig-scraper/internal/models/domain"
)

type stubRunner struct {
	fullRuns    int
	quickRuns   int
	quickSource domain.Provider
	sourceErr   error
}

func (r *stubRunner) RunAll(context.Context) []domain.ScrapeResult {
	r.fullRuns++
	return []domain.ScrapeResult{
		{Provider: domain.ProviderBandsintown, Scraped: 3, Added: 1},
		{Provider: domain.ProviderSongkick, Errors: []string{"fetch failed"}},
	}
}

func (r *stubRunner) RunSource(_ context.Context, provider domain.Provider) (domain.ScrapeResult, error) {
	if r.sourceErr != nil {
		return domain.ScrapeResult{Provider: provider}, r.sourceErr
	}
	r.quickRuns++
	r.quickSource = provider
	return domain.ScrapeResult{Provider: provider, Scraped: 2, Added: 2}, nil
}

type recordingNotifier struct {
	jobs []string
}

func (n *recordingNotifier) NotifyRun(jobName string, _ []domain.ScrapeResult) {
	n.jobs = append(n.jobs, jobName)
}

func testConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Timezone:      "Europe/Dublin",
		FullSpec:      "0 2 * * *",
		QuickSpec:     "0 9-23 * * *",
		CleanupSpec:   "0 3 * * 0",
		QuickProvider: "bandsintown",
	}
}

func newStarted(t *testing.T, runner Runner, notifier Notifier) *Scheduler {
	t.Helper()
	s, err := New(slog.Default(), testConfig(), runner, notifier)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.StartAll(); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	return s
}

func TestStartAll_RegistersThreeJobs(t *testing.T) {
	s := newStarted(t, &stubRunner{}, nil)
	defer s.StopAll()

	status := s.Status()
	if len(status) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(status))
	}

	names := map[string]bool{}
	for _, job := range status {
		names[job.Name] = job.IsRunning
	}
	for _, want := range []string{JobFullScrape, JobQuickScrape, JobCleanup} {
		running, ok := names[want]
		if !ok {
			t.Errorf("missing job %s", want)
		}
		if !running {
			t.Errorf("expected job %s to report running", want)
		}
	}
}

func TestStartAll_SecondStartFails(t *testing.T) {
	s := newStarted(t, &stubRunner{}, nil)
	defer s.StopAll()

	if err := s.StartAll(); err == nil {
		t.Fatal("expected error on double start")
	}
}

func TestStopAll_IdempotentAndClearsJobs(t *testing.T) {
	s := newStarted(t, &stubRunner{}, nil)

	s.StopAll()
	s.StopAll() // must not panic or error

	if status := s.Status(); len(status) != 0 {
		t.Fatalf("expected no jobs after stop, got %d", len(status))
	}
}

func TestTriggerFull_InvokesRunnerAndNotifier(t *testing.T) {
	runner := &stubRunner{}
	notifier := &recordingNotifier{}
	s := newStarted(t, runner, notifier)
	defer s.StopAll()

	if err := s.TriggerFull(context.Background()); err != nil {
		t.Fatalf("TriggerFull: %v", err)
	}
	if runner.fullRuns != 1 {
		t.Fatalf("expected one full run, got %d", runner.fullRuns)
	}
	if len(notifier.jobs) != 1 || notifier.jobs[0] != JobFullScrape {
		t.Fatalf("expected notifier called for %s, got %v", JobFullScrape, notifier.jobs)
	}
}

func TestTriggerQuick_UsesConfiguredProvider(t *testing.T) {
	runner := &stubRunner{}
	s := newStarted(t, runner, nil)
	defer s.StopAll()

	if err := s.TriggerQuick(context.Background()); err != nil {
		t.Fatalf("TriggerQuick: %v", err)
	}
	if runner.quickSource != domain.ProviderBandsintown {
		t.Fatalf("expected quick run against bandsintown, got %s", runner.quickSource)
	}
}

func TestTriggerQuick_RunnerErrorIsSwallowed(t *testing.T) {
	runner := &stubRunner{sourceErr: errors.New("no such provider")}
	s := newStarted(t, runner, nil)
	defer s.StopAll()

	// Task-body failures are logged, never propagated to the trigger caller.
	if err := s.TriggerQuick(context.Background()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestTrigger_FailsWhenNotStarted(t *testing.T) {
	s, err := New(slog.Default(), testConfig(), &stubRunner{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.TriggerFull(context.Background()); err == nil {
		t.Fatal("expected error before start")
	}

	if err := s.StartAll(); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	s.StopAll()

	if err := s.TriggerQuick(context.Background()); err == nil {
		t.Fatal("expected error after stop")
	}
}

func TestNew_InvalidTimezone(t *testing.T) {
	cfg := testConfig()
	cfg.Timezone = "Mars/Olympus_Mons"

	if _, err := New(slog.Default(), cfg, &stubRunner{}, nil); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestNew_InvalidCronSpec(t *testing.T) {
	cfg := testConfig()
	cfg.FullSpec = "not a cron spec"

	s, err := New(slog.Default(), cfg, &stubRunner{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.StartAll(); err == nil {
		t.Fatal("expected StartAll to reject invalid cron spec")
	}
}
