package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gig-scraper/internal/config"
	"gig-scraper/internal/models/domain"
	"gig-scraper/internal/utils/logger/sl"

	"github.com/robfig/cron/v3"
)

const (
	JobFullScrape  = "daily-full-scrape"
	JobQuickScrape = "hourly-scrape"
	JobCleanup     = "weekly-cleanup"
)

// Runner is the scrape pipeline the scheduler fires.
type Runner interface {
	RunAll(ctx context.Context) []domain.ScrapeResult
	RunSource(ctx context.Context, provider domain.Provider) (domain.ScrapeResult, error)
}

// Notifier receives a summary after each completed scheduled run. May be nil.
type Notifier interface {
	NotifyRun(jobName string, results []domain.ScrapeResult)
}

// JobStatus reports one registered job.
type JobStatus struct {
	Name      string `json:"name"`
	IsRunning bool   `json:"isRunning"`
}

type state int

const (
	stateNew state = iota
	stateStarted
	stateStopped
)

// Scheduler fires the scrape pipeline on fixed cadences. All state lives on
// the instance, so tests can run independent schedulers side by side.
// Lifecycle: new → started → stopped; a stopped scheduler is not restartable.
//
// There is no guard against a slow run still executing when the next cadence
// fires; runs of different jobs may overlap.
type Scheduler struct {
	logger   *slog.Logger
	cfg      config.SchedulerConfig
	runner   Runner
	notifier Notifier

	mu    sync.Mutex
	state state
	cron  *cron.Cron
	jobs  map[string]cron.EntryID
}

func New(logger *slog.Logger, cfg config.SchedulerConfig, runner Runner, notifier Notifier) (*Scheduler, error) {
	op := "Scheduler.New()"

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%s: load timezone %q: %w", op, cfg.Timezone, err)
	}

	return &Scheduler{
		logger:   logger,
		cfg:      cfg,
		runner:   runner,
		notifier: notifier,
		state:    stateNew,
		cron:     cron.New(cron.WithLocation(location)),
		jobs:     make(map[string]cron.EntryID),
	}, nil
}

// StartAll registers and starts the three named jobs.
func (s *Scheduler) StartAll() error {
	op := "Scheduler.StartAll()"
	log := s.logger.With(slog.String("op", op))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateNew {
		return fmt.Errorf("%s: scheduler already started or stopped", op)
	}

	jobs := []struct {
		name string
		spec string
		task func(ctx context.Context) error
	}{
		{JobFullScrape, s.cfg.FullSpec, s.runFull},
		{JobQuickScrape, s.cfg.QuickSpec, s.runQuick},
		{JobCleanup, s.cfg.CleanupSpec, s.runCleanup},
	}

	for _, job := range jobs {
		id, err := s.cron.AddFunc(job.spec, s.wrap(job.name, job.task))
		if err != nil {
			return fmt.Errorf("%s: schedule %s (%q): %w", op, job.name, job.spec, err)
		}
		s.jobs[job.name] = id
		log.Info("scheduled job registered",
			slog.String("job", job.name),
			slog.String("spec", job.spec),
		)
	}

	s.cron.Start()
	s.state = stateStarted
	log.Info("all scheduled jobs started")
	return nil
}

// StopAll stops and discards every registered job. Idempotent. It prevents
// future firings but does not interrupt an in-flight run.
func (s *Scheduler) StopAll() {
	op := "Scheduler.StopAll()"
	log := s.logger.With(slog.String("op", op))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateStarted {
		return
	}

	s.cron.Stop()
	for name := range s.jobs {
		log.Info("stopped job", slog.String("job", name))
		delete(s.jobs, name)
	}
	s.state = stateStopped
	log.Info("all scheduled jobs stopped")
}

// Status reports each registered job and whether it is active.
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := make([]JobStatus, 0, len(s.jobs))
	for _, name := range []string{JobFullScrape, JobQuickScrape, JobCleanup} {
		if _, ok := s.jobs[name]; ok {
			status = append(status, JobStatus{Name: name, IsRunning: s.state == stateStarted})
		}
	}
	return status
}

// TriggerFull synchronously runs the full-scrape task body outside its
// cadence. Errors inside the run are logged, never returned; the only
// failure is a scheduler that is not running.
func (s *Scheduler) TriggerFull(ctx context.Context) error {
	if err := s.ensureStarted("Scheduler.TriggerFull()"); err != nil {
		return err
	}
	s.logger.Info("manually triggering full scrape")
	s.wrapCtx(ctx, JobFullScrape, s.runFull)
	return nil
}

// TriggerQuick synchronously runs the quick-scrape task body.
func (s *Scheduler) TriggerQuick(ctx context.Context) error {
	if err := s.ensureStarted("Scheduler.TriggerQuick()"); err != nil {
		return err
	}
	s.logger.Info("manually triggering quick scrape")
	s.wrapCtx(ctx, JobQuickScrape, s.runQuick)
	return nil
}

// Shutdown stops the scheduler as part of graceful process teardown.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("force exit scheduler: %w", ctx.Err())
	default:
		s.StopAll()
		return nil
	}
}

func (s *Scheduler) ensureStarted(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateStarted {
		return fmt.Errorf("%s: scheduler is not running", op)
	}
	return nil
}

// wrap turns a task into a cron body that records duration and swallows
// errors: a failed run must never unschedule the job or crash the scheduler.
func (s *Scheduler) wrap(name string, task func(ctx context.Context) error) func() {
	return func() {
		s.wrapCtx(context.Background(), name, task)
	}
}

func (s *Scheduler) wrapCtx(ctx context.Context, name string, task func(ctx context.Context) error) {
	log := s.logger.With(slog.String("job", name))

	log.Info("starting scheduled job")
	start := time.Now()

	if err := task(ctx); err != nil {
		log.Error("scheduled job failed", sl.Err(err))
		return
	}

	log.Info("completed scheduled job", slog.Duration("duration", time.Since(start)))
}

func (s *Scheduler) runFull(ctx context.Context) error {
	results := s.runner.RunAll(ctx)

	var totalScraped, totalAdded, totalErrors int
	for _, result := range results {
		totalScraped += result.Scraped
		totalAdded += result.Added
		totalErrors += len(result.Errors)

		s.logger.Info("source summary",
			slog.String("provider", string(result.Provider)),
			slog.Int("scraped", result.Scraped),
			slog.Int("added", result.Added),
			slog.Int("duplicated", result.Duplicated),
		)
		if len(result.Errors) > 0 {
			s.logger.Warn("source errors",
				slog.String("provider", string(result.Provider)),
				slog.Any("errors", result.Errors),
			)
		}
	}

	s.logger.Info("full scrape completed",
		slog.Int("totalScraped", totalScraped),
		slog.Int("totalAdded", totalAdded),
		slog.Int("totalErrors", totalErrors),
	)

	if s.notifier != nil {
		s.notifier.NotifyRun(JobFullScrape, results)
	}
	return nil
}

func (s *Scheduler) runQuick(ctx context.Context) error {
	result, err := s.runner.RunSource(ctx, domain.Provider(s.cfg.QuickProvider))
	if err != nil {
		return fmt.Errorf("quick scrape: %w", err)
	}

	s.logger.Info("quick scrape completed",
		slog.String("provider", string(result.Provider)),
		slog.Int("scraped", result.Scraped),
		slog.Int("added", result.Added),
	)
	if len(result.Errors) > 0 {
		s.logger.Warn("quick scrape errors", slog.Any("errors", result.Errors))
	}

	if s.notifier != nil {
		s.notifier.NotifyRun(JobQuickScrape, []domain.ScrapeResult{result})
	}
	return nil
}

// runCleanup is reserved: stale-data removal has no defined contract yet.
func (s *Scheduler) runCleanup(ctx context.Context) error {
	s.logger.Info("cleanup tasks completed (nothing to do)")
	return nil
}
