package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"gig-scraper/internal/dedup"
	"gig-scraper/internal/models/domain"
	"gig-scraper/internal/scraper"
)

// GigProcessor persists a deduplicated batch for one provider.
type GigProcessor interface {
	Process(ctx context.Context, records []domain.Gig, provider domain.Provider) (added, duplicated int)
}

// AdapterRegistry resolves the configured source adapters.
type AdapterRegistry interface {
	All() []scraper.Adapter
	Adapter(provider domain.Provider) (scraper.Adapter, error)
	Locations() []string
}

// Orchestrator runs the fetch → dedupe → process pipeline across every
// configured source. Sources run strictly in sequence to bound load on
// shared rate-limited targets, and each source's failures stay inside its
// own ScrapeResult.
type Orchestrator struct {
	logger    *slog.Logger
	adapters  AdapterRegistry
	processor GigProcessor
}

func New(logger *slog.Logger, adapters AdapterRegistry, processor GigProcessor) *Orchestrator {
	op := "Orchestrator.New()"
	log := logger.With(slog.String("op", op))
	log.Info("creating orchestrator")

	return &Orchestrator{
		logger:    logger,
		adapters:  adapters,
		processor: processor,
	}
}

// RunAll runs the pipeline for every configured source in sequence. A
// failure inside one source's pipeline yields a zero-count result with the
// error captured, and never prevents the remaining sources from running.
func (o *Orchestrator) RunAll(ctx context.Context) []domain.ScrapeResult {
	op := "Orchestrator.RunAll()"
	log := o.logger.With(slog.String("op", op))

	adapters := o.adapters.All()
	log.Info("starting full scrape run", slog.Int("sources", len(adapters)))

	results := make([]domain.ScrapeResult, 0, len(adapters))
	for _, adapter := range adapters {
		results = append(results, o.runOne(ctx, adapter))
	}

	return results
}

// RunSource runs the pipeline for a single provider, the lighter-weight
// scheduled path.
func (o *Orchestrator) RunSource(ctx context.Context, provider domain.Provider) (domain.ScrapeResult, error) {
	adapter, err := o.adapters.Adapter(provider)
	if err != nil {
		return domain.ScrapeResult{Provider: provider}, fmt.Errorf("Orchestrator.RunSource(): %w", err)
	}
	return o.runOne(ctx, adapter), nil
}

func (o *Orchestrator) runOne(ctx context.Context, adapter scraper.Adapter) (result domain.ScrapeResult) {
	op := "Orchestrator.runOne()"
	provider := adapter.Provider()
	log := o.logger.With(slog.String("op", op), slog.String("provider", string(provider)))

	result = domain.ScrapeResult{Provider: provider}

	// A panicking adapter must not take the remaining sources down with it.
	defer func() {
		if r := recover(); r != nil {
			log.Error("source pipeline panicked", slog.Any("panic", r))
			result = domain.ScrapeResult{
				Provider: provider,
				Errors:   []string{fmt.Sprintf("source pipeline panicked: %v", r)},
			}
		}
	}()

	candidates, errs := adapter.FetchCandidates(ctx, o.adapters.Locations())
	result.Scraped = len(candidates)
	result.Errors = errs

	deduplicated := dedup.Dedupe(candidates)
	result.AfterDedup = len(deduplicated)

	result.Added, result.Duplicated = o.processor.Process(ctx, deduplicated, provider)

	log.Info("source run finished",
		slog.Int("scraped", result.Scraped),
		slog.Int("afterDedup", result.AfterDedup),
		slog.Int("added", result.Added),
		slog.Int("duplicated", result.Duplicated),
		slog.Int("errors", len(result.Errors)),
	)
	return result
}
