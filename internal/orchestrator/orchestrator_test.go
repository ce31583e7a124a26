package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"gig-scraper/internal/models/domain"
	"gig-scraper/internal/scraper"
)

type stubAdapter struct {
	provider domain.Provider
	gigs     []domain.Gig
	errs     []string
	panics   bool
}

func (a *stubAdapter) Provider() domain.Provider { return a.provider }

func (a *stubAdapter) FetchCandidates(context.Context, []string) ([]domain.Gig, []string) {
	if a.panics {
		panic("markup changed underneath us")
	}
	return a.gigs, a.errs
}

type stubRegistry struct {
	adapters []scraper.Adapter
}

func (r *stubRegistry) All() []scraper.Adapter { return r.adapters }

func (r *stubRegistry) Adapter(provider domain.Provider) (scraper.Adapter, error) {
	for _, a := range r.adapters {
		if a.Provider() == provider {
			return a, nil
		}
	}
	return nil, fmt.Errorf("no adapter registered for provider: %s", provider)
}

func (r *stubRegistry) Locations() []string { return []string{"Dublin", "Cork"} }

type countingProcessor struct {
	batches [][]domain.Gig
}

func (p *countingProcessor) Process(_ context.Context, records []domain.Gig, _ domain.Provider) (int, int) {
	p.batches = append(p.batches, records)
	return len(records), 0
}

func gig(title string) domain.Gig {
	return domain.Gig{
		Title:      title,
		ArtistName: "artist",
		Venue:      domain.Venue{Name: "venue"},
		EventTime:  "2025-03-01T20:00:00Z",
	}
}

func TestRunAll_PerSourceIsolation(t *testing.T) {
	registry := &stubRegistry{adapters: []scraper.Adapter{
		&stubAdapter{provider: domain.ProviderBandsintown, gigs: []domain.Gig{gig("a")}},
		&stubAdapter{provider: domain.ProviderSongkick, panics: true},
		&stubAdapter{provider: domain.ProviderEventbrite, gigs: []domain.Gig{gig("b"), gig("c")}},
	}}
	proc := &countingProcessor{}
	o := New(slog.Default(), registry, proc)

	results := o.RunAll(context.Background())

	if len(results) != 3 {
		t.Fatalf("expected a result per configured source, got %d", len(results))
	}

	failed := results[1]
	if failed.Provider != domain.ProviderSongkick {
		t.Fatalf("expected results in configured order, got %s at index 1", failed.Provider)
	}
	if len(failed.Errors) < 1 {
		t.Error("expected failing source to carry at least one error")
	}
	if failed.Scraped != 0 || failed.Added != 0 || failed.Duplicated != 0 {
		t.Errorf("expected zero counts for failing source, got %+v", failed)
	}

	if results[0].Added != 1 || results[2].Added != 2 {
		t.Errorf("expected surviving sources to process normally, got %+v and %+v", results[0], results[2])
	}
}

func TestRunAll_DedupFeedsProcessor(t *testing.T) {
	duplicate := gig("same show")
	registry := &stubRegistry{adapters: []scraper.Adapter{
		&stubAdapter{provider: domain.ProviderBandsintown, gigs: []domain.Gig{duplicate, duplicate, gig("other")}},
	}}
	proc := &countingProcessor{}
	o := New(slog.Default(), registry, proc)

	results := o.RunAll(context.Background())

	if results[0].Scraped != 3 || results[0].AfterDedup != 2 {
		t.Fatalf("expected scraped=3 afterDedup=2, got %+v", results[0])
	}
	if len(proc.batches) != 1 || len(proc.batches[0]) != 2 {
		t.Fatal("processor must receive the deduplicated batch")
	}
}

func TestRunAll_AdapterErrorsPropagateToResult(t *testing.T) {
	registry := &stubRegistry{adapters: []scraper.Adapter{
		&stubAdapter{provider: domain.ProviderSongkick, errs: []string{"fetch Dublin: timeout"}},
	}}
	o := New(slog.Default(), registry, &countingProcessor{})

	results := o.RunAll(context.Background())

	if len(results[0].Errors) != 1 {
		t.Fatalf("expected adapter error strings in result, got %+v", results[0].Errors)
	}
}

func TestRunSource_UnknownProvider(t *testing.T) {
	o := New(slog.Default(), &stubRegistry{}, &countingProcessor{})

	if _, err := o.RunSource(context.Background(), domain.ProviderEventbrite); err == nil {
		t.Fatal("expected error for unregistered provider")
	}
}

func TestRunSource_RunsSinglePipeline(t *testing.T) {
	registry := &stubRegistry{adapters: []scraper.Adapter{
		&stubAdapter{provider: domain.ProviderBandsintown, gigs: []domain.Gig{gig("a")}},
		&stubAdapter{provider: domain.ProviderSongkick, gigs: []domain.Gig{gig("b")}},
	}}
	proc := &countingProcessor{}
	o := New(slog.Default(), registry, proc)

	result, err := o.RunSource(context.Background(), domain.ProviderSongkick)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Provider != domain.ProviderSongkick || result.Added != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(proc.batches) != 1 {
		t.Fatalf("expected exactly one processed batch, got %d", len(proc.batches))
	}
}
