package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"gig-scraper/internal/config"
	"gig-scraper/internal/models/domain"
	"gig-scraper/internal/scraper/sites"
)

// Adapter fetches raw event data from one external provider and maps it to
// intermediate gig records. Implementations never propagate failures: every
// per-location or per-item error is caught and returned as a string for the
// caller to aggregate into the source's ScrapeResult.
type Adapter interface {
	Provider() domain.Provider
	FetchCandidates(ctx context.Context, locations []string) ([]domain.Gig, []string)
}

// Service holds the configured source adapters, keyed by provider.
type Service struct {
	logger    *slog.Logger
	cfg       *config.Config
	adapters  []Adapter
	byName    map[domain.Provider]Adapter
	locations []string
}

func New(logger *slog.Logger, cfg *config.Config) (*Service, error) {
	op := "Scraper.New()"
	log := logger.With(slog.String("op", op))

	s := &Service{
		logger: logger,
		cfg:    cfg,
		byName: make(map[domain.Provider]Adapter),
	}

	for _, pc := range cfg.Scraper.Providers {
		if !pc.Enabled {
			log.Info("provider disabled", slog.String("provider", pc.Name))
			continue
		}

		var adapter Adapter
		switch domain.Provider(pc.Name) {
		case domain.ProviderBandsintown:
			adapter = sites.NewBandsintown(logger, pc, cfg.Scraper.UserAgent)
		case domain.ProviderSongkick:
			adapter = sites.NewSongkick(logger, pc, cfg.Scraper.UserAgent)
		case domain.ProviderEventbrite:
			adapter = sites.NewEventbrite(logger, pc, cfg.Scraper.UserAgent)
		default:
			return nil, fmt.Errorf("%s: unknown provider: %s", op, pc.Name)
		}

		s.adapters = append(s.adapters, adapter)
		s.byName[adapter.Provider()] = adapter
	}

	s.locations = cfg.Scraper.Locations
	if cfg.Scraper.MaxLocations > 0 && len(s.locations) > cfg.Scraper.MaxLocations {
		s.locations = s.locations[:cfg.Scraper.MaxLocations]
	}

	log.Info("scraper service created",
		slog.Int("adapters", len(s.adapters)),
		slog.Int("locations", len(s.locations)),
	)
	return s, nil
}

// All returns the adapters in configured run order.
func (s *Service) All() []Adapter {
	return s.adapters
}

// Adapter returns the adapter registered for a provider.
func (s *Service) Adapter(provider domain.Provider) (Adapter, error) {
	adapter, ok := s.byName[provider]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for provider: %s", provider)
	}
	return adapter, nil
}

// Locations returns the per-run location slice, truncated to the configured
// maximum to bound request volume per provider.
func (s *Service) Locations() []string {
	return s.locations
}
