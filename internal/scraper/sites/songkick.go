package sites

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"gig-scraper/internal/config"
	"gig-scraper/internal/models/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/geziyor/geziyor"
	"github.com/geziyor/geziyor/client"
)

// Songkick crawls metro-area listing pages on songkick.com.
type Songkick struct {
	logger    *slog.Logger
	cfg       config.ProviderConfig
	userAgent string
}

func NewSongkick(logger *slog.Logger, cfg config.ProviderConfig, userAgent string) *Songkick {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.songkick.com"
	}
	return &Songkick{
		logger:    logger,
		cfg:       cfg,
		userAgent: userAgent,
	}
}

func (s *Songkick) Provider() domain.Provider {
	return domain.ProviderSongkick
}

func (s *Songkick) FetchCandidates(ctx context.Context, locations []string) ([]domain.Gig, []string) {
	op := "Songkick.FetchCandidates()"
	log := s.logger.With(slog.String("op", op))

	var gigs []domain.Gig
	var errs []string

	for i, location := range locations {
		if i > 0 {
			if err := waitBetween(ctx, s.cfg.RequestDelay); err != nil {
				errs = append(errs, fmt.Sprintf("cancelled before %s: %s", location, err))
				return gigs, errs
			}
		}

		found, itemErrs := s.scrapeLocation(location, locations)
		errs = append(errs, itemErrs...)
		gigs = append(gigs, found...)

		log.Info("collected gigs", slog.String("location", location), slog.Int("count", len(found)))
	}

	return gigs, errs
}

func (s *Songkick) scrapeLocation(location string, locations []string) ([]domain.Gig, []string) {
	var gigs []domain.Gig
	var errs []string
	var mu sync.Mutex

	pageURL := fmt.Sprintf("%s/metro-areas/24476-ireland-%s", s.cfg.BaseURL, strings.ToLower(location))

	gez := geziyor.NewGeziyor(&geziyor.Options{
		StartURLs: []string{pageURL},
		UserAgent: s.userAgent,
		Timeout:   s.cfg.Timeout,
		ParseFunc: func(g *geziyor.Geziyor, r *client.Response) {
			r.HTMLDoc.Find(".event-listings .event-detail").Each(func(_ int, sel *goquery.Selection) {
				gig, err := transformSongkick(sel, location)
				if err != nil {
					mu.Lock()
					errs = append(errs, fmt.Sprintf("transform songkick event: %s", err))
					mu.Unlock()
					return
				}
				if !isIrishEvent(gig, locations) {
					return
				}
				mu.Lock()
				gigs = append(gigs, gig)
				mu.Unlock()
			})
		},
		ErrorFunc: func(g *geziyor.Geziyor, r *client.Request, err error) {
			mu.Lock()
			errs = append(errs, fmt.Sprintf("fetch %s: %s", r.URL, err))
			mu.Unlock()
		},
		LogDisabled: true,
	})
	gez.Start()

	return gigs, errs
}

func transformSongkick(sel *goquery.Selection, location string) (domain.Gig, error) {
	title := strings.TrimSpace(sel.Find(".event-detail-title a").Text())
	venue := strings.TrimSpace(sel.Find(".venue-name").Text())
	loc := strings.TrimSpace(sel.Find(".location").Text())
	date, _ := sel.Find(".date").Attr("datetime")
	artist := strings.TrimSpace(sel.Find(".artist-name").First().Text())
	ticketURL, _ := sel.Find(".ticket-link").Attr("href")

	if title == "" || venue == "" || date == "" || artist == "" {
		return domain.Gig{}, fmt.Errorf("missing required fields in listing for %s", location)
	}

	city := location
	if parts := strings.Split(loc, ","); len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
		city = strings.TrimSpace(parts[0])
	}

	return domain.Gig{
		SourceID:   domain.FallbackSourceID(domain.ProviderSongkick, title, venue, date),
		Title:      title,
		ArtistName: artist,
		Venue: domain.Venue{
			Name:    venue,
			City:    city,
			Country: "Ireland",
			Address: loc,
		},
		EventTime: date,
		TicketURL: ticketURL,
		Provider:  domain.ProviderSongkick,
		Status:    domain.GigStatusUpcoming,
	}, nil
}
