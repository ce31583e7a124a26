package sites

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"gig-scraper/internal/config"
	"gig-scraper/internal/models/domain"

	"github.com/PuerkitoBio/goquery"
)

// Eventbrite scrapes the music-events search page on eventbrite.ie.
type Eventbrite struct {
	logger    *slog.Logger
	client    *http.Client
	cfg       config.ProviderConfig
	userAgent string
}

func NewEventbrite(logger *slog.Logger, cfg config.ProviderConfig, userAgent string) *Eventbrite {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.eventbrite.ie"
	}
	return &Eventbrite{
		logger:    logger,
		client:    &http.Client{Timeout: cfg.Timeout},
		cfg:       cfg,
		userAgent: userAgent,
	}
}

func (e *Eventbrite) Provider() domain.Provider {
	return domain.ProviderEventbrite
}

func (e *Eventbrite) FetchCandidates(ctx context.Context, locations []string) ([]domain.Gig, []string) {
	op := "Eventbrite.FetchCandidates()"
	log := e.logger.With(slog.String("op", op))

	var gigs []domain.Gig
	var errs []string

	for i, location := range locations {
		if i > 0 {
			if err := waitBetween(ctx, e.cfg.RequestDelay); err != nil {
				errs = append(errs, fmt.Sprintf("cancelled before %s: %s", location, err))
				return gigs, errs
			}
		}

		found, itemErrs := e.scrapeLocation(ctx, location, locations)
		errs = append(errs, itemErrs...)
		gigs = append(gigs, found...)

		log.Info("collected gigs", slog.String("location", location), slog.Int("count", len(found)))
	}

	return gigs, errs
}

func (e *Eventbrite) scrapeLocation(ctx context.Context, location string, locations []string) ([]domain.Gig, []string) {
	var errs []string

	params := url.Values{}
	params.Set("q", "music concert gig")
	params.Set("location", location)
	params.Set("distance", "50km")
	pageURL := fmt.Sprintf("%s/d/ireland--dublin/music--events/?%s", e.cfg.BaseURL, params.Encode())

	doc, err := fetchDocument(ctx, e.client, pageURL, e.userAgent)
	if err != nil {
		errs = append(errs, fmt.Sprintf("scrape eventbrite for %s: %s", location, err))
		return nil, errs
	}

	var gigs []domain.Gig
	doc.Find(`[data-testid="event-card"]`).Each(func(_ int, sel *goquery.Selection) {
		gig, err := e.transformCard(sel)
		if err != nil {
			errs = append(errs, fmt.Sprintf("transform eventbrite event: %s", err))
			return
		}
		if isIrishEvent(gig, locations) {
			gigs = append(gigs, gig)
		}
	})

	return gigs, errs
}

func (e *Eventbrite) transformCard(sel *goquery.Selection) (domain.Gig, error) {
	title := strings.TrimSpace(sel.Find(`[data-testid="event-title"]`).Text())
	venueText := strings.TrimSpace(sel.Find(`[data-testid="event-location"]`).Text())
	date, _ := sel.Find(`[data-testid="event-date"]`).Attr("datetime")
	ticketURL, _ := sel.Find("a").Attr("href")
	image, _ := sel.Find("img").Attr("src")

	if title == "" || venueText == "" || date == "" {
		return domain.Gig{}, fmt.Errorf("missing required fields on event card")
	}

	if strings.HasPrefix(ticketURL, "/") {
		ticketURL = e.cfg.BaseURL + ticketURL
	}

	venueName := venueText
	city := ""
	if parts := strings.Split(venueText, ","); len(parts) > 1 {
		venueName = strings.TrimSpace(parts[0])
		city = strings.TrimSpace(parts[1])
	}

	return domain.Gig{
		SourceID: domain.FallbackSourceID(domain.ProviderEventbrite, title, venueName, date),
		Title:    title,
		// Search cards carry no separate artist field; the title stands in.
		ArtistName: title,
		Venue: domain.Venue{
			Name:    venueName,
			City:    city,
			Country: "Ireland",
			Address: venueText,
		},
		EventTime:      date,
		TicketURL:      ticketURL,
		PosterImageURL: image,
		Provider:       domain.ProviderEventbrite,
		ProviderURL:    ticketURL,
		Status:         domain.GigStatusUpcoming,
	}, nil
}
