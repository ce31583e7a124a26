package domain

import (
	"fmt"
	"strings"
)

// Provider identifies the external event source a gig was scraped from.
type Provider string

const (
	ProviderBandsintown Provider = "bandsintown"
	ProviderSongkick    Provider = "songkick"
	ProviderEventbrite  Provider = "eventbrite"
)

// GigStatus is the lifecycle status a gig carries at import time.
type GigStatus string

const (
	GigStatusUpcoming  GigStatus = "upcoming"
	GigStatusSoldOut   GigStatus = "sold_out"
	GigStatusCancelled GigStatus = "cancelled"
	GigStatusCompleted GigStatus = "completed"
)

// AgeRestriction is the door policy for a gig.
type AgeRestriction string

const (
	AgeAllAges   AgeRestriction = "all_ages"
	AgeSixteen   AgeRestriction = "16_plus"
	AgeEighteen  AgeRestriction = "18_plus"
	AgeTwentyOne AgeRestriction = "21_plus"
)

// Venue is the venue fragment of a scraped gig, as the provider reported it.
type Venue struct {
	Name    string
	City    string
	Country string
	Address string
}

// Gig is the provider-agnostic intermediate record produced by a source
// adapter. It is transient: created per scrape run and discarded after
// processing. EventTime keeps the raw string the provider gave us; the
// processor parses it to a canonical instant just before persistence.
type Gig struct {
	SourceID       string
	Title          string
	ArtistName     string
	Venue          Venue
	EventTime      string
	Description    string
	TicketURL      string
	TicketPrice    float64
	PosterImageURL string
	Provider       Provider
	ProviderURL    string
	AgeRestriction AgeRestriction
	Status         GigStatus
	Genres         []string
}

// Processable reports whether the record carries every field required for
// persistence. Records failing this gate are dropped with a warning and are
// never created in the content store.
func (g Gig) Processable() bool {
	return g.Title != "" && g.ArtistName != "" && g.Venue.Name != "" && g.EventTime != ""
}

// FallbackSourceID derives a deterministic provider-scoped id from the
// record's identity fields, for providers that expose no native event id.
// Repeated runs yield the same id for the same logical event.
func FallbackSourceID(provider Provider, title, venueName, eventTime string) string {
	slugify := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), "-"))
	}
	return fmt.Sprintf("%s-%s-%s-%s", provider, slugify(title), slugify(venueName), eventTime)
}

// InferAgeRestriction scans free-text description for door-policy phrases.
// Defaults to all ages when nothing matches.
func InferAgeRestriction(description string) AgeRestriction {
	desc := strings.ToLower(description)
	switch {
	case strings.Contains(desc, "18+") || strings.Contains(desc, "over 18"):
		return AgeEighteen
	case strings.Contains(desc, "16+") || strings.Contains(desc, "over 16"):
		return AgeSixteen
	case strings.Contains(desc, "21+") || strings.Contains(desc, "over 21"):
		return AgeTwentyOne
	default:
		return AgeAllAges
	}
}

// ScrapeResult is the per-source, per-run report handed back to the
// orchestrator and scheduler for logging. Ephemeral.
type ScrapeResult struct {
	Provider   Provider
	Scraped    int
	AfterDedup int
	Added      int
	Duplicated int
	Errors     []string
}
