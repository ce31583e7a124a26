package contentstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrNotFound is returned by lookups when no matching document exists.
var ErrNotFound = errors.New("document not found")

// VenueInput carries the venue fields known at scrape time. Stores create
// the venue with placeholder defaults on first sight and never overwrite an
// existing venue's fields.
type VenueInput struct {
	Name    string
	City    string
	Country string
	Address string
}

// Provenance traces a created gig back to its scrape origin.
type Provenance struct {
	Provider    string    `json:"source"`
	SourceID    string    `json:"sourceId"`
	ProviderURL string    `json:"sourceUrl,omitempty"`
	ImportedAt  time.Time `json:"importedAt"`
}

// GigDocument is the persistent gig entity. Once created it is never
// updated or deleted by this service.
type GigDocument struct {
	Title          string
	Slug           string
	VenueID        string
	HeadlinerID    string
	Date           time.Time
	TicketPrice    float64
	TicketURL      string
	Description    string
	PosterRef      string
	Status         string
	AgeRestriction string
	Provenance     Provenance
}

// Store is the content-store contract the processor writes through.
// Implementations: Sanity (HTTP) and Postgres.
type Store interface {
	// EnsureVenue resolves a venue id by (name, city), creating the venue
	// with placeholder fields when absent.
	EnsureVenue(ctx context.Context, venue VenueInput) (string, error)
	// EnsureBand resolves a band id by name, creating a placeholder band
	// profile when absent.
	EnsureBand(ctx context.Context, name string, genres []string) (string, error)
	// GigExists reports whether a gig matching (title, venueID, date)
	// already exists.
	GigExists(ctx context.Context, title, venueID string, date time.Time) (bool, error)
	// CreateGig persists a new gig document and returns its id.
	CreateGig(ctx context.Context, doc GigDocument) (string, error)
	// UploadImage fetches imageURL and stores it as an asset, returning an
	// asset reference. Returns "" without error when the store has no asset
	// storage.
	UploadImage(ctx context.Context, imageURL, filename string) (string, error)
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug builds a URL-safe slug from a title or name.
func Slug(s string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
