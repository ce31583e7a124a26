package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gig-scraper/internal/contentstore"
	"gig-scraper/internal/models/repositories"

	"github.com/google/uuid"
)

// EnsureVenue looks a venue up by (name, city) and creates it with
// placeholder fields when absent. Existing venues are never modified.
func (r *Repository) EnsureVenue(ctx context.Context, venue contentstore.VenueInput) (string, error) {
	op := "repositories.EnsureVenue()"

	var existing repositories.Venue
	query := `SELECT id, name, slug, street, city, county, country, description, featured, created_at, updated_at
	          FROM venues WHERE name = $1 AND city = $2 LIMIT 1`

	err := r.DB.GetContext(ctx, &existing, query, venue.Name, venue.City)
	if err == nil {
		return existing.ID.String(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id := uuid.New()
	insertQuery := `INSERT INTO venues (
		id, name, slug, street, city, county, country, description, featured,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	_, err = r.DB.ExecContext(ctx, insertQuery,
		id,
		venue.Name,
		contentstore.Slug(venue.Name),
		venue.Address,
		venue.City,
		"",
		venue.Country,
		fmt.Sprintf("Auto-generated venue from %s, %s", venue.City, venue.Country),
		false,
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	r.logger.Info("created new venue",
		slog.String("op", op),
		slog.String("name", venue.Name),
		slog.String("id", id.String()),
	)
	return id.String(), nil
}

// EnsureBand looks a band up by name and creates a placeholder profile when
// absent.
func (r *Repository) EnsureBand(ctx context.Context, name string, genres []string) (string, error) {
	op := "repositories.EnsureBand()"

	var existing repositories.Band
	query := `SELECT id, name, slug, bio, location_text, featured, created_at, updated_at
	          FROM bands WHERE name = $1 LIMIT 1`

	err := r.DB.GetContext(ctx, &existing, query, name)
	if err == nil {
		return existing.ID.String(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id := uuid.New()
	insertQuery := `INSERT INTO bands (
		id, name, slug, bio, location_text, featured, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	_, err = r.DB.ExecContext(ctx, insertQuery,
		id,
		name,
		contentstore.Slug(name),
		"Auto-generated band profile from gig scraping.",
		"Ireland",
		false,
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	r.logger.Info("created new band",
		slog.String("op", op),
		slog.String("name", name),
		slog.String("id", id.String()),
	)
	return id.String(), nil
}

// GigExists reports whether a gig matching (title, venueID, date) is already
// stored.
func (r *Repository) GigExists(ctx context.Context, title, venueID string, date time.Time) (bool, error) {
	op := "repositories.GigExists()"

	parsedVenueID, err := uuid.Parse(venueID)
	if err != nil {
		return false, fmt.Errorf("%s: invalid venue id: %w", op, err)
	}

	var id uuid.UUID
	query := `SELECT id FROM gigs WHERE title = $1 AND venue_id = $2 AND date = $3 LIMIT 1`

	err = r.DB.GetContext(ctx, &id, query, title, parsedVenueID, date.UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// CreateGig inserts a new gig row with provenance columns.
func (r *Repository) CreateGig(ctx context.Context, doc contentstore.GigDocument) (string, error) {
	op := "repositories.CreateGig()"

	venueID, err := uuid.Parse(doc.VenueID)
	if err != nil {
		return "", fmt.Errorf("%s: invalid venue id: %w", op, err)
	}
	headlinerID, err := uuid.Parse(doc.HeadlinerID)
	if err != nil {
		return "", fmt.Errorf("%s: invalid headliner id: %w", op, err)
	}

	id := uuid.New()
	insertQuery := `INSERT INTO gigs (
		id, title, slug, venue_id, headliner_id, date, ticket_price, ticket_url,
		description, poster, status, age_restriction, featured,
		source, source_id, source_url, imported_at,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	_, err = r.DB.ExecContext(ctx, insertQuery,
		id,
		doc.Title,
		doc.Slug,
		venueID,
		headlinerID,
		doc.Date.UTC(),
		doc.TicketPrice,
		doc.TicketURL,
		doc.Description,
		doc.PosterRef,
		doc.Status,
		doc.AgeRestriction,
		false,
		doc.Provenance.Provider,
		doc.Provenance.SourceID,
		doc.Provenance.ProviderURL,
		doc.Provenance.ImportedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id.String(), nil
}

// UploadImage has no binary asset storage behind it; the poster URL itself is
// kept as the reference and stored on the gig row.
func (r *Repository) UploadImage(ctx context.Context, imageURL, filename string) (string, error) {
	return imageURL, nil
}
