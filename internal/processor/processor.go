package processor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gig-scraper/internal/contentstore"
	"gig-scraper/internal/models/domain"
	"gig-scraper/internal/utils/logger/sl"

	"github.com/araddon/dateparse"
)

// Processor validates, normalizes and persists intermediate gig records.
// Records are processed strictly in sequence: parallel resolution would race
// on venue/band creation and hammer the store's rate-limited write API.
type Processor struct {
	logger     *slog.Logger
	store      contentstore.Store
	writeDelay time.Duration
}

func New(logger *slog.Logger, store contentstore.Store, writeDelay time.Duration) *Processor {
	return &Processor{
		logger:     logger,
		store:      store,
		writeDelay: writeDelay,
	}
}

// Process persists the given records for one provider. A record is counted
// as added when a new gig document was created, as duplicated when a
// matching (title, venue, date) document already exists, and not at all when
// it was dropped. One bad record never aborts the batch.
func (p *Processor) Process(ctx context.Context, records []domain.Gig, provider domain.Provider) (added, duplicated int) {
	op := "Processor.Process()"
	log := p.logger.With(
		slog.String("op", op),
		slog.String("provider", string(provider)),
	)

	log.Info("processing gigs", slog.Int("count", len(records)))

	for _, gig := range records {
		outcome, err := p.processOne(ctx, gig, provider)
		if err != nil {
			log.Error("error processing gig", slog.String("title", gig.Title), sl.Err(err))
			continue
		}
		switch outcome {
		case outcomeAdded:
			added++
			// Pause between creates to stay under the store's write rate limit.
			select {
			case <-ctx.Done():
				log.Warn("context cancelled, stopping batch", slog.Int("added", added))
				return added, duplicated
			case <-time.After(p.writeDelay):
			}
		case outcomeDuplicated:
			duplicated++
		}
	}

	log.Info("processing finished", slog.Int("added", added), slog.Int("duplicated", duplicated))
	return added, duplicated
}

type outcome int

const (
	outcomeDropped outcome = iota
	outcomeAdded
	outcomeDuplicated
)

func (p *Processor) processOne(ctx context.Context, gig domain.Gig, provider domain.Provider) (outcome, error) {
	op := "Processor.processOne()"
	log := p.logger.With(slog.String("op", op), slog.String("title", gig.Title))

	if !gig.Processable() {
		log.Warn("skipping gig with missing required fields")
		return outcomeDropped, nil
	}

	venue := gig.Venue
	if venue.City == "" {
		venue.City = "Unknown"
	}
	if venue.Country == "" {
		venue.Country = "Ireland"
	}
	if venue.Address == "" {
		venue.Address = fmt.Sprintf("%s, %s", venue.City, venue.Country)
	}

	venueID, err := p.store.EnsureVenue(ctx, contentstore.VenueInput{
		Name:    venue.Name,
		City:    venue.City,
		Country: venue.Country,
		Address: venue.Address,
	})
	if err != nil {
		return outcomeDropped, fmt.Errorf("resolve venue: %w", err)
	}

	headlinerID, err := p.store.EnsureBand(ctx, gig.ArtistName, gig.Genres)
	if err != nil {
		return outcomeDropped, fmt.Errorf("resolve band: %w", err)
	}

	date, err := dateparse.ParseAny(gig.EventTime)
	if err != nil {
		log.Warn("skipping gig with unparseable date", slog.String("eventTime", gig.EventTime))
		return outcomeDropped, nil
	}
	date = date.UTC()

	exists, err := p.store.GigExists(ctx, gig.Title, venueID, date)
	if err != nil {
		return outcomeDropped, fmt.Errorf("existence check: %w", err)
	}
	if exists {
		log.Debug("gig already exists")
		return outcomeDuplicated, nil
	}

	var posterRef string
	if gig.PosterImageURL != "" {
		filename := fmt.Sprintf("%s-%s-%s.jpg", gig.ArtistName, venue.Name, date.Format("2006-01-02"))
		posterRef, err = p.store.UploadImage(ctx, gig.PosterImageURL, filename)
		if err != nil {
			// Best effort: the gig goes in without a poster.
			log.Warn("failed to upload poster image", sl.Err(err))
			posterRef = ""
		}
	}

	ageRestriction := gig.AgeRestriction
	if ageRestriction == "" {
		ageRestriction = domain.InferAgeRestriction(gig.Description)
	}

	status := gig.Status
	if status == "" {
		status = domain.GigStatusUpcoming
	}

	description := gig.Description
	if description == "" {
		description = fmt.Sprintf("%s performing at %s. Auto-imported from %s.", gig.ArtistName, venue.Name, provider)
	}

	doc := contentstore.GigDocument{
		Title:          gig.Title,
		Slug:           contentstore.Slug(gig.Title),
		VenueID:        venueID,
		HeadlinerID:    headlinerID,
		Date:           date,
		TicketPrice:    gig.TicketPrice,
		TicketURL:      gig.TicketURL,
		Description:    description,
		PosterRef:      posterRef,
		Status:         string(status),
		AgeRestriction: string(ageRestriction),
		Provenance: contentstore.Provenance{
			Provider:    string(provider),
			SourceID:    gig.SourceID,
			ProviderURL: gig.ProviderURL,
			ImportedAt:  time.Now().UTC(),
		},
	}

	id, err := p.store.CreateGig(ctx, doc)
	if err != nil {
		return outcomeDropped, fmt.Errorf("create gig: %w", err)
	}

	log.Info("created gig",
		slog.String("venue", venue.Name),
		slog.String("id", id),
	)
	return outcomeAdded, nil
}
