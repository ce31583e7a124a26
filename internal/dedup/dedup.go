package dedup

import (
	"strings"

	"gig-scraper/internal/models/domain"
)

// Key builds the composite duplicate key for a record. Matching is
// case-insensitive on title and venue name, and compares the event time as
// the raw provider string: two records for the same instant written
// differently are treated as distinct.
func Key(g domain.Gig) string {
	return strings.ToLower(g.Title) + "|" + strings.ToLower(g.Venue.Name) + "|" + g.EventTime
}

// Dedupe removes intra-batch duplicates, keeping the first record seen per
// key and preserving input order. Pure: the input slice is not modified.
// It operates only within one scrape run's candidate list; duplicates
// already persisted are the processor's concern.
func Dedupe(records []domain.Gig) []domain.Gig {
	seen := make(map[string]struct{}, len(records))
	result := make([]domain.Gig, 0, len(records))

	for _, g := range records {
		key := Key(g)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, g)
	}

	return result
}
