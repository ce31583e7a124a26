package dedup

import (
	"testing"

	"gig-scraper/internal/models/domain"
)

func gig(title, venue, eventTime, description string) domain.Gig {
	return domain.Gig{
		Title:       title,
		ArtistName:  "artist",
		Venue:       domain.Venue{Name: venue, City: "Cork"},
		EventTime:   eventTime,
		Description: description,
	}
}

func TestDedupe_FirstOccurrenceWins(t *testing.T) {
	a := gig("Echoes Live", "Cyprus Avenue", "2025-03-01T20:00:00Z", "original")
	b := gig("Other Gig", "Vicar Street", "2025-03-02T20:00:00Z", "")
	aPrime := gig("Echoes Live", "Cyprus Avenue", "2025-03-01T20:00:00Z", "different description")

	got := Dedupe([]domain.Gig{a, b, aPrime})

	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Description != "original" {
		t.Errorf("expected first occurrence to survive, got description %q", got[0].Description)
	}
	if got[1].Title != "Other Gig" {
		t.Errorf("expected input order preserved, got %q at index 1", got[1].Title)
	}
}

func TestDedupe_CaseInsensitive(t *testing.T) {
	got := Dedupe([]domain.Gig{
		gig("Echoes Live", "Cyprus Avenue", "2025-03-01T20:00:00Z", ""),
		gig("ECHOES LIVE", "cyprus avenue", "2025-03-01T20:00:00Z", ""),
	})

	if len(got) != 1 {
		t.Fatalf("expected case-insensitive match to collapse, got %d records", len(got))
	}
}

func TestDedupe_DifferentDateStringsStayDistinct(t *testing.T) {
	// Same instant, different raw representation: kept as separate records.
	got := Dedupe([]domain.Gig{
		gig("Echoes Live", "Cyprus Avenue", "2025-03-01T20:00:00Z", ""),
		gig("Echoes Live", "Cyprus Avenue", "2025-03-01T20:00:00+00:00", ""),
	})

	if len(got) != 2 {
		t.Fatalf("expected raw date strings to be compared literally, got %d records", len(got))
	}
}

func TestDedupe_EmptyInput(t *testing.T) {
	if got := Dedupe(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %d records", len(got))
	}
}

func TestDedupe_DoesNotModifyInput(t *testing.T) {
	in := []domain.Gig{
		gig("A", "V", "t", "first"),
		gig("A", "V", "t", "second"),
		gig("B", "V", "t", ""),
	}

	Dedupe(in)

	if len(in) != 3 || in[1].Description != "second" {
		t.Fatal("input slice was modified")
	}
}
