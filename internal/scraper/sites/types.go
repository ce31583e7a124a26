package sites

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gig-scraper/internal/models/domain"

	"github.com/PuerkitoBio/goquery"
)

// fetchDocument GETs a page with the provider headers and parses it.
func fetchDocument(ctx context.Context, client *http.Client, pageURL, userAgent string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, pageURL)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// waitBetween pauses between per-location requests to the same provider.
func waitBetween(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// isIrishEvent keeps only events in Ireland or in one of the configured
// cities; providers occasionally leak listings from other regions into
// location-scoped pages.
func isIrishEvent(g domain.Gig, locations []string) bool {
	if strings.Contains(strings.ToLower(g.Venue.Country), "ireland") {
		return true
	}
	city := strings.ToLower(g.Venue.City)
	for _, loc := range locations {
		if city != "" && strings.Contains(city, strings.ToLower(loc)) {
			return true
		}
	}
	return false
}
