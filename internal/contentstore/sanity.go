package contentstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"gig-scraper/internal/config"
	"gig-scraper/internal/utils/logger/sl"
)

// SanityStore talks to the Sanity HTTP API: GROQ queries for lookups,
// the mutate endpoint for creates and the asset endpoint for images.
type SanityStore struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string // https://<project>.api.sanity.io/v<apiVersion>
	dataset string
	token   string
}

func NewSanityStore(logger *slog.Logger, cfg config.SanityConfig) *SanityStore {
	op := "SanityStore.New()"
	log := logger.With(slog.String("op", op))
	log.Info("creating sanity content store", slog.String("dataset", cfg.Dataset))

	return &SanityStore{
		logger:  logger,
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: fmt.Sprintf("https://%s.api.sanity.io/v%s", cfg.ProjectID, cfg.APIVersion),
		dataset: cfg.Dataset,
		token:   cfg.Token,
	}
}

func (s *SanityStore) EnsureVenue(ctx context.Context, venue VenueInput) (string, error) {
	op := "SanityStore.EnsureVenue()"
	log := s.logger.With(slog.String("op", op), slog.String("venue", venue.Name))

	id, err := s.queryID(ctx,
		`*[_type == "venue" && name == $name && address.city == $city][0]{_id}`,
		map[string]string{"name": venue.Name, "city": venue.City},
	)
	if err == nil {
		log.Debug("found existing venue", slog.String("id", id))
		return id, nil
	}
	if err != ErrNotFound {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	doc := map[string]interface{}{
		"_type": "venue",
		"name":  venue.Name,
		"slug":  sanitySlug(venue.Name),
		"address": map[string]string{
			"street":  venue.Address,
			"city":    venue.City,
			"county":  "",
			"country": venue.Country,
		},
		"amenities":   []string{},
		"description": fmt.Sprintf("Auto-generated venue from %s, %s", venue.City, venue.Country),
		"featured":    false,
	}

	id, err = s.create(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	log.Info("created new venue", slog.String("id", id))
	return id, nil
}

func (s *SanityStore) EnsureBand(ctx context.Context, name string, genres []string) (string, error) {
	op := "SanityStore.EnsureBand()"
	log := s.logger.With(slog.String("op", op), slog.String("band", name))

	id, err := s.queryID(ctx,
		`*[_type == "band" && name == $name][0]{_id}`,
		map[string]string{"name": name},
	)
	if err == nil {
		log.Debug("found existing band", slog.String("id", id))
		return id, nil
	}
	if err != ErrNotFound {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if genres == nil {
		genres = []string{}
	}
	doc := map[string]interface{}{
		"_type":        "band",
		"name":         name,
		"slug":         sanitySlug(name),
		"bio":          "Auto-generated band profile from gig scraping.",
		"locationText": "Ireland",
		"genres":       genres,
		"socialMedia":  map[string]interface{}{},
		"members":      []string{},
		"featured":     false,
	}

	id, err = s.create(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	log.Info("created new band", slog.String("id", id))
	return id, nil
}

func (s *SanityStore) GigExists(ctx context.Context, title, venueID string, date time.Time) (bool, error) {
	op := "SanityStore.GigExists()"

	_, err := s.queryID(ctx,
		`*[_type == "gig" && title == $title && venue._ref == $venueId && date == $date][0]{_id}`,
		map[string]string{"title": title, "venueId": venueID, "date": date.UTC().Format(time.RFC3339)},
	)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

func (s *SanityStore) CreateGig(ctx context.Context, doc GigDocument) (string, error) {
	op := "SanityStore.CreateGig()"

	sanityDoc := map[string]interface{}{
		"_type":          "gig",
		"title":          doc.Title,
		"slug":           map[string]string{"_type": "slug", "current": doc.Slug},
		"venue":          sanityRef(doc.VenueID),
		"headliner":      sanityRef(doc.HeadlinerID),
		"supportActs":    []interface{}{},
		"date":           doc.Date.UTC().Format(time.RFC3339),
		"ticketUrl":      doc.TicketURL,
		"description":    doc.Description,
		"status":         doc.Status,
		"ageRestriction": doc.AgeRestriction,
		"featured":       false,
		"_sourceData":    doc.Provenance,
	}
	if doc.TicketPrice > 0 {
		sanityDoc["ticketPrice"] = doc.TicketPrice
	}
	if doc.PosterRef != "" {
		sanityDoc["poster"] = map[string]interface{}{
			"_type": "image",
			"asset": sanityRef(doc.PosterRef),
		}
	}

	id, err := s.create(ctx, sanityDoc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

func (s *SanityStore) UploadImage(ctx context.Context, imageURL, filename string) (string, error) {
	op := "SanityStore.UploadImage()"
	log := s.logger.With(slog.String("op", op))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: fetch image: %w", op, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: fetch image: status %d", op, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read image: %w", op, err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	uploadURL := fmt.Sprintf("%s/assets/images/%s?filename=%s", s.baseURL, s.dataset, url.QueryEscape(filename))
	upReq, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	upReq.Header.Set("Content-Type", contentType)
	s.authorize(upReq)

	upResp, err := s.client.Do(upReq)
	if err != nil {
		return "", fmt.Errorf("%s: upload: %w", op, err)
	}
	defer upResp.Body.Close()
	if upResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: upload: status %d", op, upResp.StatusCode)
	}

	var uploaded struct {
		Document struct {
			ID string `json:"_id"`
		} `json:"document"`
	}
	if err := json.NewDecoder(upResp.Body).Decode(&uploaded); err != nil {
		return "", fmt.Errorf("%s: decode upload response: %w", op, err)
	}

	log.Debug("uploaded image asset", slog.String("id", uploaded.Document.ID))
	return uploaded.Document.ID, nil
}

// queryID runs a GROQ query expected to select a single {_id} projection.
// Returns ErrNotFound when the query yields no document.
func (s *SanityStore) queryID(ctx context.Context, query string, params map[string]string) (string, error) {
	q := url.Values{}
	q.Set("query", query)
	for k, v := range params {
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		q.Set("$"+k, string(encoded))
	}

	queryURL := fmt.Sprintf("%s/data/query/%s?%s", s.baseURL, s.dataset, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return "", err
	}
	s.authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("query: status %d", resp.StatusCode)
	}

	var result struct {
		Result *struct {
			ID string `json:"_id"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.Result == nil || result.Result.ID == "" {
		return "", ErrNotFound
	}
	return result.Result.ID, nil
}

// create issues a single create mutation and returns the new document id.
func (s *SanityStore) create(ctx context.Context, doc map[string]interface{}) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"mutations": []map[string]interface{}{{"create": doc}},
	})
	if err != nil {
		return "", err
	}

	mutateURL := fmt.Sprintf("%s/data/mutate/%s?returnIds=true", s.baseURL, s.dataset)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mutateURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	s.authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Error("sanity mutation rejected", slog.Int("status", resp.StatusCode), sl.Err(fmt.Errorf("%s", body)))
		return "", fmt.Errorf("mutate: status %d", resp.StatusCode)
	}

	var result struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if len(result.Results) == 0 {
		return "", fmt.Errorf("mutate: empty results")
	}
	return result.Results[0].ID, nil
}

func (s *SanityStore) authorize(req *http.Request) {
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
}

func sanityRef(id string) map[string]string {
	return map[string]string{"_type": "reference", "_ref": id}
}

func sanitySlug(name string) map[string]string {
	return map[string]string{"_type": "slug", "current": Slug(name)}
}
