package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	// DefaultSearchTextEndpoint is the Places API (New) text search method.
	DefaultSearchTextEndpoint = "https://places.googleapis.com/v1/places:searchText"

	// FieldMask restricts the searchText response to the fields the model narrates.
	FieldMask = "places.id,places.displayName,places.formattedAddress,places.priceLevel,places.rating"
)

// Payload is a decoded JSON object passed to the model without modification.
type Payload map[string]any

// ComposeQuery builds the free-text query sent to the places API.
func ComposeQuery(location, cuisine string) string {
	return location + " " + cuisine + " restaurants"
}

type searchTextRequest struct {
	TextQuery string `json:"textQuery"`
}

// PlacesService issues text searches against the Places API (New).
type PlacesService struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// PlacesOption customizes a PlacesService.
type PlacesOption func(*PlacesService)

// WithEndpoint overrides the searchText URL.
func WithEndpoint(endpoint string) PlacesOption {
	return func(s *PlacesService) { s.endpoint = endpoint }
}

// WithHTTPClient overrides the HTTP client. The default is http.DefaultClient.
func WithHTTPClient(c *http.Client) PlacesOption {
	return func(s *PlacesService) { s.client = c }
}

// NewPlacesService creates a PlacesService with the given API Key.
func NewPlacesService(apiKey string, opts ...PlacesOption) *PlacesService {
	s := &PlacesService{
		apiKey:   apiKey,
		endpoint: DefaultSearchTextEndpoint,
		client:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs one text search for restaurants serving cuisine in location.
// Both success and upstream error bodies are returned as the decoded Payload;
// an error is returned only when the request cannot be completed or the body
// is not a JSON object.
func (s *PlacesService) Search(ctx context.Context, location, cuisine string) (Payload, error) {
	reqBody, err := json.Marshal(searchTextRequest{TextQuery: ComposeQuery(location, cuisine)})
	if err != nil {
		return nil, fmt.Errorf("places: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("places: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", s.apiKey)
	req.Header.Set("X-Goog-FieldMask", FieldMask)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("places: read response: %w", err)
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("places: unmarshal response (status %d): %w", resp.StatusCode, err)
	}
	if payload == nil {
		// A literal JSON null decodes to a nil map.
		payload = Payload{}
	}
	return payload, nil
}
