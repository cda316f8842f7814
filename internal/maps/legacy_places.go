package maps

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"googlemaps.github.io/maps"
)

// LegacyPlacesService runs the same restaurant query through the legacy
// Places Text Search API and reshapes the results like a searchText response.
type LegacyPlacesService struct {
	client *maps.Client
}

// NewLegacyPlacesService creates a LegacyPlacesService. Extra client options
// are passed to maps.NewClient after the API key.
func NewLegacyPlacesService(apiKey string, opts ...maps.ClientOption) (*LegacyPlacesService, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &LegacyPlacesService{client: client}, nil
}

// Search mirrors PlacesService.Search. API-level failures (bad key, quota,
// invalid request) come back as an "error" Payload; transport failures are
// returned as errors.
func (s *LegacyPlacesService) Search(ctx context.Context, location, cuisine string) (Payload, error) {
	resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{
		Query: ComposeQuery(location, cuisine),
	})
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) || ctx.Err() != nil {
			return nil, fmt.Errorf("places api error: %w", err)
		}
		return Payload{"error": map[string]any{"message": err.Error()}}, nil
	}

	places := make([]any, 0, len(resp.Results))
	for _, r := range resp.Results {
		places = append(places, map[string]any{
			"id":               r.PlaceID,
			"displayName":      map[string]any{"text": r.Name},
			"formattedAddress": r.FormattedAddress,
			"priceLevel":       r.PriceLevel,
			"rating":           rating(r.Rating),
		})
	}
	return Payload{"places": places}, nil
}

// rating widens the library's float32 by its shortest decimal form, so 4.3
// stays 4.3 instead of 4.300000190734863.
func rating(r float32) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(float64(r), 'f', -1, 32), 64)
	if err != nil {
		return float64(r)
	}
	return v
}
