package maps

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestComposeQuery(t *testing.T) {
	cases := []struct {
		location, cuisine, want string
	}{
		{"Austin", "Thai", "Austin Thai restaurants"},
		{"New York", "dim sum", "New York dim sum restaurants"},
		{"", "", "  restaurants"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ComposeQuery(tc.location, tc.cuisine))
	}
}

// capturedRequest records what the fake searchText endpoint received.
type capturedRequest struct {
	method    string
	apiKey    string
	fieldMask string
	ctype     string
	body      searchTextRequest
	calls     int
}

func newSearchTextServer(t *testing.T, status int, respBody string, got *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.calls++
		got.method = r.Method
		got.apiKey = r.Header.Get("X-Goog-Api-Key")
		got.fieldMask = r.Header.Get("X-Goog-FieldMask")
		got.ctype = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchSuccessReturnsBodyUnchanged(t *testing.T) {
	const body = `{"places":[{"id":"p1","displayName":{"text":"Luigi's","languageCode":"en"},"rating":4.5,"priceLevel":"PRICE_LEVEL_MODERATE"}]}`
	var got capturedRequest
	srv := newSearchTextServer(t, http.StatusOK, body, &got)

	svc := NewPlacesService("secret", WithEndpoint(srv.URL))
	payload, err := svc.Search(context.Background(), "Chicago", "Italian")
	require.NoError(t, err)

	var want Payload
	require.NoError(t, json.Unmarshal([]byte(body), &want))
	assert.Equal(t, want, payload)

	assert.Equal(t, 1, got.calls)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "secret", got.apiKey)
	assert.Equal(t, FieldMask, got.fieldMask)
	assert.Equal(t, "application/json", got.ctype)
	assert.Equal(t, "Chicago Italian restaurants", got.body.TextQuery)
}

func TestSearchErrorStatusReturnsErrorBody(t *testing.T) {
	const body = `{"error":{"code":403,"message":"API key not valid.","status":"PERMISSION_DENIED"}}`
	var got capturedRequest
	srv := newSearchTextServer(t, http.StatusForbidden, body, &got)

	svc := NewPlacesService("bad", WithEndpoint(srv.URL))
	payload, err := svc.Search(context.Background(), "Austin", "Thai")
	require.NoError(t, err)

	var want Payload
	require.NoError(t, json.Unmarshal([]byte(body), &want))
	assert.Equal(t, want, payload)
	assert.Equal(t, 1, got.calls, "no retries on upstream errors")
}

func TestSearchNonJSONBody(t *testing.T) {
	var got capturedRequest
	srv := newSearchTextServer(t, http.StatusBadGateway, "<html>bad gateway</html>", &got)

	svc := NewPlacesService("k", WithEndpoint(srv.URL))
	_, err := svc.Search(context.Background(), "Austin", "Thai")
	assert.Error(t, err)
}

func TestSearchTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	svc := NewPlacesService("k", WithEndpoint(url))
	_, err := svc.Search(context.Background(), "Austin", "Thai")
	assert.Error(t, err)
}

func TestLegacySearchReshapesResults(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":"OK","results":[{"place_id":"p1","name":"Luigi's","formatted_address":"1 Main St","rating":4.3,"price_level":2}]}`)
	}))
	t.Cleanup(srv.Close)

	svc, err := NewLegacyPlacesService("k", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	payload, err := svc.Search(context.Background(), "Chicago", "Italian")
	require.NoError(t, err)
	assert.Equal(t, "Chicago Italian restaurants", query)

	places, ok := payload["places"].([]any)
	require.True(t, ok)
	require.Len(t, places, 1)
	place := places[0].(map[string]any)
	assert.Equal(t, "p1", place["id"])
	assert.Equal(t, map[string]any{"text": "Luigi's"}, place["displayName"])
	assert.Equal(t, "1 Main St", place["formattedAddress"])
	assert.Equal(t, 4.3, place["rating"])
	assert.Equal(t, 2, place["priceLevel"])
	assert.Len(t, place, 5)
}

func TestLegacySearchAPIErrorIsData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid.","results":[]}`)
	}))
	t.Cleanup(srv.Close)

	svc, err := NewLegacyPlacesService("k", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	payload, err := svc.Search(context.Background(), "Austin", "Thai")
	require.NoError(t, err)
	errBody, ok := payload["error"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errBody["message"], "REQUEST_DENIED")
}
