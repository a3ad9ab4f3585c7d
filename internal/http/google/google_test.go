package googlemaps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwise1/whereintheworld/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hamburgResponse = `{
  "status": "OK",
  "results": [{
    "formatted_address": "Hamburg, Germany",
    "place_id": "abc",
    "types": ["locality", "political"],
    "address_components": [
      {"long_name": "20149", "short_name": "20149", "types": ["postal_code"]},
      {"long_name": "Hamburg", "short_name": "HH", "types": ["locality", "political"]},
      {"long_name": "Germany", "short_name": "DE", "types": ["country", "political"]}
    ]
  }]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *GoogleMapsClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewGoogleMapsClient("test-key")
	c.BaseURL = srv.URL
	return c
}

func TestReverseGeocode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		assert.Equal(t, "53.551100,9.993700", r.URL.Query().Get("latlng"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write([]byte(hamburgResponse))
	})

	results, err := c.ReverseGeocode(context.Background(), model.Coordinate{Latitude: 53.5511, Longitude: 9.9937})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Components, 3)
	assert.Equal(t, "Hamburg", results[0].Components[1].LongName)
	assert.True(t, results[0].Components[2].HasType("country"))
	assert.Equal(t, "google", c.Name())
}

func TestReverseGeocodeZeroResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	results, err := c.ReverseGeocode(context.Background(), model.Coordinate{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestReverseGeocodeErrors(t *testing.T) {
	testCases := []struct {
		name     string
		handler  http.HandlerFunc
		wantKind model.ResolutionErrorKind
		wantMsg  string
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantKind: model.BadResponse,
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			wantKind: model.ParseFailure,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status":`))
			},
			wantKind: model.ParseFailure,
		},
		{
			name: "error message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`))
			},
			wantKind: model.BackendError,
			wantMsg:  "The provided API key is invalid.",
		},
		{
			name: "error status without message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status": "OVER_QUERY_LIMIT", "results": []}`))
			},
			wantKind: model.BackendError,
			wantMsg:  "OVER_QUERY_LIMIT",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, tc.handler)

			_, err := c.ReverseGeocode(context.Background(), model.Coordinate{})
			var resErr *model.ResolutionError
			require.ErrorAs(t, err, &resErr)
			assert.Equal(t, tc.wantKind, resErr.Kind)
			if tc.wantMsg != "" {
				assert.Equal(t, tc.wantMsg, resErr.DisplayMessage())
			}
		})
	}
}

func TestReverseGeocodeNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewGoogleMapsClient("test-key")
	c.BaseURL = srv.URL

	_, err := c.ReverseGeocode(context.Background(), model.Coordinate{})
	var resErr *model.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, model.NetworkFailure, resErr.Kind)
}

func TestReverseGeocodeWithoutKey(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	c.SetAPIKey("")

	_, err := c.ReverseGeocode(context.Background(), model.Coordinate{})
	var resErr *model.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, model.BackendError, resErr.Kind)
	assert.False(t, called)
}
