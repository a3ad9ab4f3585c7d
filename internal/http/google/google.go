package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bwise1/whereintheworld/internal/model"
)

const defaultBaseURL = "https://maps.googleapis.com"

// GoogleMapsClient handles communication with the Google Geocoding API
type GoogleMapsClient struct {
	BaseURL string
	Client  *http.Client

	mu     sync.RWMutex
	apiKey string // IMPORTANT: Handle your API Key securely! Do not hardcode.
}

// NewGoogleMapsClient creates a new client instance
// apiKey should be loaded securely (e.g., from environment variable)
func NewGoogleMapsClient(apiKey string) *GoogleMapsClient {
	if apiKey == "" {
		log.Println("Warning: Google Maps API Key is empty.")
	}
	return &GoogleMapsClient{
		BaseURL: defaultBaseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
		apiKey:  apiKey,
	}
}

// SetAPIKey replaces the key used by subsequent requests.
func (gc *GoogleMapsClient) SetAPIKey(apiKey string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.apiKey = apiKey
}

func (gc *GoogleMapsClient) key() string {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	return gc.apiKey
}

// --- Reverse Geocoding Structures ---

// GeocodeResponse represents the top-level response for a reverse geocoding request
type GeocodeResponse struct {
	Results      []GeocodeResult `json:"results"`
	Status       string          `json:"status"` // e.g., "OK", "ZERO_RESULTS", "OVER_QUERY_LIMIT", "REQUEST_DENIED", "INVALID_REQUEST", "UNKNOWN_ERROR"
	ErrorMessage string          `json:"error_message,omitempty"`
}

// GeocodeResult is one candidate address for the requested coordinate
type GeocodeResult struct {
	AddressComponents []model.AddressComponent `json:"address_components"`
	FormattedAddress  string                   `json:"formatted_address"`
	Geometry          Geometry                 `json:"geometry"`
	PlaceID           string                   `json:"place_id"`
	Types             []string                 `json:"types"`
}

// Geometry contains location information
type Geometry struct {
	Location     LatLng  `json:"location"`
	LocationType string  `json:"location_type"` // e.g., "ROOFTOP", "APPROXIMATE"
	Viewport     Bounds  `json:"viewport"`
	Bounds       *Bounds `json:"bounds,omitempty"`
}

// LatLng represents latitude and longitude
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds represents a viewport bounding box
type Bounds struct {
	NorthEast LatLng `json:"northeast"`
	SouthWest LatLng `json:"southwest"`
}

// --- Client Methods ---

func (gc *GoogleMapsClient) Name() string {
	return "google"
}

// ReverseGeocode fetches the address candidates for a coordinate.
// Failures are reported as *model.ResolutionError.
func (gc *GoogleMapsClient) ReverseGeocode(ctx context.Context, coord model.Coordinate) ([]model.AddressResult, error) {
	apiKey := gc.key()
	if apiKey == "" {
		return nil, model.NewResolutionError(model.BackendError, "google maps API key is not set", nil)
	}

	params := url.Values{}
	params.Set("latlng", fmt.Sprintf("%f,%f", coord.Latitude, coord.Longitude))
	params.Set("key", apiKey)

	fullURL := fmt.Sprintf("%s/maps/api/geocode/json?%s", strings.TrimRight(gc.BaseURL, "/"), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, model.NewResolutionError(model.NetworkFailure, "failed to create geocode request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := gc.Client.Do(req)
	if err != nil {
		log.Printf("Error making geocode request: %v\n", err)
		return nil, model.NewResolutionError(model.NetworkFailure, "failed to execute geocode request", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Error reading geocode response body: %v\n", err)
		return nil, model.NewResolutionError(model.NetworkFailure, "failed to read geocode response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Geocode request failed with status %d\n", resp.StatusCode)
		return nil, model.NewResolutionError(model.BadResponse, fmt.Sprintf("status code %d", resp.StatusCode), nil)
	}

	if len(bodyBytes) == 0 {
		return nil, model.NewResolutionError(model.ParseFailure, "empty geocode response", nil)
	}

	var geocodeResponse GeocodeResponse
	if err := json.Unmarshal(bodyBytes, &geocodeResponse); err != nil {
		log.Printf("Error decoding geocode response: %v\n", err)
		return nil, model.NewResolutionError(model.ParseFailure, "failed to decode geocode response", err)
	}

	if geocodeResponse.ErrorMessage != "" {
		log.Printf("Google Maps API returned error: %s\n", geocodeResponse.ErrorMessage)
		return nil, model.NewResolutionError(model.BackendError, geocodeResponse.ErrorMessage, nil)
	}

	switch geocodeResponse.Status {
	case "OK", "ZERO_RESULTS", "":
	default:
		log.Printf("Google Maps API returned status: %s\n", geocodeResponse.Status)
		return nil, model.NewResolutionError(model.BackendError, geocodeResponse.Status, nil)
	}

	results := make([]model.AddressResult, 0, len(geocodeResponse.Results))
	for _, r := range geocodeResponse.Results {
		results = append(results, model.AddressResult{Components: r.AddressComponents})
	}
	return results, nil
}
