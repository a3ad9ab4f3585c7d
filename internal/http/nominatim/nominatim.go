package nominatim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bwise1/whereintheworld/internal/model"
	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "whereintheworld/1.0"
)

// Client handles communication with the Nominatim reverse geocoding API.
type Client struct {
	BaseURL    *url.URL
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient creates a new Nominatim client with default timeout.
func NewClient(baseURL, userAgent string) (*Client, error) {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse nominatim base URL")
	}
	return &Client{
		BaseURL:   u,
		UserAgent: userAgent,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
	}, nil
}

// --- Reverse Request/Response Structures ---

// ReverseQuery represents parameters for reverse requests.
type ReverseQuery struct {
	Format         string  `url:"format"`
	Lat            float64 `url:"lat"`
	Lon            float64 `url:"lon"`
	AddressDetails int     `url:"addressdetails"`
	Limit          int     `url:"limit,omitempty"`
	AcceptLanguage string  `url:"accept-language,omitempty"`
}

// Location is the flat reverse geocoding response.
type Location struct {
	Name        string   `json:"name,omitempty"`
	DisplayName string   `json:"display_name,omitempty"`
	AddressType string   `json:"addresstype,omitempty"`
	Address     *Address `json:"address,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Address holds the address details of a Location.
type Address struct {
	CountryCode string `json:"country_code,omitempty"`
	Country     string `json:"country,omitempty"`
	State       string `json:"state,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
	Town        string `json:"town,omitempty"`
	City        string `json:"city,omitempty"`
	Village     string `json:"village,omitempty"`
}

// buildURL constructs the API URL with query parameters.
func (c *Client) buildURL(endpoint string, queryParams interface{}) (string, error) {
	rel, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.Wrap(err, "parse endpoint")
	}
	u := c.BaseURL.ResolveReference(rel)

	q := u.Query()
	if queryParams != nil {
		v, err := query.Values(queryParams)
		if err != nil {
			return "", errors.Wrap(err, "encode query parameters")
		}
		for k, vals := range v {
			for _, val := range vals {
				q.Add(k, val)
			}
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) Name() string {
	return "nominatim"
}

// Reverse performs reverse geocoding.
// Endpoint: /reverse
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*Location, error) {
	params := &ReverseQuery{
		Format:         "json",
		Lat:            lat,
		Lon:            lon,
		AddressDetails: 1,
		Limit:          1,
		AcceptLanguage: "en",
	}

	reqURL, err := c.buildURL("/reverse", params)
	if err != nil {
		return nil, model.NewResolutionError(model.NetworkFailure, "build reverse URL", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, model.NewResolutionError(model.NetworkFailure, "create reverse request", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	var result Location
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, model.NewResolutionError(model.BackendError, result.Error, nil)
	}
	return &result, nil
}

// ReverseGeocode converts the flat Nominatim address into tagged components
// so the shared extraction passes apply to it.
func (c *Client) ReverseGeocode(ctx context.Context, coord model.Coordinate) ([]model.AddressResult, error) {
	loc, err := c.Reverse(ctx, coord.Latitude, coord.Longitude)
	if err != nil {
		return nil, err
	}
	result := ToAddressResult(loc)
	if len(result.Components) == 0 {
		return nil, nil
	}
	return []model.AddressResult{result}, nil
}

// ToAddressResult maps a Location onto tagged address components.
func ToAddressResult(loc *Location) model.AddressResult {
	var result model.AddressResult
	if loc == nil || loc.Address == nil {
		return result
	}
	addr := loc.Address

	switch loc.AddressType {
	case "aerodrome", "airport":
		if loc.Name != "" {
			result.Components = append(result.Components, model.AddressComponent{
				LongName: loc.Name, ShortName: loc.Name, Types: []string{"airport"},
			})
		}
	}
	if addr.Postcode != "" {
		result.Components = append(result.Components, model.AddressComponent{
			LongName: addr.Postcode, ShortName: addr.Postcode, Types: []string{"postal_code"},
		})
	}
	if place := firstNonEmpty(addr.Town, addr.City, addr.Village); place != "" {
		result.Components = append(result.Components, model.AddressComponent{
			LongName: place, ShortName: place, Types: []string{"locality", "political"},
		})
	}
	if addr.Country != "" {
		result.Components = append(result.Components, model.AddressComponent{
			LongName: addr.Country, ShortName: strings.ToUpper(addr.CountryCode), Types: []string{"country", "political"},
		})
	}
	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// do executes HTTP requests and decodes JSON responses.
func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return model.NewResolutionError(model.NetworkFailure, "execute HTTP request", errors.Wrap(err, req.URL.Host))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.NewResolutionError(model.BadResponse, fmt.Sprintf("API request failed with status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.NewResolutionError(model.NetworkFailure, "read response", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return model.NewResolutionError(model.ParseFailure, "empty response", nil)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return model.NewResolutionError(model.ParseFailure, "decode response", errors.Wrap(err, "decode response"))
	}
	return nil
}
