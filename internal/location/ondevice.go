package location

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bwise1/whereintheworld/internal/model"
	"github.com/golang/geo/s2"
)

const earthRadiusKm = 6371.0

//go:embed gazetteer.json
var defaultGazetteer []byte

// Place is a gazetteer entry used for offline reverse geocoding.
type Place struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Code    string  `json:"code"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// OnDeviceGeocoder resolves coordinates to the nearest gazetteer place
// without any network access.
type OnDeviceGeocoder struct {
	places        []Place
	points        []s2.LatLng
	maxDistanceKm float64
}

// NewOnDeviceGeocoder loads the gazetteer at path, or the embedded one when
// path is empty.
func NewOnDeviceGeocoder(path string, maxDistanceKm float64) (*OnDeviceGeocoder, error) {
	data := defaultGazetteer
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading gazetteer: %w", err)
		}
		data = raw
	}

	var places []Place
	if err := json.Unmarshal(data, &places); err != nil {
		return nil, fmt.Errorf("decoding gazetteer: %w", err)
	}
	return NewOnDeviceGeocoderFromPlaces(places, maxDistanceKm), nil
}

func NewOnDeviceGeocoderFromPlaces(places []Place, maxDistanceKm float64) *OnDeviceGeocoder {
	points := make([]s2.LatLng, len(places))
	for i, p := range places {
		points[i] = s2.LatLngFromDegrees(p.Lat, p.Lon)
	}
	return &OnDeviceGeocoder{places: places, points: points, maxDistanceKm: maxDistanceKm}
}

func (g *OnDeviceGeocoder) Name() string {
	return "ondevice"
}

// ReverseGeocode returns the nearest place within the distance limit as a
// locality + country result.
func (g *OnDeviceGeocoder) ReverseGeocode(ctx context.Context, coord model.Coordinate) ([]model.AddressResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.NewResolutionError(model.NetworkFailure, "on-device lookup cancelled", err)
	}

	here := s2.LatLngFromDegrees(coord.Latitude, coord.Longitude)
	best := -1
	bestKm := 0.0
	for i, p := range g.points {
		km := here.Distance(p).Radians() * earthRadiusKm
		if best < 0 || km < bestKm {
			best, bestKm = i, km
		}
	}
	if best < 0 || (g.maxDistanceKm > 0 && bestKm > g.maxDistanceKm) {
		return nil, nil
	}

	place := g.places[best]
	return []model.AddressResult{{
		Components: []model.AddressComponent{
			{LongName: place.Name, ShortName: place.Name, Types: []string{TypeLocality, "political"}},
			{LongName: place.Country, ShortName: place.Code, Types: []string{TypeCountry, "political"}},
		},
	}}, nil
}
