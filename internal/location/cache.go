package location

import (
	"context"
	"fmt"
	"log"

	"github.com/bwise1/whereintheworld/internal/model"
	"github.com/golang/geo/s2"
)

// ResultCache stores raw backend results so that known location edits still
// apply to cached coordinates.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]model.AddressResult, bool, error)
	Set(ctx context.Context, key string, results []model.AddressResult) error
}

// CachedBackend serves results for coordinates in the same s2 cell from cache.
// Cache failures fall through to the wrapped backend.
type CachedBackend struct {
	backend Backend
	cache   ResultCache
	level   int
}

func NewCachedBackend(backend Backend, cache ResultCache, level int) *CachedBackend {
	if level <= 0 || level > 30 {
		level = 13
	}
	return &CachedBackend{backend: backend, cache: cache, level: level}
}

func (c *CachedBackend) Name() string {
	return c.backend.Name()
}

func (c *CachedBackend) ReverseGeocode(ctx context.Context, coord model.Coordinate) ([]model.AddressResult, error) {
	key := CellKey(c.backend.Name(), coord, c.level)

	results, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Printf("[Cache] lookup %s failed: %v", key, err)
	} else if ok {
		return results, nil
	}

	results, err = c.backend.ReverseGeocode(ctx, coord)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		if err := c.cache.Set(ctx, key, results); err != nil {
			log.Printf("[Cache] store %s failed: %v", key, err)
		}
	}
	return results, nil
}

// CellKey is the cache key for the s2 cell containing coord at level.
func CellKey(backend string, coord model.Coordinate, level int) string {
	cell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(coord.Latitude, coord.Longitude)).Parent(level)
	return fmt.Sprintf("geocode:%s:%s", backend, cell.ToToken())
}
