package location

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/bwise1/whereintheworld/internal/model"
)

// Backend turns a coordinate into candidate address results. Implementations
// report failures as *model.ResolutionError.
type Backend interface {
	Name() string
	ReverseGeocode(ctx context.Context, coord model.Coordinate) ([]model.AddressResult, error)
}

// Resolver runs a backend and the extraction passes. It does not retry.
type Resolver struct {
	mu      sync.RWMutex
	backend Backend
}

func NewResolver(backend Backend) *Resolver {
	return &Resolver{backend: backend}
}

// SetBackend swaps the geocoding backend used by later calls.
func (r *Resolver) SetBackend(backend Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backend != nil {
		log.Printf("[Resolver] switching backend %s -> %s", r.backend.Name(), backend.Name())
	}
	r.backend = backend
}

func (r *Resolver) Backend() Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.backend
}

// Resolve reverse geocodes coord and extracts a decision, matching postcodes
// against known.
func (r *Resolver) Resolve(ctx context.Context, coord model.Coordinate, known []model.KnownLocation) (model.LocationDecision, error) {
	backend := r.Backend()

	results, err := backend.ReverseGeocode(ctx, coord)
	if err != nil {
		var resErr *model.ResolutionError
		if errors.As(err, &resErr) {
			return model.LocationDecision{}, resErr
		}
		return model.LocationDecision{}, model.NewResolutionError(model.NetworkFailure, backend.Name(), err)
	}
	if len(results) == 0 {
		return model.LocationDecision{}, model.NewResolutionError(model.NoResults, "", nil)
	}

	decision := Extract(results, known)
	if !decision.Resolved() {
		return decision, model.NewResolutionError(model.NoMeaningfulMatch, "", nil)
	}
	return decision, nil
}
