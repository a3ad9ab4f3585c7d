package preferences

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/bwise1/whereintheworld/internal/model"
	"github.com/bwise1/whereintheworld/util"
)

const (
	KeyGoogleAPIKey     = "googleApiKey"
	KeySlackAPIKey      = "slackApiKey"
	KeyUseOpenStreetMap = "useOpenStreetMap"
	KeyKnownLocations   = "knownLocations"
	KeyStatusItems      = "slackStatusItems"
)

var ErrNotFound = errors.New("not found")

// KV is the persistence seam. Implementations live in internal/db and MemoryKV.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

type APIKeys struct {
	Google           string `json:"googleApiKey"`
	Slack            string `json:"slackApiKey"`
	UseOpenStreetMap bool   `json:"useOpenStreetMap"`
}

// Store is the single entry point for reading and writing preferences.
// Read-modify-write operations are serialized.
type Store struct {
	kv KV
	mu sync.Mutex
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

func (s *Store) Close() error {
	return s.kv.Close()
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	v, _, err := s.kv.Get(ctx, key)
	return v, err
}

// --- Known locations ---

func (s *Store) GetKnownLocations(ctx context.Context) ([]model.KnownLocation, error) {
	raw, err := s.get(ctx, KeyKnownLocations)
	if err != nil {
		return nil, err
	}
	return DecodeKnownLocations(raw)
}

// SaveKnownLocation inserts (ID 0) or replaces the entry with the same id.
func (s *Store) SaveKnownLocation(ctx context.Context, loc model.KnownLocation) (model.KnownLocation, error) {
	loc.Normalize()
	if err := util.ValidateStruct(loc); err != nil {
		return model.KnownLocation{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	locations, err := s.GetKnownLocations(ctx)
	if err != nil {
		return model.KnownLocation{}, err
	}

	locations, loc, err = upsert(locations, loc,
		func(l model.KnownLocation) int { return l.ID },
		func(l *model.KnownLocation, id int) { l.ID = id })
	if err != nil {
		return model.KnownLocation{}, err
	}

	raw, err := EncodeKnownLocations(locations)
	if err != nil {
		return model.KnownLocation{}, err
	}
	if err := s.kv.Set(ctx, KeyKnownLocations, raw); err != nil {
		return model.KnownLocation{}, err
	}
	return loc, nil
}

func (s *Store) DeleteKnownLocation(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	locations, err := s.GetKnownLocations(ctx)
	if err != nil {
		return err
	}
	locations, err = remove(locations, id, func(l model.KnownLocation) int { return l.ID })
	if err != nil {
		return err
	}
	raw, err := EncodeKnownLocations(locations)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyKnownLocations, raw)
}

// --- Manual status presets ---

func (s *Store) GetManualPresets(ctx context.Context) ([]model.ManualStatusPreset, error) {
	raw, err := s.get(ctx, KeyStatusItems)
	if err != nil {
		return nil, err
	}
	return DecodePresets(raw)
}

func (s *Store) GetManualPreset(ctx context.Context, id int) (model.ManualStatusPreset, error) {
	presets, err := s.GetManualPresets(ctx)
	if err != nil {
		return model.ManualStatusPreset{}, err
	}
	for _, p := range presets {
		if p.ID == id {
			return p, nil
		}
	}
	return model.ManualStatusPreset{}, fmt.Errorf("preset %d: %w", id, ErrNotFound)
}

func (s *Store) SaveManualPreset(ctx context.Context, preset model.ManualStatusPreset) (model.ManualStatusPreset, error) {
	if err := util.ValidateStruct(preset); err != nil {
		return model.ManualStatusPreset{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	presets, err := s.GetManualPresets(ctx)
	if err != nil {
		return model.ManualStatusPreset{}, err
	}
	presets, preset, err = upsert(presets, preset,
		func(p model.ManualStatusPreset) int { return p.ID },
		func(p *model.ManualStatusPreset, id int) { p.ID = id })
	if err != nil {
		return model.ManualStatusPreset{}, err
	}

	raw, err := EncodePresets(presets)
	if err != nil {
		return model.ManualStatusPreset{}, err
	}
	if err := s.kv.Set(ctx, KeyStatusItems, raw); err != nil {
		return model.ManualStatusPreset{}, err
	}
	return preset, nil
}

func (s *Store) DeleteManualPreset(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	presets, err := s.GetManualPresets(ctx)
	if err != nil {
		return err
	}
	presets, err = remove(presets, id, func(p model.ManualStatusPreset) int { return p.ID })
	if err != nil {
		return err
	}
	raw, err := EncodePresets(presets)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyStatusItems, raw)
}

// --- API keys ---

func (s *Store) GetAPIKeys(ctx context.Context) (APIKeys, error) {
	var keys APIKeys
	var err error
	if keys.Google, err = s.get(ctx, KeyGoogleAPIKey); err != nil {
		return APIKeys{}, err
	}
	if keys.Slack, err = s.get(ctx, KeySlackAPIKey); err != nil {
		return APIKeys{}, err
	}
	osm, err := s.get(ctx, KeyUseOpenStreetMap)
	if err != nil {
		return APIKeys{}, err
	}
	keys.UseOpenStreetMap, _ = strconv.ParseBool(osm)
	return keys, nil
}

// UpdateSecrets writes the fields present in req and returns the resulting keys.
func (s *Store) UpdateSecrets(ctx context.Context, req model.SecretsRequest) (APIKeys, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.GoogleAPIKey != nil {
		if err := s.kv.Set(ctx, KeyGoogleAPIKey, *req.GoogleAPIKey); err != nil {
			return APIKeys{}, err
		}
	}
	if req.SlackAPIKey != nil {
		if err := s.kv.Set(ctx, KeySlackAPIKey, *req.SlackAPIKey); err != nil {
			return APIKeys{}, err
		}
	}
	if req.UseOpenStreetMap != nil {
		if err := s.kv.Set(ctx, KeyUseOpenStreetMap, strconv.FormatBool(*req.UseOpenStreetMap)); err != nil {
			return APIKeys{}, err
		}
	}
	return s.GetAPIKeys(ctx)
}

// upsert replaces the item with the same id, or appends it with max+1 when
// its id is 0. A non-zero id that does not exist is ErrNotFound.
func upsert[T any](items []T, item T, idOf func(T) int, setID func(*T, int)) ([]T, T, error) {
	id := idOf(item)
	if id == 0 {
		maxID := 0
		for _, existing := range items {
			if idOf(existing) > maxID {
				maxID = idOf(existing)
			}
		}
		setID(&item, maxID+1)
		return append(items, item), item, nil
	}

	for i, existing := range items {
		if idOf(existing) == id {
			items[i] = item
			return items, item, nil
		}
	}
	var zero T
	return nil, zero, fmt.Errorf("id %d: %w", id, ErrNotFound)
}

func remove[T any](items []T, id int, idOf func(T) int) ([]T, error) {
	for i, existing := range items {
		if idOf(existing) == id {
			return append(items[:i:i], items[i+1:]...), nil
		}
	}
	return nil, fmt.Errorf("id %d: %w", id, ErrNotFound)
}
