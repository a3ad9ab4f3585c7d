package preferences

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bwise1/whereintheworld/internal/model"
)

// Lists are persisted as JSON arrays. An empty stored value decodes to an empty list.

func EncodeKnownLocations(locations []model.KnownLocation) (string, error) {
	return encodeList(locations)
}

func DecodeKnownLocations(raw string) ([]model.KnownLocation, error) {
	return decodeList[model.KnownLocation](raw)
}

func EncodePresets(presets []model.ManualStatusPreset) (string, error) {
	return encodeList(presets)
}

func DecodePresets(raw string) ([]model.ManualStatusPreset, error) {
	return decodeList[model.ManualStatusPreset](raw)
}

func encodeList[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

func decodeList[T any](raw string) ([]T, error) {
	items := []T{}
	if strings.TrimSpace(raw) == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return items, nil
}
