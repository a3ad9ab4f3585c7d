package model

import "time"

// Allowed preset expirations in seconds. Zero never expires.
var PresetExpirations = []int{0, 900, 1800, 3600, 7200, 14400, 28800}

var expirationLabels = map[int]string{
	0:     "never",
	900:   "15 minutes",
	1800:  "30 minutes",
	3600:  "1 hour",
	7200:  "2 hours",
	14400: "4 hours",
	28800: "8 hours",
}

type ManualStatusPreset struct {
	ID                int    `json:"id"`
	Title             string `json:"title" validate:"required,min=1,max=50"`
	KeyEquivalent     string `json:"keyEquivalent" validate:"max=1"`
	StatusText        string `json:"slackStatusText" validate:"max=100"`
	Emoji             string `json:"slackEmoji" validate:"max=100"`
	ExpirationSeconds int    `json:"slackExpiration" validate:"expiration"`
}

// ExpirationLabel returns the human label for the preset's expiration.
func (p ManualStatusPreset) ExpirationLabel() string {
	return ExpirationLabel(p.ExpirationSeconds)
}

// ExpirationLabel maps an expiration in seconds to its label; unknown values read as "never".
func ExpirationLabel(seconds int) string {
	if label, ok := expirationLabels[seconds]; ok {
		return label
	}
	return expirationLabels[0]
}

// ExpirationFromLabel is the inverse of ExpirationLabel.
func ExpirationFromLabel(label string) int {
	for seconds, l := range expirationLabels {
		if l == label {
			return seconds
		}
	}
	return 0
}

// RemoteStatus mirrors the messaging service's status fields.
type RemoteStatus struct {
	Text            string `json:"status_text"`
	Emoji           string `json:"status_emoji"`
	ExpirationEpoch int64  `json:"status_expiration"`
}

// ExpirationEpoch converts a relative expiration into an absolute epoch, 0 meaning no expiry.
func ExpirationEpoch(now time.Time, expirationSeconds int) int64 {
	if expirationSeconds == 0 {
		return 0
	}
	return now.Unix() + int64(expirationSeconds)
}

type PresetRequest struct {
	Title             string `json:"title" validate:"required,min=1,max=50"`
	KeyEquivalent     string `json:"keyEquivalent" validate:"max=1"`
	StatusText        string `json:"slackStatusText" validate:"max=100"`
	Emoji             string `json:"slackEmoji" validate:"max=100"`
	ExpirationSeconds int    `json:"slackExpiration" validate:"expiration"`
}

// ToPreset builds a ManualStatusPreset carrying the given id.
func (r PresetRequest) ToPreset(id int) ManualStatusPreset {
	return ManualStatusPreset{
		ID:                id,
		Title:             r.Title,
		KeyEquivalent:     r.KeyEquivalent,
		StatusText:        r.StatusText,
		Emoji:             r.Emoji,
		ExpirationSeconds: r.ExpirationSeconds,
	}
}

type TrackingRequest struct {
	Active bool `json:"active"`
}

type SecretsRequest struct {
	GoogleAPIKey     *string `json:"googleApiKey"`
	SlackAPIKey      *string `json:"slackApiKey"`
	UseOpenStreetMap *bool   `json:"useOpenStreetMap"`
}
