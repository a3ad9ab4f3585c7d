package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKnownLocationNormalize(t *testing.T) {
	loc := KnownLocation{Name: "Home", Type: LocationTypeHome, PostcodePrefix: StringPtr("201"), SSID: StringPtr("home-wifi")}
	loc.Normalize()
	assert.True(t, loc.HasPostcodePrefix())
	assert.False(t, loc.HasSSID())

	loc = KnownLocation{Name: "Office", Type: LocationTypeOffice, PostcodePrefix: StringPtr(""), SSID: StringPtr("corp")}
	loc.Normalize()
	assert.Nil(t, loc.PostcodePrefix)
	assert.True(t, loc.HasSSID())

	loc = KnownLocation{Name: "Gate", Type: LocationTypeAirport, SSID: StringPtr("")}
	loc.Normalize()
	assert.Nil(t, loc.SSID)
}

func TestResolutionErrorDisplayMessage(t *testing.T) {
	cases := map[ResolutionErrorKind]string{
		NetworkFailure:    "Error",
		BadResponse:       "Error while getting a response",
		ParseFailure:      "Error while parsing the response",
		BackendError:      "Error while getting address",
		NoResults:         "No results for location found",
		NoMeaningfulMatch: "Location unknown",
	}
	for kind, want := range cases {
		assert.Equal(t, want, NewResolutionError(kind, "", nil).DisplayMessage(), kind.String())
	}

	backend := NewResolutionError(BackendError, "REQUEST_DENIED", nil)
	assert.Equal(t, "REQUEST_DENIED", backend.DisplayMessage())

	cause := errors.New("dial tcp: timeout")
	wrapped := NewResolutionError(NetworkFailure, "request failed", cause)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "network_failure: request failed: dial tcp: timeout", wrapped.Error())
}

func TestExpirationLabels(t *testing.T) {
	for _, seconds := range PresetExpirations {
		assert.Equal(t, seconds, ExpirationFromLabel(ExpirationLabel(seconds)))
	}
	assert.Equal(t, "never", ExpirationLabel(61))
	assert.Equal(t, "1 hour", ManualStatusPreset{ExpirationSeconds: 3600}.ExpirationLabel())
	assert.Equal(t, 0, ExpirationFromLabel("fortnight"))
}

func TestExpirationEpoch(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	assert.Equal(t, int64(0), ExpirationEpoch(now, 0))
	assert.Equal(t, int64(1_700_000_900), ExpirationEpoch(now, 900))
}

func TestLocationDecisionStatusText(t *testing.T) {
	d := LocationDecision{Place: "Hamburg", Country: "Germany"}
	assert.True(t, d.Resolved())
	assert.Equal(t, "Hamburg, Germany", d.StatusText())

	d = LocationDecision{Place: "Office", LocationType: LocationTypeOffice}
	assert.False(t, d.Resolved())
	assert.Equal(t, "Office", d.StatusText())
}
