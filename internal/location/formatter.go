package location

import (
	"strings"

	"github.com/bwise1/whereintheworld/internal/model"
)

const (
	EmojiAirplane    = ":airplane:"
	EmojiHouse       = ":house:"
	EmojiTrain       = ":steam_locomotive:"
	EmojiOffice      = ":office:"
	EmojiWework      = ":wework:"
	EmojiEarthAfrica = ":earth_africa:"
)

// Format renders a decision into the display label and the status emoji code.
func Format(d model.LocationDecision) (string, string) {
	return Label(d), Emoji(d)
}

// Label builds the decorated display string.
func Label(d model.LocationDecision) string {
	switch d.LocationType {
	case model.LocationTypeAirport:
		return "✈️ " + withCountry(d)
	case model.LocationTypeTrain:
		return "🚄 " + d.Place
	case model.LocationTypeHome:
		return "🏠 " + withCountry(d)
	case model.LocationTypeOffice, model.LocationTypeWework:
		return "🏢 " + withCountry(d)
	default:
		return withCountry(d)
	}
}

// Emoji picks the status emoji for a decision.
func Emoji(d model.LocationDecision) string {
	switch d.LocationType {
	case model.LocationTypeAirport:
		return EmojiAirplane
	case model.LocationTypeHome:
		return EmojiHouse
	case model.LocationTypeTrain:
		return EmojiTrain
	case model.LocationTypeOffice:
		return EmojiOffice
	case model.LocationTypeWework:
		return EmojiWework
	}
	if d.CountryCode != "" {
		return ":flag-" + strings.ToLower(d.CountryCode) + ":"
	}
	return EmojiEarthAfrica
}

// a known location matched by SSID has no country, so the separator is dropped.
func withCountry(d model.LocationDecision) string {
	if d.Country == "" {
		return d.Place
	}
	return d.Place + ", " + d.Country
}
