package location

import (
	"strings"

	"github.com/bwise1/whereintheworld/internal/model"
)

// Match returns the first known location, in configured order, whose SSID
// equals ssid or whose postcode prefix starts postalCode. Empty inputs never
// match.
func Match(ssid, postalCode string, known []model.KnownLocation) (model.KnownLocation, bool) {
	for _, loc := range known {
		if ssid != "" && loc.HasSSID() && *loc.SSID == ssid {
			return loc, true
		}
		if postalCode != "" && loc.HasPostcodePrefix() && strings.HasPrefix(postalCode, *loc.PostcodePrefix) {
			return loc, true
		}
	}
	return model.KnownLocation{}, false
}

// MatchSSID matches only on the network name.
func MatchSSID(ssid string, known []model.KnownLocation) (model.KnownLocation, bool) {
	return Match(ssid, "", known)
}

// MatchPostcode matches only on the postcode prefix.
func MatchPostcode(postalCode string, known []model.KnownLocation) (model.KnownLocation, bool) {
	return Match("", postalCode, known)
}
