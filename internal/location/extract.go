package location

import "github.com/bwise1/whereintheworld/internal/model"

// Component type tags used by the extraction passes.
const (
	TypeCountry       = "country"
	TypePostalCode    = "postal_code"
	TypeAirport       = "airport"
	TypeStore         = "store"
	TypePostalTown    = "postal_town"
	TypeLocality      = "locality"
	TypeAdminLevel3   = "administrative_area_level_3"
	countryUK         = "UK"
	countryUKLongName = "United Kingdom"
)

// pass is one priority level of the extraction heuristic. place reports the
// place name and location type a component yields, if any.
type pass struct {
	name        string
	place       func(c model.AddressComponent, known []model.KnownLocation) (string, string, bool)
	countryCode bool
}

func taggedPlace(tag, exclude, locationType string) func(model.AddressComponent, []model.KnownLocation) (string, string, bool) {
	return func(c model.AddressComponent, _ []model.KnownLocation) (string, string, bool) {
		if !c.HasType(tag) || (exclude != "" && c.HasType(exclude)) {
			return "", "", false
		}
		return c.LongName, locationType, true
	}
}

func knownPostcode(c model.AddressComponent, known []model.KnownLocation) (string, string, bool) {
	if !c.HasType(TypePostalCode) {
		return "", "", false
	}
	loc, ok := MatchPostcode(c.ShortName, known)
	if !ok {
		return "", "", false
	}
	return loc.Name, loc.Type, true
}

// passes in priority order.
var passes = []pass{
	{name: "known_location", place: knownPostcode},
	{name: "airport", place: taggedPlace(TypeAirport, TypeStore, model.LocationTypeAirport)},
	{name: "postal_town", place: taggedPlace(TypePostalTown, "", model.LocationTypeCity), countryCode: true},
	{name: "locality", place: taggedPlace(TypeLocality, "", model.LocationTypeCity), countryCode: true},
	{name: "administrative_area_level_3", place: taggedPlace(TypeAdminLevel3, "", model.LocationTypeCity), countryCode: true},
}

// PassNames lists the extraction passes in the order they run.
func PassNames() []string {
	names := make([]string, len(passes))
	for i, p := range passes {
		names[i] = p.name
	}
	return names
}

// Extract runs the extraction passes over results. A pass runs only while
// place or country is still empty, and only fills fields that are empty when
// it starts, so an earlier pass always beats a later one. Within a pass the
// first matching component in result order wins.
func Extract(results []model.AddressResult, known []model.KnownLocation) model.LocationDecision {
	var d model.LocationDecision
	for _, p := range passes {
		if d.Resolved() {
			break
		}
		needPlace := d.Place == ""
		needCountry := d.Country == ""
		needCode := p.countryCode && d.CountryCode == ""

		for _, result := range results {
			for _, c := range result.Components {
				if needPlace {
					if place, typ, ok := p.place(c, known); ok && place != "" {
						d.Place, d.LocationType = place, typ
						needPlace = false
					}
				}
				if c.HasType(TypeCountry) {
					if needCountry && c.LongName != "" {
						d.Country = c.LongName
						needCountry = false
					}
					if needCode && c.ShortName != "" {
						d.CountryCode = c.ShortName
						needCode = false
					}
				}
			}
		}
	}
	d.Country = NormalizeCountry(d.Country)
	return d
}

// NormalizeCountry shortens country names for display. It is idempotent.
func NormalizeCountry(country string) string {
	if country == countryUKLongName {
		return countryUK
	}
	return country
}
