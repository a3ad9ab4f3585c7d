package model

// AddressComponent is a single tagged fragment of a geocoded address.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// HasType reports whether the component is tagged with t.
func (c AddressComponent) HasType(t string) bool {
	for _, typ := range c.Types {
		if typ == t {
			return true
		}
	}
	return false
}

// AddressResult is one candidate interpretation of a coordinate.
type AddressResult struct {
	Components []AddressComponent `json:"address_components"`
}

// LocationDecision is the outcome of resolving a coordinate. Empty fields
// mean "unresolved".
type LocationDecision struct {
	Place        string `json:"place"`
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
	LocationType string `json:"location_type"`
}

// Resolved reports whether both place and country are known.
func (d LocationDecision) Resolved() bool {
	return d.Place != "" && d.Country != ""
}

// StatusText is the text pushed to the messaging status.
func (d LocationDecision) StatusText() string {
	if d.Country == "" {
		return d.Place
	}
	return d.Place + ", " + d.Country
}
