package model

// Location types a KnownLocation may carry.
const (
	LocationTypeHome    = "home"
	LocationTypeOffice  = "office"
	LocationTypeAirport = "airport"
	LocationTypeTrain   = "train"
	LocationTypeWework  = "wework"
	LocationTypeOther   = "other"
	LocationTypeCity    = "city"
)

// Coordinate is a single position fix handed over by the location source.
type Coordinate struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

type KnownLocation struct {
	ID             int     `json:"id"`
	Name           string  `json:"name" validate:"required,min=1,max=50"`
	Type           string  `json:"type" validate:"required,locationtype"`
	PostcodePrefix *string `json:"postcodePrefix,omitempty"`
	SSID           *string `json:"ssid,omitempty"`
}

// Normalize enforces that a known location has a single match key: a
// postcode prefix wins over an SSID when both are set.
func (k *KnownLocation) Normalize() {
	if k.PostcodePrefix != nil && *k.PostcodePrefix == "" {
		k.PostcodePrefix = nil
	}
	if k.SSID != nil && *k.SSID == "" {
		k.SSID = nil
	}
	if k.PostcodePrefix != nil && k.SSID != nil {
		k.SSID = nil
	}
}

// HasSSID reports whether the entry matches on a non-empty network name.
func (k KnownLocation) HasSSID() bool {
	return k.SSID != nil && *k.SSID != ""
}

// HasPostcodePrefix reports whether the entry matches on a non-empty postcode prefix.
func (k KnownLocation) HasPostcodePrefix() bool {
	return k.PostcodePrefix != nil && *k.PostcodePrefix != ""
}

type KnownLocationRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=50"`
	Type           string `json:"type" validate:"required,locationtype"`
	PostcodePrefix string `json:"postcodePrefix" validate:"max=16"`
	SSID           string `json:"ssid" validate:"max=64"`
}

// ToKnownLocation builds a KnownLocation carrying the given id.
func (r KnownLocationRequest) ToKnownLocation(id int) KnownLocation {
	loc := KnownLocation{
		ID:   id,
		Name: r.Name,
		Type: r.Type,
	}
	if r.PostcodePrefix != "" {
		loc.PostcodePrefix = StringPtr(r.PostcodePrefix)
	}
	if r.SSID != "" {
		loc.SSID = StringPtr(r.SSID)
	}
	return loc
}

// StringPtr returns a pointer to the given string.
func StringPtr(s string) *string {
	return &s
}
