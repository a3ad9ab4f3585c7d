package tracker

import "fmt"

// State of the tracker's Wi-Fi match.
type State int

const (
	Idle State = iota
	WifiKnown
	WifiUnknown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case WifiKnown:
		return "wifi_known"
	case WifiUnknown:
		return "wifi_unknown"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type EventKind int

const (
	LocationChanged EventKind = iota + 1
	DesiredStatus
	TrackingToggled
)

func (k EventKind) String() string {
	switch k {
	case LocationChanged:
		return "location_changed"
	case DesiredStatus:
		return "desired_status"
	case TrackingToggled:
		return "tracking_toggled"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is emitted on the tracker's single subscriber channel. Which fields
// are set depends on Kind.
type Event struct {
	Kind EventKind

	// LocationChanged
	Label string
	Err   error

	// DesiredStatus
	Text       string
	Emoji      string
	Expiration int

	// TrackingToggled
	Active bool
}

func locationChanged(label string, err error) Event {
	return Event{Kind: LocationChanged, Label: label, Err: err}
}

func desiredStatus(text, emoji string) Event {
	return Event{Kind: DesiredStatus, Text: text, Emoji: emoji}
}

func trackingToggled(active bool) Event {
	return Event{Kind: TrackingToggled, Active: active}
}
