package display

import (
	"sync"
	"time"

	"github.com/bwise1/whereintheworld/util/websockets"
)

const LoadingLabel = "Loading..."

type Broadcaster interface {
	Broadcast(msg websockets.Message)
}

// Display holds what the UI shows and pushes every change to subscribers.
type Display struct {
	hub Broadcaster
	now func() time.Time

	mu      sync.RWMutex
	label   string
	active  bool
	updated time.Time
}

func New(hub Broadcaster) *Display {
	return &Display{
		hub:     hub,
		now:     time.Now,
		label:   LoadingLabel,
		active:  true,
		updated: time.Now(),
	}
}

// SetLabel stores the most recent location label or error string.
func (d *Display) SetLabel(label string) {
	d.mu.Lock()
	d.label = label
	d.updated = d.now()
	msg := d.messageLocked(websockets.MsgTypeLocationChanged)
	d.mu.Unlock()

	d.hub.Broadcast(msg)
}

func (d *Display) SetActive(active bool) {
	d.mu.Lock()
	d.active = active
	d.updated = d.now()
	msg := d.messageLocked(websockets.MsgTypeTrackingToggled)
	d.mu.Unlock()

	d.hub.Broadcast(msg)
}

func (d *Display) Label() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.label
}

// Snapshot is the greeting sent to new subscribers.
func (d *Display) Snapshot() websockets.Message {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.messageLocked(websockets.MsgTypeSnapshot)
}

func (d *Display) messageLocked(msgType string) websockets.Message {
	return websockets.Message{
		Type:      msgType,
		Label:     d.label,
		Active:    d.active,
		Timestamp: d.updated,
	}
}
