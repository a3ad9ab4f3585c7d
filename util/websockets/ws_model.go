package websockets

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message types
const (
	MsgTypeSnapshot        = "snapshot"
	MsgTypeLocationChanged = "location_changed"
	MsgTypeTrackingToggled = "tracking_toggled"
)

// Client represents a connected UI subscriber
type Client struct {
	Conn *websocket.Conn
	ID   string
}

type WebSocketManager struct {
	clients    map[*websocket.Conn]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *websocket.Conn
	stopped    chan struct{}
	writeWait  time.Duration
	mu         sync.Mutex

	// Greeting, when set, is sent to every client right after it connects.
	Greeting func() Message
}

// Message is pushed to UI subscribers
type Message struct {
	Type      string    `json:"type"`
	Label     string    `json:"label,omitempty"`
	Active    bool      `json:"active"`
	Timestamp time.Time `json:"timestamp"`
}
