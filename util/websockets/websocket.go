package websockets

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Time allowed to write a message to a client.
const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewWebSocketManager initializes a WebSocketManager
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
		stopped:    make(chan struct{}),
		writeWait:  writeWait,
	}
}

// Run owns client registration and fan-out until ctx is done.
func (manager *WebSocketManager) Run(ctx context.Context) {
	defer close(manager.stopped)
	for {
		select {
		case <-ctx.Done():
			manager.mu.Lock()
			for conn := range manager.clients {
				conn.Close()
				delete(manager.clients, conn)
			}
			manager.mu.Unlock()
			return

		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client.Conn] = client
			manager.mu.Unlock()
			log.Printf("[WS] client %s connected", client.ID)

		case conn := <-manager.unregister:
			manager.mu.Lock()
			if client, exists := manager.clients[conn]; exists {
				delete(manager.clients, conn)
				conn.Close()
				log.Printf("[WS] client %s disconnected", client.ID)
			}
			manager.mu.Unlock()

		case message := <-manager.broadcast:
			manager.mu.Lock()
			for _, client := range manager.clients {
				if err := manager.write(client.Conn, message); err != nil {
					log.Printf("[WS] dropping client %s: %v", client.ID, err)
					client.Conn.Close()
					delete(manager.clients, client.Conn)
				}
			}
			manager.mu.Unlock()
		}
	}
}

// Broadcast queues msg for every connected client. A full queue drops the message.
func (manager *WebSocketManager) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WS] marshal %s: %v", msg.Type, err)
		return
	}
	select {
	case manager.broadcast <- data:
	default:
		log.Printf("[WS] broadcast queue full, dropping %s", msg.Type)
	}
}

// write sends one text frame. A client that cannot take it within writeWait
// is treated as gone.
func (manager *WebSocketManager) write(conn *websocket.Conn, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(manager.writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// ClientCount returns the number of connected clients.
func (manager *WebSocketManager) ClientCount() int {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return len(manager.clients)
}

// HandleConnections upgrades HTTP requests to WebSocket connections.
// Incoming frames are read only to notice disconnects.
func (manager *WebSocketManager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[WS] upgrade error:", err)
		return
	}

	client := &Client{Conn: conn, ID: uuid.NewString()}

	if manager.Greeting != nil {
		if data, err := json.Marshal(manager.Greeting()); err == nil {
			if err := manager.write(conn, data); err != nil {
				conn.Close()
				return
			}
		}
	}

	select {
	case manager.register <- client:
	case <-manager.stopped:
		conn.Close()
		return
	}
	defer func() {
		select {
		case manager.unregister <- conn:
		case <-manager.stopped:
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
