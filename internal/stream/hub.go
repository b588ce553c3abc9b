// Package stream pushes live bus locations to connected dashboard
// clients over WebSocket, as a complement to GET /api/location/latest
// polling.
package stream

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"slgps/internal/models"
)

// Frame is the wire format for messages sent over the WebSocket.
type Frame struct {
	Type    string          `json:"type"` // location, heartbeat
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub manages active dashboard WebSocket connections.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*wsConn]struct{}
}

// wsConn wraps a WebSocket connection with its write lock.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewHub creates a ready-to-use hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns: make(map[*wsConn]struct{}),
	}
}

// HandleConnection is the HTTP handler that upgrades to WebSocket and
// keeps the connection registered until the client goes away.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}

	wc := &wsConn{conn: conn}
	h.mu.Lock()
	h.conns[wc] = struct{}{}
	count := len(h.conns)
	h.mu.Unlock()
	log.Printf("[WS] Client connected (%d active)", count)

	go h.heartbeat(wc)

	// Read loop exists only to detect close; clients never send.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(wc)
}

// BroadcastLocation pushes one fix to every connected client.
func (h *Hub) BroadcastLocation(loc models.LiveLocation) {
	payload, err := json.Marshal(loc)
	if err != nil {
		return
	}
	frame := Frame{Type: "location", Payload: payload}

	h.mu.Lock()
	conns := make([]*wsConn, 0, len(h.conns))
	for wc := range h.conns {
		conns = append(conns, wc)
	}
	h.mu.Unlock()

	for _, wc := range conns {
		if err := wc.writeJSON(frame); err != nil {
			h.drop(wc)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) heartbeat(wc *wsConn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		if err := wc.writeJSON(Frame{Type: "heartbeat"}); err != nil {
			h.drop(wc)
			return
		}
	}
}

func (h *Hub) drop(wc *wsConn) {
	h.mu.Lock()
	_, present := h.conns[wc]
	delete(h.conns, wc)
	h.mu.Unlock()
	if present {
		wc.conn.Close()
		log.Printf("[WS] Client disconnected (%d active)", h.ClientCount())
	}
}

func (wc *wsConn) writeJSON(v interface{}) error {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return wc.conn.WriteJSON(v)
}
