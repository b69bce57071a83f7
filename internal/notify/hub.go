// Package notify pushes badge-earned notifications to connected LPs
// over WebSocket.
package notify

import (
	"context"
	"log"
	"sync"

	"github.com/coder/websocket"
	"github.com/goccy/go-json"

	"lpstats/internal/events"
)

// BadgeMessage is the JSON structure sent to clients.
type BadgeMessage struct {
	Type        string `json:"t"`
	BadgeID     string `json:"id"`
	Name        string `json:"n"`
	Description string `json:"d,omitempty"`
	Category    string `json:"c,omitempty"`
}

// Client represents a single WebSocket connection in the hub.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// WritePump reads from the Send channel and writes to the WebSocket
// connection.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// Hub manages per-user notification connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[string][]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string][]*Client),
	}
}

// Register adds a client to the hub. A user may hold several
// connections (multiple tabs).
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.UserID] = append(h.clients[c.UserID], c)
}

// Unregister removes a client and closes its Send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.clients[c.UserID]
	for i, other := range conns {
		if other == c {
			close(c.Send)
			h.clients[c.UserID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.clients[c.UserID]) == 0 {
		delete(h.clients, c.UserID)
	}
}

// Notify sends a message to all of one user's connections. Non-blocking:
// drops if a client's channel is full.
func (h *Hub) Notify(userID string, msg BadgeMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[Notify] Marshal error: %v\n", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients[userID] {
		select {
		case c.Send <- data:
		default:
			// Drop message if channel full
		}
	}
}

// Run consumes badge events from the bus and forwards them to the
// earning user's connections. Blocks until the bus channel is closed.
func (h *Hub) Run(bus *events.Bus) {
	for ev := range bus.BadgeEarnings {
		h.Notify(ev.UserID, BadgeMessage{
			Type:        "badge",
			BadgeID:     ev.BadgeID,
			Name:        ev.Name,
			Description: ev.Description,
			Category:    ev.Category,
		})
	}
}
