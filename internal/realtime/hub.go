// Package realtime pushes log and recommendation change events to a user's
// open websocket connections.
package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event kinds.
const (
	EventFoodEntryAdded           = "food_entry_added"
	EventDailyLogUpdated          = "daily_log_updated"
	EventRecommendationsGenerated = "recommendations_generated"
)

const pingInterval = 25 * time.Second

type Event struct {
	Kind    string `json:"kind"`
	UserID  int    `json:"user_id"`
	Payload any    `json:"payload"`
}

// Client is one websocket connection. Writes are serialized because a
// gorilla connection supports only one concurrent writer.
type Client struct {
	UserID int
	conn   *websocket.Conn
	mu     sync.Mutex
}

func (c *Client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteMessage(messageType, data)
}

type Hub struct {
	mu       sync.RWMutex
	clients  map[int]map[*Client]struct{}
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int]map[*Client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes c and closes its connection. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}

// Connections reports how many sockets userID has open.
func (h *Hub) Connections(userID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Broadcast sends an event to every connection of userID. Delivery is best
// effort; a failed write drops that connection.
func (h *Hub) Broadcast(userID int, kind string, payload any) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(Event{Kind: kind, UserID: userID, Payload: payload})
	if err != nil {
		log.Printf("[realtime] marshal %s: %v", kind, err)
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(websocket.TextMessage, msg); err != nil {
			log.Printf("[realtime] write to user %d: %v", userID, err)
			h.Unregister(c)
		}
	}
}

// Serve upgrades the request and holds the connection until the client goes
// away. Inbound messages are read and discarded.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID int) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[realtime] upgrade: %v", err)
		return
	}
	c := &Client{UserID: userID, conn: conn}
	h.Register(c)

	done := make(chan struct{})
	defer close(done)

	go func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := c.write(websocket.PingMessage, nil); err != nil {
					h.Unregister(c)
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.Unregister(c)
			return
		}
	}
}
