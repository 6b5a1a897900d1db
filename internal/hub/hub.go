package hub

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event is the frame pushed to connected clients.
type Event struct {
	Event   string      `json:"event"`
	GameID  string      `json:"gameId,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// Client is the outbound queue of one connection. The websocket writer
// drains it.
type Client chan []byte

// Hub tracks the connections of every user. A user may hold several
// connections at once (e.g. two browser tabs).
type Hub struct {
	users map[string]map[Client]bool
	mu    sync.RWMutex
	log   *zap.Logger
}

// NewHub creates a new Hub.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		users: make(map[string]map[Client]bool),
		log:   log,
	}
}

// Subscribe registers client as one of userID's connections.
func (h *Hub) Subscribe(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[Client]bool)
	}
	h.users[userID][client] = true
}

// Unsubscribe removes client and closes it so the writer stops.
func (h *Hub) Unsubscribe(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.users[userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.users, userID)
			}
		}
	}
}

// Deliver sends event to every connection of each target user.
func (h *Hub) Deliver(targets []string, event Event) {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		h.log.Error("encode event", zap.String("event", event.Event), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, userID := range targets {
		for client := range h.users[userID] {
			// A full queue means the client is not keeping up; drop rather than block the game.
			select {
			case client <- messageBytes:
			default:
				h.log.Warn("client queue full, dropping event",
					zap.String("user_id", userID),
					zap.String("event", event.Event),
				)
			}
		}
	}
}

// Send delivers event to one of userID's connections, if it is still
// subscribed.
func (h *Hub) Send(userID string, client Client, event Event) {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		h.log.Error("encode event", zap.String("event", event.Event), zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.users[userID][client] {
		return
	}
	select {
	case client <- messageBytes:
	default:
		h.log.Warn("client queue full, dropping event",
			zap.String("user_id", userID),
			zap.String("event", event.Event),
		)
	}
}

// Online reports whether userID has at least one connection.
func (h *Hub) Online(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID]) > 0
}
