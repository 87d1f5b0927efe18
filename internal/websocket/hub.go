package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/dukerupert/smartfood/internal/metrics"
)

// Entity names used in change messages. They match the REST collection
// paths.
const (
	EntityGroceryItems  = "grocery-items"
	EntityFridgeItems   = "fridge-items"
	EntityDishes        = "dishes"
	EntityMealPlans     = "meal-plans"
	EntityFamilyMembers = "family-members"
	EntityPurchases     = "purchase-history"
)

const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionCompleted = "completed"
)

// Message tells clients that an entity collection changed and should be
// refetched. It carries no entity state.
type Message struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     int64  `json:"id,omitempty"`
}

// Hub maintains the set of active WebSocket clients and broadcasts messages.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewHub creates a new Hub. m may be nil.
func NewHub(logger *slog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
		metrics: m,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.ClientConnected()
	}
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	if ok && h.metrics != nil {
		h.metrics.ClientDisconnected()
	}
}

// Broadcast sends msg to every client subscribed to its entity. A client
// whose buffer is full misses the message.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if !c.Wants(msg.Entity) {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.logger.Warn("client buffer full, dropping change", "entity", msg.Entity, "action", msg.Action)
		}
	}
}

// Notify is shorthand for Broadcast(Message{entity, action, id}).
func (h *Hub) Notify(entity, action string, id int64) {
	h.Broadcast(Message{Entity: entity, Action: action, ID: id})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
