// Package ws pushes progression events to connected clients so the UI can
// show level-ups and unlocks without polling.
package ws

import (
	"encoding/json"
	"sync"

	"focusflow/internal/logger"
)

// Notification is one outbound push message.
type Notification struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

const (
	TypeRewardUnlocked = "reward_unlocked"
	TypeLevelUp        = "level_up"
	TypeCommission     = "commission_earned"
	TypeSubscription   = "subscription_changed"
)

// Hub tracks connected clients per user. A user may hold several
// connections (multiple tabs or devices).
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[c.userID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
}

// Notify sends a notification to every connection of the user. Slow
// clients with a full send buffer are skipped, not blocked on.
func (h *Hub) Notify(userID int64, n Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		logger.Error("ws: marshal notification", "type", n.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- data:
		default:
			logger.Warn("ws: dropping notification, send buffer full", "user_id", userID, "type", n.Type)
		}
	}
}

// Connected reports how many connections the user currently has.
func (h *Hub) Connected(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
