package notify

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/zulvanavito/Plastira/internal/models"
	"go.uber.org/zap"
)

var _ Registry = (*Hub)(nil)

// Hub is the in-process Registry
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]Session
	logger *zap.Logger
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[string]Session),
		logger: logger,
	}
}

// Register adds s to the room; registering twice is a no-op
func (h *Hub) Register(key string, s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[key]
	if !ok {
		room = make(map[string]Session)
		h.rooms[key] = room
	}
	room[s.ID()] = s
}

// Unregister removes s from the room and drops the room once empty
func (h *Hub) Unregister(key string, s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[key]
	if !ok {
		return
	}
	delete(room, s.ID())
	if len(room) == 0 {
		delete(h.rooms, key)
	}
}

// EmitToKey delivers n to every session in the room
func (h *Hub) EmitToKey(_ context.Context, key string, n models.Notification) {
	payload, ok := h.encode(n)
	if !ok {
		return
	}
	h.deliverKey(key, payload)
}

// Broadcast delivers n once to every registered session
func (h *Hub) Broadcast(_ context.Context, n models.Notification) {
	payload, ok := h.encode(n)
	if !ok {
		return
	}
	h.deliverAll(payload)
}

// Close is a no-op; sessions own their connections
func (h *Hub) Close() error { return nil }

// RoomSize reports the number of sessions in a room
func (h *Hub) RoomSize(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[key])
}

func (h *Hub) encode(n models.Notification) ([]byte, bool) {
	payload, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("Failed to encode notification", zap.String("event", n.Event), zap.Error(err))
		return nil, false
	}
	return payload, true
}

func (h *Hub) deliverKey(key string, payload []byte) {
	h.mu.RLock()
	targets := make([]Session, 0, len(h.rooms[key]))
	for _, s := range h.rooms[key] {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	h.send(targets, payload)
}

func (h *Hub) deliverAll(payload []byte) {
	h.mu.RLock()
	seen := make(map[string]struct{})
	targets := []Session{}
	for _, room := range h.rooms {
		for id, s := range room {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			targets = append(targets, s)
		}
	}
	h.mu.RUnlock()

	h.send(targets, payload)
}

func (h *Hub) send(targets []Session, payload []byte) {
	for _, s := range targets {
		if !s.Send(payload) {
			h.logger.Warn("Dropped notification for slow session", zap.String("session", s.ID()))
		}
	}
}
