// Package notify delivers push notifications to connected browser sessions.
package notify

import (
	"context"

	"github.com/zulvanavito/Plastira/internal/models"
)

// Room names shared by every registry implementation.
const (
	// AdminsRoom holds every administrator session
	AdminsRoom = "admins"
	// AllRoom holds every open session, joined or not
	AllRoom = "all"
)

// Session is one live connection able to receive encoded events.
type Session interface {
	ID() string
	// Send queues payload without blocking and reports whether it was accepted
	Send(payload []byte) bool
}

// Registry maps room keys to sessions and fans events out to them.
// Emits never block and never fail the caller; undeliverable events are dropped.
type Registry interface {
	Register(key string, s Session)
	Unregister(key string, s Session)
	EmitToKey(ctx context.Context, key string, n models.Notification)
	Broadcast(ctx context.Context, n models.Notification)
	Close() error
}
