package notify

import (
	"context"

	"github.com/zulvanavito/Plastira/internal/models"
)

// Notifier addresses events by audience on top of a Registry.
// A user's room key is their id, so every tab they have open receives the event.
type Notifier struct {
	registry Registry
}

// NewNotifier creates a Notifier
func NewNotifier(registry Registry) *Notifier {
	return &Notifier{registry: registry}
}

// EmitToUser sends n to every session joined to the user's room
func (n *Notifier) EmitToUser(ctx context.Context, userID string, note models.Notification) {
	n.registry.EmitToKey(ctx, userID, note)
}

// BroadcastToAdmins sends n to every administrator session
func (n *Notifier) BroadcastToAdmins(ctx context.Context, note models.Notification) {
	n.registry.EmitToKey(ctx, AdminsRoom, note)
}

// Announce sends n to every connected session
func (n *Notifier) Announce(ctx context.Context, note models.Notification) {
	n.registry.Broadcast(ctx, note)
}
