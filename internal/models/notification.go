package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event names pushed over the notification channel.
const (
	EventNewPickupRequest   = "new-pickup-request"
	EventPickupStatusUpdate = "pickup-status-update"
	EventBadgeAwarded       = "badge-awarded"
	EventVoucherCreated     = "voucher-created"
	EventJoinRoom           = "join-room"
	EventJoined             = "joined"
	EventError              = "error"
)

// Notification is a single message on the push channel: {"event": ..., "data": ...}
type Notification struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// NewPickupPayload is broadcast to administrators when a pickup is submitted
type NewPickupPayload struct {
	Message   string             `json:"message"`
	PickupID  primitive.ObjectID `json:"pickupId"`
	CreatedAt time.Time          `json:"createdAt"`
}

// PickupStatusPayload is sent to the pickup owner after an admin decision
type PickupStatusPayload struct {
	Message  string             `json:"message"`
	PickupID primitive.ObjectID `json:"pickupId"`
	Status   PickupStatus       `json:"status"`
	Points   int                `json:"points,omitempty"`
	Reason   string             `json:"reason,omitempty"`
}

// BadgeAwardedPayload lists badges earned in one evaluation
type BadgeAwardedPayload struct {
	Badges []string `json:"badges"`
}

// VoucherCreatedPayload announces a newly published voucher
type VoucherCreatedPayload struct {
	Message   string             `json:"message"`
	VoucherID primitive.ObjectID `json:"voucherId"`
}
