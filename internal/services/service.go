package services

import (
	"context"
	"io"
	"time"

	"github.com/zulvanavito/Plastira/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventPublisher pushes notifications to connected sessions. Delivery is
// best effort and never blocks the caller.
type EventPublisher interface {
	EmitToUser(ctx context.Context, userID string, n models.Notification)
	BroadcastToAdmins(ctx context.Context, n models.Notification)
	Announce(ctx context.Context, n models.Notification)
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error)
	RegisterMitra(ctx context.Context, req *models.MitraRegisterRequest) (*models.Mitra, error)
	LoginMitra(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error)

	// EnsureAdmin creates the configured administrator if it does not exist yet
	EnsureAdmin(ctx context.Context, name, email, password string) (created bool, err error)

	// Authenticate decodes a bearer token into the calling principal
	Authenticate(token string) (*models.Principal, error)
}

// UserService defines the interface for user-related operations
type UserService interface {
	Me(ctx context.Context, principal models.Principal) (*models.Profile, error)
	Leaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error)
}

// PickupFilter narrows the admin pickup list; an empty Status means all
type PickupFilter struct {
	Status models.PickupStatus
}

// PickupService drives the pickup lifecycle Pending -> Verified | Rejected
type PickupService interface {
	Submit(ctx context.Context, principal models.Principal, req *models.CreatePickupRequest) (*models.Pickup, error)
	Verify(ctx context.Context, principal models.Principal, pickupID string) (*models.Pickup, error)
	Reject(ctx context.Context, principal models.Principal, pickupID, note string) (*models.Pickup, error)
	ListForAdmin(ctx context.Context, principal models.Principal, filter PickupFilter) (*models.AdminPickupList, error)
	ListForUser(ctx context.Context, principal models.Principal) ([]*models.Pickup, error)
	ExportCSV(ctx context.Context, principal models.Principal, w io.Writer) error
}

// BadgeService evaluates and persists achievement badges
type BadgeService interface {
	// Evaluate returns the badges user has earned but does not hold yet.
	// pickups are expected to be the user's verified pickups.
	Evaluate(user *models.User, pickups []*models.Pickup, now time.Time) []string

	// AwardBadges loads the user's state, evaluates it and persists any new badges
	AwardBadges(ctx context.Context, userID primitive.ObjectID) ([]string, error)
}

// RedemptionService exchanges points for vouchers
type RedemptionService interface {
	Redeem(ctx context.Context, principal models.Principal, voucherID string) (*models.Redemption, error)
	ListForUser(ctx context.Context, principal models.Principal) ([]*models.Redemption, error)
}

// VoucherService manages the voucher catalogue
type VoucherService interface {
	ListActive(ctx context.Context) ([]*models.VoucherView, error)
	ListAll(ctx context.Context) ([]*models.Voucher, error)
	Create(ctx context.Context, req *models.CreateVoucherRequest) (*models.Voucher, error)
	Update(ctx context.Context, req *models.UpdateVoucherRequest) (*models.Voucher, error)
	Delete(ctx context.Context, voucherID string) error
}

// PartnerService builds the sponsor-facing dashboard
type PartnerService interface {
	Dashboard(ctx context.Context, principal models.Principal) (*models.MitraDashboard, error)
}
