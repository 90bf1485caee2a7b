package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/zulvanavito/Plastira/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrConditionNotMet is returned by conditional writes whose precondition
// (current status, remaining stock, sufficient points) did not hold.
var ErrConditionNotMet = errors.New("repositories: write condition not met")

// ErrDuplicateKey is returned when a unique index rejects an insert.
var ErrDuplicateKey = errors.New("repositories: duplicate key")

// UserRepository defines the interface for user data operations.
// Lookups return mongo.ErrNoDocuments when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error)
	IncrementPoints(ctx context.Context, userID primitive.ObjectID, points int) error
	// DeductPoints subtracts points only if the balance covers them.
	DeductPoints(ctx context.Context, userID primitive.ObjectID, points int) error
	AddBadges(ctx context.Context, userID primitive.ObjectID, badges []string) error
	TopByPoints(ctx context.Context, role string, limit int) ([]*models.LeaderboardEntry, error)
}

// MitraRepository defines the interface for partner data operations
type MitraRepository interface {
	Create(ctx context.Context, mitra *models.Mitra) error
	FindByEmail(ctx context.Context, email string) (*models.Mitra, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Mitra, error)
}

// PickupTransition is the set of fields written when a pickup leaves Pending
type PickupTransition struct {
	Status        models.PickupStatus
	PointsAwarded int
	RejectionNote string
	VerifiedAt    *time.Time
}

// PickupRepository defines the interface for pickup data operations
type PickupRepository interface {
	Create(ctx context.Context, pickup *models.Pickup) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Pickup, error)
	FindAll(ctx context.Context) ([]*models.Pickup, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Pickup, error)
	FindByUserIDAndStatus(ctx context.Context, userID primitive.ObjectID, status models.PickupStatus) ([]*models.Pickup, error)
	// TransitionFromPending applies t only if the pickup is still Pending and
	// returns the updated document; ErrConditionNotMet otherwise.
	TransitionFromPending(ctx context.Context, id primitive.ObjectID, t PickupTransition) (*models.Pickup, error)
}

// VoucherRepository defines the interface for voucher data operations
type VoucherRepository interface {
	Create(ctx context.Context, voucher *models.Voucher) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Voucher, error)
	FindActive(ctx context.Context) ([]*models.Voucher, error)
	FindAll(ctx context.Context) ([]*models.Voucher, error)
	FindBySponsor(ctx context.Context, mitraID primitive.ObjectID) ([]*models.Voucher, error)
	Update(ctx context.Context, voucher *models.Voucher) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DecrementStock takes one unit only while stock is positive and the voucher is active.
	DecrementStock(ctx context.Context, id primitive.ObjectID) error
	IncrementStock(ctx context.Context, id primitive.ObjectID) error
}

// RedemptionRepository defines the interface for the append-only redemption ledger
type RedemptionRepository interface {
	Create(ctx context.Context, redemption *models.Redemption) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Redemption, error)
	FindByVoucherIDs(ctx context.Context, voucherIDs []primitive.ObjectID) ([]*models.Redemption, error)
}
