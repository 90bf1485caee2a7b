package mongodb

import (
	"context"
	"time"

	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RedemptionRepository implements the repositories.RedemptionRepository interface
type RedemptionRepository struct {
	collection *mongo.Collection
}

// NewRedemptionRepository creates a new RedemptionRepository
func NewRedemptionRepository(db *mongo.Database) repositories.RedemptionRepository {
	return &RedemptionRepository{
		collection: db.Collection(RedemptionsCollection),
	}
}

// Create appends a redemption record
func (r *RedemptionRepository) Create(ctx context.Context, redemption *models.Redemption) error {
	if redemption.RedeemedAt.IsZero() {
		redemption.RedeemedAt = time.Now()
	}
	res, err := r.collection.InsertOne(ctx, redemption)
	if err != nil {
		return err
	}
	redemption.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByUserID returns a user's redemptions, newest first
func (r *RedemptionRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Redemption, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// FindByVoucherIDs returns every redemption of the given vouchers
func (r *RedemptionRepository) FindByVoucherIDs(ctx context.Context, voucherIDs []primitive.ObjectID) ([]*models.Redemption, error) {
	if len(voucherIDs) == 0 {
		return []*models.Redemption{}, nil
	}
	return r.find(ctx, bson.M{"voucherId": bson.M{"$in": voucherIDs}})
}

func (r *RedemptionRepository) find(ctx context.Context, filter bson.M) ([]*models.Redemption, error) {
	opts := options.Find().SetSort(bson.D{{Key: "redeemedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	redemptions := []*models.Redemption{}
	if err = cursor.All(ctx, &redemptions); err != nil {
		return nil, err
	}
	return redemptions, nil
}
