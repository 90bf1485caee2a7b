package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PickupRepository implements the repositories.PickupRepository interface
type PickupRepository struct {
	collection *mongo.Collection
}

// NewPickupRepository creates a new PickupRepository
func NewPickupRepository(db *mongo.Database) repositories.PickupRepository {
	return &PickupRepository{
		collection: db.Collection(PickupsCollection),
	}
}

// Create inserts a new pickup request
func (r *PickupRepository) Create(ctx context.Context, pickup *models.Pickup) error {
	if pickup.CreatedAt.IsZero() {
		pickup.CreatedAt = time.Now()
	}
	res, err := r.collection.InsertOne(ctx, pickup)
	if err != nil {
		return err
	}
	pickup.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a pickup by ID
func (r *PickupRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Pickup, error) {
	var pickup models.Pickup
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pickup)
	if err != nil {
		return nil, err // Returns mongo.ErrNoDocuments if not found
	}
	return &pickup, nil
}

// FindAll returns every pickup, newest first
func (r *PickupRepository) FindAll(ctx context.Context) ([]*models.Pickup, error) {
	return r.find(ctx, bson.M{})
}

// FindByUserID returns a user's pickups, newest first
func (r *PickupRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Pickup, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// FindByUserIDAndStatus returns a user's pickups in the given state, newest first
func (r *PickupRepository) FindByUserIDAndStatus(ctx context.Context, userID primitive.ObjectID, status models.PickupStatus) ([]*models.Pickup, error) {
	return r.find(ctx, bson.M{"userId": userID, "status": status})
}

func (r *PickupRepository) find(ctx context.Context, filter bson.M) ([]*models.Pickup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	pickups := []*models.Pickup{}
	if err = cursor.All(ctx, &pickups); err != nil {
		return nil, err
	}
	return pickups, nil
}

// transitionSet builds the $set document; a rejection always stores its note, even empty
func transitionSet(t repositories.PickupTransition) bson.M {
	set := bson.M{
		"status":        t.Status,
		"pointsAwarded": t.PointsAwarded,
	}
	if t.Status == models.PickupStatusRejected || t.RejectionNote != "" {
		set["rejectionNote"] = t.RejectionNote
	}
	if t.VerifiedAt != nil {
		set["verifiedAt"] = *t.VerifiedAt
	}
	return set
}

// TransitionFromPending moves a pickup out of Pending in a single conditional write.
// Two admins racing on the same pickup cannot both succeed.
func (r *PickupRepository) TransitionFromPending(ctx context.Context, id primitive.ObjectID, t repositories.PickupTransition) (*models.Pickup, error) {
	set := transitionSet(t)
	filter := bson.M{"_id": id, "status": models.PickupStatusPending}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Pickup
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrConditionNotMet
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
