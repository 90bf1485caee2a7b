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

// Compile-time check to ensure UserRepository implements the interface
var _ repositories.UserRepository = (*UserRepository)(nil)

// UserRepository handles MongoDB operations for User
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection(UsersCollection),
	}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.Badges == nil {
		user.Badges = []string{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrDuplicateKey
	}
	return err
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &user, nil
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &user, nil
}

// FindByIDs fetches all users whose ID is in ids; missing ids are skipped
func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error) {
	users := []*models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// IncrementPoints atomically increments the points for a user
func (r *UserRepository) IncrementPoints(ctx context.Context, userID primitive.ObjectID, pointsToAdd int) error {
	if pointsToAdd <= 0 {
		return errors.New("points to add must be positive")
	}
	filter := bson.M{"_id": userID}
	update := bson.M{"$inc": bson.M{"points": pointsToAdd}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeductPoints atomically subtracts points while the balance stays non-negative
func (r *UserRepository) DeductPoints(ctx context.Context, userID primitive.ObjectID, points int) error {
	if points <= 0 {
		return errors.New("points to deduct must be positive")
	}
	filter := bson.M{"_id": userID, "points": bson.M{"$gte": points}}
	update := bson.M{"$inc": bson.M{"points": -points}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrConditionNotMet
	}
	return nil
}

// AddBadges adds badges to the user's set; existing badges are left untouched
func (r *UserRepository) AddBadges(ctx context.Context, userID primitive.ObjectID, badges []string) error {
	if len(badges) == 0 {
		return nil
	}
	filter := bson.M{"_id": userID}
	update := bson.M{"$addToSet": bson.M{"badges": bson.M{"$each": badges}}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// TopByPoints returns the highest balances for a role
func (r *UserRepository) TopByPoints(ctx context.Context, role string, limit int) ([]*models.LeaderboardEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "points", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"name": 1, "points": 1})

	cursor, err := r.collection.Find(ctx, bson.M{"role": role}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []*models.LeaderboardEntry{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
