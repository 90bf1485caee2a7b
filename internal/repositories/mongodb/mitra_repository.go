package mongodb

import (
	"context"
	"time"

	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Ensure mitraRepository implements repositories.MitraRepository
var _ repositories.MitraRepository = (*mitraRepository)(nil)

type mitraRepository struct {
	collection *mongo.Collection
}

// NewMitraRepository creates a new repository for partner accounts
func NewMitraRepository(db *mongo.Database) repositories.MitraRepository {
	return &mitraRepository{
		collection: db.Collection(MitrasCollection), // partners live apart from users
	}
}

// Create inserts a new partner into the database
func (r *mitraRepository) Create(ctx context.Context, mitra *models.Mitra) error {
	mitra.ID = primitive.NewObjectID()
	mitra.Role = models.RoleMitra
	if mitra.CreatedAt.IsZero() {
		mitra.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, mitra)
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrDuplicateKey
	}
	return err
}

// FindByEmail finds a partner by email address
func (r *mitraRepository) FindByEmail(ctx context.Context, email string) (*models.Mitra, error) {
	var mitra models.Mitra
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&mitra)
	if err != nil {
		// mongo.ErrNoDocuments lets the service distinguish 'not found' from other errors
		return nil, err
	}
	return &mitra, nil
}

// FindByIDs fetches partners by ID, used to resolve voucher sponsors
func (r *mitraRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Mitra, error) {
	mitras := []*models.Mitra{}
	if len(ids) == 0 {
		return mitras, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &mitras); err != nil {
		return nil, err
	}
	return mitras, nil
}
