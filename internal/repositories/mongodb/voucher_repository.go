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

// VoucherRepository implements the repositories.VoucherRepository interface
type VoucherRepository struct {
	collection *mongo.Collection
}

// NewVoucherRepository creates a new VoucherRepository
func NewVoucherRepository(db *mongo.Database) repositories.VoucherRepository {
	return &VoucherRepository{
		collection: db.Collection(VouchersCollection),
	}
}

// Create inserts a new voucher
func (r *VoucherRepository) Create(ctx context.Context, voucher *models.Voucher) error {
	if voucher.CreatedAt.IsZero() {
		voucher.CreatedAt = time.Now()
	}
	res, err := r.collection.InsertOne(ctx, voucher)
	if err != nil {
		return err
	}
	voucher.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a voucher by ID
func (r *VoucherRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&voucher)
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

// FindActive returns active vouchers ordered by cost, cheapest first
func (r *VoucherRepository) FindActive(ctx context.Context) ([]*models.Voucher, error) {
	opts := options.Find().SetSort(bson.D{{Key: "pointsRequired", Value: 1}})
	return r.find(ctx, bson.M{"isActive": true}, opts)
}

// FindAll returns every voucher, newest first
func (r *VoucherRepository) FindAll(ctx context.Context) ([]*models.Voucher, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{}, opts)
}

// FindBySponsor returns the vouchers a partner sponsors
func (r *VoucherRepository) FindBySponsor(ctx context.Context, mitraID primitive.ObjectID) ([]*models.Voucher, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"sponsoredBy": mitraID}, opts)
}

func (r *VoucherRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Voucher, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	vouchers := []*models.Voucher{}
	if err = cursor.All(ctx, &vouchers); err != nil {
		return nil, err
	}
	return vouchers, nil
}

// Update replaces the mutable fields of a voucher
func (r *VoucherRepository) Update(ctx context.Context, voucher *models.Voucher) error {
	update := bson.M{"$set": bson.M{
		"name":           voucher.Name,
		"description":    voucher.Description,
		"pointsRequired": voucher.PointsRequired,
		"stock":          voucher.Stock,
		"isActive":       voucher.IsActive,
		"imageUrl":       voucher.ImageURL,
		"sponsoredBy":    voucher.SponsoredBy,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": voucher.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a voucher
func (r *VoucherRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DecrementStock takes one unit of stock while any remains on an active voucher
func (r *VoucherRepository) DecrementStock(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id, "isActive": true, "stock": bson.M{"$gt": 0}}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"stock": -1}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrConditionNotMet
	}
	return nil
}

// IncrementStock returns one unit of stock
func (r *VoucherRepository) IncrementStock(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"stock": 1}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
