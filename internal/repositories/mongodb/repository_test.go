package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestPickupRepository_TransitionFromPending(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	id := primitive.NewObjectID()
	verifiedAt := time.Now().UTC().Truncate(time.Millisecond)

	mt.Run("pending pickup is updated", func(mt *mtest.T) {
		repo := NewPickupRepository(mt.DB)
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: id},
				{Key: "status", Value: string(models.PickupStatusVerified)},
				{Key: "weightKg", Value: 2.5},
				{Key: "pointsAwarded", Value: 25},
				{Key: "verifiedAt", Value: verifiedAt},
			}},
		})

		got, err := repo.TransitionFromPending(context.Background(), id, repositories.PickupTransition{
			Status:        models.PickupStatusVerified,
			PointsAwarded: 25,
			VerifiedAt:    &verifiedAt,
		})
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, models.PickupStatusVerified, got.Status)
		assert.Equal(t, 25, got.PointsAwarded)
		require.NotNil(t, got.VerifiedAt)
	})

	mt.Run("already decided pickup is a condition failure", func(mt *mtest.T) {
		repo := NewPickupRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := repo.TransitionFromPending(context.Background(), id, repositories.PickupTransition{
			Status:        models.PickupStatusRejected,
			RejectionNote: "blurry photo",
		})
		assert.ErrorIs(t, err, repositories.ErrConditionNotMet)
	})
}

func TestTransitionSet(t *testing.T) {
	rejected := transitionSet(repositories.PickupTransition{Status: models.PickupStatusRejected})
	note, ok := rejected["rejectionNote"]
	require.True(t, ok, "rejection without a note still stores rejectionNote")
	assert.Equal(t, "", note)
	assert.Equal(t, 0, rejected["pointsAwarded"])
	assert.NotContains(t, rejected, "verifiedAt")

	withNote := transitionSet(repositories.PickupTransition{Status: models.PickupStatusRejected, RejectionNote: "lokasi tidak terjangkau"})
	assert.Equal(t, "lokasi tidak terjangkau", withNote["rejectionNote"])

	verifiedAt := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	verified := transitionSet(repositories.PickupTransition{
		Status:        models.PickupStatusVerified,
		PointsAwarded: 25,
		VerifiedAt:    &verifiedAt,
	})
	assert.NotContains(t, verified, "rejectionNote")
	assert.Equal(t, 25, verified["pointsAwarded"])
	assert.Equal(t, verifiedAt, verified["verifiedAt"])
}

func TestUserRepository_DeductPoints(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("insufficient balance", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		err := repo.DeductPoints(context.Background(), primitive.NewObjectID(), 100)
		assert.ErrorIs(t, err, repositories.ErrConditionNotMet)
	})

	mt.Run("balance covers cost", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		err := repo.DeductPoints(context.Background(), primitive.NewObjectID(), 100)
		assert.NoError(t, err)
	})

	mt.Run("non-positive amount", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		err := repo.DeductPoints(context.Background(), primitive.NewObjectID(), 0)
		assert.Error(t, err)
	})
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("duplicate key", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		err := repo.Create(context.Background(), &models.User{Name: "Sari", Email: "sari@example.com"})
		assert.ErrorIs(t, err, repositories.ErrDuplicateKey)
	})
}

func TestUserRepository_FindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	id := primitive.NewObjectID()

	mt.Run("found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "plastira.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Sari"},
			{Key: "points", Value: 120},
			{Key: "badges", Value: bson.A{"Langkah Pertama"}},
		}))
		user, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "Sari", user.Name)
		assert.Equal(t, 120, user.Points)
		assert.True(t, user.HasBadge("Langkah Pertama"))
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "plastira.users", mtest.FirstBatch))
		_, err := repo.FindByID(context.Background(), id)
		assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	})
}

func TestVoucherRepository_DecrementStock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("out of stock", func(mt *mtest.T) {
		repo := NewVoucherRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		err := repo.DecrementStock(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(t, err, repositories.ErrConditionNotMet)
	})

	mt.Run("in stock", func(mt *mtest.T) {
		repo := NewVoucherRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		assert.NoError(t, repo.DecrementStock(context.Background(), primitive.NewObjectID()))
	})
}
