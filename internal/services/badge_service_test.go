package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zulvanavito/Plastira/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func verifiedPickup(plastic string, kg float64, created time.Time) *models.Pickup {
	return &models.Pickup{
		ID:          primitive.NewObjectID(),
		PlasticType: plastic,
		WeightKg:    kg,
		Status:      models.PickupStatusVerified,
		CreatedAt:   created,
	}
}

func TestBadgeService_Evaluate(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	old := now.Add(-60 * 24 * time.Hour)
	svc := &badgeService{}

	t.Run("no pickups earns nothing", func(t *testing.T) {
		assert.Empty(t, svc.Evaluate(&models.User{}, nil, now))
	})

	t.Run("first verified pickup", func(t *testing.T) {
		got := svc.Evaluate(&models.User{}, []*models.Pickup{verifiedPickup(models.PlasticPP, 1, now)}, now)
		assert.Equal(t, []string{BadgeFirstStep}, got)
	})

	t.Run("pending and rejected pickups do not count", func(t *testing.T) {
		pending := verifiedPickup(models.PlasticPP, 200, now)
		pending.Status = models.PickupStatusPending
		rejected := verifiedPickup(models.PlasticPP, 200, now)
		rejected.Status = models.PickupStatusRejected
		assert.Empty(t, svc.Evaluate(&models.User{}, []*models.Pickup{pending, rejected}, now))
	})

	t.Run("points threshold", func(t *testing.T) {
		got := svc.Evaluate(&models.User{Points: 500, Badges: []string{BadgeFirstStep}}, nil, now)
		assert.Equal(t, []string{BadgeRecycleKing}, got)
		assert.Empty(t, svc.Evaluate(&models.User{Points: 499}, nil, now))
	})

	t.Run("PET hero needs ten PET pickups", func(t *testing.T) {
		pickups := []*models.Pickup{}
		for i := 0; i < 10; i++ {
			pickups = append(pickups, verifiedPickup(models.PlasticPET, 0.5, old))
		}
		got := svc.Evaluate(&models.User{Badges: []string{BadgeFirstStep}}, pickups, now)
		assert.Equal(t, []string{BadgePETHero}, got)
		got = svc.Evaluate(&models.User{Badges: []string{BadgeFirstStep}}, pickups[:9], now)
		assert.Empty(t, got)
	})

	t.Run("consistency counts only the trailing 30 days", func(t *testing.T) {
		pickups := []*models.Pickup{
			verifiedPickup(models.PlasticPP, 1, now.Add(-1*time.Hour)),
			verifiedPickup(models.PlasticPP, 1, now.Add(-24*time.Hour)),
			verifiedPickup(models.PlasticPP, 1, now.Add(-10*24*time.Hour)),
			verifiedPickup(models.PlasticPP, 1, now.Add(-29*24*time.Hour)),
			verifiedPickup(models.PlasticPP, 1, old),
		}
		held := &models.User{Badges: []string{BadgeFirstStep}}
		assert.Empty(t, svc.Evaluate(held, pickups, now))

		pickups = append(pickups, verifiedPickup(models.PlasticPP, 1, now.Add(-30*24*time.Hour)))
		assert.Equal(t, []string{BadgeConsistent}, svc.Evaluate(held, pickups, now))
	})

	t.Run("four distinct categories", func(t *testing.T) {
		pickups := []*models.Pickup{
			verifiedPickup(models.PlasticPET, 1, old),
			verifiedPickup(models.PlasticHDPE, 1, old),
			verifiedPickup(models.PlasticPVC, 1, old),
			verifiedPickup(models.PlasticPVC, 1, old),
		}
		held := &models.User{Badges: []string{BadgeFirstStep}}
		assert.Empty(t, svc.Evaluate(held, pickups, now))
		pickups = append(pickups, verifiedPickup(models.PlasticOther, 1, old))
		assert.Equal(t, []string{BadgeCollector}, svc.Evaluate(held, pickups, now))
	})

	t.Run("hundred kilos", func(t *testing.T) {
		pickups := []*models.Pickup{
			verifiedPickup(models.PlasticPP, 60, old),
			verifiedPickup(models.PlasticPP, 40, old),
		}
		got := svc.Evaluate(&models.User{Badges: []string{BadgeFirstStep}}, pickups, now)
		assert.Equal(t, []string{BadgeEarthSaver}, got)
	})

	t.Run("several badges in fixed order", func(t *testing.T) {
		pickups := []*models.Pickup{
			verifiedPickup(models.PlasticPET, 50, now),
			verifiedPickup(models.PlasticHDPE, 50, now),
		}
		got := svc.Evaluate(&models.User{Points: 1000}, pickups, now)
		assert.Equal(t, []string{BadgeFirstStep, BadgeRecycleKing, BadgeEarthSaver}, got)
	})

	t.Run("held badges are never returned", func(t *testing.T) {
		all := []string{BadgeFirstStep, BadgeRecycleKing, BadgePETHero, BadgeConsistent, BadgeCollector, BadgeEarthSaver}
		got := svc.Evaluate(&models.User{Points: 1000, Badges: all}, []*models.Pickup{verifiedPickup(models.PlasticPET, 500, now)}, now)
		assert.Empty(t, got)
	})
}

func TestBadgeService_AwardBadges(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	user := &models.User{Name: "Sari", Role: models.RoleUser, Points: 10}
	users := newFakeUserRepo(user)
	pickups := &fakePickupRepo{}
	p := verifiedPickup(models.PlasticPET, 1, now)
	p.UserID = user.ID
	pickups.add(p)

	svc := NewBadgeService(users, pickups).(*badgeService)
	svc.now = fixedClock(now)

	earned, err := svc.AwardBadges(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{BadgeFirstStep}, earned)
	assert.Equal(t, []string{BadgeFirstStep}, users.get(user.ID).Badges)

	earned, err = svc.AwardBadges(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, earned)
	assert.Equal(t, []string{BadgeFirstStep}, users.get(user.ID).Badges)
}
