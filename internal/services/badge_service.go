package services

import (
	"context"
	"time"

	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Badge names
const (
	BadgeFirstStep   = "Langkah Pertama"
	BadgeRecycleKing = "Raja Daur Ulang"
	BadgePETHero     = "Pahlawan PET"
	BadgeConsistent  = "Pejuang Konsisten"
	BadgeCollector   = "Kolektor Beragam"
	BadgeEarthSaver  = "Penyelamat Bumi"
)

const consistencyWindow = 30 * 24 * time.Hour

// badgeStats summarizes a user's verified pickups
type badgeStats struct {
	count      int
	petCount   int
	recent     int
	categories int
	totalKg    float64
}

type badgeRule struct {
	name    string
	awarded func(user *models.User, s badgeStats) bool
}

// badgeRules are evaluated in order; the order is also the award order
var badgeRules = []badgeRule{
	{BadgeFirstStep, func(_ *models.User, s badgeStats) bool { return s.count >= 1 }},
	{BadgeRecycleKing, func(u *models.User, _ badgeStats) bool { return u.Points >= 500 }},
	{BadgePETHero, func(_ *models.User, s badgeStats) bool { return s.petCount >= 10 }},
	{BadgeConsistent, func(_ *models.User, s badgeStats) bool { return s.recent >= 5 }},
	{BadgeCollector, func(_ *models.User, s badgeStats) bool { return s.categories >= 4 }},
	{BadgeEarthSaver, func(_ *models.User, s badgeStats) bool { return s.totalKg >= 100 }},
}

type badgeService struct {
	userRepo   repositories.UserRepository
	pickupRepo repositories.PickupRepository
	now        func() time.Time
}

// NewBadgeService creates a new BadgeService implementation
func NewBadgeService(userRepo repositories.UserRepository, pickupRepo repositories.PickupRepository) BadgeService {
	return &badgeService{
		userRepo:   userRepo,
		pickupRepo: pickupRepo,
		now:        time.Now,
	}
}

func collectBadgeStats(pickups []*models.Pickup, now time.Time) badgeStats {
	var s badgeStats
	seen := make(map[string]struct{})
	cutoff := now.Add(-consistencyWindow)
	for _, p := range pickups {
		if p.Status != models.PickupStatusVerified {
			continue
		}
		s.count++
		s.totalKg += p.WeightKg
		if p.PlasticType == models.PlasticPET {
			s.petCount++
		}
		if !p.CreatedAt.Before(cutoff) {
			s.recent++
		}
		seen[p.PlasticType] = struct{}{}
	}
	s.categories = len(seen)
	return s
}

// Evaluate is pure: it reads nothing but its arguments
func (s *badgeService) Evaluate(user *models.User, pickups []*models.Pickup, now time.Time) []string {
	stats := collectBadgeStats(pickups, now)
	earned := []string{}
	for _, rule := range badgeRules {
		if user.HasBadge(rule.name) {
			continue
		}
		if rule.awarded(user, stats) {
			earned = append(earned, rule.name)
		}
	}
	return earned
}

// AwardBadges evaluates the user's current state and stores new badges
func (s *badgeService) AwardBadges(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	pickups, err := s.pickupRepo.FindByUserIDAndStatus(ctx, userID, models.PickupStatusVerified)
	if err != nil {
		return nil, err
	}

	earned := s.Evaluate(user, pickups, s.now())
	if len(earned) == 0 {
		return earned, nil
	}
	if err := s.userRepo.AddBadges(ctx, userID, earned); err != nil {
		return nil, err
	}
	return earned, nil
}
