package services

import (
	"context"
	"errors"

	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/internal/repositories"
	"github.com/zulvanavito/Plastira/pkg/apperror"
	"go.mongodb.org/mongo-driver/mongo"
)

// LeaderboardSize is the number of citizens ranked on the leaderboard
const LeaderboardSize = 10

type userService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService implementation
func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{
		userRepo: userRepo,
	}
}

// Me returns the caller's profile. Partner accounts are not users and get NotFound.
func (s *userService) Me(ctx context.Context, principal models.Principal) (*models.Profile, error) {
	user, err := s.userRepo.FindByID(ctx, principal.ID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("User")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	badges := user.Badges
	if badges == nil {
		badges = []string{}
	}
	return &models.Profile{
		ID:     user.ID,
		Name:   user.Name,
		Role:   user.Role,
		Points: user.Points,
		Badges: badges,
	}, nil
}

// Leaderboard ranks citizens by point balance; administrators are excluded
func (s *userService) Leaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	entries, err := s.userRepo.TopByPoints(ctx, models.RoleUser, LeaderboardSize)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return entries, nil
}
