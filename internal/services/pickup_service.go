package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/internal/repositories"
	"github.com/zulvanavito/Plastira/internal/utils"
	"github.com/zulvanavito/Plastira/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Weight bounds accepted on submission
const (
	MinPickupWeightKg = 0.1
	MaxPickupWeightKg = 1000
)

type pickupService struct {
	pickupRepo repositories.PickupRepository
	userRepo   repositories.UserRepository
	badges     BadgeService
	events     EventPublisher
	perKg      float64
	now        func() time.Time
	logger     *zap.Logger
}

// NewPickupService creates a new PickupService implementation
func NewPickupService(
	pickupRepo repositories.PickupRepository,
	userRepo repositories.UserRepository,
	badges BadgeService,
	events EventPublisher,
	perKg float64,
	logger *zap.Logger,
) PickupService {
	return &pickupService{
		pickupRepo: pickupRepo,
		userRepo:   userRepo,
		badges:     badges,
		events:     events,
		perKg:      perKg,
		now:        time.Now,
		logger:     logger,
	}
}

// Submit records a new Pending pickup and alerts administrators
func (s *pickupService) Submit(ctx context.Context, principal models.Principal, req *models.CreatePickupRequest) (*models.Pickup, error) {
	if principal.Role != models.RoleUser {
		return nil, apperror.Forbidden("Hanya warga yang dapat mengajukan pickup")
	}
	if !models.IsValidPlasticType(req.PlasticType) {
		return nil, apperror.Validation("Jenis plastik tidak valid")
	}
	if !(req.WeightKg >= MinPickupWeightKg) {
		return nil, apperror.Validation(fmt.Sprintf("Berat minimal %.1f kg", MinPickupWeightKg))
	}
	if req.WeightKg > MaxPickupWeightKg {
		return nil, apperror.Validation(fmt.Sprintf("Berat maksimal %d kg", MaxPickupWeightKg))
	}
	location, ok := req.Location.Location()
	if !ok || !utils.ValidCoordinate(location.Lat, location.Lng) {
		return nil, apperror.Validation("Lokasi tidak valid")
	}

	user, err := s.userRepo.FindByID(ctx, principal.ID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("User")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	pickup := &models.Pickup{
		UserID:      user.ID,
		PlasticType: req.PlasticType,
		WeightKg:    req.WeightKg,
		Location:    location,
		Status:      models.PickupStatusPending,
		CreatedAt:   s.now(),
	}
	if err := s.pickupRepo.Create(ctx, pickup); err != nil {
		return nil, apperror.Internal(err)
	}

	s.events.BroadcastToAdmins(ctx, models.Notification{
		Event: models.EventNewPickupRequest,
		Data: models.NewPickupPayload{
			Message:   fmt.Sprintf("Ada permintaan pickup baru dari %s.", user.Name),
			PickupID:  pickup.ID,
			CreatedAt: pickup.CreatedAt,
		},
	})
	return pickup, nil
}

// loadPending fetches a pickup and checks it can still be decided
func (s *pickupService) loadPending(ctx context.Context, principal models.Principal, pickupID string) (*models.Pickup, error) {
	if !principal.IsAdmin() {
		return nil, apperror.Forbidden("Akses ditolak. Bukan admin.")
	}
	id, err := utils.ParseObjectID(pickupID, "pickup")
	if err != nil {
		return nil, err
	}
	pickup, err := s.pickupRepo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("Pickup")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if pickup.Status != models.PickupStatusPending {
		return nil, apperror.Conflict("Pickup sudah diproses")
	}
	return pickup, nil
}

func (s *pickupService) transition(ctx context.Context, id primitive.ObjectID, t repositories.PickupTransition) (*models.Pickup, error) {
	updated, err := s.pickupRepo.TransitionFromPending(ctx, id, t)
	if errors.Is(err, repositories.ErrConditionNotMet) {
		return nil, apperror.Conflict("Pickup sudah diproses")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return updated, nil
}

// Verify approves a pending pickup, credits the owner and evaluates badges.
// Writes are not transactional; a failure after the status change leaves it applied.
func (s *pickupService) Verify(ctx context.Context, principal models.Principal, pickupID string) (*models.Pickup, error) {
	pickup, err := s.loadPending(ctx, principal, pickupID)
	if err != nil {
		return nil, err
	}

	points, err := utils.CalculatePoints(pickup.WeightKg, s.perKg)
	if err != nil {
		s.logger.Warn("Pickup weight cannot be converted to points",
			zap.String("pickupId", pickup.ID.Hex()),
			zap.Float64("weightKg", pickup.WeightKg))
		return nil, apperror.Conflict("Berat pickup tidak valid")
	}
	verifiedAt := s.now()
	updated, err := s.transition(ctx, pickup.ID, repositories.PickupTransition{
		Status:        models.PickupStatusVerified,
		PointsAwarded: points,
		VerifiedAt:    &verifiedAt,
	})
	if err != nil {
		return nil, err
	}

	if points > 0 {
		if err := s.userRepo.IncrementPoints(ctx, updated.UserID, points); err != nil {
			s.logger.Error("Failed to credit points",
				zap.String("pickupId", updated.ID.Hex()),
				zap.String("userId", updated.UserID.Hex()),
				zap.Int("points", points),
				zap.Error(err))
			return nil, apperror.Internal(err)
		}
	}

	earned, err := s.badges.AwardBadges(ctx, updated.UserID)
	if err != nil {
		s.logger.Error("Failed to award badges", zap.String("userId", updated.UserID.Hex()), zap.Error(err))
		return nil, apperror.Internal(err)
	}

	owner := updated.UserID.Hex()
	s.events.EmitToUser(ctx, owner, models.Notification{
		Event: models.EventPickupStatusUpdate,
		Data: models.PickupStatusPayload{
			Message:  fmt.Sprintf("Pickup Anda telah diverifikasi! Anda mendapatkan %d poin.", points),
			PickupID: updated.ID,
			Status:   models.PickupStatusVerified,
			Points:   points,
		},
	})
	if len(earned) > 0 {
		s.events.EmitToUser(ctx, owner, models.Notification{
			Event: models.EventBadgeAwarded,
			Data:  models.BadgeAwardedPayload{Badges: earned},
		})
	}
	return updated, nil
}

// Reject declines a pending pickup with an optional note
func (s *pickupService) Reject(ctx context.Context, principal models.Principal, pickupID, note string) (*models.Pickup, error) {
	pickup, err := s.loadPending(ctx, principal, pickupID)
	if err != nil {
		return nil, err
	}

	updated, err := s.transition(ctx, pickup.ID, repositories.PickupTransition{
		Status:        models.PickupStatusRejected,
		RejectionNote: note,
	})
	if err != nil {
		return nil, err
	}

	message := "Pickup Anda ditolak."
	if note != "" {
		message = "Pickup Anda ditolak: " + note
	}
	s.events.EmitToUser(ctx, updated.UserID.Hex(), models.Notification{
		Event: models.EventPickupStatusUpdate,
		Data: models.PickupStatusPayload{
			Message:  message,
			PickupID: updated.ID,
			Status:   models.PickupStatusRejected,
			Reason:   note,
		},
	})
	return updated, nil
}

// ListForAdmin returns pickups joined with owners; stats always cover every pickup
func (s *pickupService) ListForAdmin(ctx context.Context, principal models.Principal, filter PickupFilter) (*models.AdminPickupList, error) {
	if !principal.IsAdmin() {
		return nil, apperror.Forbidden("Akses ditolak. Bukan admin.")
	}
	all, err := s.withOwners(ctx)
	if err != nil {
		return nil, err
	}

	list := &models.AdminPickupList{Pickups: []*models.AdminPickup{}}
	for _, p := range all {
		list.Stats.Total++
		switch p.Status {
		case models.PickupStatusVerified:
			list.Stats.Verified++
			list.Stats.PointsTotal += p.PointsAwarded
		case models.PickupStatusRejected:
			list.Stats.Rejected++
		case models.PickupStatusPending:
			list.Stats.Pending++
		}
		if filter.Status == "" || p.Status == filter.Status {
			list.Pickups = append(list.Pickups, p)
		}
	}
	return list, nil
}

func (s *pickupService) withOwners(ctx context.Context) ([]*models.AdminPickup, error) {
	pickups, err := s.pickupRepo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	seen := make(map[primitive.ObjectID]struct{})
	ids := []primitive.ObjectID{}
	for _, p := range pickups {
		if _, ok := seen[p.UserID]; !ok {
			seen[p.UserID] = struct{}{}
			ids = append(ids, p.UserID)
		}
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	owners := make(map[primitive.ObjectID]*models.UserSummary, len(users))
	for _, u := range users {
		owners[u.ID] = &models.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	}

	out := make([]*models.AdminPickup, 0, len(pickups))
	for _, p := range pickups {
		out = append(out, &models.AdminPickup{Pickup: *p, Owner: owners[p.UserID]})
	}
	return out, nil
}

// ListForUser returns the caller's own pickups, newest first
func (s *pickupService) ListForUser(ctx context.Context, principal models.Principal) ([]*models.Pickup, error) {
	pickups, err := s.pickupRepo.FindByUserID(ctx, principal.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return pickups, nil
}

// ExportCSV streams every pickup with its owner as CSV
func (s *pickupService) ExportCSV(ctx context.Context, principal models.Principal, w io.Writer) error {
	if !principal.IsAdmin() {
		return apperror.Forbidden("Akses ditolak. Bukan admin.")
	}
	rows, err := s.withOwners(ctx)
	if err != nil {
		return err
	}
	if err := utils.WritePickupsCSV(w, rows); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
