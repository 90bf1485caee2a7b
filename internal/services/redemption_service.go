package services

import (
	"context"
	"errors"
	"time"

	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/internal/repositories"
	"github.com/zulvanavito/Plastira/internal/utils"
	"github.com/zulvanavito/Plastira/pkg/apperror"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type redemptionService struct {
	redemptionRepo repositories.RedemptionRepository
	voucherRepo    repositories.VoucherRepository
	userRepo       repositories.UserRepository
	now            func() time.Time
	logger         *zap.Logger
}

// NewRedemptionService creates a new RedemptionService implementation
func NewRedemptionService(
	redemptionRepo repositories.RedemptionRepository,
	voucherRepo repositories.VoucherRepository,
	userRepo repositories.UserRepository,
	logger *zap.Logger,
) RedemptionService {
	return &redemptionService{
		redemptionRepo: redemptionRepo,
		voucherRepo:    voucherRepo,
		userRepo:       userRepo,
		now:            time.Now,
		logger:         logger,
	}
}

// Redeem spends the caller's points on one unit of a voucher.
// Stock is taken before points so a lost race on points can hand the unit back.
func (s *redemptionService) Redeem(ctx context.Context, principal models.Principal, voucherID string) (*models.Redemption, error) {
	if principal.Role != models.RoleUser {
		return nil, apperror.Forbidden("Hanya warga yang dapat menukarkan voucher")
	}
	id, err := utils.ParseObjectID(voucherID, "voucher")
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, principal.ID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("User")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	voucher, err := s.voucherRepo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) || (err == nil && !voucher.IsActive) {
		return nil, apperror.NotFound("Voucher")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if voucher.Stock <= 0 {
		return nil, apperror.Conflict("Stok voucher habis.")
	}
	if user.Points < voucher.PointsRequired {
		return nil, apperror.Conflict("Poin Anda tidak cukup.")
	}

	if err := s.voucherRepo.DecrementStock(ctx, voucher.ID); err != nil {
		if errors.Is(err, repositories.ErrConditionNotMet) {
			return nil, apperror.Conflict("Stok voucher habis.")
		}
		return nil, apperror.Internal(err)
	}

	if err := s.userRepo.DeductPoints(ctx, user.ID, voucher.PointsRequired); err != nil {
		s.restoreStock(ctx, voucher)
		if errors.Is(err, repositories.ErrConditionNotMet) {
			return nil, apperror.Conflict("Poin Anda tidak cukup.")
		}
		return nil, apperror.Internal(err)
	}

	redemption := &models.Redemption{
		UserID:             user.ID,
		VoucherID:          voucher.ID,
		PointsSpent:        voucher.PointsRequired,
		VoucherName:        voucher.Name,
		VoucherDescription: voucher.Description,
		RedeemedAt:         s.now(),
	}
	if err := s.redemptionRepo.Create(ctx, redemption); err != nil {
		s.logger.Error("Points spent but redemption not recorded",
			zap.String("userId", user.ID.Hex()),
			zap.String("voucherId", voucher.ID.Hex()),
			zap.Int("points", voucher.PointsRequired),
			zap.Error(err))
		return nil, apperror.Internal(err)
	}
	return redemption, nil
}

func (s *redemptionService) restoreStock(ctx context.Context, voucher *models.Voucher) {
	if err := s.voucherRepo.IncrementStock(ctx, voucher.ID); err != nil {
		s.logger.Error("Failed to restore voucher stock", zap.String("voucherId", voucher.ID.Hex()), zap.Error(err))
	}
}

// ListForUser returns the caller's redemptions, newest first
func (s *redemptionService) ListForUser(ctx context.Context, principal models.Principal) ([]*models.Redemption, error) {
	redemptions, err := s.redemptionRepo.FindByUserID(ctx, principal.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return redemptions, nil
}
