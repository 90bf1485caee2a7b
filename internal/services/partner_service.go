package services

import (
	"context"

	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/internal/repositories"
	"github.com/zulvanavito/Plastira/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type partnerService struct {
	voucherRepo    repositories.VoucherRepository
	redemptionRepo repositories.RedemptionRepository
	perKg          float64
}

// NewPartnerService creates a new PartnerService implementation
func NewPartnerService(voucherRepo repositories.VoucherRepository, redemptionRepo repositories.RedemptionRepository, perKg float64) PartnerService {
	return &partnerService{
		voucherRepo:    voucherRepo,
		redemptionRepo: redemptionRepo,
		perKg:          perKg,
	}
}

// Dashboard summarizes the impact of the vouchers a partner sponsors.
// Plastic collected is derived back from points spent at the configured rate.
func (s *partnerService) Dashboard(ctx context.Context, principal models.Principal) (*models.MitraDashboard, error) {
	if principal.Role != models.RoleMitra {
		return nil, apperror.Forbidden("Akses ditolak.")
	}

	vouchers, err := s.voucherRepo.FindBySponsor(ctx, principal.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	ids := make([]primitive.ObjectID, 0, len(vouchers))
	for _, v := range vouchers {
		ids = append(ids, v.ID)
	}

	redemptions, err := s.redemptionRepo.FindByVoucherIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	pointsSpent := 0
	citizens := make(map[primitive.ObjectID]struct{})
	for _, r := range redemptions {
		pointsSpent += r.PointsSpent
		citizens[r.UserID] = struct{}{}
	}

	return &models.MitraDashboard{
		Stats: models.MitraStats{
			PlasticCollectedKg: float64(pointsSpent) / s.perKg,
			TotalRedemptions:   len(redemptions),
			CitizensHelped:     len(citizens),
		},
		Vouchers: vouchers,
	}, nil
}
