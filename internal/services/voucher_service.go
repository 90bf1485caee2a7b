package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/internal/repositories"
	"github.com/zulvanavito/Plastira/internal/utils"
	"github.com/zulvanavito/Plastira/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type voucherService struct {
	voucherRepo repositories.VoucherRepository
	mitraRepo   repositories.MitraRepository
	events      EventPublisher
	now         func() time.Time
}

// NewVoucherService creates a new VoucherService implementation
func NewVoucherService(voucherRepo repositories.VoucherRepository, mitraRepo repositories.MitraRepository, events EventPublisher) VoucherService {
	return &voucherService{
		voucherRepo: voucherRepo,
		mitraRepo:   mitraRepo,
		events:      events,
		now:         time.Now,
	}
}

// ListActive returns the public catalogue, cheapest first, with sponsor names
func (s *voucherService) ListActive(ctx context.Context) ([]*models.VoucherView, error) {
	vouchers, err := s.voucherRepo.FindActive(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	ids := []primitive.ObjectID{}
	for _, v := range vouchers {
		if v.SponsoredBy != nil {
			ids = append(ids, *v.SponsoredBy)
		}
	}
	sponsors, err := s.mitraRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	names := make(map[primitive.ObjectID]string, len(sponsors))
	for _, m := range sponsors {
		names[m.ID] = m.CompanyName
	}

	views := make([]*models.VoucherView, 0, len(vouchers))
	for _, v := range vouchers {
		view := &models.VoucherView{Voucher: v}
		if v.SponsoredBy != nil {
			view.SponsorName = names[*v.SponsoredBy]
		}
		views = append(views, view)
	}
	return views, nil
}

// ListAll returns every voucher for the admin panel
func (s *voucherService) ListAll(ctx context.Context) ([]*models.Voucher, error) {
	vouchers, err := s.voucherRepo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return vouchers, nil
}

func (s *voucherService) resolveSponsor(ctx context.Context, hex string) (*primitive.ObjectID, error) {
	if hex == "" {
		return nil, nil
	}
	id, err := utils.ParseObjectID(hex, "mitra")
	if err != nil {
		return nil, err
	}
	found, err := s.mitraRepo.FindByIDs(ctx, []primitive.ObjectID{id})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(found) == 0 {
		return nil, apperror.NotFound("Mitra")
	}
	return &id, nil
}

// Create publishes a new voucher and announces it to every connected session
func (s *voucherService) Create(ctx context.Context, req *models.CreateVoucherRequest) (*models.Voucher, error) {
	if req.PointsRequired <= 0 {
		return nil, apperror.Validation("pointsRequired harus lebih dari 0")
	}
	sponsor, err := s.resolveSponsor(ctx, req.SponsoredBy)
	if err != nil {
		return nil, err
	}

	voucher := &models.Voucher{
		Name:           req.Name,
		Description:    req.Description,
		PointsRequired: req.PointsRequired,
		Stock:          models.DefaultVoucherStock,
		IsActive:       true,
		ImageURL:       req.ImageURL,
		SponsoredBy:    sponsor,
		CreatedAt:      s.now(),
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, apperror.Validation("stock tidak boleh negatif")
		}
		voucher.Stock = *req.Stock
	}
	if err := s.voucherRepo.Create(ctx, voucher); err != nil {
		return nil, apperror.Internal(err)
	}

	s.events.Announce(ctx, models.Notification{
		Event: models.EventVoucherCreated,
		Data: models.VoucherCreatedPayload{
			Message:   fmt.Sprintf("Voucher baru tersedia: %s", voucher.Name),
			VoucherID: voucher.ID,
		},
	})
	return voucher, nil
}

// Update applies the non-empty fields of req to an existing voucher
func (s *voucherService) Update(ctx context.Context, req *models.UpdateVoucherRequest) (*models.Voucher, error) {
	id, err := utils.ParseObjectID(req.ID, "voucher")
	if err != nil {
		return nil, err
	}
	voucher, err := s.voucherRepo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("Voucher")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if req.Name != "" {
		voucher.Name = req.Name
	}
	if req.Description != "" {
		voucher.Description = req.Description
	}
	if req.PointsRequired != nil {
		if *req.PointsRequired <= 0 {
			return nil, apperror.Validation("pointsRequired harus lebih dari 0")
		}
		voucher.PointsRequired = *req.PointsRequired
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, apperror.Validation("stock tidak boleh negatif")
		}
		voucher.Stock = *req.Stock
	}
	if req.IsActive != nil {
		voucher.IsActive = *req.IsActive
	}
	if req.ImageURL != "" {
		voucher.ImageURL = req.ImageURL
	}
	if req.SponsoredBy != "" {
		sponsor, err := s.resolveSponsor(ctx, req.SponsoredBy)
		if err != nil {
			return nil, err
		}
		voucher.SponsoredBy = sponsor
	}

	if err := s.voucherRepo.Update(ctx, voucher); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("Voucher")
		}
		return nil, apperror.Internal(err)
	}
	return voucher, nil
}

// Delete removes a voucher; past redemptions keep their snapshot
func (s *voucherService) Delete(ctx context.Context, voucherID string) error {
	if voucherID == "" {
		return apperror.Validation("Voucher ID diperlukan.")
	}
	id, err := utils.ParseObjectID(voucherID, "voucher")
	if err != nil {
		return err
	}
	if err := s.voucherRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.NotFound("Voucher")
		}
		return apperror.Internal(err)
	}
	return nil
}
