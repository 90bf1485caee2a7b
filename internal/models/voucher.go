package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultVoucherStock is applied when a voucher is created without a stock value
const DefaultVoucherStock = 999

// Voucher is a reward that citizens exchange points for
type Voucher struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Name           string              `bson:"name" json:"name"`
	Description    string              `bson:"description" json:"description"`
	PointsRequired int                 `bson:"pointsRequired" json:"pointsRequired"`
	Stock          int                 `bson:"stock" json:"stock"`
	IsActive       bool                `bson:"isActive" json:"isActive"`
	ImageURL       string              `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	SponsoredBy    *primitive.ObjectID `bson:"sponsoredBy,omitempty" json:"sponsoredBy,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}

// VoucherView is a voucher with its sponsor's company name resolved
type VoucherView struct {
	*Voucher
	SponsorName string `json:"sponsorName,omitempty"`
}

// CreateVoucherRequest is the body of POST /admin/vouchers
type CreateVoucherRequest struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description" binding:"required"`
	PointsRequired int    `json:"pointsRequired" binding:"required,gt=0"`
	Stock          *int   `json:"stock" binding:"omitempty,gte=0"`
	ImageURL       string `json:"imageUrl"`
	SponsoredBy    string `json:"sponsoredBy"`
}

// UpdateVoucherRequest is the body of PUT /admin/vouchers; zero values leave fields unchanged
type UpdateVoucherRequest struct {
	ID             string `json:"id" binding:"required"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	PointsRequired *int   `json:"pointsRequired" binding:"omitempty,gt=0"`
	Stock          *int   `json:"stock" binding:"omitempty,gte=0"`
	IsActive       *bool  `json:"isActive"`
	ImageURL       string `json:"imageUrl"`
	SponsoredBy    string `json:"sponsoredBy"`
}
