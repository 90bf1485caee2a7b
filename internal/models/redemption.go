package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Redemption records a completed exchange of points for a voucher.
// Voucher fields are snapshots taken at redemption time.
type Redemption struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID             primitive.ObjectID `bson:"userId" json:"userId"`
	VoucherID          primitive.ObjectID `bson:"voucherId" json:"voucherId"`
	PointsSpent        int                `bson:"pointsSpent" json:"pointsSpent"`
	VoucherName        string             `bson:"voucherName" json:"name"`
	VoucherDescription string             `bson:"voucherDescription" json:"description"`
	RedeemedAt         time.Time          `bson:"redeemedAt" json:"redeemedAt"`
}

// RedeemRequest is the body of POST /redeem
type RedeemRequest struct {
	VoucherID string `json:"voucherId" binding:"required"`
}
