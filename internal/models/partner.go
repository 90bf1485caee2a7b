package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mitra is a corporate partner sponsoring vouchers
type Mitra struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CompanyName string             `bson:"companyName" json:"companyName"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	Role        string             `bson:"role" json:"role"`
	Industry    string             `bson:"industry" json:"industry"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// MitraStats is the impact summary shown on a partner dashboard
type MitraStats struct {
	PlasticCollectedKg float64 `json:"plasticCollectedKg"`
	TotalRedemptions   int     `json:"totalRedemptions"`
	CitizensHelped     int     `json:"citizensHelped"`
}

// MitraDashboard is the response of GET /mitra/dashboard
type MitraDashboard struct {
	Stats    MitraStats `json:"stats"`
	Vouchers []*Voucher `json:"vouchers"`
}
