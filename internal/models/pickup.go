package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PickupStatus is the lifecycle state of a pickup request
type PickupStatus string

const (
	PickupStatusPending  PickupStatus = "Pending"
	PickupStatusVerified PickupStatus = "Verified"
	PickupStatusRejected PickupStatus = "Rejected"
)

// Plastic categories accepted on submission.
const (
	PlasticPET   = "PET (Polyethylene Terephthalate)"
	PlasticHDPE  = "HDPE (High-Density Polyethylene)"
	PlasticPVC   = "PVC (Polyvinyl Chloride)"
	PlasticLDPE  = "LDPE (Low-Density Polyethylene)"
	PlasticPP    = "PP (Polypropylene)"
	PlasticPS    = "PS (Polystyrene)"
	PlasticOther = "Lainnya"
)

// PlasticTypes lists every accepted category in display order.
var PlasticTypes = []string{
	PlasticPET, PlasticHDPE, PlasticPVC, PlasticLDPE, PlasticPP, PlasticPS, PlasticOther,
}

// IsValidPlasticType reports whether t is an accepted category.
func IsValidPlasticType(t string) bool {
	for _, p := range PlasticTypes {
		if p == t {
			return true
		}
	}
	return false
}

// Location is a WGS84 coordinate
type Location struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Pickup is a citizen-submitted request to collect plastic waste.
// PointsAwarded is nonzero only once Status is Verified.
type Pickup struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	PlasticType   string             `bson:"plasticType" json:"plasticType"`
	WeightKg      float64            `bson:"weightKg" json:"weightKg"`
	Location      Location           `bson:"location" json:"location"`
	Status        PickupStatus       `bson:"status" json:"status"`
	PointsAwarded int                `bson:"pointsAwarded" json:"pointsAwarded"`
	RejectionNote string             `bson:"rejectionNote,omitempty" json:"rejectionNote"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	VerifiedAt    *time.Time         `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
}

// LocationInput is a submitted coordinate; nil fields were absent from the body
type LocationInput struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

// Location returns the coordinate, ok is false when either field is missing
func (l *LocationInput) Location() (loc Location, ok bool) {
	if l == nil || l.Lat == nil || l.Lng == nil {
		return Location{}, false
	}
	return Location{Lat: *l.Lat, Lng: *l.Lng}, true
}

// CreatePickupRequest is the body of POST /pickups
type CreatePickupRequest struct {
	PlasticType string         `json:"plasticType" binding:"required"`
	WeightKg    float64        `json:"weightKg"`
	Location    *LocationInput `json:"location" binding:"required"`
}

// VerifyPickupRequest is the body of PUT /pickups/verify
type VerifyPickupRequest struct {
	ID string `json:"id" binding:"required"`
}

// RejectPickupRequest is the body of PATCH /pickups/verify
type RejectPickupRequest struct {
	ID   string `json:"id" binding:"required"`
	Note string `json:"note"`
}

// AdminPickup is a pickup joined with its owner for the admin view
type AdminPickup struct {
	Pickup `bson:",inline"`
	Owner  *UserSummary `bson:"-" json:"owner"`
}

// PickupStats aggregates pickups for the admin dashboard
type PickupStats struct {
	Total       int `json:"total"`
	Verified    int `json:"verified"`
	Rejected    int `json:"rejected"`
	Pending     int `json:"pending"`
	PointsTotal int `json:"pointsTotal"`
}

// AdminPickupList is the response of GET /pickups/verify
type AdminPickupList struct {
	Pickups []*AdminPickup `json:"pickups"`
	Stats   PickupStats    `json:"stats"`
}
