package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role tags carried by accounts and tokens.
const (
	RoleUser  = "user"  // citizen
	RoleAdmin = "admin" // administrator
	RoleMitra = "mitra" // partner
)

// User represents a citizen or administrator account
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Role      string             `bson:"role" json:"role"`
	Points    int                `bson:"points" json:"points"`
	Badges    []string           `bson:"badges" json:"badges"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// HasBadge reports whether the user already holds the named badge.
func (u *User) HasBadge(name string) bool {
	for _, b := range u.Badges {
		if b == name {
			return true
		}
	}
	return false
}

// UserSummary is the public projection of a user embedded in other responses
type UserSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"_id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email,omitempty" json:"email,omitempty"`
}

// LeaderboardEntry is one row of the points leaderboard
type LeaderboardEntry struct {
	ID     primitive.ObjectID `bson:"_id" json:"_id"`
	Name   string             `bson:"name" json:"name"`
	Points int                `bson:"points" json:"points"`
}

// Profile is returned by GET /user/me
type Profile struct {
	ID     primitive.ObjectID `json:"id"`
	Name   string             `json:"name"`
	Role   string             `json:"role"`
	Points int                `json:"points"`
	Badges []string           `json:"badges"`
}
