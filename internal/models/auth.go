package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest defines the structure for citizen registration requests
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// MitraRegisterRequest defines the structure for partner registration requests
type MitraRegisterRequest struct {
	CompanyName string `json:"companyName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Industry    string `json:"industry" binding:"required"`
}

// LoginResult is returned after a successful login
type LoginResult struct {
	Token string       `json:"token"`
	User  *UserSummary `json:"user,omitempty"`
	Role  string       `json:"role"`
}

// Principal is the authenticated caller, decoded from the bearer token
type Principal struct {
	ID   primitive.ObjectID
	Role string
}

// IsAdmin reports whether the caller is an administrator.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
