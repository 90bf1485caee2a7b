package services

import (
	"context"
	"errors"

	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/internal/repositories"
	"github.com/zulvanavito/Plastira/internal/utils"
	"github.com/zulvanavito/Plastira/pkg/apperror"
	"github.com/zulvanavito/Plastira/pkg/jwt"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is lowered in tests
var bcryptCost = bcrypt.DefaultCost

const msgBadCredentials = "Email atau password salah"

type authService struct {
	userRepo  repositories.UserRepository
	mitraRepo repositories.MitraRepository
	tokens    *jwt.TokenManager
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService implementation
func NewAuthService(userRepo repositories.UserRepository, mitraRepo repositories.MitraRepository, tokens *jwt.TokenManager, logger *zap.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		mitraRepo: mitraRepo,
		tokens:    tokens,
		logger:    logger,
	}
}

// Register handles citizen registration
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	user := &models.User{
		Name:   req.Name,
		Email:  utils.NormalizeEmail(req.Email),
		Role:   models.RoleUser,
		Badges: []string{},
	}
	if err := s.createUser(ctx, user, req.Password); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) createUser(ctx context.Context, user *models.User, password string) error {
	_, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err == nil {
		return apperror.Conflict("Email sudah dipakai")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.Internal(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return apperror.Internal(err)
	}
	user.Password = string(hashed)

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return apperror.Conflict("Email sudah dipakai")
		}
		return apperror.Internal(err)
	}
	return nil
}

// Login authenticates citizens and administrators
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, utils.NormalizeEmail(req.Email))
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.Unauthorized(msgBadCredentials)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, apperror.Unauthorized(msgBadCredentials)
	}

	token, err := s.tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &models.LoginResult{
		Token: token,
		User:  &models.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email},
		Role:  user.Role,
	}, nil
}

// RegisterMitra handles partner registration
func (s *authService) RegisterMitra(ctx context.Context, req *models.MitraRegisterRequest) (*models.Mitra, error) {
	email := utils.NormalizeEmail(req.Email)
	_, err := s.mitraRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperror.Conflict("Email mitra sudah terdaftar")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.Internal(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	mitra := &models.Mitra{
		CompanyName: req.CompanyName,
		Email:       email,
		Password:    string(hashed),
		Role:        models.RoleMitra,
		Industry:    req.Industry,
	}
	if err := s.mitraRepo.Create(ctx, mitra); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, apperror.Conflict("Email mitra sudah terdaftar")
		}
		return nil, apperror.Internal(err)
	}
	return mitra, nil
}

// LoginMitra authenticates partners
func (s *authService) LoginMitra(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error) {
	mitra, err := s.mitraRepo.FindByEmail(ctx, utils.NormalizeEmail(req.Email))
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.Unauthorized(msgBadCredentials)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(mitra.Password), []byte(req.Password)) != nil {
		return nil, apperror.Unauthorized(msgBadCredentials)
	}

	token, err := s.tokens.Generate(mitra.ID.Hex(), models.RoleMitra)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &models.LoginResult{
		Token: token,
		User:  &models.UserSummary{ID: mitra.ID, Name: mitra.CompanyName, Email: mitra.Email},
		Role:  models.RoleMitra,
	}, nil
}

// EnsureAdmin creates the bootstrap administrator. An existing account with
// the same email is left untouched, whatever its role.
func (s *authService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	if email == "" {
		return false, nil
	}
	if password == "" {
		return false, errors.New("admin password is required when admin email is set")
	}
	admin := &models.User{
		Name:   name,
		Email:  utils.NormalizeEmail(email),
		Role:   models.RoleAdmin,
		Badges: []string{},
	}
	err := s.createUser(ctx, admin, password)
	if apperror.Is(err, apperror.CodeConflict) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.logger.Info("Bootstrapped administrator account", zap.String("email", admin.Email))
	return true, nil
}

// Authenticate validates a bearer token
func (s *authService) Authenticate(token string) (*models.Principal, error) {
	claims, err := s.tokens.Parse(token)
	if errors.Is(err, jwt.ErrExpiredToken) {
		return nil, apperror.Unauthorized("Token has expired")
	}
	if err != nil {
		return nil, apperror.Unauthorized("Invalid token")
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid token")
	}
	switch claims.Role {
	case models.RoleUser, models.RoleAdmin, models.RoleMitra:
	default:
		return nil, apperror.Unauthorized("Invalid token")
	}
	return &models.Principal{ID: id, Role: claims.Role}, nil
}
