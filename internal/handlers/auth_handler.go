package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/internal/services"
	"go.uber.org/zap"
)

// AuthHandler handles authentication related HTTP requests
type AuthHandler struct {
	authService services.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"msg":  "Register berhasil",
		"user": gin.H{"name": user.Name, "email": user.Email},
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":   "Login berhasil",
		"token": result.Token,
		"user":  result.User,
		"role":  result.Role,
	})
}

// RegisterMitra handles POST /auth/mitra/register
func (h *AuthHandler) RegisterMitra(c *gin.Context) {
	var req models.MitraRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	mitra, err := h.authService.RegisterMitra(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"msg":   "Registrasi mitra berhasil",
		"mitra": gin.H{"companyName": mitra.CompanyName, "email": mitra.Email},
	})
}

// LoginMitra handles POST /auth/mitra/login
func (h *AuthHandler) LoginMitra(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authService.LoginMitra(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":   "Login mitra berhasil",
		"token": result.Token,
		"role":  result.Role,
	})
}
