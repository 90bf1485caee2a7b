package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulvanavito/Plastira/internal/services"
	"go.uber.org/zap"
)

// UserHandler handles profile and leaderboard requests
type UserHandler struct {
	userService services.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// Me handles GET /user/me
func (h *UserHandler) Me(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	profile, err := h.userService.Me(c.Request.Context(), principal)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

// Leaderboard handles GET /leaderboard
func (h *UserHandler) Leaderboard(c *gin.Context) {
	users, err := h.userService.Leaderboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
