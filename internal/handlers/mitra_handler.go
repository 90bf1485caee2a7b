package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulvanavito/Plastira/internal/services"
	"go.uber.org/zap"
)

// MitraHandler serves the partner dashboard
type MitraHandler struct {
	partnerService services.PartnerService
	logger         *zap.Logger
}

// NewMitraHandler creates a new MitraHandler
func NewMitraHandler(partnerService services.PartnerService, logger *zap.Logger) *MitraHandler {
	return &MitraHandler{
		partnerService: partnerService,
		logger:         logger,
	}
}

// Dashboard handles GET /mitra/dashboard
func (h *MitraHandler) Dashboard(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	dashboard, err := h.partnerService.Dashboard(c.Request.Context(), principal)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
