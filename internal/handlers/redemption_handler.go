package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/internal/services"
	"go.uber.org/zap"
)

// RedemptionHandler handles voucher redemption requests
type RedemptionHandler struct {
	redemptionService services.RedemptionService
	logger            *zap.Logger
}

// NewRedemptionHandler creates a new RedemptionHandler
func NewRedemptionHandler(redemptionService services.RedemptionService, logger *zap.Logger) *RedemptionHandler {
	return &RedemptionHandler{
		redemptionService: redemptionService,
		logger:            logger,
	}
}

// Redeem handles POST /redeem
func (h *RedemptionHandler) Redeem(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req models.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	redemption, err := h.redemptionService.Redeem(c.Request.Context(), principal, req.VoucherID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"msg":        fmt.Sprintf("Selamat! %s berhasil ditukarkan.", redemption.VoucherName),
		"redemption": redemption,
	})
}

// Mine handles GET /redemptions/me
func (h *RedemptionHandler) Mine(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	redemptions, err := h.redemptionService.ListForUser(c.Request.Context(), principal)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redemptions": redemptions})
}
