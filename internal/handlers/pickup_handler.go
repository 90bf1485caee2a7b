package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/internal/services"
	"github.com/zulvanavito/Plastira/pkg/apperror"
	"go.uber.org/zap"
)

// PickupHandler handles pickup submission and verification requests
type PickupHandler struct {
	pickupService services.PickupService
	logger        *zap.Logger
}

// NewPickupHandler creates a new PickupHandler
func NewPickupHandler(pickupService services.PickupService, logger *zap.Logger) *PickupHandler {
	return &PickupHandler{
		pickupService: pickupService,
		logger:        logger,
	}
}

// Create handles POST /pickups
func (h *PickupHandler) Create(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req models.CreatePickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pickup, err := h.pickupService.Submit(c.Request.Context(), principal, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "Pickup request terkirim", "pickup": pickup})
}

// Mine handles GET /pickups/me
func (h *PickupHandler) Mine(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	pickups, err := h.pickupService.ListForUser(c.Request.Context(), principal)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pickups": pickups})
}

// List handles GET /pickups/verify, optionally filtered by ?status=
func (h *PickupHandler) List(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var filter services.PickupFilter
	switch status := models.PickupStatus(c.Query("status")); status {
	case "", "All":
	case models.PickupStatusPending, models.PickupStatusVerified, models.PickupStatusRejected:
		filter.Status = status
	default:
		respondError(c, h.logger, apperror.Validation("Status tidak valid"))
		return
	}

	list, err := h.pickupService.ListForAdmin(c.Request.Context(), principal, filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Verify handles PUT /pickups/verify
func (h *PickupHandler) Verify(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req models.VerifyPickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pickup, err := h.pickupService.Verify(c.Request.Context(), principal, req.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"msg":    "Pickup berhasil diverifikasi",
		"points": pickup.PointsAwarded,
		"pickup": pickup,
	})
}

// Reject handles PATCH /pickups/verify
func (h *PickupHandler) Reject(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req models.RejectPickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pickup, err := h.pickupService.Reject(c.Request.Context(), principal, req.ID, req.Note)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Pickup berhasil ditolak", "pickup": pickup})
}

// Export handles GET /pickups/export
func (h *PickupHandler) Export(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.pickupService.ExportCSV(c.Request.Context(), principal, &buf); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="pickup_history.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
