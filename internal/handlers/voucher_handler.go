package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/internal/services"
	"go.uber.org/zap"
)

// VoucherHandler handles the public catalogue and voucher administration
type VoucherHandler struct {
	voucherService services.VoucherService
	logger         *zap.Logger
}

// NewVoucherHandler creates a new VoucherHandler
func NewVoucherHandler(voucherService services.VoucherService, logger *zap.Logger) *VoucherHandler {
	return &VoucherHandler{
		voucherService: voucherService,
		logger:         logger,
	}
}

// ListActive handles GET /vouchers
func (h *VoucherHandler) ListActive(c *gin.Context) {
	vouchers, err := h.voucherService.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vouchers": vouchers})
}

// ListAll handles GET /admin/vouchers
func (h *VoucherHandler) ListAll(c *gin.Context) {
	vouchers, err := h.voucherService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vouchers": vouchers})
}

// Create handles POST /admin/vouchers
func (h *VoucherHandler) Create(c *gin.Context) {
	var req models.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	voucher, err := h.voucherService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "Voucher berhasil dibuat", "voucher": voucher})
}

// Update handles PUT /admin/vouchers
func (h *VoucherHandler) Update(c *gin.Context) {
	var req models.UpdateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	voucher, err := h.voucherService.Update(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Voucher berhasil diperbarui", "voucher": voucher})
}

// Delete handles DELETE /admin/vouchers?id=
func (h *VoucherHandler) Delete(c *gin.Context) {
	if err := h.voucherService.Delete(c.Request.Context(), c.Query("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Voucher berhasil dihapus"})
}
