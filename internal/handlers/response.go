package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulvanavito/Plastira/internal/middleware"
	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/pkg/apperror"
	"go.uber.org/zap"
)

const msgInvalidBody = "Semua field harus diisi"

// respondError writes err as {"msg": ...} with the status its DomainError carries
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	de := apperror.From(err)
	if de.HTTPStatus >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("requestId", c.GetString("RequestID")),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(de.HTTPStatus, gin.H{"msg": de.Message})
}

// respondBindError reports a body that failed binding or validation
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"msg": msgInvalidBody, "error": err.Error()})
}

// principalOrAbort returns the authenticated principal, writing 401 when absent
func principalOrAbort(c *gin.Context) (models.Principal, bool) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Unauthorized"})
	}
	return principal, ok
}
