package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulvanavito/Plastira/internal/models"
	"go.uber.org/zap"
)

// SocketServer upgrades an authenticated request into a notification session
type SocketServer interface {
	Serve(w http.ResponseWriter, r *http.Request, principal models.Principal) error
}

// NotificationHandler handles the realtime notification channel
type NotificationHandler struct {
	sockets SocketServer
	logger  *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(sockets SocketServer, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		sockets: sockets,
		logger:  logger,
	}
}

// Socket handles GET /socket; it blocks for the lifetime of the connection
func (h *NotificationHandler) Socket(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	if err := h.sockets.Serve(c.Writer, c.Request, principal); err != nil {
		// the upgrader has already written the failure response
		h.logger.Warn("Websocket upgrade failed",
			zap.String("userId", principal.ID.Hex()),
			zap.Error(err))
	}
}
