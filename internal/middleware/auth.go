package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/pkg/apperror"
	"go.uber.org/zap"
)

// Context keys set by JWTAuthMiddleware
const (
	ContextPrincipal = "principal"
	ContextUserID    = "userID"
	ContextUserRole  = "userRole"
)

const bearerSchema = "Bearer "

// Authenticator turns a bearer token into the calling principal
type Authenticator interface {
	Authenticate(token string) (*models.Principal, error)
}

// TokenFromRequest extracts the bearer token from the Authorization header,
// or from the token query parameter when allowQuery is set
func TokenFromRequest(c *gin.Context, allowQuery bool) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, bearerSchema) {
		return strings.TrimSpace(header[len(bearerSchema):])
	}
	if allowQuery {
		return c.Query("token")
	}
	return ""
}

// JWTAuthMiddleware rejects requests without a valid bearer token and stores
// the principal in the gin context. allowQuery also accepts ?token=, which
// browsers need for websocket upgrades.
func JWTAuthMiddleware(auth Authenticator, allowQuery bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c, allowQuery)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Token tidak valid atau tidak ada."})
			return
		}

		principal, err := auth.Authenticate(token)
		if err != nil {
			logger.Debug("Rejected bearer token", zap.String("path", c.FullPath()), zap.Error(err))
			de := apperror.From(err)
			c.AbortWithStatusJSON(de.HTTPStatus, gin.H{"msg": de.Message})
			return
		}

		c.Set(ContextPrincipal, *principal)
		c.Set(ContextUserID, principal.ID.Hex())
		c.Set(ContextUserRole, principal.Role)
		c.Next()
	}
}

// RequireRole allows the request only if the principal holds one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Token tidak valid atau tidak ada."})
			return
		}
		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "Akses ditolak."})
	}
}

// GetPrincipal returns the principal stored by JWTAuthMiddleware
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}
