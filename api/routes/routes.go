package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/zulvanavito/Plastira/internal/config"
	"github.com/zulvanavito/Plastira/internal/handlers"
	"github.com/zulvanavito/Plastira/internal/middleware"
	"github.com/zulvanavito/Plastira/internal/models"
	"go.uber.org/zap"
)

// HandlerDependencies holds all handler instances needed by the router
type HandlerDependencies struct {
	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	PickupHandler       *handlers.PickupHandler
	VoucherHandler      *handlers.VoucherHandler
	RedemptionHandler   *handlers.RedemptionHandler
	MitraHandler        *handlers.MitraHandler
	NotificationHandler *handlers.NotificationHandler
	HealthHandler       *handlers.HealthHandler

	Authenticator middleware.Authenticator
	AuthLimiter   *middleware.IPRateLimiter
	Logger        *zap.Logger
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(deps.Logger))

	requireAuth := middleware.JWTAuthMiddleware(deps.Authenticator, false, deps.Logger)

	api := router.Group("/api")

	// Public routes
	{
		api.GET("/health", deps.HealthHandler.Health)
		api.GET("/vouchers", deps.VoucherHandler.ListActive)
		api.GET("/leaderboard", deps.UserHandler.Leaderboard)

		auth := api.Group("/auth")
		if deps.AuthLimiter != nil {
			auth.Use(deps.AuthLimiter.Middleware())
		}
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
			auth.POST("/mitra/register", deps.AuthHandler.RegisterMitra)
			auth.POST("/mitra/login", deps.AuthHandler.LoginMitra)
		}
	}

	// the upgrade route also accepts ?token=
	api.GET("/socket",
		middleware.JWTAuthMiddleware(deps.Authenticator, true, deps.Logger),
		deps.NotificationHandler.Socket)

	protected := api.Group("")
	protected.Use(requireAuth)
	{
		protected.GET("/user/me", deps.UserHandler.Me)

		citizen := protected.Group("")
		citizen.Use(middleware.RequireRole(models.RoleUser))
		{
			citizen.POST("/pickups", deps.PickupHandler.Create)
			citizen.GET("/pickups/me", deps.PickupHandler.Mine)
			citizen.POST("/redeem", deps.RedemptionHandler.Redeem)
			citizen.GET("/redemptions/me", deps.RedemptionHandler.Mine)
		}

		admin := protected.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/pickups/verify", deps.PickupHandler.List)
			admin.PUT("/pickups/verify", deps.PickupHandler.Verify)
			admin.PATCH("/pickups/verify", deps.PickupHandler.Reject)
			admin.GET("/pickups/export", deps.PickupHandler.Export)

			vouchers := admin.Group("/admin/vouchers")
			{
				vouchers.GET("", deps.VoucherHandler.ListAll)
				vouchers.POST("", deps.VoucherHandler.Create)
				vouchers.PUT("", deps.VoucherHandler.Update)
				vouchers.DELETE("", deps.VoucherHandler.Delete)
			}
		}

		mitra := protected.Group("/mitra")
		mitra.Use(middleware.RequireRole(models.RoleMitra))
		{
			mitra.GET("/dashboard", deps.MitraHandler.Dashboard)
		}
	}

	return router
}
