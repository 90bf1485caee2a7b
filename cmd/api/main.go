package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/zulvanavito/Plastira/api/routes"
	"github.com/zulvanavito/Plastira/internal/config"
	"github.com/zulvanavito/Plastira/internal/handlers"
	"github.com/zulvanavito/Plastira/internal/middleware"
	"github.com/zulvanavito/Plastira/internal/notify"
	"github.com/zulvanavito/Plastira/internal/repositories"
	mongorepo "github.com/zulvanavito/Plastira/internal/repositories/mongodb"
	"github.com/zulvanavito/Plastira/internal/services"
	"github.com/zulvanavito/Plastira/pkg/jwt"
	"github.com/zulvanavito/Plastira/pkg/logger"
	"github.com/zulvanavito/Plastira/pkg/mongodb"
	"go.uber.org/zap"
)

// redisPinger adapts a redis client to the health check
type redisPinger struct{ client *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.client.Ping(ctx).Err() }

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx := context.Background()

	// Connect to MongoDB
	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.ConnectTimeout())
	if err != nil {
		zlog.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			zlog.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()

	db := mongoClient.Database()
	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		zlog.Fatal("Failed to create indexes", zap.Error(err))
	}

	// Initialize Repositories
	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	mitraRepo := mongorepo.NewMitraRepository(db)
	pickupRepo := mongorepo.NewPickupRepository(db)
	voucherRepo := mongorepo.NewVoucherRepository(db)
	redemptionRepo := mongorepo.NewRedemptionRepository(db)

	// Notification channel
	hub := notify.NewHub(zlog)
	var registry notify.Registry = hub
	var redisClient *redis.Client
	if cfg.Notify.Backend == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rr, err := notify.NewRedisRegistry(ctx, redisClient, cfg.Notify.Channel, hub, zlog)
		if err != nil {
			zlog.Fatal("Failed to subscribe to Redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		registry = rr
	}
	defer func() {
		if err := registry.Close(); err != nil {
			zlog.Warn("Error closing notification registry", zap.Error(err))
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}()
	notifier := notify.NewNotifier(registry)
	sockets := notify.NewWSServer(registry, cfg.Server.AllowedOrigins, cfg.Notify.SendBuffer, zlog)

	// Initialize Services
	tokens, err := jwt.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TokenTTL())
	if err != nil {
		zlog.Fatal("Failed to initialise token manager", zap.Error(err))
	}
	authService := services.NewAuthService(userRepo, mitraRepo, tokens, zlog)
	userService := services.NewUserService(userRepo)
	badgeService := services.NewBadgeService(userRepo, pickupRepo)
	pickupService := services.NewPickupService(pickupRepo, userRepo, badgeService, notifier, cfg.Points.PerKg, zlog)
	voucherService := services.NewVoucherService(voucherRepo, mitraRepo, notifier)
	redemptionService := services.NewRedemptionService(redemptionRepo, voucherRepo, userRepo, zlog)
	partnerService := services.NewPartnerService(voucherRepo, redemptionRepo, cfg.Points.PerKg)

	created, err := authService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		zlog.Fatal("Failed to bootstrap administrator", zap.Error(err))
	}
	if created {
		zlog.Info("Administrator account created", zap.String("email", cfg.Admin.Email))
	}

	// Initialize Handlers
	checks := map[string]handlers.Pinger{"mongodb": mongoClient}
	if redisClient != nil {
		checks["redis"] = redisPinger{client: redisClient}
	}

	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	defer limiter.Stop()

	handlerDeps := routes.HandlerDependencies{
		AuthHandler:         handlers.NewAuthHandler(authService, zlog),
		UserHandler:         handlers.NewUserHandler(userService, zlog),
		PickupHandler:       handlers.NewPickupHandler(pickupService, zlog),
		VoucherHandler:      handlers.NewVoucherHandler(voucherService, zlog),
		RedemptionHandler:   handlers.NewRedemptionHandler(redemptionService, zlog),
		MitraHandler:        handlers.NewMitraHandler(partnerService, zlog),
		NotificationHandler: handlers.NewNotificationHandler(sockets, zlog),
		HealthHandler:       handlers.NewHealthHandler(checks),
		Authenticator:       authService,
		AuthLimiter:         limiter,
		Logger:              zlog,
	}

	gin.SetMode(cfg.Server.Mode)
	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in a goroutine so that it doesn't block
	go func() {
		zlog.Info("Server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("notifyBackend", cfg.Notify.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Listen failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// hijacked websocket connections are not tracked by Shutdown and end with the process
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}

	zlog.Info("Server exiting")
}
