package main

import (
	"context"
	"log"
	"time"

	"delivery-proof/internal/core/cache"
	"delivery-proof/internal/core/config"
	"delivery-proof/internal/core/db"
	"delivery-proof/internal/core/logger"
	"delivery-proof/internal/core/notify"
	"delivery-proof/internal/core/server"
	"delivery-proof/internal/features/access"
	authadapter "delivery-proof/internal/features/auth/adapters"
	authhandler "delivery-proof/internal/features/auth/handler"
	authservice "delivery-proof/internal/features/auth/service"
	deliveryadapter "delivery-proof/internal/features/deliveries/adapters"
	deliveryhandler "delivery-proof/internal/features/deliveries/handler"
	deliverystore "delivery-proof/internal/features/deliveries/store"
	notifadapter "delivery-proof/internal/features/notifications/adapters"
	notifhandler "delivery-proof/internal/features/notifications/handler"
	notifservice "delivery-proof/internal/features/notifications/service"
	rolesadapter "delivery-proof/internal/features/roles/adapters"
	rolesdomain "delivery-proof/internal/features/roles/domain"
	rolesservice "delivery-proof/internal/features/roles/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// @title Delivery Proof API
// @version 1.0
// @description Role-gated delivery tracking with photo proof of completion.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Database (source of truth) plus migrations.
	database, err := db.Open(cfg.Database.URL, cfg.Database.MigrationsDir)
	if err != nil {
		l.Fatal("Database connection failed", zap.Error(err))
	}
	defer database.Close()
	l.Info("Database connection verified")

	// Redis backs both the cache and the change feed.
	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Redis connection failed", zap.Error(err))
	}
	feed, err := notify.NewRedisFeed(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Change feed connection failed", zap.Error(err))
	}
	defer feed.Close()

	// Notifications
	notifRepo := notifadapter.NewRedisNotificationRepository(redisCache)
	notifSvc := notifservice.NewNotificationService(notifRepo)
	notifHdl := notifhandler.NewNotificationHandler(notifSvc)

	// Auth
	tokenTTL := time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute
	tokens := authadapter.NewJWTManager(cfg.Auth.JWTSecret, tokenTTL)
	users := authadapter.NewPostgresUserRepository(database)
	authSvc := authservice.NewAuthService(users, tokens, redisCache, feed)
	authHdl := authhandler.NewAuthHandler(authSvc, notifSvc)

	// Roles
	roleRepo := rolesadapter.NewPostgresRoleRepository(database)
	resolver := rolesservice.NewRoleResolver(roleRepo)

	// Deliveries: repository, synchronized store, handler.
	deliveryRepo := deliveryadapter.NewPostgresDeliveryRepository(database, feed)
	store, err := deliverystore.New(context.Background(), deliveryRepo, feed, notifSvc)
	if err != nil {
		l.Fatal("Delivery store failed to start", zap.Error(err))
	}
	defer store.Close()
	deliveryHdl := deliveryhandler.NewDeliveryHandler(store)

	srv := server.New(cfg)

	// Public routes. "/" and "/auth" are the gate's redirect targets.
	srv.App.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": "delivery-proof", "status": "ok"})
	})
	srv.App.Get("/auth", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"signin": "/auth/signin"})
	})
	srv.App.Post("/auth/signin", authHdl.SignIn)
	srv.App.Post("/auth/signout", authHdl.SignOut)
	srv.App.Get("/auth/session", authHdl.Session)
	srv.App.Get("/notifications", notifHdl.GetLatest)

	// Manager routes
	manager := srv.App.Group("/manager",
		access.RequireRole(authSvc, resolver, rolesdomain.RoleTagAdmin))
	manager.Post("/deliveries", deliveryHdl.AddDelivery)
	manager.Get("/deliveries", deliveryHdl.ListDeliveries)
	manager.Get("/deliveries/:id", deliveryHdl.GetDelivery)

	// Courier routes
	courier := srv.App.Group("/delivery",
		access.RequireRole(authSvc, resolver, rolesdomain.RoleTagDelivery))
	courier.Get("/deliveries", deliveryHdl.ListWorklist)
	courier.Post("/deliveries/:id/complete", deliveryHdl.CompleteDelivery)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
