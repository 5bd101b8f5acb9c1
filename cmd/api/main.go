// Package main is the entry point for the sweet shop service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/GunarsK-portfolio/sweetshop-service/docs"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/config"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/events"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/handlers"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/metrics"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/middleware"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/repository"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/routes"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/service"
	"github.com/GunarsK-portfolio/sweetshop-service/pkg/database"
	"github.com/GunarsK-portfolio/sweetshop-service/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

// @title Sweet Shop Inventory API
// @version 1.0
// @description Catalog, purchase and role-gated inventory management for the sweet shop
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file to load before reading the environment")
	port := pflag.String("port", "", "listen port (overrides PORT)")
	pflag.Parse()

	if err := run(*envFile, *port); err != nil {
		slog.Error("sweet shop service stopped", "error", err)
		os.Exit(1)
	}
}

func run(envFile, portOverride string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	// Load configuration
	cfg := config.Load()
	if portOverride != "" {
		cfg.Port = portOverride
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	secret, usedDefault := cfg.SigningSecret()
	if usedDefault {
		logger.Warn("JWT_SECRET is not set, using the built-in development secret")
	}

	checks := map[string]handlers.Pinger{}

	// Initialize store
	var (
		userRepo  repository.UserRepository
		sweetRepo repository.SweetRepository
	)
	switch cfg.StoreDriver {
	case config.DriverMemory:
		store := repository.NewMemoryStore()
		userRepo, sweetRepo = store.Users(), store.Sweets()
		logger.Info("using in-memory store")
	case config.DriverPostgres:
		db, err := database.Connect(ctx, database.PostgresConfig{
			URL:       cfg.DatabaseURL,
			Host:      cfg.DBHost,
			Port:      cfg.DBPort,
			User:      cfg.DBUser,
			Password:  cfg.DBPassword,
			DBName:    cfg.DBName,
			SSLMode:   cfg.DBSSLMode,
			ForceIPv4: cfg.DBForceIPv4,
		}, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := database.Close(db); err != nil {
				logger.Error("failed to close database", "error", err)
			}
		}()
		if cfg.AutoMigrate {
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		userRepo, sweetRepo = repository.NewUserRepository(db), repository.NewSweetRepository(db)
		checks["database"] = database.Ping(db)
		logger.Info("connected to database")
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	// Initialize Redis
	var revocations service.Revocations
	if cfg.RedisEnabled() {
		client, err := redis.NewClient(ctx, redis.Options{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return err
		}
		defer client.Close()
		revocations = service.NewRedisRevocations(client, nil)
		checks["redis"] = redis.Ping(client)
		logger.Info("token revocation enabled")
	}

	// Initialize services
	tokens, err := service.NewTokenService(secret, nil)
	if err != nil {
		return err
	}
	authService := service.NewAuthService(userRepo, tokens, service.NewBcryptHasher(bcrypt.DefaultCost), revocations)
	inventory := service.NewInventoryService(sweetRepo)

	if cfg.AdminEmail != "" {
		created, err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, "Administrator")
		if err != nil {
			return fmt.Errorf("failed to bootstrap admin: %w", err)
		}
		if created {
			logger.Info("admin account created", "email", service.NormalizeEmail(cfg.AdminEmail))
		}
	}

	// Initialize handlers
	collector := metrics.New("sweetshop")
	guard := middleware.NewGuard(tokens, revocations, logger)
	h := routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService, handlers.NewCookieHelper(cfg.Cookie), tokens, logger),
		Sweets: handlers.NewSweetHandler(inventory, events.NewLogEmitter(logger), collector, logger),
		Health: handlers.NewHealthHandler(checks),
	}

	// Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger))
	routes.Setup(router, h, guard, cfg, collector)

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
			AllowCredentials: true,
			MaxAge:           300,
		})(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting sweet shop service", "port", cfg.Port, "store", cfg.StoreDriver)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
