// Package routes defines HTTP routes for the sweet shop service.
package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/GunarsK-portfolio/sweetshop-service/docs"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/config"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/handlers"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/metrics"
	"github.com/GunarsK-portfolio/sweetshop-service/internal/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups the HTTP handlers wired into the router.
type Handlers struct {
	Auth   *handlers.AuthHandler
	Sweets *handlers.SweetHandler
	Health *handlers.HealthHandler
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, h Handlers, guard *middleware.Guard, cfg *config.Config, metricsCollector *metrics.Metrics) {
	router.Use(metricsCollector.Middleware())

	// Health check
	router.GET("/health", h.Health.Check)
	// Metrics
	router.GET("/metrics", gin.WrapH(metricsCollector.Handler()))

	api := router.Group("/api")
	api.Use(middleware.CSRF(middleware.CSRFConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		CookieName:     handlers.TokenCookie,
	}))
	api.Use(guard.Middleware())

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", h.Auth.Me)
	}

	sweets := api.Group("/sweets")
	{
		sweets.GET("", h.Sweets.List)
		sweets.GET("/search", h.Sweets.Search)
		sweets.POST("", h.Sweets.Create)
		sweets.GET("/:id", h.Sweets.Get)
		sweets.PUT("/:id", h.Sweets.Update)
		sweets.DELETE("/:id", h.Sweets.Delete)
		sweets.POST("/:id/purchase", h.Sweets.Purchase)
		sweets.POST("/:id/restock", h.Sweets.Restock)
	}

	// Protected pages. The gate only redirects anonymous navigation; the
	// API above re-checks every request.
	pages := router.Group("/", middleware.NavigationGate(handlers.TokenCookie, "/"))
	{
		pages.GET("/admin/*path", serveApp(cfg.StaticDir))
		pages.GET("/dashboard/*path", serveApp(cfg.StaticDir))
	}
	if cfg.StaticDir != "" {
		router.GET("/", serveApp(cfg.StaticDir))
		router.NoRoute(serveStatic(cfg.StaticDir))
	}

	// Swagger documentation (only if SWAGGER_HOST is configured)
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// serveApp returns the single-page app entry point.
func serveApp(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if dir == "" {
			c.JSON(http.StatusNotFound, handlers.ErrorResponse{Error: "not found"})
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}

// serveStatic serves files below dir and falls back to a JSON 404.
func serveStatic(dir string) gin.HandlerFunc {
	root := filepath.Clean(dir)
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, handlers.ErrorResponse{Error: "not found"})
			return
		}
		path := filepath.Join(root, filepath.FromSlash(filepath.Clean("/"+c.Request.URL.Path)))
		if !strings.HasPrefix(path, root) {
			c.JSON(http.StatusNotFound, handlers.ErrorResponse{Error: "not found"})
			return
		}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			c.JSON(http.StatusNotFound, handlers.ErrorResponse{Error: "not found"})
			return
		}
		c.File(path)
	}
}
