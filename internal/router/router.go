package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/academic-backend/internal/config"
	"github.com/stemsi/academic-backend/internal/handler"
	"github.com/stemsi/academic-backend/internal/logger"
	"github.com/stemsi/academic-backend/internal/metrics"
	"github.com/stemsi/academic-backend/internal/middleware"
	"github.com/stemsi/academic-backend/internal/response"
)

const metricsPath = "/metrics"

// SetupRouter configures the Gin engine with the API routes and ambient
// middleware. ctx bounds background work owned by the middleware.
func SetupRouter(
	ctx context.Context,
	handlers *handler.Handlers,
	cfg *config.Config,
	log zerolog.Logger,
	m *metrics.Metrics,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(logger.RequestLogger(log))
	router.Use(m.Middleware())

	// promhttp negotiates its own encoding.
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		SkipPaths: []string{metricsPath},
	}))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET(metricsPath, gin.WrapH(m.Handler()))

	// ─── API ───────────────────────────────────────────────────────────
	var mutating []gin.HandlerFunc
	if cfg.RateLimitPerMinute > 0 {
		limiter := middleware.NewRateLimiter(ctx, cfg.RateLimitPerMinute, time.Minute)
		mutating = append(mutating, limiter.Middleware())
	}

	api := router.Group("/api/v1")
	handlers.Register(api, mutating...)

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	return router
}
