package handler

import (
	"payment-callback-gateway/internal/adapter/http/middleware"
	redisStore "payment-callback-gateway/internal/adapter/storage/redis"
	"payment-callback-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	LegacySvc      ports.CallbackService
	VioletSvc      ports.CallbackService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize())

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Buyer-facing landing page for hosted-checkout redirects
	r.GET("/success", SuccessPage)

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// Provider callback routes
	callbackHandler := NewCallbackHandler(deps.LegacySvc, deps.VioletSvc)
	r.POST("/callback/payment", rl("callback"), callbackHandler.LegacyCallback)
	r.POST("/webhook/violetpay", rl("callback"), callbackHandler.VioletCallback)

	return r
}
