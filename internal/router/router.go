package router

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-catalog/backend/internal/api"
	"github.com/pageza/recipe-catalog/backend/internal/metrics"
	"github.com/pageza/recipe-catalog/backend/internal/middleware"
)

// Handlers are the mounted API handlers. Images and RateLimiter are
// optional.
type Handlers struct {
	Recipes *api.RecipeHandler
	AI      *api.AIHandler
	Images  *api.ImageHandler
	Health  *api.HealthHandler
}

// Options configure the middleware chain.
type Options struct {
	CORSOrigins []string
	Metrics     *metrics.Metrics
	RateLimiter *middleware.RateLimiter
	Logger      *zap.Logger
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(opts.Logger))
	router.Use(requestid.New())
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(middleware.CORS(opts.CORSOrigins))
	if opts.Metrics != nil {
		router.Use(middleware.Metrics(opts.Metrics))
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	router.NoRoute(middleware.NotFound())

	router.GET("/health", h.Health.HealthCheck)

	apiGroup := router.Group("/api")
	h.Recipes.RegisterRoutes(apiGroup)

	var aiMiddleware []gin.HandlerFunc
	if opts.RateLimiter != nil {
		aiMiddleware = append(aiMiddleware, opts.RateLimiter.RateLimitMiddleware())
	}
	h.AI.RegisterRoutes(apiGroup, aiMiddleware...)

	if h.Images != nil {
		h.Images.RegisterRoutes(apiGroup)
	}

	return router
}
