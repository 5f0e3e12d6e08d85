package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-catalog/backend/config"
	"github.com/pageza/recipe-catalog/backend/internal/api"
	"github.com/pageza/recipe-catalog/backend/internal/database"
	"github.com/pageza/recipe-catalog/backend/internal/imagesearch"
	"github.com/pageza/recipe-catalog/backend/internal/llm"
	"github.com/pageza/recipe-catalog/backend/internal/logger"
	"github.com/pageza/recipe-catalog/backend/internal/metrics"
	"github.com/pageza/recipe-catalog/backend/internal/middleware"
	"github.com/pageza/recipe-catalog/backend/internal/router"
	"github.com/pageza/recipe-catalog/backend/internal/server"
	"github.com/pageza/recipe-catalog/backend/internal/service"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		zap.NewExample().Fatal("Failed to load configuration", zap.Error(err))
	}

	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: !cfg.IsProduction(),
	})
	defer func() { _ = log.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	db, err := database.Open(cfg, log)
	if err != nil {
		return err
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(db, log); err != nil {
			return err
		}
	}

	m := metrics.New()
	checks := map[string]api.Pinger{
		"database": func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
	}

	recipes := service.NewRecipeService(db, log)
	aiConfig := service.AIServiceConfig{
		Recipes:   recipes,
		Fallbacks: m,
		Timeout:   cfg.LLMTimeout,
		MaxTokens: cfg.LLMMaxTokens,
	}
	// Redis is optional: without it the AI routes run unthrottled and
	// nutrition analyses are not cached.
	var limiter *middleware.RateLimiter
	redisClient, err := database.NewRedisClient(cfg, log)
	if err != nil {
		log.Warn("Redis unavailable, continuing without rate limiting and caching", zap.Error(err))
	} else {
		defer redisClient.Close()
		if cfg.AIRateLimit > 0 {
			limiter = middleware.NewAIRateLimiter(redisClient, cfg.AIRateLimit, cfg.AIRateWindow, m, log)
		}
		aiConfig.Cache = service.NewRedisNutritionCache(redisClient, cfg.NutritionCacheTTL, log)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	provider, err := llm.NewProvider(ctx, cfg)
	if err != nil {
		if !errors.Is(err, llm.ErrNoAPIKey) {
			return err
		}
		log.Warn("No language model configured, AI endpoints will fail", zap.Error(err))
		provider = llm.DisabledProvider{Reason: err}
	}

	var tools *llm.Toolbox
	if cfg.PexelsAPIKey != "" {
		search := imagesearch.NewClient("", cfg.PexelsAPIKey, cfg.ImageSearchRPS, log)
		tools = llm.NewToolbox(imagesearch.Tool(search))
	}

	aiConfig.ToolsEnabled = tools.Len() > 0
	aiConfig.Orchestrator = llm.NewOrchestrator(provider, tools,
		llm.WithMaxRounds(cfg.LLMMaxToolRounds),
		llm.WithLogger(log),
		llm.WithObserver(m),
	)

	handlers := router.Handlers{
		Recipes: api.NewRecipeHandler(recipes, log),
		AI:      api.NewAIHandler(service.NewAIService(aiConfig, log), log),
		Health:  api.NewHealthHandler(checks),
	}

	if cfg.S3BucketName != "" {
		s3Config, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return err
		}
		handlers.Images = api.NewImageHandler(service.NewImageService(s3Config, log), log)
	}

	engine := router.SetupRouter(handlers, router.Options{
		CORSOrigins: cfg.CORSOrigins,
		Metrics:     m,
		RateLimiter: limiter,
		Logger:      log,
	})

	log.Info("Starting recipe catalog",
		zap.String("environment", string(cfg.Environment)),
		zap.String("llm_provider", provider.Name()),
		zap.Bool("image_search", tools.Len() > 0),
		zap.Bool("uploads", handlers.Images != nil),
	)
	return server.New(cfg, engine, log).Run(ctx)
}
