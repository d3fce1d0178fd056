package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/priceforge/priceforge/internal/api"
	v1 "github.com/priceforge/priceforge/internal/api/v1"
	"github.com/priceforge/priceforge/internal/config"
	"github.com/priceforge/priceforge/internal/domain/rule"
	"github.com/priceforge/priceforge/internal/logger"
	"github.com/priceforge/priceforge/internal/repository"
	"github.com/priceforge/priceforge/internal/service"
	"github.com/priceforge/priceforge/internal/validator"
)

// @title PriceForge API
// @version 1.0
// @description Discount and pricing rule resolution service
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Load .env if present; real config comes from viper
	_ = godotenv.Load()

	app := fx.New(
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Repositories
			provideRuleRepository,

			// Services
			service.NewServiceParams,
			service.NewRuleService,
			service.NewPricingEngineService,

			// API
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideRuleRepository() rule.Repository {
	return repository.NewCachedRuleRepository(repository.NewRuleRepository())
}

func provideHandlers(
	ruleService service.RuleService,
	engine service.PricingEngineService,
	logger *logger.Logger,
) api.Handlers {
	return api.Handlers{
		Health:  v1.NewHealthHandler(logger),
		Rule:    v1.NewRuleHandler(ruleService, logger),
		Pricing: v1.NewPricingHandler(engine, logger),
	}
}

func provideRouter(handlers api.Handlers) *gin.Engine {
	return api.NewRouter(handlers)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Starting API server on %s", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
