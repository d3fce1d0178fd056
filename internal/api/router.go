package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	v1 "github.com/priceforge/priceforge/internal/api/v1"
	"github.com/priceforge/priceforge/internal/rest/middleware"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Rule    *v1.RuleHandler
	Pricing *v1.PricingHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.ErrorHandler())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Rule routes
	rules := router.Group("/rules")
	{
		rules.POST("", handlers.Rule.CreateRule)
		rules.GET("", handlers.Rule.ListRules)
		rules.GET("/:id", handlers.Rule.GetRule)
		rules.PUT("/:id", handlers.Rule.UpdateRule)
		rules.DELETE("/:id", handlers.Rule.DeleteRule)
		rules.POST("/usage", handlers.Rule.CommitUsage)
	}

	// Pricing routes
	pricing := router.Group("/pricing")
	{
		pricing.POST("/resolve", handlers.Pricing.ResolvePrice)
		pricing.POST("/cart", handlers.Pricing.ResolveCart)
	}
}
