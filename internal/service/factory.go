package service

import (
	"github.com/priceforge/priceforge/internal/config"
	"github.com/priceforge/priceforge/internal/domain/rule"
	"github.com/priceforge/priceforge/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// Repositories
	RuleRepo rule.Repository
}

// NewServiceParams creates a new ServiceParams instance for DI
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	ruleRepo rule.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:   logger,
		Config:   config,
		RuleRepo: ruleRepo,
	}
}
