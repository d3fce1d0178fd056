package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/priceforge/priceforge/internal/api/dto"
	"github.com/priceforge/priceforge/internal/domain/pricing"
	ierr "github.com/priceforge/priceforge/internal/errors"
	"github.com/priceforge/priceforge/internal/logger"
	"github.com/priceforge/priceforge/internal/service"
)

type PricingHandler struct {
	engine service.PricingEngineService
	logger *logger.Logger
}

func NewPricingHandler(engine service.PricingEngineService, logger *logger.Logger) *PricingHandler {
	return &PricingHandler{
		engine: engine,
		logger: logger,
	}
}

// @Summary Resolve the price of a line item
// @Description Computes the deterministic final price for a pricing context and rule set
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.ResolvePriceRequest true "Resolve request"
// @Success 200 {object} pricing.Resolution
// @Failure 400 {object} ierr.ErrorResponse
// @Router /pricing/resolve [post]
func (h *PricingHandler) ResolvePrice(c *gin.Context) {
	var req dto.ResolvePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	var (
		resolution *pricing.Resolution
		err        error
	)
	if len(req.Rules) > 0 {
		resolution, err = h.engine.Resolve(c.Request.Context(), &req.Context, req.Rules)
	} else {
		resolution, err = h.engine.ResolveByRuleIDs(c.Request.Context(), &req.Context, req.RuleIDs)
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resolution)
}

// @Summary Resolve the prices of a cart
// @Description Computes the deterministic final price for every cart line
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.ResolveCartRequest true "Cart resolve request"
// @Success 200 {object} pricing.CartResolution
// @Failure 400 {object} ierr.ErrorResponse
// @Router /pricing/cart [post]
func (h *PricingHandler) ResolveCart(c *gin.Context) {
	var req dto.ResolveCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	lines := make([]*pricing.Context, len(req.Lines))
	for i := range req.Lines {
		lines[i] = &req.Lines[i]
	}

	var (
		resolution *pricing.CartResolution
		err        error
	)
	if len(req.Rules) > 0 {
		resolution, err = h.engine.ResolveCart(c.Request.Context(), lines, req.Rules)
	} else {
		resolution, err = h.engine.ResolveCartByRuleIDs(c.Request.Context(), lines, req.RuleIDs)
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resolution)
}
