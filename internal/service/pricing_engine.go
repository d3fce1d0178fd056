package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc"

	"github.com/priceforge/priceforge/internal/domain/pricing"
	"github.com/priceforge/priceforge/internal/domain/rule"
	ierr "github.com/priceforge/priceforge/internal/errors"
)

// PricingEngineService is the single public entry point for price resolution.
// It composes eligibility filtering, relation resolution and price
// accumulation into one deterministic, side-effect-free computation: the same
// context and rule snapshot always produce the same resolution, and rules are
// never mutated. Usage increments come back as advisory data so callers can
// batch-commit them atomically against their own storage.
type PricingEngineService interface {
	Resolve(ctx context.Context, pctx *pricing.Context, rules []*rule.DiscountRule) (*pricing.Resolution, error)
	ResolveByRuleIDs(ctx context.Context, pctx *pricing.Context, ruleIDs []string) (*pricing.Resolution, error)
	ResolveCart(ctx context.Context, lines []*pricing.Context, rules []*rule.DiscountRule) (*pricing.CartResolution, error)
	ResolveCartByRuleIDs(ctx context.Context, lines []*pricing.Context, ruleIDs []string) (*pricing.CartResolution, error)
}

type pricingEngineService struct {
	ServiceParams
	filter      *RuleEligibilityFilter
	resolver    *RelationResolver
	accumulator *PriceAccumulator
}

// NewPricingEngineService creates a new pricing engine service
func NewPricingEngineService(params ServiceParams) PricingEngineService {
	evaluator := NewConditionEvaluator(params.Config.Pricing.DefaultTimezone)
	return &pricingEngineService{
		ServiceParams: params,
		filter:        NewRuleEligibilityFilter(evaluator),
		resolver:      NewRelationResolver(),
		accumulator:   NewPriceAccumulator(),
	}
}

func (s *pricingEngineService) Resolve(ctx context.Context, pctx *pricing.Context, rules []*rule.DiscountRule) (*pricing.Resolution, error) {
	if pctx == nil {
		return nil, ierr.NewError("pricing context is required").
			WithHint("Provide a pricing context with base price and currency").
			Mark(ierr.ErrValidation)
	}
	if err := pctx.Validate(); err != nil {
		return nil, err
	}

	if max := s.Config.Pricing.MaxRulesPerResolve; len(rules) > max {
		return nil, ierr.NewError("too many rules for one resolution").
			WithHintf("At most %d rules can be resolved in one call", max).
			Mark(ierr.ErrValidation)
	}

	// configuration errors surface as a structured validation failure list at
	// load time, never embedded in resolution results
	if err := s.validateRuleSet(rules); err != nil {
		return nil, err
	}

	eligible, ineligible := s.filter.Filter(pctx, rules)
	applicable, unresolvable := s.resolver.Resolve(eligible)
	resolution := s.accumulator.Apply(pctx, applicable)

	resolution.RejectedRules = append(ineligible, unresolvable...)
	resolution.UsageIncrements = make([]string, 0, len(resolution.AppliedRules))
	for _, applied := range resolution.AppliedRules {
		resolution.UsageIncrements = append(resolution.UsageIncrements, applied.RuleID)
	}

	s.Logger.Debugw("resolved pricing",
		"currency", pctx.Currency,
		"base_price", pctx.BasePrice,
		"final_price", resolution.FinalPrice,
		"applied_rules", len(resolution.AppliedRules),
		"rejected_rules", len(resolution.RejectedRules))

	return resolution, nil
}

func (s *pricingEngineService) ResolveByRuleIDs(ctx context.Context, pctx *pricing.Context, ruleIDs []string) (*pricing.Resolution, error) {
	rules, err := s.RuleRepo.GetBatch(ctx, ruleIDs)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, pctx, rules)
}

// ResolveCart resolves every line item independently. Lines share the rule
// snapshot but nothing else, so they run concurrently; the aggregate is
// assembled in line order to keep the output deterministic.
func (s *pricingEngineService) ResolveCart(ctx context.Context, lines []*pricing.Context, rules []*rule.DiscountRule) (*pricing.CartResolution, error) {
	results := make([]*pricing.Resolution, len(lines))
	errs := make([]error, len(lines))

	var wg conc.WaitGroup
	for i, line := range lines {
		i, line := i, line
		wg.Go(func() {
			results[i], errs[i] = s.Resolve(ctx, line, rules)
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	cart := &pricing.CartResolution{
		Lines:         results,
		FinalPrice:    decimal.Zero,
		TotalDiscount: decimal.Zero,
	}
	for _, res := range results {
		cart.FinalPrice = cart.FinalPrice.Add(res.FinalPrice)
		cart.TotalDiscount = cart.TotalDiscount.Add(res.TotalDiscount)
	}
	return cart, nil
}

func (s *pricingEngineService) ResolveCartByRuleIDs(ctx context.Context, lines []*pricing.Context, ruleIDs []string) (*pricing.CartResolution, error) {
	rules, err := s.RuleRepo.GetBatch(ctx, ruleIDs)
	if err != nil {
		return nil, err
	}
	return s.ResolveCart(ctx, lines, rules)
}

// validateRuleSet collects the configuration error of every invalid rule into
// one validation failure list
func (s *pricingEngineService) validateRuleSet(rules []*rule.DiscountRule) error {
	failures := make(map[string]any)
	for _, r := range rules {
		if r == nil {
			return ierr.NewError("rule cannot be nil").
				WithHint("Rule set must not contain null entries").
				Mark(ierr.ErrValidation)
		}
		if err := r.Validate(); err != nil {
			failures[r.ID] = err.Error()
		}
	}
	if len(failures) > 0 {
		return ierr.NewError("rule set contains invalid configurations").
			WithHint("Fix the listed rules before resolving").
			WithReportableDetails(failures).
			Mark(ierr.ErrValidation)
	}
	return nil
}
