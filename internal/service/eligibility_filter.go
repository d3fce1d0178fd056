package service

import (
	"github.com/priceforge/priceforge/internal/domain/pricing"
	"github.com/priceforge/priceforge/internal/domain/rule"
	"github.com/priceforge/priceforge/internal/types"
)

// RuleEligibilityFilter reduces the full rule set to the rules eligible for a
// given context. Checks run in a fixed order and short-circuit: the first
// failing check is the reported reason. Merchant-facing diagnostics depend on
// this order, so it must never change silently:
//
//	active -> validity window -> currency -> usage -> conditions
type RuleEligibilityFilter struct {
	evaluator *ConditionEvaluator
}

func NewRuleEligibilityFilter(evaluator *ConditionEvaluator) *RuleEligibilityFilter {
	return &RuleEligibilityFilter{evaluator: evaluator}
}

// Filter splits rules into the eligible set and the rejection trail,
// preserving input order in both.
func (f *RuleEligibilityFilter) Filter(ctx *pricing.Context, rules []*rule.DiscountRule) ([]*rule.DiscountRule, []pricing.RejectedRule) {
	eligible := make([]*rule.DiscountRule, 0, len(rules))
	rejected := make([]pricing.RejectedRule, 0)

	for _, r := range rules {
		if reason, ok := f.check(ctx, r); !ok {
			rejected = append(rejected, pricing.RejectedRule{RuleID: r.ID, Reason: reason})
			continue
		}
		eligible = append(eligible, r)
	}

	return eligible, rejected
}

func (f *RuleEligibilityFilter) check(ctx *pricing.Context, r *rule.DiscountRule) (types.IneligibilityReason, bool) {
	if !r.IsActive {
		return types.ReasonInactive, false
	}

	// date checks run before currency so a rule failing both reports the
	// window failure
	if r.IsNotYetActive(ctx.EvaluationInstant) {
		return types.ReasonNotYetActive, false
	}
	if r.IsExpired(ctx.EvaluationInstant) {
		return types.ReasonExpired, false
	}

	if !types.IsMatchingCurrency(r.Currency, ctx.Currency) {
		return types.ReasonCurrencyMismatch, false
	}

	if r.IsUsageExhausted() {
		return types.ReasonUsageExhausted, false
	}

	// AND semantics: every condition must pass; the first failing kind is
	// the one reported
	for _, c := range r.Conditions {
		if !f.evaluator.Evaluate(c, ctx) {
			return types.ReasonConditionFailed(c.Kind), false
		}
	}

	return "", true
}
