package service

import (
	"github.com/shopspring/decimal"

	"github.com/priceforge/priceforge/internal/domain/pricing"
	"github.com/priceforge/priceforge/internal/domain/rule"
	"github.com/priceforge/priceforge/internal/types"
)

var oneHundred = decimal.NewFromInt(100)

// PriceAccumulator applies the ordered applicable set to the base price.
//
// Accumulable rules each compute their deduction against the original base
// price independently; the deductions are summed and subtracted once, which
// prevents compounding double-discount inflation. Cascade rules then apply
// sequentially, each against the running price left by the previous one, so
// their order is significant. Exclusive rules, having already eliminated
// competitors in relation resolution, apply against the base price like
// accumulable ones. The final price never goes below zero.
type PriceAccumulator struct{}

func NewPriceAccumulator() *PriceAccumulator {
	return &PriceAccumulator{}
}

// Apply prices the applicable rules in their application order and returns
// the resolution with an itemized breakdown.
func (a *PriceAccumulator) Apply(ctx *pricing.Context, applicable []*rule.DiscountRule) *pricing.Resolution {
	base := ctx.BasePrice

	applied := make([]pricing.AppliedRule, 0, len(applicable))
	order := 0

	// phase one: accumulable and exclusive deductions, each against the
	// original base price
	accumulated := decimal.Zero
	for _, r := range applicable {
		if r.EffectiveApplicationMode() == types.ApplicationModeCascade {
			continue
		}
		deduction := a.deduction(r, base, ctx.Quantity)
		accumulated = accumulated.Add(deduction)
		order++
		applied = append(applied, pricing.AppliedRule{
			RuleID:         r.ID,
			AmountDeducted: deduction,
			Order:          order,
		})
	}

	running := base.Sub(accumulated)
	if running.LessThan(decimal.Zero) {
		running = decimal.Zero
	}

	// phase two: cascade deductions against the running price, in the
	// priority order established by relation resolution
	for _, r := range applicable {
		if r.EffectiveApplicationMode() != types.ApplicationModeCascade {
			continue
		}
		deduction := a.deduction(r, running, ctx.Quantity)
		if deduction.GreaterThan(running) {
			deduction = running
		}
		running = running.Sub(deduction)
		order++
		applied = append(applied, pricing.AppliedRule{
			RuleID:         r.ID,
			AmountDeducted: deduction,
			Order:          order,
		})
	}

	finalPrice := running
	if finalPrice.LessThan(decimal.Zero) {
		finalPrice = decimal.Zero
	}

	return &pricing.Resolution{
		FinalPrice:    finalPrice,
		TotalDiscount: base.Sub(finalPrice),
		AppliedRules:  applied,
		RejectedRules: []pricing.RejectedRule{},
	}
}

// deduction computes one rule's deduction against the given reference price.
// The reference is the original base price for accumulable and exclusive
// rules and the running price for cascade rules.
func (a *PriceAccumulator) deduction(r *rule.DiscountRule, reference decimal.Decimal, quantity int) decimal.Decimal {
	switch r.DiscountKind {
	case types.DiscountKindPercentage,
		types.DiscountKindComboBundle,
		types.DiscountKindCustomerSegment,
		types.DiscountKindTimeWindow:
		// the percentage-equivalent kinds share the numeric path once
		// eligibility has gated on their condition
		return reference.Mul(r.Value).Div(oneHundred)

	case types.DiscountKindFixedAmount:
		if r.Value.GreaterThan(reference) {
			return reference
		}
		return r.Value

	case types.DiscountKindBuyXGetY:
		// value carries X and the promotion reads "buy X pay X-1": one unit
		// in every full group of X is free, at the reference per-unit price
		x := r.Value.IntPart()
		if x < 2 || quantity < int(x) {
			return decimal.Zero
		}
		freeUnits := int64(quantity) / x
		unitPrice := reference.Div(decimal.NewFromInt(int64(quantity)))
		return unitPrice.Mul(decimal.NewFromInt(freeUnits))

	case types.DiscountKindVolumeTier, types.DiscountKindTiered:
		percent := a.ladderPercent(r.Tiers, quantity)
		return reference.Mul(percent).Div(oneHundred)

	default:
		return decimal.Zero
	}
}

// ladderPercent picks the deepest tier whose min quantity is satisfied
func (a *PriceAccumulator) ladderPercent(tiers []rule.VolumeTier, quantity int) decimal.Decimal {
	percent := decimal.Zero
	for _, tier := range tiers {
		if quantity >= tier.MinQuantity {
			percent = tier.Percent
		}
	}
	return percent
}
