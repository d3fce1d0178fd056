package service

import (
	"time"

	"github.com/samber/lo"

	"github.com/priceforge/priceforge/internal/domain/pricing"
	"github.com/priceforge/priceforge/internal/domain/rule"
	"github.com/priceforge/priceforge/internal/types"
)

// ConditionEvaluator evaluates one condition against a pricing context.
// It is a pure predicate and a total function over the closed condition kind
// set: an unknown kind or a malformed value yields false, never a panic or an
// error. The diagnostic reason is surfaced through the caller's rejection
// trail as condition-failed:<kind>.
type ConditionEvaluator struct {
	defaultLocation *time.Location
}

// NewConditionEvaluator creates an evaluator with the given default timezone
// for day-of-week and time-range conditions that do not carry their own.
// An unloadable zone falls back to UTC.
func NewConditionEvaluator(defaultTimezone string) *ConditionEvaluator {
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return &ConditionEvaluator{defaultLocation: loc}
}

// Evaluate reports whether the condition passes for the context
func (e *ConditionEvaluator) Evaluate(c rule.Condition, ctx *pricing.Context) bool {
	switch c.Kind {
	case types.ConditionKindCategory:
		// passes when any of the context's categories is configured
		return lo.Some(c.Values, ctx.CategoryIDs)
	case types.ConditionKindProduct:
		return lo.Contains(c.Values, ctx.ProductID)
	case types.ConditionKindBrand:
		return lo.Contains(c.Values, ctx.BrandID)
	case types.ConditionKindCustomerSegment:
		return lo.Contains(c.Values, ctx.CustomerSegment)
	case types.ConditionKindPaymentMethod:
		return lo.Contains(c.Values, ctx.PaymentMethod)
	case types.ConditionKindRegion:
		return lo.Contains(c.Values, ctx.Region)
	case types.ConditionKindSalesChannel:
		return lo.Contains(c.Values, ctx.SalesChannel)
	case types.ConditionKindMinPurchaseAmount:
		return ctx.BasePrice.GreaterThanOrEqual(c.Amount)
	case types.ConditionKindMinQuantity:
		return ctx.Quantity >= c.Quantity
	case types.ConditionKindMaxQuantity:
		return ctx.Quantity <= c.Quantity
	case types.ConditionKindDayOfWeek:
		local, ok := e.localInstant(c, ctx)
		if !ok {
			return false
		}
		return lo.Contains(c.Days, local.Weekday())
	case types.ConditionKindTimeRange:
		local, ok := e.localInstant(c, ctx)
		if !ok {
			return false
		}
		minute := local.Hour()*60 + local.Minute()
		return minute >= c.StartMinute && minute <= c.EndMinute
	case types.ConditionKindExcludeAlreadyDiscounted:
		return !ctx.AlreadyDiscounted
	case types.ConditionKindFirstOrderOnly:
		return ctx.IsFirstOrder
	default:
		return false
	}
}

// localInstant converts the context's evaluation instant into the condition's
// reference timezone. A malformed timezone makes the condition fail instead
// of crashing the resolution.
func (e *ConditionEvaluator) localInstant(c rule.Condition, ctx *pricing.Context) (time.Time, bool) {
	loc := e.defaultLocation
	if c.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(c.Timezone)
		if err != nil {
			return time.Time{}, false
		}
	}
	return ctx.EvaluationInstant.In(loc), true
}
