package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/priceforge/priceforge/internal/domain/pricing"
	"github.com/priceforge/priceforge/internal/domain/rule"
	"github.com/priceforge/priceforge/internal/types"
)

func testPricingContext() *pricing.Context {
	return &pricing.Context{
		BasePrice:         decimal.NewFromInt(100),
		Currency:          "usd",
		Quantity:          2,
		CategoryIDs:       []string{"cat_shoes", "cat_running"},
		ProductID:         "prod_1",
		BrandID:           "brand_acme",
		CustomerSegment:   "vip",
		PaymentMethod:     "credit_card",
		Region:            "us-east",
		SalesChannel:      "web",
		EvaluationInstant: time.Date(2025, 6, 18, 15, 30, 0, 0, time.UTC), // a Wednesday
	}
}

func TestConditionEvaluator_Evaluate(t *testing.T) {
	evaluator := NewConditionEvaluator("UTC")

	tests := []struct {
		name      string
		condition rule.Condition
		modify    func(*pricing.Context)
		want      bool
	}{
		{
			name:      "category matches any of configured set",
			condition: rule.Condition{Kind: types.ConditionKindCategory, Values: []string{"cat_running", "cat_hiking"}},
			want:      true,
		},
		{
			name:      "category with no intersection fails",
			condition: rule.Condition{Kind: types.ConditionKindCategory, Values: []string{"cat_hiking"}},
			want:      false,
		},
		{
			name:      "product membership",
			condition: rule.Condition{Kind: types.ConditionKindProduct, Values: []string{"prod_1", "prod_2"}},
			want:      true,
		},
		{
			name:      "product not in set",
			condition: rule.Condition{Kind: types.ConditionKindProduct, Values: []string{"prod_9"}},
			want:      false,
		},
		{
			name:      "brand membership",
			condition: rule.Condition{Kind: types.ConditionKindBrand, Values: []string{"brand_acme"}},
			want:      true,
		},
		{
			name:      "customer segment membership",
			condition: rule.Condition{Kind: types.ConditionKindCustomerSegment, Values: []string{"vip", "gold"}},
			want:      true,
		},
		{
			name:      "payment method membership",
			condition: rule.Condition{Kind: types.ConditionKindPaymentMethod, Values: []string{"pix", "credit_card"}},
			want:      true,
		},
		{
			name:      "region membership",
			condition: rule.Condition{Kind: types.ConditionKindRegion, Values: []string{"us-east"}},
			want:      true,
		},
		{
			name:      "sales channel membership",
			condition: rule.Condition{Kind: types.ConditionKindSalesChannel, Values: []string{"app"}},
			want:      false,
		},
		{
			name:      "min purchase amount inclusive at boundary",
			condition: rule.Condition{Kind: types.ConditionKindMinPurchaseAmount, Amount: decimal.NewFromInt(100)},
			want:      true,
		},
		{
			name:      "min purchase amount above base fails",
			condition: rule.Condition{Kind: types.ConditionKindMinPurchaseAmount, Amount: decimal.NewFromFloat(100.01)},
			want:      false,
		},
		{
			name:      "min quantity inclusive at boundary",
			condition: rule.Condition{Kind: types.ConditionKindMinQuantity, Quantity: 2},
			want:      true,
		},
		{
			name:      "min quantity above fails",
			condition: rule.Condition{Kind: types.ConditionKindMinQuantity, Quantity: 3},
			want:      false,
		},
		{
			name:      "max quantity inclusive at boundary",
			condition: rule.Condition{Kind: types.ConditionKindMaxQuantity, Quantity: 2},
			want:      true,
		},
		{
			name:      "max quantity below fails",
			condition: rule.Condition{Kind: types.ConditionKindMaxQuantity, Quantity: 1},
			want:      false,
		},
		{
			name:      "day of week in default timezone",
			condition: rule.Condition{Kind: types.ConditionKindDayOfWeek, Days: []time.Weekday{time.Wednesday}},
			want:      true,
		},
		{
			name:      "day of week wrong day",
			condition: rule.Condition{Kind: types.ConditionKindDayOfWeek, Days: []time.Weekday{time.Saturday, time.Sunday}},
			want:      false,
		},
		{
			name: "day of week shifts across condition timezone",
			// 15:30 UTC Wednesday is already Thursday in Auckland
			condition: rule.Condition{Kind: types.ConditionKindDayOfWeek, Days: []time.Weekday{time.Thursday}, Timezone: "Pacific/Auckland"},
			want:      true,
		},
		{
			name:      "time range inclusive bounds",
			condition: rule.Condition{Kind: types.ConditionKindTimeRange, StartMinute: 15 * 60, EndMinute: 15*60 + 30},
			want:      true,
		},
		{
			name:      "time range outside window",
			condition: rule.Condition{Kind: types.ConditionKindTimeRange, StartMinute: 0, EndMinute: 8 * 60},
			want:      false,
		},
		{
			name: "time range evaluated in condition timezone",
			// 15:30 UTC is 11:30 in New York during DST
			condition: rule.Condition{Kind: types.ConditionKindTimeRange, StartMinute: 11 * 60, EndMinute: 12 * 60, Timezone: "America/New_York"},
			want:      true,
		},
		{
			name:      "malformed timezone fails closed",
			condition: rule.Condition{Kind: types.ConditionKindTimeRange, StartMinute: 0, EndMinute: 24*60 - 1, Timezone: "Not/AZone"},
			want:      false,
		},
		{
			name:      "exclude already discounted passes on clean line",
			condition: rule.Condition{Kind: types.ConditionKindExcludeAlreadyDiscounted},
			want:      true,
		},
		{
			name:      "exclude already discounted fails on marked line",
			condition: rule.Condition{Kind: types.ConditionKindExcludeAlreadyDiscounted},
			modify:    func(c *pricing.Context) { c.AlreadyDiscounted = true },
			want:      false,
		},
		{
			name:      "first order only fails for returning customer",
			condition: rule.Condition{Kind: types.ConditionKindFirstOrderOnly},
			want:      false,
		},
		{
			name:      "first order only passes for first order",
			condition: rule.Condition{Kind: types.ConditionKindFirstOrderOnly},
			modify:    func(c *pricing.Context) { c.IsFirstOrder = true },
			want:      true,
		},
		{
			name:      "unknown kind yields false, never panics",
			condition: rule.Condition{Kind: types.ConditionKind("moon_phase")},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testPricingContext()
			if tt.modify != nil {
				tt.modify(ctx)
			}
			assert.Equal(t, tt.want, evaluator.Evaluate(tt.condition, ctx))
		})
	}
}

func TestConditionEvaluator_DefaultTimezoneFallback(t *testing.T) {
	// unloadable default falls back to UTC instead of failing construction
	evaluator := NewConditionEvaluator("Not/AZone")
	ctx := testPricingContext()

	passed := evaluator.Evaluate(rule.Condition{
		Kind: types.ConditionKindDayOfWeek,
		Days: []time.Weekday{time.Wednesday},
	}, ctx)
	assert.True(t, passed)
}
