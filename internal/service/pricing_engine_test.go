package service

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/priceforge/priceforge/internal/domain/pricing"
	"github.com/priceforge/priceforge/internal/domain/rule"
	ierr "github.com/priceforge/priceforge/internal/errors"
	"github.com/priceforge/priceforge/internal/testutil"
	"github.com/priceforge/priceforge/internal/types"
)

type PricingEngineSuite struct {
	testutil.BaseServiceTestSuite
	engine   PricingEngineService
	ruleRepo rule.Repository
}

func TestPricingEngine(t *testing.T) {
	suite.Run(t, new(PricingEngineSuite))
}

func (s *PricingEngineSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.ruleRepo = s.GetStores().RuleRepo
	s.engine = NewPricingEngineService(NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.ruleRepo,
	))
}

func (s *PricingEngineSuite) newContext() *pricing.Context {
	return &pricing.Context{
		BasePrice:         decimal.NewFromInt(200),
		Currency:          "usd",
		Quantity:          3,
		EvaluationInstant: time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC),
	}
}

func (s *PricingEngineSuite) TestResolveScenario() {
	// $200 base, quantity 3, a 10% accumulable and a $15 fixed accumulable
	// gated on a minimum purchase of $100: both apply against the base
	rules := []*rule.DiscountRule{
		{
			ID:           "rule_pct",
			Name:         "10 percent off",
			DiscountKind: types.DiscountKindPercentage,
			Value:        decimal.NewFromInt(10),
			Currency:     "usd",
			IsActive:     true,
			IsCumulative: true,
			Priority:     1,
		},
		{
			ID:           "rule_fixed",
			Name:         "15 off over 100",
			DiscountKind: types.DiscountKindFixedAmount,
			Value:        decimal.NewFromInt(15),
			Currency:     "usd",
			IsActive:     true,
			IsCumulative: true,
			Priority:     2,
			Conditions: []rule.Condition{
				{Kind: types.ConditionKindMinPurchaseAmount, Amount: decimal.NewFromInt(100)},
			},
		},
	}

	res, err := s.engine.Resolve(s.GetContext(), s.newContext(), rules)
	s.NoError(err)

	s.True(res.FinalPrice.Equal(decimal.NewFromInt(165)), "got %s", res.FinalPrice)
	s.True(res.TotalDiscount.Equal(decimal.NewFromInt(35)))
	s.Len(res.AppliedRules, 2)
	s.Empty(res.RejectedRules)
	s.ElementsMatch([]string{"rule_pct", "rule_fixed"}, res.UsageIncrements)
}

func (s *PricingEngineSuite) TestResolveMergesRejectionTrails() {
	expired := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	rules := []*rule.DiscountRule{
		{
			ID:           "rule_live",
			Name:         "live",
			DiscountKind: types.DiscountKindPercentage,
			Value:        decimal.NewFromInt(10),
			Currency:     "usd",
			IsActive:     true,
			IsCumulative: true,
			Priority:     1,
		},
		{
			ID:           "rule_expired",
			Name:         "expired",
			DiscountKind: types.DiscountKindPercentage,
			Value:        decimal.NewFromInt(10),
			Currency:     "usd",
			IsActive:     true,
			IsCumulative: true,
			Priority:     1,
			ValidTo:      &expired,
		},
		{
			ID:           "rule_dependent",
			Name:         "needs the expired one",
			DiscountKind: types.DiscountKindPercentage,
			Value:        decimal.NewFromInt(10),
			Currency:     "usd",
			IsActive:     true,
			IsCumulative: true,
			Priority:     1,
			Relations: []rule.Relation{
				{RelatedRuleID: "rule_expired", Kind: types.RelationKindRequired},
			},
		},
	}

	res, err := s.engine.Resolve(s.GetContext(), s.newContext(), rules)
	s.NoError(err)

	s.Len(res.AppliedRules, 1)
	s.Equal("rule_live", res.AppliedRules[0].RuleID)

	reasons := map[string]types.IneligibilityReason{}
	for _, r := range res.RejectedRules {
		reasons[r.RuleID] = r.Reason
	}
	s.Equal(types.ReasonExpired, reasons["rule_expired"])
	s.Equal(types.ReasonRequiredMissing("rule_expired"), reasons["rule_dependent"])
}

func (s *PricingEngineSuite) TestResolveCurrencyBoundary() {
	r := activeRule("rule_eur", 1)
	r.Currency = "eur"

	res, err := s.engine.Resolve(s.GetContext(), s.newContext(), []*rule.DiscountRule{r})
	s.NoError(err)

	s.Empty(res.AppliedRules)
	s.Len(res.RejectedRules, 1)
	s.Equal(types.ReasonCurrencyMismatch, res.RejectedRules[0].Reason)
	s.True(res.FinalPrice.Equal(decimal.NewFromInt(200)))
}

func (s *PricingEngineSuite) TestResolveUsageExhaustion() {
	limit := 5
	r := activeRule("rule_spent", 1)
	r.UsageLimit = &limit
	r.UsageCount = 5

	res, err := s.engine.Resolve(s.GetContext(), s.newContext(), []*rule.DiscountRule{r})
	s.NoError(err)

	s.Empty(res.AppliedRules)
	s.Equal(types.ReasonUsageExhausted, res.RejectedRules[0].Reason)
}

func (s *PricingEngineSuite) TestResolveNeverMutatesRules() {
	r := activeRule("rule_a", 1)
	before := *r

	_, err := s.engine.Resolve(s.GetContext(), s.newContext(), []*rule.DiscountRule{r})
	s.NoError(err)

	s.Equal(before, *r)
	s.Equal(0, r.UsageCount)
}

func (s *PricingEngineSuite) TestResolveRejectsInvalidContext() {
	_, err := s.engine.Resolve(s.GetContext(), nil, nil)
	s.Error(err)
	s.True(ierr.IsValidation(err))

	pctx := s.newContext()
	pctx.Currency = ""
	_, err = s.engine.Resolve(s.GetContext(), pctx, nil)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PricingEngineSuite) TestResolveRejectsInvalidRuleConfiguration() {
	bad := activeRule("rule_bad", 0) // priority below one

	_, err := s.engine.Resolve(s.GetContext(), s.newContext(), []*rule.DiscountRule{bad})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PricingEngineSuite) TestResolveRuleCountCap() {
	count := s.GetConfig().Pricing.MaxRulesPerResolve + 1
	rules := make([]*rule.DiscountRule, count)
	for i := range rules {
		rules[i] = activeRule(types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RULE), 1)
	}

	_, err := s.engine.Resolve(s.GetContext(), s.newContext(), rules)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PricingEngineSuite) TestResolveByRuleIDs() {
	r := activeRule("rule_stored", 1)
	r.Value = decimal.NewFromInt(25)
	s.NoError(s.ruleRepo.Create(s.GetContext(), r))

	res, err := s.engine.ResolveByRuleIDs(s.GetContext(), s.newContext(), []string{"rule_stored"})
	s.NoError(err)
	s.True(res.FinalPrice.Equal(decimal.NewFromInt(150)), "got %s", res.FinalPrice)

	_, err = s.engine.ResolveByRuleIDs(s.GetContext(), s.newContext(), []string{"rule_missing"})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PricingEngineSuite) TestResolveCart() {
	rules := []*rule.DiscountRule{activeRule("rule_a", 1)} // 10% accumulable

	lineA := s.newContext()
	lineB := s.newContext()
	lineB.BasePrice = decimal.NewFromInt(100)

	cart, err := s.engine.ResolveCart(s.GetContext(), []*pricing.Context{lineA, lineB}, rules)
	s.NoError(err)

	s.Len(cart.Lines, 2)
	s.True(cart.Lines[0].FinalPrice.Equal(decimal.NewFromInt(180)))
	s.True(cart.Lines[1].FinalPrice.Equal(decimal.NewFromInt(90)))
	s.True(cart.FinalPrice.Equal(decimal.NewFromInt(270)))
	s.True(cart.TotalDiscount.Equal(decimal.NewFromInt(30)))
}

func (s *PricingEngineSuite) TestResolveCartSurfacesLineError() {
	lineA := s.newContext()
	lineB := s.newContext()
	lineB.BasePrice = decimal.Zero

	_, err := s.engine.ResolveCart(s.GetContext(), []*pricing.Context{lineA, lineB}, nil)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PricingEngineSuite) TestResolveDeterminism() {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("same inputs resolve identically", prop.ForAll(
		func(values []float64, modes []int, base float64, quantity int) bool {
			rules := propRules(values, modes)
			pctx := &pricing.Context{
				BasePrice:         decimal.NewFromFloat(base),
				Currency:          "usd",
				Quantity:          quantity,
				EvaluationInstant: time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC),
			}

			first, err1 := s.engine.Resolve(s.GetContext(), pctx, rules)
			second, err2 := s.engine.Resolve(s.GetContext(), pctx, rules)
			if err1 != nil || err2 != nil {
				return false
			}
			return first.FinalPrice.Equal(second.FinalPrice) &&
				first.TotalDiscount.Equal(second.TotalDiscount) &&
				len(first.AppliedRules) == len(second.AppliedRules) &&
				len(first.RejectedRules) == len(second.RejectedRules)
		},
		gen.SliceOfN(5, gen.Float64Range(0.01, 100)),
		gen.SliceOfN(5, gen.IntRange(0, 2)),
		gen.Float64Range(0.01, 10000),
		gen.IntRange(1, 100),
	))

	properties.TestingRun(s.T())
}

func (s *PricingEngineSuite) TestResolveNonNegativity() {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("final price is never negative", prop.ForAll(
		func(values []float64, modes []int, base float64, quantity int) bool {
			rules := propRules(values, modes)
			pctx := &pricing.Context{
				BasePrice:         decimal.NewFromFloat(base),
				Currency:          "usd",
				Quantity:          quantity,
				EvaluationInstant: time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC),
			}

			res, err := s.engine.Resolve(s.GetContext(), pctx, rules)
			if err != nil {
				return false
			}
			return res.FinalPrice.GreaterThanOrEqual(decimal.Zero) &&
				res.TotalDiscount.Equal(pctx.BasePrice.Sub(res.FinalPrice))
		},
		gen.SliceOfN(8, gen.Float64Range(0.01, 500)),
		gen.SliceOfN(8, gen.IntRange(0, 2)),
		gen.Float64Range(0.01, 10000),
		gen.IntRange(1, 100),
	))

	properties.TestingRun(s.T())
}

// propRules builds a mixed-mode rule set from generated magnitudes. Fixed
// amounts alternate with percentages so the floor-at-zero path gets hit.
func propRules(values []float64, modes []int) []*rule.DiscountRule {
	modeFor := func(i int) types.ApplicationMode {
		switch modes[i%len(modes)] {
		case 0:
			return types.ApplicationModeAccumulable
		case 1:
			return types.ApplicationModeCascade
		default:
			return types.ApplicationModeExclusive
		}
	}

	rules := make([]*rule.DiscountRule, 0, len(values))
	for i, v := range values {
		kind := types.DiscountKindPercentage
		value := decimal.NewFromFloat(v)
		if i%2 == 1 {
			kind = types.DiscountKindFixedAmount
		} else if v > 100 {
			value = decimal.NewFromInt(100)
		}
		r := activeRule(types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RULE), i+1)
		r.DiscountKind = kind
		r.Value = value
		r.ApplicationMode = modeFor(i)
		rules = append(rules, r)
	}
	return rules
}
