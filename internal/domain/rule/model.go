package rule

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	ierr "github.com/priceforge/priceforge/internal/errors"
	"github.com/priceforge/priceforge/internal/types"
)

// DiscountRule represents a configured promotional rule. Rules are authored
// independently in the admin surface; how they compose is decided entirely by
// the resolution engine, never by the rule itself.
type DiscountRule struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`

	DiscountKind types.DiscountKind `json:"discount_kind" db:"discount_kind"`
	// Value is the numeric magnitude whose meaning depends on DiscountKind:
	// percent points for percentage-like kinds, currency units for fixed
	// amounts, the X count for buy-X-get-Y.
	Value decimal.Decimal `json:"value" db:"value"`
	// Tiers is the quantity-indexed percentage ladder for volume_tier and
	// tiered kinds; ignored for every other kind.
	Tiers []VolumeTier `json:"tiers,omitempty" db:"tiers"`

	Currency  string     `json:"currency" db:"currency"`
	ValidFrom *time.Time `json:"valid_from,omitempty" db:"valid_from"`
	ValidTo   *time.Time `json:"valid_to,omitempty" db:"valid_to"`

	UsageLimit *int `json:"usage_limit,omitempty" db:"usage_limit"`
	UsageCount int  `json:"usage_count" db:"usage_count"`

	// IsActive is the manual kill switch, independent of the validity window
	IsActive bool `json:"is_active" db:"is_active"`

	// IsCumulative is a legacy single-rule flag retained for backward
	// compatibility; ApplicationMode supersedes it when both are present.
	IsCumulative    bool                  `json:"is_cumulative" db:"is_cumulative"`
	ApplicationMode types.ApplicationMode `json:"application_mode,omitempty" db:"application_mode"`

	// Priority must be >= 1; higher wins ties and determines cascade order
	Priority int `json:"priority" db:"priority"`

	// Conditions carry AND semantics: a rule is eligible only if every
	// condition passes
	Conditions []Condition `json:"conditions,omitempty" db:"conditions"`
	Relations  []Relation  `json:"relations,omitempty" db:"relations"`

	types.BaseModel
}

// VolumeTier is one step of a quantity-indexed percentage ladder
type VolumeTier struct {
	MinQuantity int             `json:"min_quantity"`
	Percent     decimal.Decimal `json:"percent"`
}

// Condition is one eligibility predicate, a tagged variant over a closed kind
// set. Kind decides which value fields are meaningful.
type Condition struct {
	Kind types.ConditionKind `json:"kind"`

	// Values carries the configured set for membership kinds (category,
	// product, brand, customer_segment, payment_method, region, sales_channel)
	Values []string `json:"values,omitempty"`

	// Amount is the threshold for min_purchase_amount
	Amount decimal.Decimal `json:"amount,omitempty"`

	// Quantity is the threshold for min_quantity and max_quantity
	Quantity int `json:"quantity,omitempty"`

	// Days lists the allowed weekdays for day_of_week
	Days []time.Weekday `json:"days,omitempty"`

	// StartMinute and EndMinute bound time_range as inclusive minutes since
	// midnight in the condition's timezone
	StartMinute int `json:"start_minute,omitempty"`
	EndMinute   int `json:"end_minute,omitempty"`

	// Timezone is the IANA zone for day_of_week and time_range checks; empty
	// falls back to the engine's configured default
	Timezone string `json:"timezone,omitempty"`
}

// Relation is a directed edge from the declaring rule to another rule id
type Relation struct {
	RelatedRuleID string             `json:"related_rule_id"`
	Kind          types.RelationKind `json:"kind"`
}

// EffectiveApplicationMode reconciles the legacy IsCumulative flag with the
// newer ApplicationMode enum. ApplicationMode is authoritative when set;
// otherwise IsCumulative=true reads as accumulable and false as exclusive.
func (r *DiscountRule) EffectiveApplicationMode() types.ApplicationMode {
	if r.ApplicationMode != "" {
		return r.ApplicationMode
	}
	if r.IsCumulative {
		return types.ApplicationModeAccumulable
	}
	return types.ApplicationModeExclusive
}

// IsNotYetActive reports whether at is before the rule's activation window
func (r *DiscountRule) IsNotYetActive(at time.Time) bool {
	return r.ValidFrom != nil && at.Before(*r.ValidFrom)
}

// IsExpired reports whether at is after the rule's activation window.
// The window is inclusive on both ends.
func (r *DiscountRule) IsExpired(at time.Time) bool {
	return r.ValidTo != nil && at.After(*r.ValidTo)
}

// IsUsageExhausted reports whether the rule has no redemptions left
func (r *DiscountRule) IsUsageExhausted() bool {
	return r.UsageLimit != nil && r.UsageCount >= *r.UsageLimit
}

// RelatedIDs returns the target ids of every relation of the given kind,
// preserving declaration order
func (r *DiscountRule) RelatedIDs(kind types.RelationKind) []string {
	ids := make([]string, 0)
	for _, rel := range r.Relations {
		if rel.Kind == kind {
			ids = append(ids, rel.RelatedRuleID)
		}
	}
	return ids
}

// HasCombinableWith reports whether the rule declares a combinable relation to
// the given rule id
func (r *DiscountRule) HasCombinableWith(ruleID string) bool {
	return lo.Contains(r.RelatedIDs(types.RelationKindCombinable), ruleID)
}

// Validate detects configuration errors at rule-load time: self-conflicting
// relations, priority below one, inverted validity windows, incoherent
// kind/value combinations. Resolution never sees an invalid rule.
func (r *DiscountRule) Validate() error {
	failures := make(map[string]any)

	if r.ID == "" {
		failures["id"] = "rule id is required"
	}

	if err := r.DiscountKind.Validate(); err != nil {
		failures["discount_kind"] = err.Error()
	}

	if r.ApplicationMode != "" {
		if err := r.ApplicationMode.Validate(); err != nil {
			failures["application_mode"] = err.Error()
		}
	}

	if r.Priority < 1 {
		failures["priority"] = "priority must be greater than or equal to 1"
	}

	if r.Currency == "" {
		failures["currency"] = "currency is required"
	}

	if r.ValidFrom != nil && r.ValidTo != nil && r.ValidFrom.After(*r.ValidTo) {
		failures["valid_from"] = "valid_from must not be after valid_to"
	}

	if r.UsageLimit != nil {
		if *r.UsageLimit < 1 {
			failures["usage_limit"] = "usage_limit must be greater than zero"
		} else if r.UsageCount > *r.UsageLimit {
			failures["usage_count"] = "usage_count must not exceed usage_limit"
		}
	}

	r.validateValue(failures)
	r.validateConditions(failures)
	r.validateRelations(failures)

	if len(failures) > 0 {
		return ierr.NewError("invalid rule configuration").
			WithHintf("Rule %s has an invalid configuration", r.ID).
			WithReportableDetails(failures).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *DiscountRule) validateValue(failures map[string]any) {
	switch r.DiscountKind {
	case types.DiscountKindPercentage, types.DiscountKindComboBundle,
		types.DiscountKindCustomerSegment, types.DiscountKindTimeWindow:
		if r.Value.LessThanOrEqual(decimal.Zero) || r.Value.GreaterThan(decimal.NewFromInt(100)) {
			failures["value"] = "percentage value must be between 0 and 100"
		}
	case types.DiscountKindFixedAmount:
		if r.Value.LessThanOrEqual(decimal.Zero) {
			failures["value"] = "fixed amount value must be greater than zero"
		}
	case types.DiscountKindBuyXGetY:
		// value carries X; the promotion reads "buy X pay X-1", so X below 2
		// cannot grant anything
		if !r.Value.IsInteger() || r.Value.LessThan(decimal.NewFromInt(2)) {
			failures["value"] = "buy_x_get_y value must be an integer greater than or equal to 2"
		}
	case types.DiscountKindVolumeTier, types.DiscountKindTiered:
		if len(r.Tiers) == 0 {
			failures["tiers"] = "tier ladder is required for volume_tier and tiered kinds"
		}
		prev := 0
		for i, tier := range r.Tiers {
			if tier.MinQuantity < 1 || tier.MinQuantity <= prev {
				failures["tiers"] = "tier min_quantity values must be positive and strictly increasing"
				break
			}
			if tier.Percent.LessThanOrEqual(decimal.Zero) || tier.Percent.GreaterThan(decimal.NewFromInt(100)) {
				failures["tiers"] = "tier percent must be between 0 and 100"
				break
			}
			prev = r.Tiers[i].MinQuantity
		}
	}
}

func (r *DiscountRule) validateConditions(failures map[string]any) {
	for _, c := range r.Conditions {
		if err := c.Kind.Validate(); err != nil {
			failures["conditions"] = err.Error()
			return
		}
		switch c.Kind {
		case types.ConditionKindMinPurchaseAmount:
			if c.Amount.LessThanOrEqual(decimal.Zero) {
				failures["conditions"] = "min_purchase_amount condition requires a positive amount"
			}
		case types.ConditionKindMinQuantity, types.ConditionKindMaxQuantity:
			if c.Quantity < 1 {
				failures["conditions"] = "quantity conditions require a quantity of at least 1"
			}
		case types.ConditionKindDayOfWeek:
			if len(c.Days) == 0 {
				failures["conditions"] = "day_of_week condition requires at least one day"
			}
		case types.ConditionKindTimeRange:
			if c.StartMinute < 0 || c.EndMinute > 24*60-1 || c.StartMinute > c.EndMinute {
				failures["conditions"] = "time_range condition requires 0 <= start <= end <= 1439"
			}
		default:
			if c.Kind.IsSetMembership() && len(c.Values) == 0 {
				failures["conditions"] = string(c.Kind) + " condition requires a non-empty value set"
			}
		}
	}
}

func (r *DiscountRule) validateRelations(failures map[string]any) {
	for _, rel := range r.Relations {
		if err := rel.Kind.Validate(); err != nil {
			failures["relations"] = err.Error()
			return
		}
		if rel.RelatedRuleID == "" {
			failures["relations"] = "relation requires a related rule id"
			return
		}
		if rel.Kind == types.RelationKindConflict && rel.RelatedRuleID == r.ID {
			failures["relations"] = "rule cannot declare a conflict with itself"
			return
		}
	}
}
