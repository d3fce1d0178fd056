package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/priceforge/priceforge/internal/types"
)

// AppliedRule records one rule's individual deduction and its application
// order index for auditability
type AppliedRule struct {
	RuleID         string          `json:"rule_id"`
	AmountDeducted decimal.Decimal `json:"amount_deducted"`
	Order          int             `json:"order"`
}

// RejectedRule records why a rule did not apply. Reasons are data so the
// admin surface can explain every absent discount to a merchant.
type RejectedRule struct {
	RuleID string                    `json:"rule_id"`
	Reason types.IneligibilityReason `json:"reason"`
}

// Resolution is the deterministic output of one resolve call
type Resolution struct {
	FinalPrice    decimal.Decimal `json:"final_price"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	AppliedRules  []AppliedRule   `json:"applied_rules"`
	RejectedRules []RejectedRule  `json:"rejected_rules"`

	// UsageIncrements lists the rule ids whose usage count the caller should
	// commit. The engine is side-effect-free: it recommends the increments,
	// the caller batches them atomically against its own storage.
	UsageIncrements []string `json:"usage_increments"`
}

// CartResolution aggregates per-line resolutions for a cart
type CartResolution struct {
	Lines         []*Resolution   `json:"lines"`
	FinalPrice    decimal.Decimal `json:"final_price"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
}
