package dto

import (
	"github.com/priceforge/priceforge/internal/domain/pricing"
	"github.com/priceforge/priceforge/internal/domain/rule"
	ierr "github.com/priceforge/priceforge/internal/errors"
)

// ResolvePriceRequest represents the request to resolve a single line item.
// Rules can be supplied inline or referenced by id; referenced rules are
// loaded from the store. When both are present the inline rules win.
type ResolvePriceRequest struct {
	Context pricing.Context      `json:"context"`
	Rules   []*rule.DiscountRule `json:"rules,omitempty"`
	RuleIDs []string             `json:"rule_ids,omitempty"`
}

// Validate validates the ResolvePriceRequest
func (r *ResolvePriceRequest) Validate() error {
	if len(r.Rules) == 0 && len(r.RuleIDs) == 0 {
		return ierr.NewError("rules or rule_ids are required").
			WithHint("Provide the rules to resolve against, inline or by id").
			Mark(ierr.ErrValidation)
	}
	return r.Context.Validate()
}

// ResolveCartRequest represents the request to resolve a cart of line items
type ResolveCartRequest struct {
	Lines   []pricing.Context    `json:"lines"`
	Rules   []*rule.DiscountRule `json:"rules,omitempty"`
	RuleIDs []string             `json:"rule_ids,omitempty"`
}

// Validate validates the ResolveCartRequest
func (r *ResolveCartRequest) Validate() error {
	if len(r.Lines) == 0 {
		return ierr.NewError("at least one line item is required").
			WithHint("Provide the cart line items to price").
			Mark(ierr.ErrValidation)
	}
	if len(r.Rules) == 0 && len(r.RuleIDs) == 0 {
		return ierr.NewError("rules or rule_ids are required").
			WithHint("Provide the rules to resolve against, inline or by id").
			Mark(ierr.ErrValidation)
	}
	for i := range r.Lines {
		if err := r.Lines[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CommitUsageRequest asks the store to commit the advisory usage increments
// of a resolution
type CommitUsageRequest struct {
	RuleIDs []string `json:"rule_ids" validate:"required,min=1"`
}

// Validate validates the CommitUsageRequest
func (r *CommitUsageRequest) Validate() error {
	if len(r.RuleIDs) == 0 {
		return ierr.NewError("rule_ids are required").
			WithHint("Provide the rule ids whose usage should be committed").
			Mark(ierr.ErrValidation)
	}
	return nil
}
