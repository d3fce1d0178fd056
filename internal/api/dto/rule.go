package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/priceforge/priceforge/internal/domain/rule"
	ierr "github.com/priceforge/priceforge/internal/errors"
	"github.com/priceforge/priceforge/internal/types"
)

// CreateRuleRequest represents the request to create a new discount rule
type CreateRuleRequest struct {
	Name            string                `json:"name" validate:"required"`
	Description     string                `json:"description,omitempty"`
	DiscountKind    types.DiscountKind    `json:"discount_kind" validate:"required"`
	Value           decimal.Decimal       `json:"value"`
	Tiers           []rule.VolumeTier     `json:"tiers,omitempty"`
	Currency        string                `json:"currency" validate:"required"`
	ValidFrom       *time.Time            `json:"valid_from,omitempty"`
	ValidTo         *time.Time            `json:"valid_to,omitempty"`
	UsageLimit      *int                  `json:"usage_limit,omitempty"`
	IsActive        *bool                 `json:"is_active,omitempty"`
	IsCumulative    bool                  `json:"is_cumulative,omitempty"`
	ApplicationMode types.ApplicationMode `json:"application_mode,omitempty"`
	Priority        int                   `json:"priority" validate:"required,gte=1"`
	Conditions      []rule.Condition      `json:"conditions,omitempty"`
	Relations       []rule.Relation       `json:"relations,omitempty"`
}

// Validate validates the CreateRuleRequest
func (r *CreateRuleRequest) Validate() error {
	if r.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Please provide a rule name").
			Mark(ierr.ErrValidation)
	}
	if r.Currency == "" {
		return ierr.NewError("currency is required").
			WithHint("Please provide a currency code").
			Mark(ierr.ErrValidation)
	}
	if err := r.DiscountKind.Validate(); err != nil {
		return err
	}
	if r.ApplicationMode != "" {
		if err := r.ApplicationMode.Validate(); err != nil {
			return err
		}
	}
	if r.Priority < 1 {
		return ierr.NewError("priority must be greater than or equal to 1").
			WithHint("Please provide a priority of at least 1").
			Mark(ierr.ErrValidation)
	}
	if r.ValidFrom != nil && r.ValidTo != nil && r.ValidFrom.After(*r.ValidTo) {
		return ierr.NewError("valid_from must be before valid_to").
			WithHint("Please provide a valid date range").
			Mark(ierr.ErrValidation)
	}
	if r.UsageLimit != nil && *r.UsageLimit <= 0 {
		return ierr.NewError("usage_limit must be greater than zero").
			WithHint("Please provide a valid usage limit").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToRule converts the request into a domain rule
func (r *CreateRuleRequest) ToRule(ctx context.Context) *rule.DiscountRule {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return &rule.DiscountRule{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RULE),
		Name:            r.Name,
		Description:     r.Description,
		DiscountKind:    r.DiscountKind,
		Value:           r.Value,
		Tiers:           r.Tiers,
		Currency:        r.Currency,
		ValidFrom:       r.ValidFrom,
		ValidTo:         r.ValidTo,
		UsageLimit:      r.UsageLimit,
		IsActive:        isActive,
		IsCumulative:    r.IsCumulative,
		ApplicationMode: r.ApplicationMode,
		Priority:        r.Priority,
		Conditions:      r.Conditions,
		Relations:       r.Relations,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
}

// UpdateRuleRequest represents the request to update an existing rule
type UpdateRuleRequest struct {
	Name            *string                `json:"name,omitempty"`
	Description     *string                `json:"description,omitempty"`
	Value           *decimal.Decimal       `json:"value,omitempty"`
	Tiers           *[]rule.VolumeTier     `json:"tiers,omitempty"`
	ValidFrom       *time.Time             `json:"valid_from,omitempty"`
	ValidTo         *time.Time             `json:"valid_to,omitempty"`
	UsageLimit      *int                   `json:"usage_limit,omitempty"`
	IsActive        *bool                  `json:"is_active,omitempty"`
	IsCumulative    *bool                  `json:"is_cumulative,omitempty"`
	ApplicationMode *types.ApplicationMode `json:"application_mode,omitempty"`
	Priority        *int                   `json:"priority,omitempty"`
	Conditions      *[]rule.Condition      `json:"conditions,omitempty"`
	Relations       *[]rule.Relation       `json:"relations,omitempty"`
}

// Apply merges the update onto the rule
func (r *UpdateRuleRequest) Apply(target *rule.DiscountRule, ctx context.Context) {
	if r.Name != nil {
		target.Name = *r.Name
	}
	if r.Description != nil {
		target.Description = *r.Description
	}
	if r.Value != nil {
		target.Value = *r.Value
	}
	if r.Tiers != nil {
		target.Tiers = *r.Tiers
	}
	if r.ValidFrom != nil {
		target.ValidFrom = r.ValidFrom
	}
	if r.ValidTo != nil {
		target.ValidTo = r.ValidTo
	}
	if r.UsageLimit != nil {
		target.UsageLimit = r.UsageLimit
	}
	if r.IsActive != nil {
		target.IsActive = *r.IsActive
	}
	if r.IsCumulative != nil {
		target.IsCumulative = *r.IsCumulative
	}
	if r.ApplicationMode != nil {
		target.ApplicationMode = *r.ApplicationMode
	}
	if r.Priority != nil {
		target.Priority = *r.Priority
	}
	if r.Conditions != nil {
		target.Conditions = *r.Conditions
	}
	if r.Relations != nil {
		target.Relations = *r.Relations
	}
	target.UpdatedAt = time.Now().UTC()
	target.UpdatedBy = types.GetUserID(ctx)
}

// RuleResponse represents a rule in API responses
type RuleResponse struct {
	*rule.DiscountRule
}

// ListRulesResponse represents the response for listing rules
type ListRulesResponse struct {
	Items []*RuleResponse `json:"items"`
	Total int             `json:"total"`
}
