package testutil

import (
	"context"
	"time"

	"github.com/priceforge/priceforge/internal/domain/rule"
	ierr "github.com/priceforge/priceforge/internal/errors"
	"github.com/priceforge/priceforge/internal/types"
	"github.com/samber/lo"
)

// InMemoryRuleStore implements rule.Repository
type InMemoryRuleStore struct {
	*InMemoryStore[*rule.DiscountRule]
}

// NewInMemoryRuleStore creates a new in-memory rule store
func NewInMemoryRuleStore() *InMemoryRuleStore {
	return &InMemoryRuleStore{
		InMemoryStore: NewInMemoryStore[*rule.DiscountRule](),
	}
}

// Helper to copy rule
func copyRule(dr *rule.DiscountRule) *rule.DiscountRule {
	if dr == nil {
		return nil
	}

	// Deep copy of rule
	copied := &rule.DiscountRule{
		ID:              dr.ID,
		Name:            dr.Name,
		Description:     dr.Description,
		DiscountKind:    dr.DiscountKind,
		Value:           dr.Value,
		Currency:        dr.Currency,
		UsageCount:      dr.UsageCount,
		IsActive:        dr.IsActive,
		IsCumulative:    dr.IsCumulative,
		ApplicationMode: dr.ApplicationMode,
		Priority:        dr.Priority,
		BaseModel: types.BaseModel{
			TenantID:  dr.TenantID,
			Status:    dr.Status,
			CreatedAt: dr.CreatedAt,
			UpdatedAt: dr.UpdatedAt,
			CreatedBy: dr.CreatedBy,
			UpdatedBy: dr.UpdatedBy,
		},
	}

	if dr.ValidFrom != nil {
		validFrom := *dr.ValidFrom
		copied.ValidFrom = &validFrom
	}
	if dr.ValidTo != nil {
		validTo := *dr.ValidTo
		copied.ValidTo = &validTo
	}
	if dr.UsageLimit != nil {
		limit := *dr.UsageLimit
		copied.UsageLimit = &limit
	}

	copied.Tiers = append([]rule.VolumeTier(nil), dr.Tiers...)
	copied.Relations = append([]rule.Relation(nil), dr.Relations...)
	copied.Conditions = make([]rule.Condition, len(dr.Conditions))
	for i, c := range dr.Conditions {
		copied.Conditions[i] = c
		copied.Conditions[i].Values = append([]string(nil), c.Values...)
		copied.Conditions[i].Days = append([]time.Weekday(nil), c.Days...)
	}

	return copied
}

func (s *InMemoryRuleStore) Create(ctx context.Context, dr *rule.DiscountRule) error {
	if dr == nil {
		return ierr.NewError("rule cannot be nil").
			WithHint("Rule cannot be nil").
			Mark(ierr.ErrValidation)
	}

	return s.InMemoryStore.Create(ctx, dr.ID, copyRule(dr))
}

func (s *InMemoryRuleStore) Get(ctx context.Context, id string) (*rule.DiscountRule, error) {
	dr, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || dr.Status == types.StatusDeleted {
		return nil, ierr.NewError("rule not found").
			WithHint("Rule not found").
			WithReportableDetails(map[string]interface{}{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyRule(dr), nil
}

func (s *InMemoryRuleStore) GetBatch(ctx context.Context, ids []string) ([]*rule.DiscountRule, error) {
	rules := make([]*rule.DiscountRule, 0, len(ids))
	for _, id := range ids {
		dr, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		rules = append(rules, dr)
	}
	return rules, nil
}

func (s *InMemoryRuleStore) Update(ctx context.Context, dr *rule.DiscountRule) error {
	if dr == nil {
		return ierr.NewError("rule cannot be nil").
			WithHint("Rule cannot be nil").
			Mark(ierr.ErrValidation)
	}

	return s.InMemoryStore.Update(ctx, dr.ID, copyRule(dr))
}

func (s *InMemoryRuleStore) Delete(ctx context.Context, id string) error {
	dr, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	dr.Status = types.StatusDeleted
	return s.InMemoryStore.Update(ctx, id, dr)
}

func (s *InMemoryRuleStore) List(ctx context.Context) ([]*rule.DiscountRule, error) {
	items, err := s.InMemoryStore.List(ctx, nil, ruleNotDeletedFn, ruleSortFn)
	if err != nil {
		return nil, err
	}

	return lo.Map(items, func(dr *rule.DiscountRule, _ int) *rule.DiscountRule {
		return copyRule(dr)
	}), nil
}

func (s *InMemoryRuleStore) ListPublished(ctx context.Context) ([]*rule.DiscountRule, error) {
	items, err := s.InMemoryStore.List(ctx, nil, rulePublishedFn, ruleSortFn)
	if err != nil {
		return nil, err
	}

	return lo.Map(items, func(dr *rule.DiscountRule, _ int) *rule.DiscountRule {
		return copyRule(dr)
	}), nil
}

func (s *InMemoryRuleStore) IncrementUsage(ctx context.Context, id string) error {
	dr, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if dr.IsUsageExhausted() {
		return ierr.NewError("rule usage is exhausted").
			WithHintf("Rule %s has no redemptions left", id).
			Mark(ierr.ErrInvalidOperation)
	}

	dr.UsageCount++
	return s.InMemoryStore.Update(ctx, id, dr)
}

func ruleNotDeletedFn(ctx context.Context, dr *rule.DiscountRule, _ interface{}) bool {
	return dr.Status != types.StatusDeleted
}

func rulePublishedFn(ctx context.Context, dr *rule.DiscountRule, _ interface{}) bool {
	return dr.Status == types.StatusPublished
}

func ruleSortFn(i, j *rule.DiscountRule) bool {
	return i.ID < j.ID
}
