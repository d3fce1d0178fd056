package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/priceforge/priceforge/internal/domain/rule"
	ierr "github.com/priceforge/priceforge/internal/errors"
	"github.com/priceforge/priceforge/internal/types"
)

// inMemoryRuleRepository is the process-local rule store. Durable persistence
// is an external concern; callers needing one plug their own rule.Repository.
// Every read returns a deep copy so a resolution always works on an immutable
// snapshot.
type inMemoryRuleRepository struct {
	mu    sync.RWMutex
	rules map[string]*rule.DiscountRule
}

// NewRuleRepository creates a new in-memory rule repository
func NewRuleRepository() rule.Repository {
	return &inMemoryRuleRepository{
		rules: make(map[string]*rule.DiscountRule),
	}
}

func (r *inMemoryRuleRepository) Create(ctx context.Context, dr *rule.DiscountRule) error {
	if dr == nil {
		return ierr.NewError("rule cannot be nil").
			WithHint("Rule cannot be nil").
			Mark(ierr.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[dr.ID]; exists {
		return ierr.NewError("rule already exists").
			WithHintf("A rule with id %s already exists", dr.ID).
			Mark(ierr.ErrAlreadyExists)
	}

	r.rules[dr.ID] = copyRule(dr)
	return nil
}

func (r *inMemoryRuleRepository) Get(ctx context.Context, id string) (*rule.DiscountRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dr, exists := r.rules[id]
	if !exists || dr.Status == types.StatusDeleted {
		return nil, ierr.NewError("rule not found").
			WithHintf("Rule %s does not exist", id).
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyRule(dr), nil
}

func (r *inMemoryRuleRepository) GetBatch(ctx context.Context, ids []string) ([]*rule.DiscountRule, error) {
	rules := make([]*rule.DiscountRule, 0, len(ids))
	for _, id := range ids {
		dr, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		rules = append(rules, dr)
	}
	return rules, nil
}

func (r *inMemoryRuleRepository) List(ctx context.Context) ([]*rule.DiscountRule, error) {
	return r.list(func(dr *rule.DiscountRule) bool {
		return dr.Status != types.StatusDeleted
	})
}

func (r *inMemoryRuleRepository) ListPublished(ctx context.Context) ([]*rule.DiscountRule, error) {
	return r.list(func(dr *rule.DiscountRule) bool {
		return dr.Status == types.StatusPublished
	})
}

func (r *inMemoryRuleRepository) list(keep func(*rule.DiscountRule) bool) ([]*rule.DiscountRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*rule.DiscountRule, 0, len(r.rules))
	for _, dr := range r.rules {
		if keep(dr) {
			result = append(result, copyRule(dr))
		}
	}
	// deterministic listing order
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *inMemoryRuleRepository) Update(ctx context.Context, dr *rule.DiscountRule) error {
	if dr == nil {
		return ierr.NewError("rule cannot be nil").
			WithHint("Rule cannot be nil").
			Mark(ierr.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[dr.ID]; !exists {
		return ierr.NewError("rule not found").
			WithHintf("Rule %s does not exist", dr.ID).
			Mark(ierr.ErrNotFound)
	}

	r.rules[dr.ID] = copyRule(dr)
	return nil
}

func (r *inMemoryRuleRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dr, exists := r.rules[id]
	if !exists || dr.Status == types.StatusDeleted {
		return ierr.NewError("rule not found").
			WithHintf("Rule %s does not exist", id).
			Mark(ierr.ErrNotFound)
	}

	dr.Status = types.StatusDeleted
	return nil
}

func (r *inMemoryRuleRepository) IncrementUsage(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dr, exists := r.rules[id]
	if !exists || dr.Status == types.StatusDeleted {
		return ierr.NewError("rule not found").
			WithHintf("Rule %s does not exist", id).
			Mark(ierr.ErrNotFound)
	}

	if dr.UsageLimit != nil && dr.UsageCount >= *dr.UsageLimit {
		return ierr.NewError("rule usage is exhausted").
			WithHintf("Rule %s has no redemptions left", id).
			Mark(ierr.ErrInvalidOperation)
	}

	dr.UsageCount++
	return nil
}

// copyRule deep-copies a rule so stored state never aliases caller state
func copyRule(dr *rule.DiscountRule) *rule.DiscountRule {
	if dr == nil {
		return nil
	}

	copied := *dr
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
	return &copied
}
