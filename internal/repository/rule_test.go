package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priceforge/priceforge/internal/domain/rule"
	ierr "github.com/priceforge/priceforge/internal/errors"
	"github.com/priceforge/priceforge/internal/testutil"
	"github.com/priceforge/priceforge/internal/types"
)

func storedRule(id string) *rule.DiscountRule {
	return &rule.DiscountRule{
		ID:           id,
		Name:         id,
		DiscountKind: types.DiscountKindPercentage,
		Value:        decimal.NewFromInt(10),
		Currency:     "usd",
		IsActive:     true,
		Priority:     1,
		BaseModel:    types.GetDefaultBaseModel(testutil.SetupContext()),
	}
}

func TestRuleRepository_CRUD(t *testing.T) {
	ctx := testutil.SetupContext()
	repo := NewRuleRepository()

	r := storedRule("rule_a")
	require.NoError(t, repo.Create(ctx, r))

	// duplicate id
	err := repo.Create(ctx, storedRule("rule_a"))
	assert.True(t, ierr.IsAlreadyExists(err))

	got, err := repo.Get(ctx, "rule_a")
	require.NoError(t, err)
	assert.Equal(t, "rule_a", got.ID)

	// reads return copies: mutating the result must not touch the store
	got.Name = "mutated"
	again, err := repo.Get(ctx, "rule_a")
	require.NoError(t, err)
	assert.Equal(t, "rule_a", again.Name)

	got.Name = "renamed"
	require.NoError(t, repo.Update(ctx, got))
	updated, err := repo.Get(ctx, "rule_a")
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)

	require.NoError(t, repo.Delete(ctx, "rule_a"))
	_, err = repo.Get(ctx, "rule_a")
	assert.True(t, ierr.IsNotFound(err))

	assert.True(t, ierr.IsNotFound(repo.Delete(ctx, "rule_a")))
}

func TestRuleRepository_ListDeterministicOrder(t *testing.T) {
	ctx := testutil.SetupContext()
	repo := NewRuleRepository()

	for _, id := range []string{"rule_c", "rule_a", "rule_b"} {
		require.NoError(t, repo.Create(ctx, storedRule(id)))
	}

	rules, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rule_a", rules[0].ID)
	assert.Equal(t, "rule_b", rules[1].ID)
	assert.Equal(t, "rule_c", rules[2].ID)
}

func TestRuleRepository_ListPublishedExcludesArchived(t *testing.T) {
	ctx := testutil.SetupContext()
	repo := NewRuleRepository()

	live := storedRule("rule_live")
	require.NoError(t, repo.Create(ctx, live))

	archived := storedRule("rule_archived")
	archived.Status = types.StatusArchived
	require.NoError(t, repo.Create(ctx, archived))

	published, err := repo.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "rule_live", published[0].ID)

	// archived rules still show up in the full listing
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRuleRepository_IncrementUsage(t *testing.T) {
	ctx := testutil.SetupContext()
	repo := NewRuleRepository()

	limit := 2
	r := storedRule("rule_limited")
	r.UsageLimit = &limit
	require.NoError(t, repo.Create(ctx, r))

	require.NoError(t, repo.IncrementUsage(ctx, "rule_limited"))
	require.NoError(t, repo.IncrementUsage(ctx, "rule_limited"))

	err := repo.IncrementUsage(ctx, "rule_limited")
	assert.True(t, ierr.IsInvalidOperation(err))

	got, err := repo.Get(ctx, "rule_limited")
	require.NoError(t, err)
	assert.Equal(t, 2, got.UsageCount)
}

func TestCachedRuleRepository(t *testing.T) {
	ctx := testutil.SetupContext()
	inner := NewRuleRepository()
	repo := NewCachedRuleRepository(inner)

	require.NoError(t, repo.Create(ctx, storedRule("rule_a")))

	// prime the cache
	first, err := repo.Get(ctx, "rule_a")
	require.NoError(t, err)

	// a write through the decorator invalidates the entry
	first.Name = "renamed"
	require.NoError(t, repo.Update(ctx, first))

	got, err := repo.Get(ctx, "rule_a")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	// usage increments invalidate too, so resolves see fresh counts
	require.NoError(t, repo.IncrementUsage(ctx, "rule_a"))
	got, err = repo.Get(ctx, "rule_a")
	require.NoError(t, err)
	assert.Equal(t, 1, got.UsageCount)

	require.NoError(t, repo.Delete(ctx, "rule_a"))
	_, err = repo.Get(ctx, "rule_a")
	assert.True(t, ierr.IsNotFound(err))
}
