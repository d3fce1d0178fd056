package repository

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/priceforge/priceforge/internal/domain/rule"
)

const (
	ruleCachePrefix     = "rule:v1:"
	ruleCacheExpiration = 5 * time.Minute
	ruleCacheCleanup    = 10 * time.Minute
)

// cachedRuleRepository is a read-through cache decorator around a rule
// repository. Single-rule reads hit the cache; every write invalidates the
// touched entry so a later resolve sees a consistent snapshot.
type cachedRuleRepository struct {
	inner rule.Repository
	cache *gocache.Cache
}

// NewCachedRuleRepository wraps a rule repository with an expiring in-process
// cache
func NewCachedRuleRepository(inner rule.Repository) rule.Repository {
	return &cachedRuleRepository{
		inner: inner,
		cache: gocache.New(ruleCacheExpiration, ruleCacheCleanup),
	}
}

func (r *cachedRuleRepository) Create(ctx context.Context, dr *rule.DiscountRule) error {
	return r.inner.Create(ctx, dr)
}

func (r *cachedRuleRepository) Get(ctx context.Context, id string) (*rule.DiscountRule, error) {
	if cached, found := r.cache.Get(ruleCachePrefix + id); found {
		if dr, ok := cached.(*rule.DiscountRule); ok {
			return copyRule(dr), nil
		}
	}

	dr, err := r.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cache.Set(ruleCachePrefix+id, copyRule(dr), gocache.DefaultExpiration)
	return dr, nil
}

func (r *cachedRuleRepository) GetBatch(ctx context.Context, ids []string) ([]*rule.DiscountRule, error) {
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

func (r *cachedRuleRepository) List(ctx context.Context) ([]*rule.DiscountRule, error) {
	return r.inner.List(ctx)
}

func (r *cachedRuleRepository) ListPublished(ctx context.Context) ([]*rule.DiscountRule, error) {
	return r.inner.ListPublished(ctx)
}

func (r *cachedRuleRepository) Update(ctx context.Context, dr *rule.DiscountRule) error {
	if err := r.inner.Update(ctx, dr); err != nil {
		return err
	}
	r.cache.Delete(ruleCachePrefix + dr.ID)
	return nil
}

func (r *cachedRuleRepository) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.Delete(ruleCachePrefix + id)
	return nil
}

func (r *cachedRuleRepository) IncrementUsage(ctx context.Context, id string) error {
	if err := r.inner.IncrementUsage(ctx, id); err != nil {
		return err
	}
	r.cache.Delete(ruleCachePrefix + id)
	return nil
}
