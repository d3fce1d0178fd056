package rule

import (
	"context"
)

// Repository defines the interface for discount rule data access
type Repository interface {
	Create(ctx context.Context, rule *DiscountRule) error
	Get(ctx context.Context, id string) (*DiscountRule, error)
	GetBatch(ctx context.Context, ids []string) ([]*DiscountRule, error)
	List(ctx context.Context) ([]*DiscountRule, error)
	ListPublished(ctx context.Context) ([]*DiscountRule, error)
	Update(ctx context.Context, rule *DiscountRule) error
	Delete(ctx context.Context, id string) error
	// IncrementUsage commits the advisory usage increments returned by a
	// resolution. The engine itself never mutates a rule.
	IncrementUsage(ctx context.Context, id string) error
}
