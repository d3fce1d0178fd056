package types

import (
	"github.com/samber/lo"

	ierr "github.com/priceforge/priceforge/internal/errors"
)

// ConditionKind represents a single eligibility predicate evaluated against a
// pricing context. The set is closed so the evaluator can be a total function.
type ConditionKind string

const (
	ConditionKindCategory                 ConditionKind = "category"
	ConditionKindProduct                  ConditionKind = "product"
	ConditionKindBrand                    ConditionKind = "brand"
	ConditionKindMinPurchaseAmount        ConditionKind = "min_purchase_amount"
	ConditionKindMinQuantity              ConditionKind = "min_quantity"
	ConditionKindMaxQuantity              ConditionKind = "max_quantity"
	ConditionKindCustomerSegment          ConditionKind = "customer_segment"
	ConditionKindPaymentMethod            ConditionKind = "payment_method"
	ConditionKindRegion                   ConditionKind = "region"
	ConditionKindSalesChannel             ConditionKind = "sales_channel"
	ConditionKindDayOfWeek                ConditionKind = "day_of_week"
	ConditionKindTimeRange                ConditionKind = "time_range"
	ConditionKindExcludeAlreadyDiscounted ConditionKind = "exclude_already_discounted"
	ConditionKindFirstOrderOnly           ConditionKind = "first_order_only"
)

func (k ConditionKind) String() string {
	return string(k)
}

func (k ConditionKind) Validate() error {
	allowed := []ConditionKind{
		ConditionKindCategory,
		ConditionKindProduct,
		ConditionKindBrand,
		ConditionKindMinPurchaseAmount,
		ConditionKindMinQuantity,
		ConditionKindMaxQuantity,
		ConditionKindCustomerSegment,
		ConditionKindPaymentMethod,
		ConditionKindRegion,
		ConditionKindSalesChannel,
		ConditionKindDayOfWeek,
		ConditionKindTimeRange,
		ConditionKindExcludeAlreadyDiscounted,
		ConditionKindFirstOrderOnly,
	}
	if !lo.Contains(allowed, k) {
		return ierr.NewError("invalid condition kind").
			WithHintf("Condition kind %s is not supported", k).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsSetMembership returns true for kinds that pass when the context field is a
// member of the condition's configured set
func (k ConditionKind) IsSetMembership() bool {
	switch k {
	case ConditionKindCategory, ConditionKindProduct, ConditionKindBrand,
		ConditionKindCustomerSegment, ConditionKindPaymentMethod,
		ConditionKindRegion, ConditionKindSalesChannel:
		return true
	}
	return false
}
