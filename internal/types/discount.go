package types

import (
	"github.com/samber/lo"

	ierr "github.com/priceforge/priceforge/internal/errors"
)

// DiscountKind represents the numeric semantics of a discount rule
type DiscountKind string

const (
	// DiscountKindPercentage deducts a percentage of the working price
	DiscountKindPercentage DiscountKind = "percentage"
	// DiscountKindFixedAmount deducts a fixed amount of currency units
	DiscountKindFixedAmount DiscountKind = "fixed_amount"
	// DiscountKindBuyXGetY encodes a buy X pay X-1 promotion; value carries X
	DiscountKindBuyXGetY DiscountKind = "buy_x_get_y"
	// DiscountKindComboBundle acts as percentage once bundle eligibility has gated
	DiscountKindComboBundle DiscountKind = "combo_bundle"
	// DiscountKindVolumeTier deducts according to a quantity-indexed percentage ladder
	DiscountKindVolumeTier DiscountKind = "volume_tier"
	// DiscountKindCustomerSegment acts as percentage once segment eligibility has gated
	DiscountKindCustomerSegment DiscountKind = "customer_segment"
	// DiscountKindTimeWindow acts as percentage once time eligibility has gated
	DiscountKindTimeWindow DiscountKind = "time_window"
	// DiscountKindTiered deducts according to a quantity-indexed percentage ladder
	DiscountKindTiered DiscountKind = "tiered"
)

func (k DiscountKind) String() string {
	return string(k)
}

func (k DiscountKind) Validate() error {
	allowed := []DiscountKind{
		DiscountKindPercentage,
		DiscountKindFixedAmount,
		DiscountKindBuyXGetY,
		DiscountKindComboBundle,
		DiscountKindVolumeTier,
		DiscountKindCustomerSegment,
		DiscountKindTimeWindow,
		DiscountKindTiered,
	}
	if !lo.Contains(allowed, k) {
		return ierr.NewError("invalid discount kind").
			WithHintf("Discount kind %s is not supported", k).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsTierLadder returns true for kinds priced from a quantity ladder
func (k DiscountKind) IsTierLadder() bool {
	return k == DiscountKindVolumeTier || k == DiscountKindTiered
}

// ApplicationMode governs how a rule composes with other simultaneously
// eligible rules
type ApplicationMode string

const (
	// ApplicationModeAccumulable rules deduct independently against the original
	// price; deductions are summed and subtracted once
	ApplicationModeAccumulable ApplicationMode = "accumulable"
	// ApplicationModeExclusive rules suppress co-application of other rules that
	// are not explicitly combinable with them
	ApplicationModeExclusive ApplicationMode = "exclusive"
	// ApplicationModeCascade rules apply sequentially, each against the running
	// price left by the previous one
	ApplicationModeCascade ApplicationMode = "cascade"
)

func (m ApplicationMode) String() string {
	return string(m)
}

func (m ApplicationMode) Validate() error {
	allowed := []ApplicationMode{
		ApplicationModeAccumulable,
		ApplicationModeExclusive,
		ApplicationModeCascade,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid application mode").
			WithHintf("Application mode %s is not supported", m).
			Mark(ierr.ErrValidation)
	}
	return nil
}
