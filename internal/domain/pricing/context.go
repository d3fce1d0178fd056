package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/priceforge/priceforge/internal/errors"
)

// Context describes the line item being priced. It is a pure value: the
// engine reads it and never writes it, and every resolve call receives its
// own snapshot.
type Context struct {
	BasePrice decimal.Decimal `json:"base_price"`
	Currency  string          `json:"currency"`
	Quantity  int             `json:"quantity"`

	CategoryIDs []string `json:"category_ids,omitempty"`
	ProductID   string   `json:"product_id,omitempty"`
	BrandID     string   `json:"brand_id,omitempty"`

	CustomerSegment string `json:"customer_segment,omitempty"`
	IsFirstOrder    bool   `json:"is_first_order,omitempty"`
	PaymentMethod   string `json:"payment_method,omitempty"`
	Region          string `json:"region,omitempty"`
	SalesChannel    string `json:"sales_channel,omitempty"`

	// AlreadyDiscounted marks line items that carry a prior markdown, gating
	// the exclude_already_discounted condition
	AlreadyDiscounted bool `json:"already_discounted,omitempty"`

	// EvaluationInstant is the UTC instant used for validity windows and
	// day/time conditions. It is injected by the caller, never read from a
	// system clock, so the same inputs always resolve the same way.
	EvaluationInstant time.Time `json:"evaluation_instant"`
}

// Validate reports caller mistakes. This is the only error path out of a
// resolve call; every business outcome is data in the resolution.
func (c *Context) Validate() error {
	if c.Currency == "" {
		return ierr.NewError("currency is required").
			WithHint("Pricing context must carry a currency code").
			Mark(ierr.ErrValidation)
	}
	if c.BasePrice.LessThanOrEqual(decimal.Zero) {
		return ierr.NewError("base price must be greater than zero").
			WithHint("Pricing context must carry a positive base price").
			Mark(ierr.ErrValidation)
	}
	if c.Quantity < 1 {
		return ierr.NewError("quantity must be at least 1").
			WithHint("Pricing context must carry a positive quantity").
			Mark(ierr.ErrValidation)
	}
	if c.EvaluationInstant.IsZero() {
		return ierr.NewError("evaluation instant is required").
			WithHint("Pricing context must carry the instant to evaluate at").
			Mark(ierr.ErrValidation)
	}
	return nil
}
