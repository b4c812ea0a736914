// Package coupon validates discount codes against a catalog and the cart
// subtotal, and manages the coupon definitions themselves.
package coupon

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/example/moringa-store/internal/pricing"
)

var (
	// ErrCouponNotFound is returned when no active coupon matches the code.
	ErrCouponNotFound = errors.New("coupon not found")
	// ErrBelowMinimumOrder is returned when the subtotal does not reach the
	// coupon's minimum order value. The concrete error is *BelowMinimumOrderError.
	ErrBelowMinimumOrder = errors.New("order value below coupon minimum")
	// ErrCouponExpired is returned when the coupon is past its expiry.
	ErrCouponExpired = errors.New("coupon expired")
	ErrEmptyCode     = errors.New("coupon code is required")

	ErrInvalidType        = errors.New("discount type must be percentage or flat")
	ErrInvalidValue       = errors.New("discount value must not be negative")
	ErrPercentageTooLarge = errors.New("percentage discount must not exceed 100")
	ErrInvalidMinOrder    = errors.New("minimum order value must not be negative")
	ErrInvalidMaxDiscount = errors.New("maximum discount must not be negative")
)

// BelowMinimumOrderError carries the amount still missing before the coupon applies.
type BelowMinimumOrderError struct {
	Code          string
	MinOrderValue decimal.Decimal
	Subtotal      decimal.Decimal
	Shortfall     decimal.Decimal
}

func (e *BelowMinimumOrderError) Error() string {
	return "add " + pricing.FormatINR(e.Shortfall.Ceil()) + " more to use this coupon"
}

func (e *BelowMinimumOrderError) Unwrap() error {
	return ErrBelowMinimumOrder
}

// Definition is a coupon as stored in the catalog.
type Definition struct {
	Code          string               `json:"code"`
	DiscountType  pricing.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal      `json:"discount_value"`
	MinOrderValue decimal.Decimal      `json:"min_order_value"`
	MaxDiscount   decimal.Decimal      `json:"max_discount"`
	Description   string               `json:"description"`
	Active        bool                 `json:"active"`
	ExpiresAt     *time.Time           `json:"expires_at,omitempty"`
}

// Applied is the part of a coupon bound to a cart.
type Applied struct {
	Code          string               `json:"code"`
	DiscountType  pricing.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal      `json:"discount_value"`
	MinOrderValue decimal.Decimal      `json:"min_order_value"`
	MaxDiscount   decimal.Decimal      `json:"max_discount"`
	Description   string               `json:"description"`
	AppliedAt     time.Time            `json:"applied_at"`
}

// NormalizeCode trims and upper-cases a user supplied code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewDefinition validates the fields and returns an active coupon.
func NewDefinition(code string, typ pricing.DiscountType, value, minOrder, maxDiscount decimal.Decimal, description string, expiresAt *time.Time) (*Definition, error) {
	d := &Definition{
		Code:          NormalizeCode(code),
		DiscountType:  typ,
		DiscountValue: value,
		MinOrderValue: minOrder,
		MaxDiscount:   maxDiscount,
		Description:   strings.TrimSpace(description),
		Active:        true,
		ExpiresAt:     expiresAt,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks the definition's invariants.
func (d *Definition) Validate() error {
	switch {
	case d.Code == "":
		return ErrEmptyCode
	case !d.DiscountType.Valid():
		return ErrInvalidType
	case d.DiscountValue.IsNegative():
		return ErrInvalidValue
	case d.DiscountType == pricing.DiscountPercentage && d.DiscountValue.GreaterThan(decimal.NewFromInt(100)):
		return ErrPercentageTooLarge
	case d.MinOrderValue.IsNegative():
		return ErrInvalidMinOrder
	case d.MaxDiscount.IsNegative():
		return ErrInvalidMaxDiscount
	}
	return nil
}

// Expired reports whether the coupon is past its expiry at now.
func (d *Definition) Expired(now time.Time) bool {
	return d.ExpiresAt != nil && !now.Before(*d.ExpiresAt)
}

func (d *Definition) apply(now time.Time) *Applied {
	return &Applied{
		Code:          d.Code,
		DiscountType:  d.DiscountType,
		DiscountValue: d.DiscountValue,
		MinOrderValue: d.MinOrderValue,
		MaxDiscount:   d.MaxDiscount,
		Description:   d.Description,
		AppliedAt:     now,
	}
}

// Rule returns the pricing rule of the applied coupon. A nil coupon has no rule.
func (a *Applied) Rule() *pricing.Rule {
	if a == nil {
		return nil
	}
	return &pricing.Rule{
		Type:        a.DiscountType,
		Value:       a.DiscountValue,
		MaxDiscount: a.MaxDiscount,
	}
}

// Eligible reports whether subtotal still meets the minimum order value.
func (a *Applied) Eligible(subtotal decimal.Decimal) bool {
	return subtotal.GreaterThanOrEqual(a.MinOrderValue)
}

// SameTerms reports whether two applied coupons would price a cart identically.
func (a *Applied) SameTerms(b *Applied) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Code == b.Code &&
		a.DiscountType == b.DiscountType &&
		a.DiscountValue.Equal(b.DiscountValue) &&
		a.MinOrderValue.Equal(b.MinOrderValue) &&
		a.MaxDiscount.Equal(b.MaxDiscount)
}

// Evaluate looks code up in catalog and checks it against subtotal.
// On success it returns the coupon to bind to the cart.
func Evaluate(ctx context.Context, catalog Catalog, code string, subtotal decimal.Decimal, now time.Time) (*Applied, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, ErrEmptyCode
	}

	def, err := catalog.Lookup(ctx, normalized)
	if err != nil {
		return nil, errors.Wrapf(err, "lookup coupon %s", normalized)
	}
	if def == nil || !def.Active {
		return nil, ErrCouponNotFound
	}
	if def.Expired(now) {
		return nil, ErrCouponExpired
	}
	if subtotal.LessThan(def.MinOrderValue) {
		return nil, &BelowMinimumOrderError{
			Code:          def.Code,
			MinOrderValue: def.MinOrderValue,
			Subtotal:      subtotal,
			Shortfall:     def.MinOrderValue.Sub(subtotal),
		}
	}

	return def.apply(now), nil
}
