// Package cart holds the shopper's cart: line items, at most one applied
// coupon and the derived totals.
package cart

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/example/moringa-store/internal/domain/coupon"
	"github.com/example/moringa-store/internal/pricing"
)

// Cart is owned by a single shopper session and is not safe for concurrent use.
// Totals are always derived from Items and Coupon.
type Cart struct {
	ID      string     `json:"id"`
	OwnerID string     `json:"owner_id"`
	Items   []LineItem `json:"items"`

	Coupon *coupon.Applied `json:"coupon,omitempty"`
	// CouponError is the reason the last apply attempt failed.
	CouponError string `json:"coupon_error,omitempty"`
	// CouponNotice is set when an applied coupon was dropped because the
	// cart no longer meets its minimum order value.
	CouponNotice string `json:"coupon_notice,omitempty"`

	Version int `json:"version"`
}

// GetCartID returns the cart ID for a cart owner
func GetCartID(ownerID string) string {
	return "cart-" + ownerID
}

// New returns an empty cart for ownerID.
func New(ownerID string) *Cart {
	return &Cart{ID: GetCartID(ownerID), OwnerID: ownerID, Items: []LineItem{}}
}

func (c *Cart) GetID() string   { return c.ID }
func (c *Cart) GetVersion() int { return c.Version }

func (c *Cart) indexOf(productID, variantID string) int {
	return slices.IndexFunc(c.Items, func(l LineItem) bool { return l.matches(productID, variantID) })
}

// Item returns the line for a product variant.
func (c *Cart) Item(productID, variantID string) (LineItem, bool) {
	i := c.indexOf(productID, variantID)
	if i < 0 {
		return LineItem{}, false
	}
	return c.Items[i], true
}

// CanAdd reports why item could not be merged into the cart, if at all.
func (c *Cart) CanAdd(item LineItem) error {
	if err := item.validate(); err != nil {
		return err
	}
	if line, ok := c.Item(item.ProductID, item.VariantID); ok && line.Quantity+item.Quantity > MaxQuantity {
		return ErrQuantityTooLarge
	}
	return nil
}

// AddItem merges item into the cart. An existing line for the same product
// variant has its quantity increased and keeps its original unit price.
// A merge past MaxQuantity is rejected and changes nothing.
func (c *Cart) AddItem(item LineItem) error {
	if err := c.CanAdd(item); err != nil {
		return err
	}
	if i := c.indexOf(item.ProductID, item.VariantID); i >= 0 {
		c.Items[i].Quantity += item.Quantity
	} else {
		c.Items = append(c.Items, item)
	}
	c.revalidateCoupon()
	return nil
}

// RemoveItem drops the line for a product variant if present.
func (c *Cart) RemoveItem(productID, variantID string) {
	i := c.indexOf(productID, variantID)
	if i < 0 {
		return
	}
	c.Items = slices.Delete(c.Items, i, i+1)
	c.revalidateCoupon()
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes it; more than MaxQuantity is rejected.
func (c *Cart) UpdateQuantity(productID, variantID string, quantity int) error {
	if quantity <= 0 {
		c.RemoveItem(productID, variantID)
		return nil
	}
	if quantity > MaxQuantity {
		return ErrQuantityTooLarge
	}
	i := c.indexOf(productID, variantID)
	if i < 0 {
		return nil
	}
	c.Items[i].Quantity = quantity
	c.revalidateCoupon()
	return nil
}

// Clear empties the cart and forgets any coupon state.
func (c *Cart) Clear() {
	c.Items = []LineItem{}
	c.Coupon = nil
	c.CouponError = ""
	c.CouponNotice = ""
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalItems is the number of units across all lines.
func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.Items {
		n += l.Quantity
	}
	return n
}

// ApplyCoupon validates code against catalog and the current subtotal.
// A rejection is recorded in CouponError and leaves the applied coupon as
// it was. Errors other than a rejection are returned without touching state.
func (c *Cart) ApplyCoupon(ctx context.Context, catalog coupon.Catalog, code string, now time.Time) error {
	applied, err := coupon.Evaluate(ctx, catalog, code, c.Subtotal(), now)
	if err != nil {
		if IsRejection(err) {
			c.RejectCoupon(err.Error())
		}
		return err
	}
	c.SetCoupon(applied)
	return nil
}

// SetCoupon binds an evaluated coupon to the cart. Re-applying a coupon with
// the same terms keeps the original binding. The minimum order is checked
// again against the current items, since the coupon may have been evaluated
// against an older version of the cart.
func (c *Cart) SetCoupon(applied *coupon.Applied) {
	if !c.Coupon.SameTerms(applied) {
		c.Coupon = applied
	}
	c.CouponError = ""
	c.CouponNotice = ""
	c.revalidateCoupon()
}

// RejectCoupon records why an apply attempt failed.
func (c *Cart) RejectCoupon(reason string) {
	c.CouponError = reason
}

// RemoveCoupon clears the applied coupon and any coupon messages.
func (c *Cart) RemoveCoupon() {
	c.Coupon = nil
	c.CouponError = ""
	c.CouponNotice = ""
}

// revalidateCoupon drops the coupon once the subtotal falls below its minimum.
func (c *Cart) revalidateCoupon() {
	if c.Coupon == nil || c.Coupon.Eligible(c.Subtotal()) {
		return
	}
	c.CouponNotice = fmt.Sprintf("coupon %s was removed: orders must be at least %s",
		c.Coupon.Code, pricing.FormatINR(c.Coupon.MinOrderValue))
	c.Coupon = nil
}

// IsRejection reports whether err is a coupon rejection that the shopper
// should see, as opposed to a lookup failure.
func IsRejection(err error) bool {
	return errors.Is(err, coupon.ErrCouponNotFound) ||
		errors.Is(err, coupon.ErrBelowMinimumOrder) ||
		errors.Is(err, coupon.ErrCouponExpired) ||
		errors.Is(err, coupon.ErrEmptyCode)
}

// Lines returns the pricing view of the items.
func (c *Cart) Lines() []pricing.Line {
	lines := make([]pricing.Line, len(c.Items))
	for i, l := range c.Items {
		lines[i] = l.line()
	}
	return lines
}

func (c *Cart) Subtotal() decimal.Decimal {
	return pricing.Subtotal(c.Lines())
}

func (c *Cart) DiscountAmount() decimal.Decimal {
	return pricing.Discount(c.Subtotal(), c.Coupon.Rule())
}

// FinalPrice is the subtotal after the coupon discount, before shipping.
func (c *Cart) FinalPrice() decimal.Decimal {
	return c.Subtotal().Sub(c.DiscountAmount())
}

// Totals derives every amount for the chosen shipping method.
func (c *Cart) Totals(cfg pricing.ShippingConfig, method pricing.ShippingMethod) pricing.Summary {
	return pricing.Compute(c.Lines(), c.Coupon.Rule(), cfg, method)
}
