package query

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/example/moringa-store/internal/domain/cart"
	"github.com/example/moringa-store/internal/domain/coupon"
	"github.com/example/moringa-store/internal/pricing"
	"github.com/example/moringa-store/internal/settings"
)

type CartLineView struct {
	ProductID   string          `json:"product_id"`
	VariantID   string          `json:"variant_id"`
	ProductName string          `json:"product_name"`
	VariantName string          `json:"variant_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CartView is the cart as the storefront shows it, totals included.
type CartView struct {
	CartID       string          `json:"cart_id"`
	Items        []CartLineView  `json:"items"`
	TotalItems   int             `json:"total_items"`
	Coupon       *coupon.Applied `json:"coupon,omitempty"`
	CouponError  string          `json:"coupon_error,omitempty"`
	CouponNotice string          `json:"coupon_notice,omitempty"`

	Summary              pricing.Summary        `json:"summary"`
	ShippingMethod       pricing.ShippingMethod `json:"shipping_method"`
	DeliveryEstimate     string                 `json:"delivery_estimate"`
	AmountToFreeShipping decimal.Decimal        `json:"amount_to_free_shipping"`
	FreeShippingMessage  string                 `json:"free_shipping_message,omitempty"`
}

// BuildCartView prices c. Unknown shipping methods fall back to standard.
func BuildCartView(c *cart.Cart, s settings.Shipping, method pricing.ShippingMethod) CartView {
	if method != pricing.ShippingExpress {
		method = pricing.ShippingStandard
	}

	items := make([]CartLineView, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, CartLineView{
			ProductID:   it.ProductID,
			VariantID:   it.VariantID,
			ProductName: it.ProductName,
			VariantName: it.VariantName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal(),
		})
	}

	summary := c.Totals(s.Config(), method)
	view := CartView{
		CartID:           c.ID,
		Items:            items,
		TotalItems:       c.TotalItems(),
		Coupon:           c.Coupon,
		CouponError:      c.CouponError,
		CouponNotice:     c.CouponNotice,
		Summary:          summary,
		ShippingMethod:   method,
		DeliveryEstimate: s.StandardDeliveryEstimate,
	}
	if method == pricing.ShippingExpress {
		view.DeliveryEstimate = s.ExpressDeliveryEstimate
	}

	if !c.IsEmpty() {
		view.AmountToFreeShipping = pricing.AmountToFreeShipping(summary.PriceAfterDiscount, s.Config())
		if view.AmountToFreeShipping.IsPositive() {
			view.FreeShippingMessage = fmt.Sprintf("add %s more for free shipping", pricing.FormatINR(view.AmountToFreeShipping))
		}
	}
	return view
}
