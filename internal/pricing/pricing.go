// Package pricing derives cart totals from line items, an optional discount
// rule and the shop's shipping configuration. Every function is pure.
package pricing

import (
	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of decimal places amounts are rounded to.
// Prices are quoted in whole rupees.
const CurrencyPlaces int32 = 0

var hundred = decimal.NewFromInt(100)

// DiscountType selects how a discount value is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

// Valid reports whether t is a known discount type.
func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFlat
}

// ShippingMethod selects the shipping rate used for a summary.
type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

// Line is the pricing view of a cart line item.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Rule is the discount part of an applied coupon.
type Rule struct {
	Type  DiscountType
	Value decimal.Decimal
	// MaxDiscount caps percentage discounts when positive.
	MaxDiscount decimal.Decimal
}

// ShippingConfig carries the shipping rates supplied by the settings store.
type ShippingConfig struct {
	FreeShippingThreshold decimal.Decimal `json:"free_shipping_threshold"`
	StandardShippingCost  decimal.Decimal `json:"standard_shipping_cost"`
	ExpressShippingCost   decimal.Decimal `json:"express_shipping_cost"`
}

// Summary holds every derived amount of a cart.
type Summary struct {
	Subtotal           decimal.Decimal `json:"subtotal"`
	Discount           decimal.Decimal `json:"discount"`
	PriceAfterDiscount decimal.Decimal `json:"price_after_discount"`
	Shipping           decimal.Decimal `json:"shipping"`
	GrandTotal         decimal.Decimal `json:"grand_total"`
}

// Round rounds an amount to the currency unit, half-up.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// Subtotal returns the sum of unit price times quantity over all lines.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// Discount returns the amount rule takes off subtotal. The result is never
// negative and never exceeds subtotal.
func Discount(subtotal decimal.Decimal, rule *Rule) decimal.Decimal {
	if rule == nil || !subtotal.IsPositive() || !rule.Value.IsPositive() {
		return decimal.Zero
	}

	var amount decimal.Decimal
	switch rule.Type {
	case DiscountFlat:
		amount = rule.Value
	case DiscountPercentage:
		amount = Round(subtotal.Mul(rule.Value).Div(hundred))
		if rule.MaxDiscount.IsPositive() && amount.GreaterThan(rule.MaxDiscount) {
			amount = rule.MaxDiscount
		}
	default:
		return decimal.Zero
	}

	return decimal.Min(amount, subtotal)
}

// Shipping returns the standard shipping charge for an order worth
// priceAfterDiscount. The free-shipping threshold is inclusive.
func Shipping(priceAfterDiscount decimal.Decimal, cfg ShippingConfig) decimal.Decimal {
	if priceAfterDiscount.GreaterThanOrEqual(cfg.FreeShippingThreshold) {
		return decimal.Zero
	}
	return cfg.StandardShippingCost
}

// ShippingFor returns the charge for the chosen method. Express delivery is
// never waived by the free-shipping threshold.
func ShippingFor(method ShippingMethod, priceAfterDiscount decimal.Decimal, cfg ShippingConfig) decimal.Decimal {
	if method == ShippingExpress {
		return cfg.ExpressShippingCost
	}
	return Shipping(priceAfterDiscount, cfg)
}

// GrandTotal returns the payable amount, floored at zero.
func GrandTotal(priceAfterDiscount, shipping decimal.Decimal) decimal.Decimal {
	total := priceAfterDiscount.Add(shipping)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Compute derives the full summary. An empty cart has nothing to ship and
// therefore totals zero regardless of the threshold.
func Compute(lines []Line, rule *Rule, cfg ShippingConfig, method ShippingMethod) Summary {
	subtotal := Subtotal(lines)
	if countUnits(lines) == 0 {
		return Summary{
			Subtotal:           decimal.Zero,
			Discount:           decimal.Zero,
			PriceAfterDiscount: decimal.Zero,
			Shipping:           decimal.Zero,
			GrandTotal:         decimal.Zero,
		}
	}

	discount := Discount(subtotal, rule)
	after := subtotal.Sub(discount)
	shipping := ShippingFor(method, after, cfg)

	return Summary{
		Subtotal:           subtotal,
		Discount:           discount,
		PriceAfterDiscount: after,
		Shipping:           shipping,
		GrandTotal:         GrandTotal(after, shipping),
	}
}

// AmountToFreeShipping returns how much more must be spent before standard
// shipping is waived, or zero when it already is.
func AmountToFreeShipping(priceAfterDiscount decimal.Decimal, cfg ShippingConfig) decimal.Decimal {
	remaining := cfg.FreeShippingThreshold.Sub(priceAfterDiscount)
	if remaining.IsPositive() {
		return remaining
	}
	return decimal.Zero
}

func countUnits(lines []Line) int {
	n := 0
	for _, l := range lines {
		if l.Quantity > 0 {
			n += l.Quantity
		}
	}
	return n
}
