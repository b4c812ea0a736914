package order

import (
	"net/mail"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/example/moringa-store/internal/pricing"
)

var (
	ErrEmptyOrder            = errors.New("order must have at least one item")
	ErrInvalidCustomer       = errors.New("invalid customer details")
	ErrInvalidItem           = errors.New("invalid order item")
	ErrTotalsMismatch        = errors.New("order totals are inconsistent")
	ErrInvalidPaymentMethod  = errors.New("payment method must be cod, upi or card")
	ErrInvalidShippingMethod = errors.New("shipping method must be standard or express")
)

// PaymentMethod is recorded on the order only; no payment is taken.
type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "cod"
	PaymentUPI  PaymentMethod = "upi"
	PaymentCard PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentUPI, PaymentCard:
		return true
	}
	return false
}

type Customer struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

func (c Customer) validate() error {
	required := []struct{ field, value string }{
		{"name", c.Name},
		{"email", c.Email},
		{"phone", c.Phone},
		{"address", c.Address},
		{"city", c.City},
		{"postal_code", c.PostalCode},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.Wrapf(ErrInvalidCustomer, "%s is required", r.field)
		}
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return errors.Wrap(ErrInvalidCustomer, "email is malformed")
	}
	return nil
}

// Item is one order line with the names shown on the invoice.
type Item struct {
	ProductID   string          `json:"product_id"`
	VariantID   string          `json:"variant_id"`
	ProductName string          `json:"product_name"`
	VariantName string          `json:"variant_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Totals are the amounts charged. Subtotal - Discount + Shipping == Total.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Shipping   decimal.Decimal `json:"shipping"`
	Total      decimal.Decimal `json:"total"`
	CouponCode string          `json:"coupon_code,omitempty"`
}

// TotalsFromSummary copies a pricing summary into order totals.
func TotalsFromSummary(s pricing.Summary, couponCode string) Totals {
	return Totals{
		Subtotal:   s.Subtotal,
		Discount:   s.Discount,
		Shipping:   s.Shipping,
		Total:      s.GrandTotal,
		CouponCode: couponCode,
	}
}

// PlaceInput is everything checkout hands over to create an order.
type PlaceInput struct {
	CartID         string                 `json:"cart_id"`
	Customer       Customer               `json:"customer"`
	Items          []Item                 `json:"items"`
	Totals         Totals                 `json:"totals"`
	PaymentMethod  PaymentMethod          `json:"payment_method"`
	ShippingMethod pricing.ShippingMethod `json:"shipping_method"`
}

// Validate checks the input, including that the amounts add up exactly.
func (in PlaceInput) Validate() error {
	if len(in.Items) == 0 {
		return ErrEmptyOrder
	}
	if err := in.Customer.validate(); err != nil {
		return err
	}
	if !in.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	if in.ShippingMethod != pricing.ShippingStandard && in.ShippingMethod != pricing.ShippingExpress {
		return ErrInvalidShippingMethod
	}

	sum := decimal.Zero
	for _, it := range in.Items {
		if it.ProductID == "" || it.VariantID == "" || it.Quantity < 1 || it.UnitPrice.IsNegative() {
			return errors.Wrapf(ErrInvalidItem, "product %q variant %q", it.ProductID, it.VariantID)
		}
		if !it.LineTotal.Equal(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))) {
			return errors.Wrapf(ErrTotalsMismatch, "line total of %s", it.ProductID)
		}
		sum = sum.Add(it.LineTotal)
	}

	t := in.Totals
	switch {
	case !sum.Equal(t.Subtotal):
		return errors.Wrapf(ErrTotalsMismatch, "items sum to %s, subtotal is %s", sum, t.Subtotal)
	case t.Discount.IsNegative() || t.Discount.GreaterThan(t.Subtotal):
		return errors.Wrapf(ErrTotalsMismatch, "discount %s out of range", t.Discount)
	case t.Shipping.IsNegative():
		return errors.Wrapf(ErrTotalsMismatch, "shipping %s is negative", t.Shipping)
	case !t.Subtotal.Sub(t.Discount).Add(t.Shipping).Equal(t.Total):
		return errors.Wrapf(ErrTotalsMismatch, "%s - %s + %s != %s", t.Subtotal, t.Discount, t.Shipping, t.Total)
	}
	return nil
}
