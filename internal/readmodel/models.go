// Package readmodel holds the documents the projector writes and the query
// side reads.
package readmodel

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/moringa-store/internal/domain/coupon"
	"github.com/example/moringa-store/internal/domain/order"
	"github.com/example/moringa-store/internal/pricing"
)

type VariantReadModel struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Active bool            `json:"active"`
}

type ProductReadModel struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Variants    []VariantReadModel `json:"variants"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Variant returns the variant with id, active or not.
func (p *ProductReadModel) Variant(id string) (*VariantReadModel, bool) {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

// CouponReadModel is keyed by the normalized code.
type CouponReadModel struct {
	coupon.Definition
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderReadModel struct {
	ID             string                 `json:"id"`
	CartID         string                 `json:"cart_id"`
	Customer       order.Customer         `json:"customer"`
	Items          []order.Item           `json:"items"`
	Totals         order.Totals           `json:"totals"`
	PaymentMethod  order.PaymentMethod    `json:"payment_method"`
	ShippingMethod pricing.ShippingMethod `json:"shipping_method"`
	Status         order.Status           `json:"status"`
	TrackingNumber string                 `json:"tracking_number,omitempty"`
	CancelReason   string                 `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}
