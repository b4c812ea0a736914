package command

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/moringa-store/internal/domain/order"
	"github.com/example/moringa-store/internal/domain/product"
	"github.com/example/moringa-store/internal/pricing"
)

// Product Commands
type CreateProduct struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Variants    []product.VariantInput `json:"variants"`
}

type UpdateProduct struct {
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type DeleteProduct struct {
	ProductID string `json:"product_id"`
}

type AddVariant struct {
	ProductID string               `json:"product_id"`
	Variant   product.VariantInput `json:"variant"`
}

type UpdateVariantPrice struct {
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id"`
	Price     decimal.Decimal `json:"price"`
}

type DeactivateVariant struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
}

// Cart Commands
type AddToCart struct {
	OwnerID   string `json:"owner_id"`
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartItem struct {
	OwnerID   string `json:"owner_id"`
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type RemoveFromCart struct {
	OwnerID   string `json:"owner_id"`
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
}

type ClearCart struct {
	OwnerID string `json:"owner_id"`
}

type ApplyCoupon struct {
	OwnerID string `json:"owner_id"`
	Code    string `json:"code"`
}

type RemoveCoupon struct {
	OwnerID string `json:"owner_id"`
}

// Order Commands
type PlaceOrder struct {
	OwnerID        string                 `json:"owner_id"`
	Customer       order.Customer         `json:"customer"`
	PaymentMethod  order.PaymentMethod    `json:"payment_method"`
	ShippingMethod pricing.ShippingMethod `json:"shipping_method"`
}

type PayOrder struct {
	OrderID string `json:"order_id"`
}

type ShipOrder struct {
	OrderID        string `json:"order_id"`
	TrackingNumber string `json:"tracking_number"`
}

type CancelOrder struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// Coupon Commands
type SaveCoupon struct {
	Code          string               `json:"code"`
	DiscountType  pricing.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal      `json:"discount_value"`
	MinOrderValue decimal.Decimal      `json:"min_order_value"`
	MaxDiscount   decimal.Decimal      `json:"max_discount"`
	Description   string               `json:"description"`
	ExpiresAt     *time.Time           `json:"expires_at,omitempty"`
}

type DeactivateCoupon struct {
	Code string `json:"code"`
}
