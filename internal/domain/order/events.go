package order

import (
	"time"

	"github.com/example/moringa-store/internal/pricing"
)

const (
	EventOrderPlaced    = "OrderPlaced"
	EventOrderPaid      = "OrderPaid"
	EventOrderShipped   = "OrderShipped"
	EventOrderCancelled = "OrderCancelled"
)

type OrderPlaced struct {
	OrderID        string                 `json:"order_id"`
	CartID         string                 `json:"cart_id"`
	Customer       Customer               `json:"customer"`
	Items          []Item                 `json:"items"`
	Totals         Totals                 `json:"totals"`
	PaymentMethod  PaymentMethod          `json:"payment_method"`
	ShippingMethod pricing.ShippingMethod `json:"shipping_method"`
	PlacedAt       time.Time              `json:"placed_at"`
}

type OrderPaid struct {
	OrderID string    `json:"order_id"`
	PaidAt  time.Time `json:"paid_at"`
}

type OrderShipped struct {
	OrderID        string    `json:"order_id"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	ShippedAt      time.Time `json:"shipped_at"`
}

type OrderCancelled struct {
	OrderID     string    `json:"order_id"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}
