package cart

import (
	"time"

	"github.com/example/moringa-store/internal/domain/coupon"
)

const AggregateType = "Cart"

const (
	EventItemAdded           = "ItemAddedToCart"
	EventItemRemoved         = "ItemRemovedFromCart"
	EventItemQuantityUpdated = "CartItemQuantityUpdated"
	EventCartCleared         = "CartCleared"
	EventCouponApplied       = "CouponApplied"
	EventCouponRejected      = "CouponRejected"
	EventCouponRemoved       = "CouponRemoved"
)

// Reasons carried by CartCleared
const (
	ClearedByShopper  = "shopper"
	ClearedAtCheckout = "checkout"
)

type ItemAddedToCart struct {
	CartID  string    `json:"cart_id"`
	OwnerID string    `json:"owner_id"`
	Item    LineItem  `json:"item"`
	AddedAt time.Time `json:"added_at"`
}

type ItemRemovedFromCart struct {
	CartID    string    `json:"cart_id"`
	OwnerID   string    `json:"owner_id"`
	ProductID string    `json:"product_id"`
	VariantID string    `json:"variant_id"`
	RemovedAt time.Time `json:"removed_at"`
}

type CartItemQuantityUpdated struct {
	CartID    string    `json:"cart_id"`
	OwnerID   string    `json:"owner_id"`
	ProductID string    `json:"product_id"`
	VariantID string    `json:"variant_id"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartCleared struct {
	CartID    string    `json:"cart_id"`
	OwnerID   string    `json:"owner_id"`
	Reason    string    `json:"reason"`
	ClearedAt time.Time `json:"cleared_at"`
}

type CouponApplied struct {
	CartID  string         `json:"cart_id"`
	OwnerID string         `json:"owner_id"`
	Coupon  coupon.Applied `json:"coupon"`
}

type CouponRejected struct {
	CartID     string    `json:"cart_id"`
	OwnerID    string    `json:"owner_id"`
	Code       string    `json:"code"`
	Reason     string    `json:"reason"`
	RejectedAt time.Time `json:"rejected_at"`
}

type CouponRemoved struct {
	CartID    string    `json:"cart_id"`
	OwnerID   string    `json:"owner_id"`
	RemovedAt time.Time `json:"removed_at"`
}
