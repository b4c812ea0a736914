package coupon

import "time"

const (
	EventCouponCreated     = "CouponCreated"
	EventCouponUpdated     = "CouponUpdated"
	EventCouponDeactivated = "CouponDeactivated"
)

type CouponCreated struct {
	Definition
	CreatedAt time.Time `json:"created_at"`
}

type CouponUpdated struct {
	Definition
	UpdatedAt time.Time `json:"updated_at"`
}

type CouponDeactivated struct {
	Code          string    `json:"code"`
	DeactivatedAt time.Time `json:"deactivated_at"`
}
