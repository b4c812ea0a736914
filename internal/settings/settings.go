// Package settings supplies the shop's shipping configuration.
package settings

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/example/moringa-store/internal/pricing"
)

var (
	ErrNotConfigured    = errors.New("shipping settings not configured")
	ErrNegativeShipping = errors.New("shipping amounts must not be negative")
)

// Shipping is the shop-wide shipping configuration.
type Shipping struct {
	FreeShippingThreshold    decimal.Decimal `json:"free_shipping_threshold"`
	StandardShippingCost     decimal.Decimal `json:"standard_shipping_cost"`
	ExpressShippingCost      decimal.Decimal `json:"express_shipping_cost"`
	StandardDeliveryEstimate string          `json:"standard_delivery_estimate"`
	ExpressDeliveryEstimate  string          `json:"express_delivery_estimate"`
}

// Default is used until the admin saves settings.
func Default() Shipping {
	return Shipping{
		FreeShippingThreshold:    decimal.NewFromInt(499),
		StandardShippingCost:     decimal.NewFromInt(50),
		ExpressShippingCost:      decimal.NewFromInt(120),
		StandardDeliveryEstimate: "5-7 business days",
		ExpressDeliveryEstimate:  "1-2 business days",
	}
}

func (s Shipping) Validate() error {
	if s.FreeShippingThreshold.IsNegative() || s.StandardShippingCost.IsNegative() || s.ExpressShippingCost.IsNegative() {
		return ErrNegativeShipping
	}
	return nil
}

// Config returns the part of the settings used in total computation.
func (s Shipping) Config() pricing.ShippingConfig {
	return pricing.ShippingConfig{
		FreeShippingThreshold: s.FreeShippingThreshold,
		StandardShippingCost:  s.StandardShippingCost,
		ExpressShippingCost:   s.ExpressShippingCost,
	}
}

// Provider reads and writes shipping settings.
type Provider interface {
	GetShipping(ctx context.Context) (Shipping, error)
	SaveShipping(ctx context.Context, s Shipping) error
}
