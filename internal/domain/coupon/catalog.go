package coupon

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/example/moringa-store/internal/pricing"
)

// Catalog looks coupons up by normalized code.
// Lookup returns nil, nil when the code is unknown.
type Catalog interface {
	Lookup(ctx context.Context, code string) (*Definition, error)
}

// StaticCatalog is a fixed in-memory set of coupons.
type StaticCatalog map[string]Definition

// NewStaticCatalog indexes defs by their normalized code.
func NewStaticCatalog(defs ...Definition) StaticCatalog {
	c := make(StaticCatalog, len(defs))
	for _, d := range defs {
		d.Code = NormalizeCode(d.Code)
		c[d.Code] = d
	}
	return c
}

func (c StaticCatalog) Lookup(_ context.Context, code string) (*Definition, error) {
	d, ok := c[NormalizeCode(code)]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

// DemoCatalog returns the launch coupons that are always available.
func DemoCatalog() StaticCatalog {
	return NewStaticCatalog(
		Definition{
			Code:          "WELCOME10",
			DiscountType:  pricing.DiscountPercentage,
			DiscountValue: decimal.NewFromInt(10),
			MinOrderValue: decimal.Zero,
			Description:   "10% off your first order",
			Active:        true,
		},
		Definition{
			Code:          "FLAT100",
			DiscountType:  pricing.DiscountFlat,
			DiscountValue: decimal.NewFromInt(100),
			MinOrderValue: decimal.NewFromInt(500),
			Description:   "₹100 off on orders above ₹500",
			Active:        true,
		},
		Definition{
			Code:          "MORINGA20",
			DiscountType:  pricing.DiscountPercentage,
			DiscountValue: decimal.NewFromInt(20),
			MinOrderValue: decimal.NewFromInt(999),
			MaxDiscount:   decimal.NewFromInt(300),
			Description:   "20% off on orders above ₹999, up to ₹300",
			Active:        true,
		},
	)
}

// MultiCatalog asks each catalog in turn and returns the first hit.
type MultiCatalog []Catalog

func (m MultiCatalog) Lookup(ctx context.Context, code string) (*Definition, error) {
	for _, c := range m {
		d, err := c.Lookup(ctx, code)
		if err != nil {
			return nil, err
		}
		if d != nil {
			return d, nil
		}
	}
	return nil, nil
}
