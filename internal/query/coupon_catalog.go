package query

import (
	"context"

	"github.com/example/moringa-store/internal/domain/coupon"
	"github.com/example/moringa-store/internal/infrastructure/store"
	"github.com/example/moringa-store/internal/readmodel"
)

// CouponCatalog looks coupons up in the projected read models.
type CouponCatalog struct {
	readStore store.ReadStoreInterface
}

func NewCouponCatalog(readStore store.ReadStoreInterface) *CouponCatalog {
	return &CouponCatalog{readStore: readStore}
}

func (c *CouponCatalog) Lookup(ctx context.Context, code string) (*coupon.Definition, error) {
	m, ok, err := store.GetAs[readmodel.CouponReadModel](ctx, c.readStore, store.CollectionCoupons, coupon.NormalizeCode(code))
	if err != nil || !ok {
		return nil, err
	}
	def := m.Definition
	return &def, nil
}
