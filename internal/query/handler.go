package query

import (
	"context"
	"sort"

	"github.com/example/moringa-store/internal/domain/cart"
	"github.com/example/moringa-store/internal/infrastructure/store"
	"github.com/example/moringa-store/internal/pricing"
	"github.com/example/moringa-store/internal/readmodel"
	"github.com/example/moringa-store/internal/settings"
)

type Handler struct {
	readStore store.ReadStoreInterface
	carts     *cart.Service
	settings  settings.Provider
}

func NewHandler(readStore store.ReadStoreInterface, carts *cart.Service, provider settings.Provider) *Handler {
	return &Handler{
		readStore: readStore,
		carts:     carts,
		settings:  provider,
	}
}

// Products

func (h *Handler) GetProduct(ctx context.Context, id string) (*readmodel.ProductReadModel, bool, error) {
	return store.GetAs[readmodel.ProductReadModel](ctx, h.readStore, store.CollectionProducts, id)
}

// ListProducts returns products sorted by name. With activeOnly, inactive
// variants are hidden and products without any active variant are skipped.
func (h *Handler) ListProducts(ctx context.Context, activeOnly bool) ([]*readmodel.ProductReadModel, error) {
	products, err := store.ListAs[readmodel.ProductReadModel](ctx, h.readStore, store.CollectionProducts)
	if err != nil {
		return nil, err
	}

	out := products[:0]
	for _, p := range products {
		if activeOnly {
			active := p.Variants[:0]
			for _, v := range p.Variants {
				if v.Active {
					active = append(active, v)
				}
			}
			if len(active) == 0 {
				continue
			}
			p.Variants = active
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Cart

// GetCart loads the owner's cart and prices it with the current shipping settings.
func (h *Handler) GetCart(ctx context.Context, ownerID string, method pricing.ShippingMethod) (*CartView, error) {
	c, err := h.carts.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	shipping, err := h.Shipping(ctx)
	if err != nil {
		return nil, err
	}
	view := BuildCartView(c, shipping, method)
	return &view, nil
}

// Shipping returns the shipping settings currently in force.
func (h *Handler) Shipping(ctx context.Context) (settings.Shipping, error) {
	return h.settings.GetShipping(ctx)
}

// Orders

func (h *Handler) GetOrder(ctx context.Context, id string) (*readmodel.OrderReadModel, bool, error) {
	return store.GetAs[readmodel.OrderReadModel](ctx, h.readStore, store.CollectionOrders, id)
}

// ListOrders returns orders newest first, optionally filtered by status.
func (h *Handler) ListOrders(ctx context.Context, status string) ([]*readmodel.OrderReadModel, error) {
	orders, err := store.ListAs[readmodel.OrderReadModel](ctx, h.readStore, store.CollectionOrders)
	if err != nil {
		return nil, err
	}
	out := orders[:0]
	for _, o := range orders {
		if status == "" || string(o.Status) == status {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ListOrdersByCart returns the orders placed from one cart, newest first.
func (h *Handler) ListOrdersByCart(ctx context.Context, cartID string) ([]*readmodel.OrderReadModel, error) {
	orders, err := h.ListOrders(ctx, "")
	if err != nil {
		return nil, err
	}
	out := orders[:0]
	for _, o := range orders {
		if o.CartID == cartID {
			out = append(out, o)
		}
	}
	return out, nil
}

// Coupons

func (h *Handler) ListCoupons(ctx context.Context) ([]*readmodel.CouponReadModel, error) {
	return store.ListAs[readmodel.CouponReadModel](ctx, h.readStore, store.CollectionCoupons)
}
