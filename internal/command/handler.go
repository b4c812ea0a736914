package command

import (
	"context"
	"log/slog"

	"github.com/go-faster/errors"

	"github.com/example/moringa-store/internal/domain/cart"
	"github.com/example/moringa-store/internal/domain/coupon"
	"github.com/example/moringa-store/internal/domain/order"
	"github.com/example/moringa-store/internal/domain/product"
	"github.com/example/moringa-store/internal/infrastructure/store"
	"github.com/example/moringa-store/internal/metrics"
	"github.com/example/moringa-store/internal/pricing"
	"github.com/example/moringa-store/internal/readmodel"
	"github.com/example/moringa-store/internal/settings"
)

// ErrVariantUnavailable is returned when a variant exists but is no longer sold.
var ErrVariantUnavailable = errors.New("variant is not available")

type Handler struct {
	productSvc *product.Service
	cartSvc    *cart.Service
	orderSvc   *order.Service
	couponSvc  *coupon.Service
	readStore  store.ReadStoreInterface
	settings   settings.Provider
	metrics    *metrics.Metrics
	log        *slog.Logger
}

type Deps struct {
	Products  *product.Service
	Carts     *cart.Service
	Orders    *order.Service
	Coupons   *coupon.Service
	ReadStore store.ReadStoreInterface
	Settings  settings.Provider
	// Metrics may be nil.
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		productSvc: d.Products,
		cartSvc:    d.Carts,
		orderSvc:   d.Orders,
		couponSvc:  d.Coupons,
		readStore:  d.ReadStore,
		settings:   d.Settings,
		metrics:    d.Metrics,
		log:        logger.With("component", "command"),
	}
}

// Products

func (h *Handler) CreateProduct(ctx context.Context, cmd CreateProduct) (*product.Product, error) {
	return h.productSvc.Create(ctx, cmd.Name, cmd.Description, cmd.Variants)
}

func (h *Handler) UpdateProduct(ctx context.Context, cmd UpdateProduct) error {
	return h.productSvc.Update(ctx, cmd.ProductID, cmd.Name, cmd.Description)
}

func (h *Handler) DeleteProduct(ctx context.Context, cmd DeleteProduct) error {
	return h.productSvc.Delete(ctx, cmd.ProductID)
}

func (h *Handler) AddVariant(ctx context.Context, cmd AddVariant) (*product.Variant, error) {
	return h.productSvc.AddVariant(ctx, cmd.ProductID, cmd.Variant)
}

// UpdateVariantPrice changes the list price. Lines already in carts keep the
// price they were added at.
func (h *Handler) UpdateVariantPrice(ctx context.Context, cmd UpdateVariantPrice) error {
	return h.productSvc.UpdateVariantPrice(ctx, cmd.ProductID, cmd.VariantID, cmd.Price)
}

func (h *Handler) DeactivateVariant(ctx context.Context, cmd DeactivateVariant) error {
	return h.productSvc.DeactivateVariant(ctx, cmd.ProductID, cmd.VariantID)
}

// Cart

// AddToCart resolves the variant from the product read model and adds it at
// its current price.
func (h *Handler) AddToCart(ctx context.Context, cmd AddToCart) (*cart.Cart, error) {
	prod, variant, err := h.resolveVariant(ctx, cmd.ProductID, cmd.VariantID)
	if err != nil {
		return nil, err
	}

	item, err := cart.NewLineItem(prod.ID, variant.ID, prod.Name, variant.Name, variant.Price, cmd.Quantity)
	if err != nil {
		return nil, err
	}
	return h.cartSvc.AddItem(ctx, cmd.OwnerID, item)
}

func (h *Handler) resolveVariant(ctx context.Context, productID, variantID string) (*readmodel.ProductReadModel, *readmodel.VariantReadModel, error) {
	prod, ok, err := store.GetAs[readmodel.ProductReadModel](ctx, h.readStore, store.CollectionProducts, productID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, product.ErrProductNotFound
	}
	variant, ok := prod.Variant(variantID)
	if !ok {
		return nil, nil, product.ErrVariantNotFound
	}
	if !variant.Active {
		return nil, nil, errors.Wrapf(ErrVariantUnavailable, "%s %s", prod.Name, variant.Name)
	}
	return prod, variant, nil
}

func (h *Handler) UpdateCartItem(ctx context.Context, cmd UpdateCartItem) (*cart.Cart, error) {
	return h.cartSvc.UpdateQuantity(ctx, cmd.OwnerID, cmd.ProductID, cmd.VariantID, cmd.Quantity)
}

func (h *Handler) RemoveFromCart(ctx context.Context, cmd RemoveFromCart) (*cart.Cart, error) {
	return h.cartSvc.RemoveItem(ctx, cmd.OwnerID, cmd.ProductID, cmd.VariantID)
}

func (h *Handler) ClearCart(ctx context.Context, cmd ClearCart) (*cart.Cart, error) {
	return h.cartSvc.Clear(ctx, cmd.OwnerID, cart.ClearedByShopper)
}

// ApplyCoupon returns the cart even when the coupon is rejected, together
// with the rejection.
func (h *Handler) ApplyCoupon(ctx context.Context, cmd ApplyCoupon) (*cart.Cart, error) {
	c, err := h.cartSvc.ApplyCoupon(ctx, cmd.OwnerID, cmd.Code)
	switch {
	case err == nil:
		h.metrics.ObserveCouponApply(metrics.CouponApplied)
		h.log.InfoContext(ctx, "coupon applied", "cart_id", c.ID, "code", c.Coupon.Code)
	case cart.IsRejection(err):
		h.metrics.ObserveCouponApply(metrics.CouponRejected)
		h.log.InfoContext(ctx, "coupon rejected", "cart_id", c.ID, "code", coupon.NormalizeCode(cmd.Code), "reason", err.Error())
	default:
		h.metrics.ObserveCouponApply(metrics.CouponError)
		h.log.ErrorContext(ctx, "coupon apply failed", "owner_id", cmd.OwnerID, "error", err)
	}
	return c, err
}

func (h *Handler) RemoveCoupon(ctx context.Context, cmd RemoveCoupon) (*cart.Cart, error) {
	return h.cartSvc.RemoveCoupon(ctx, cmd.OwnerID)
}

// Orders

// PlaceOrder turns the owner's cart into an order priced with the current
// shipping settings, then clears the cart.
func (h *Handler) PlaceOrder(ctx context.Context, cmd PlaceOrder) (*order.Order, error) {
	c, err := h.cartSvc.Load(ctx, cmd.OwnerID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, order.ErrEmptyOrder
	}

	shipping, err := h.settings.GetShipping(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load shipping settings")
	}
	method := cmd.ShippingMethod
	if method == "" {
		method = pricing.ShippingStandard
	}
	summary := c.Totals(shipping.Config(), method)

	items := make([]order.Item, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, order.Item{
			ProductID:   it.ProductID,
			VariantID:   it.VariantID,
			ProductName: h.productName(ctx, it),
			VariantName: it.VariantName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal(),
		})
	}

	couponCode := ""
	if c.Coupon != nil {
		couponCode = c.Coupon.Code
	}

	o, err := h.orderSvc.Place(ctx, order.PlaceInput{
		CartID:         c.ID,
		Customer:       cmd.Customer,
		Items:          items,
		Totals:         order.TotalsFromSummary(summary, couponCode),
		PaymentMethod:  cmd.PaymentMethod,
		ShippingMethod: method,
	})
	if err != nil {
		return nil, err
	}

	h.metrics.ObserveOrderPlaced(string(o.PaymentMethod), o.Totals.Total)
	h.log.InfoContext(ctx, "order placed",
		"order_id", o.ID,
		"cart_id", c.ID,
		"total", o.Totals.Total.String(),
		"coupon", couponCode,
	)

	// The order is already recorded; a failed clear only leaves the cart behind.
	if _, err := h.cartSvc.Clear(ctx, cmd.OwnerID, cart.ClearedAtCheckout); err != nil {
		h.log.ErrorContext(ctx, "failed to clear cart after checkout", "cart_id", c.ID, "error", err)
	}
	return o, nil
}

// productName prefers the name captured when the item was added and falls
// back to the catalog.
func (h *Handler) productName(ctx context.Context, it cart.LineItem) string {
	if it.ProductName != "" {
		return it.ProductName
	}
	prod, ok, err := store.GetAs[readmodel.ProductReadModel](ctx, h.readStore, store.CollectionProducts, it.ProductID)
	if err != nil || !ok {
		return it.ProductID
	}
	return prod.Name
}

func (h *Handler) PayOrder(ctx context.Context, cmd PayOrder) error {
	return h.orderSvc.Pay(ctx, cmd.OrderID)
}

func (h *Handler) ShipOrder(ctx context.Context, cmd ShipOrder) error {
	return h.orderSvc.Ship(ctx, cmd.OrderID, cmd.TrackingNumber)
}

func (h *Handler) CancelOrder(ctx context.Context, cmd CancelOrder) error {
	return h.orderSvc.Cancel(ctx, cmd.OrderID, cmd.Reason)
}

// Coupons

func (cmd SaveCoupon) definition() coupon.Definition {
	return coupon.Definition{
		Code:          cmd.Code,
		DiscountType:  cmd.DiscountType,
		DiscountValue: cmd.DiscountValue,
		MinOrderValue: cmd.MinOrderValue,
		MaxDiscount:   cmd.MaxDiscount,
		Description:   cmd.Description,
		ExpiresAt:     cmd.ExpiresAt,
	}
}

func (h *Handler) CreateCoupon(ctx context.Context, cmd SaveCoupon) (*coupon.Coupon, error) {
	return h.couponSvc.Create(ctx, cmd.definition())
}

func (h *Handler) UpdateCoupon(ctx context.Context, cmd SaveCoupon) (*coupon.Coupon, error) {
	return h.couponSvc.Update(ctx, cmd.definition())
}

func (h *Handler) DeactivateCoupon(ctx context.Context, cmd DeactivateCoupon) error {
	return h.couponSvc.Deactivate(ctx, cmd.Code)
}

// Settings

func (h *Handler) UpdateShippingSettings(ctx context.Context, s settings.Shipping) error {
	if err := h.settings.SaveShipping(ctx, s); err != nil {
		return err
	}
	h.log.InfoContext(ctx, "shipping settings updated",
		"free_shipping_threshold", s.FreeShippingThreshold.String(),
		"standard_shipping_cost", s.StandardShippingCost.String(),
	)
	return nil
}
