package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/moringa-store/internal/command"
	"github.com/example/moringa-store/internal/domain/cart"
	"github.com/example/moringa-store/internal/domain/order"
	"github.com/example/moringa-store/internal/invoice"
	"github.com/example/moringa-store/internal/pricing"
	"github.com/example/moringa-store/internal/query"
	"github.com/example/moringa-store/internal/readmodel"
)

// ShopHandlers serve the storefront. The cart belongs to the session.
type ShopHandlers struct {
	commands *command.Handler
	queries  *query.Handler
	shop     invoice.Shop
	log      *slog.Logger
}

// Products

func (h *ShopHandlers) ListProducts(c *gin.Context) {
	products, err := h.queries.ListProducts(c.Request.Context(), true)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ShopHandlers) GetProduct(c *gin.Context) {
	p, ok, err := h.queries.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !ok {
		notFound(c, "product")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ShopHandlers) GetShipping(c *gin.Context) {
	s, err := h.queries.Shipping(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Cart

func shippingMethod(c *gin.Context) pricing.ShippingMethod {
	return pricing.ShippingMethod(c.Query("shipping_method"))
}

// respondCart writes the session cart priced for the requested shipping method
func (h *ShopHandlers) respondCart(c *gin.Context, owner string, status int) {
	view, err := h.queries.GetCart(c.Request.Context(), owner, shippingMethod(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(status, view)
}

// withOwner resolves the session's cart owner or writes a 500
func (h *ShopHandlers) withOwner(c *gin.Context) (string, bool) {
	owner, err := cartOwner(c)
	if err != nil {
		respondError(c, h.log, err)
		return "", false
	}
	return owner, true
}

func (h *ShopHandlers) GetCart(c *gin.Context) {
	owner, ok := h.withOwner(c)
	if !ok {
		return
	}
	h.respondCart(c, owner, http.StatusOK)
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (h *ShopHandlers) AddToCart(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	owner, ok := h.withOwner(c)
	if !ok {
		return
	}

	_, err := h.commands.AddToCart(c.Request.Context(), command.AddToCart{
		OwnerID:   owner,
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondCart(c, owner, http.StatusOK)
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem sets a line's quantity; zero or less removes the line.
func (h *ShopHandlers) UpdateCartItem(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	owner, ok := h.withOwner(c)
	if !ok {
		return
	}

	_, err := h.commands.UpdateCartItem(c.Request.Context(), command.UpdateCartItem{
		OwnerID:   owner,
		ProductID: c.Param("productID"),
		VariantID: c.Param("variantID"),
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondCart(c, owner, http.StatusOK)
}

func (h *ShopHandlers) RemoveFromCart(c *gin.Context) {
	owner, ok := h.withOwner(c)
	if !ok {
		return
	}
	_, err := h.commands.RemoveFromCart(c.Request.Context(), command.RemoveFromCart{
		OwnerID:   owner,
		ProductID: c.Param("productID"),
		VariantID: c.Param("variantID"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondCart(c, owner, http.StatusOK)
}

func (h *ShopHandlers) ClearCart(c *gin.Context) {
	owner, ok := h.withOwner(c)
	if !ok {
		return
	}
	if _, err := h.commands.ClearCart(c.Request.Context(), command.ClearCart{OwnerID: owner}); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondCart(c, owner, http.StatusOK)
}

type couponRequest struct {
	Code string `json:"code"`
}

// ApplyCoupon answers 422 with the cart when the coupon is rejected; the
// cart's coupon_error carries the reason for display.
func (h *ShopHandlers) ApplyCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	owner, ok := h.withOwner(c)
	if !ok {
		return
	}

	_, err := h.commands.ApplyCoupon(c.Request.Context(), command.ApplyCoupon{OwnerID: owner, Code: req.Code})
	switch {
	case err == nil:
		h.respondCart(c, owner, http.StatusOK)
	case cart.IsRejection(err):
		h.respondCart(c, owner, statusFor(err))
	default:
		respondError(c, h.log, err)
	}
}

func (h *ShopHandlers) RemoveCoupon(c *gin.Context) {
	owner, ok := h.withOwner(c)
	if !ok {
		return
	}
	if _, err := h.commands.RemoveCoupon(c.Request.Context(), command.RemoveCoupon{OwnerID: owner}); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondCart(c, owner, http.StatusOK)
}

// Checkout

type checkoutRequest struct {
	Customer       order.Customer         `json:"customer"`
	PaymentMethod  order.PaymentMethod    `json:"payment_method"`
	ShippingMethod pricing.ShippingMethod `json:"shipping_method"`
}

func (h *ShopHandlers) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	owner, ok := h.withOwner(c)
	if !ok {
		return
	}

	o, err := h.commands.PlaceOrder(c.Request.Context(), command.PlaceOrder{
		OwnerID:        owner,
		Customer:       req.Customer,
		PaymentMethod:  req.PaymentMethod,
		ShippingMethod: req.ShippingMethod,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// Orders

func (h *ShopHandlers) ListOrders(c *gin.Context) {
	owner, ok := h.withOwner(c)
	if !ok {
		return
	}
	orders, err := h.queries.ListOrdersByCart(c.Request.Context(), cart.GetCartID(owner))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// sessionOrder loads an order only if it was placed from this session's cart
func (h *ShopHandlers) sessionOrder(c *gin.Context) (*readmodel.OrderReadModel, bool) {
	owner, ok := h.withOwner(c)
	if !ok {
		return nil, false
	}
	o, found, err := h.queries.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return nil, false
	}
	if !found || o.CartID != cart.GetCartID(owner) {
		notFound(c, "order")
		return nil, false
	}
	return o, true
}

func (h *ShopHandlers) GetOrder(c *gin.Context) {
	o, ok := h.sessionOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *ShopHandlers) GetInvoice(c *gin.Context) {
	o, ok := h.sessionOrder(c)
	if !ok {
		return
	}
	writeInvoice(c, h.log, h.shop, o)
}

func writeInvoice(c *gin.Context, log *slog.Logger, shop invoice.Shop, o *readmodel.OrderReadModel) {
	pdf, err := invoice.Bytes(shop, invoice.FromOrder(o))
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+invoice.Filename(o.ID)+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
