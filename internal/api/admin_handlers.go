package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/example/moringa-store/internal/api/middleware"
	"github.com/example/moringa-store/internal/auth"
	"github.com/example/moringa-store/internal/command"
	"github.com/example/moringa-store/internal/domain/product"
	"github.com/example/moringa-store/internal/invoice"
	"github.com/example/moringa-store/internal/query"
	"github.com/example/moringa-store/internal/report"
	"github.com/example/moringa-store/internal/settings"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandlers serve the back-office API
type AdminHandlers struct {
	commands      *command.Handler
	queries       *query.Handler
	auth          *auth.AdminAuthenticator
	shop          invoice.Shop
	secureCookies bool
	log           *slog.Logger
}

// Auth

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login returns the token in the body and also sets it as an HttpOnly cookie
func (h *AdminHandlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, expiresAt, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		h.log.WarnContext(c.Request.Context(), "admin login failed", "email", req.Email, "client_ip", c.ClientIP())
		respondError(c, h.log, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessTokenCookie, token, int(time.Until(expiresAt).Seconds()), "/admin", "", h.secureCookies, true)
	c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": expiresAt})
}

func (h *AdminHandlers) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/admin", "", h.secureCookies, true)
	c.Status(http.StatusNoContent)
}

// Products

func (h *AdminHandlers) ListProducts(c *gin.Context) {
	products, err := h.queries.ListProducts(c.Request.Context(), false)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *AdminHandlers) CreateProduct(c *gin.Context) {
	var cmd command.CreateProduct
	if err := c.ShouldBindJSON(&cmd); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.commands.CreateProduct(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *AdminHandlers) UpdateProduct(c *gin.Context) {
	var cmd command.UpdateProduct
	if err := c.ShouldBindJSON(&cmd); err != nil {
		badRequest(c, err)
		return
	}
	cmd.ProductID = c.Param("id")
	if err := h.commands.UpdateProduct(c.Request.Context(), cmd); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product updated"})
}

func (h *AdminHandlers) DeleteProduct(c *gin.Context) {
	if err := h.commands.DeleteProduct(c.Request.Context(), command.DeleteProduct{ProductID: c.Param("id")}); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

func (h *AdminHandlers) AddVariant(c *gin.Context) {
	var in product.VariantInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	v, err := h.commands.AddVariant(c.Request.Context(), command.AddVariant{ProductID: c.Param("id"), Variant: in})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

type priceRequest struct {
	Price decimal.Decimal `json:"price"`
}

func (h *AdminHandlers) UpdateVariantPrice(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	err := h.commands.UpdateVariantPrice(c.Request.Context(), command.UpdateVariantPrice{
		ProductID: c.Param("id"),
		VariantID: c.Param("variantID"),
		Price:     req.Price,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "price updated"})
}

func (h *AdminHandlers) DeactivateVariant(c *gin.Context) {
	err := h.commands.DeactivateVariant(c.Request.Context(), command.DeactivateVariant{
		ProductID: c.Param("id"),
		VariantID: c.Param("variantID"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "variant deactivated"})
}

// Coupons

func (h *AdminHandlers) ListCoupons(c *gin.Context) {
	coupons, err := h.queries.ListCoupons(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, coupons)
}

func (h *AdminHandlers) CreateCoupon(c *gin.Context) {
	var cmd command.SaveCoupon
	if err := c.ShouldBindJSON(&cmd); err != nil {
		badRequest(c, err)
		return
	}
	cp, err := h.commands.CreateCoupon(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, cp)
}

func (h *AdminHandlers) UpdateCoupon(c *gin.Context) {
	var cmd command.SaveCoupon
	if err := c.ShouldBindJSON(&cmd); err != nil {
		badRequest(c, err)
		return
	}
	cmd.Code = c.Param("code")
	cp, err := h.commands.UpdateCoupon(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cp)
}

func (h *AdminHandlers) DeactivateCoupon(c *gin.Context) {
	if err := h.commands.DeactivateCoupon(c.Request.Context(), command.DeactivateCoupon{Code: c.Param("code")}); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "coupon deactivated"})
}

// Orders

func (h *AdminHandlers) ListOrders(c *gin.Context) {
	orders, err := h.queries.ListOrders(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *AdminHandlers) GetOrder(c *gin.Context) {
	o, ok, err := h.queries.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !ok {
		notFound(c, "order")
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *AdminHandlers) GetInvoice(c *gin.Context) {
	o, ok, err := h.queries.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !ok {
		notFound(c, "order")
		return
	}
	writeInvoice(c, h.log, h.shop, o)
}

func (h *AdminHandlers) PayOrder(c *gin.Context) {
	if err := h.commands.PayOrder(c.Request.Context(), command.PayOrder{OrderID: c.Param("id")}); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order marked as paid"})
}

type shipRequest struct {
	TrackingNumber string `json:"tracking_number"`
}

func (h *AdminHandlers) ShipOrder(c *gin.Context) {
	var req shipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	err := h.commands.ShipOrder(c.Request.Context(), command.ShipOrder{OrderID: c.Param("id"), TrackingNumber: req.TrackingNumber})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order shipped"})
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *AdminHandlers) CancelOrder(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	err := h.commands.CancelOrder(c.Request.Context(), command.CancelOrder{OrderID: c.Param("id"), Reason: req.Reason})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order cancelled"})
}

// Settings

func (h *AdminHandlers) GetShipping(c *gin.Context) {
	s, err := h.queries.Shipping(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *AdminHandlers) UpdateShipping(c *gin.Context) {
	var s settings.Shipping
	if err := c.ShouldBindJSON(&s); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.commands.UpdateShippingSettings(c.Request.Context(), s); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Reports

// SalesReport streams an xlsx workbook. from and to are dates (YYYY-MM-DD);
// to is inclusive.
func (h *AdminHandlers) SalesReport(c *gin.Context) {
	from, to, err := reportPeriod(c.Query("from"), c.Query("to"))
	if err != nil {
		badRequest(c, err)
		return
	}

	orders, err := h.queries.ListOrders(c.Request.Context(), "")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, report.Build(orders, from, to)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+report.Filename(from, to)+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func reportPeriod(fromParam, toParam string) (time.Time, time.Time, error) {
	var from, to time.Time
	if fromParam != "" {
		t, err := time.Parse(time.DateOnly, fromParam)
		if err != nil {
			return from, to, fmt.Errorf("invalid from date %q", fromParam)
		}
		from = t
	}
	if toParam != "" {
		t, err := time.Parse(time.DateOnly, toParam)
		if err != nil {
			return from, to, fmt.Errorf("invalid to date %q", toParam)
		}
		to = t.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return from, to, fmt.Errorf("from must not be after to")
	}
	return from, to, nil
}
