package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/example/moringa-store/internal/api/middleware"
	"github.com/example/moringa-store/internal/auth"
	"github.com/example/moringa-store/internal/command"
	"github.com/example/moringa-store/internal/invoice"
	"github.com/example/moringa-store/internal/metrics"
	"github.com/example/moringa-store/internal/query"
)

type Deps struct {
	Commands *command.Handler
	Queries  *query.Handler
	Admin    *auth.AdminAuthenticator
	JWT      *auth.JWTService
	// Metrics may be nil; /metrics is then not served.
	Metrics       *metrics.Metrics
	SessionSecret string
	SecureCookies bool
	Shop          invoice.Shop
	Logger        *slog.Logger
}

func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "api")
	if d.Shop == (invoice.Shop{}) {
		d.Shop = invoice.DefaultShop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	if d.Metrics != nil {
		r.Use(d.Metrics.GinMiddleware())
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	shop := &ShopHandlers{commands: d.Commands, queries: d.Queries, shop: d.Shop, log: logger}
	storefront := r.Group("/api", sessions.Sessions(sessionName, newSessionStore(d.SessionSecret, d.SecureCookies)))
	{
		storefront.GET("/products", shop.ListProducts)
		storefront.GET("/products/:id", shop.GetProduct)
		storefront.GET("/shipping", shop.GetShipping)

		storefront.GET("/cart", shop.GetCart)
		storefront.DELETE("/cart", shop.ClearCart)
		storefront.POST("/cart/items", shop.AddToCart)
		storefront.PUT("/cart/items/:productID/:variantID", shop.UpdateCartItem)
		storefront.DELETE("/cart/items/:productID/:variantID", shop.RemoveFromCart)
		storefront.POST("/cart/coupon", shop.ApplyCoupon)
		storefront.DELETE("/cart/coupon", shop.RemoveCoupon)

		storefront.POST("/checkout", shop.Checkout)
		storefront.GET("/orders", shop.ListOrders)
		storefront.GET("/orders/:id", shop.GetOrder)
		storefront.GET("/orders/:id/invoice", shop.GetInvoice)
	}

	admin := &AdminHandlers{commands: d.Commands, queries: d.Queries, auth: d.Admin, shop: d.Shop, secureCookies: d.SecureCookies, log: logger}
	adminGroup := r.Group("/admin")
	adminGroup.POST("/login", admin.Login)
	adminGroup.POST("/logout", admin.Logout)

	protected := adminGroup.Group("", middleware.RequireAdmin(d.JWT))
	{
		protected.GET("/products", admin.ListProducts)
		protected.POST("/products", admin.CreateProduct)
		protected.PUT("/products/:id", admin.UpdateProduct)
		protected.DELETE("/products/:id", admin.DeleteProduct)
		protected.POST("/products/:id/variants", admin.AddVariant)
		protected.PUT("/products/:id/variants/:variantID/price", admin.UpdateVariantPrice)
		protected.DELETE("/products/:id/variants/:variantID", admin.DeactivateVariant)

		protected.GET("/coupons", admin.ListCoupons)
		protected.POST("/coupons", admin.CreateCoupon)
		protected.PUT("/coupons/:code", admin.UpdateCoupon)
		protected.DELETE("/coupons/:code", admin.DeactivateCoupon)

		protected.GET("/orders", admin.ListOrders)
		protected.GET("/orders/:id", admin.GetOrder)
		protected.GET("/orders/:id/invoice", admin.GetInvoice)
		protected.POST("/orders/:id/pay", admin.PayOrder)
		protected.POST("/orders/:id/ship", admin.ShipOrder)
		protected.POST("/orders/:id/cancel", admin.CancelOrder)

		protected.GET("/settings/shipping", admin.GetShipping)
		protected.PUT("/settings/shipping", admin.UpdateShipping)

		protected.GET("/reports/sales", admin.SalesReport)
	}

	return r
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.InfoContext(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
