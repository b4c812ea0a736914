package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/moringa-store/internal/auth"
	"github.com/example/moringa-store/internal/command"
	"github.com/example/moringa-store/internal/domain/cart"
	"github.com/example/moringa-store/internal/domain/coupon"
	"github.com/example/moringa-store/internal/domain/order"
	"github.com/example/moringa-store/internal/domain/product"
	"github.com/example/moringa-store/internal/infrastructure/store"
	"github.com/example/moringa-store/internal/settings"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{auth.ErrInvalidCredentials, http.StatusUnauthorized},

	{product.ErrProductNotFound, http.StatusNotFound},
	{product.ErrVariantNotFound, http.StatusNotFound},
	{order.ErrOrderNotFound, http.StatusNotFound},

	{coupon.ErrCouponExists, http.StatusConflict},
	{coupon.ErrCouponInactive, http.StatusConflict},
	{command.ErrVariantUnavailable, http.StatusConflict},
	{order.ErrInvalidStatus, http.StatusConflict},
	{order.ErrOrderAlreadyPaid, http.StatusConflict},
	{order.ErrOrderNotPaid, http.StatusConflict},
	{order.ErrOrderShipped, http.StatusConflict},
	{order.ErrOrderCancelled, http.StatusConflict},
	{store.ErrVersionConflict, http.StatusConflict},

	{coupon.ErrCouponNotFound, http.StatusUnprocessableEntity},
	{coupon.ErrBelowMinimumOrder, http.StatusUnprocessableEntity},
	{coupon.ErrCouponExpired, http.StatusUnprocessableEntity},

	{cart.ErrInvalidQuantity, http.StatusBadRequest},
	{cart.ErrQuantityTooLarge, http.StatusBadRequest},
	{cart.ErrInvalidProduct, http.StatusBadRequest},
	{cart.ErrInvalidVariant, http.StatusBadRequest},
	{cart.ErrNegativePrice, http.StatusBadRequest},
	{coupon.ErrEmptyCode, http.StatusBadRequest},
	{coupon.ErrInvalidType, http.StatusBadRequest},
	{coupon.ErrInvalidValue, http.StatusBadRequest},
	{coupon.ErrPercentageTooLarge, http.StatusBadRequest},
	{coupon.ErrInvalidMinOrder, http.StatusBadRequest},
	{coupon.ErrInvalidMaxDiscount, http.StatusBadRequest},
	{order.ErrEmptyOrder, http.StatusBadRequest},
	{order.ErrInvalidCustomer, http.StatusBadRequest},
	{order.ErrInvalidItem, http.StatusBadRequest},
	{order.ErrInvalidPaymentMethod, http.StatusBadRequest},
	{order.ErrInvalidShippingMethod, http.StatusBadRequest},
	{product.ErrInvalidPrice, http.StatusBadRequest},
	{product.ErrInvalidName, http.StatusBadRequest},
	{product.ErrNoVariants, http.StatusBadRequest},
	{settings.ErrNegativeShipping, http.StatusBadRequest},
}

// statusFor maps domain errors to HTTP status codes. Anything unknown is a 500.
func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes {"error": message}. Internal errors are logged and
// hidden from the client.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}
