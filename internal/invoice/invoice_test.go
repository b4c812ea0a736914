package invoice

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/moringa-store/internal/domain/order"
	"github.com/example/moringa-store/internal/pricing"
	"github.com/example/moringa-store/internal/readmodel"
)

func sampleOrder() *readmodel.OrderReadModel {
	return &readmodel.OrderReadModel{
		ID:     "6f1c2b9e-4a3d-4c57-9d0e-2b8f1a7c3e55",
		CartID: "cart-abc",
		Customer: order.Customer{
			Name: "Zoë Fernandes", Email: "zoe@example.com", Phone: "9876543210",
			Address: "4 Church Street", City: "Panaji", State: "Goa", PostalCode: "403001",
		},
		Items: []order.Item{{
			ProductID: "prod-1", VariantID: "v-100g", ProductName: "Moringa Powder", VariantName: "100g",
			Quantity: 3, UnitPrice: decimal.NewFromInt(399), LineTotal: decimal.NewFromInt(1197),
		}},
		Totals: order.Totals{
			Subtotal: decimal.NewFromInt(1197), Discount: decimal.NewFromInt(120),
			Shipping: decimal.Zero, Total: decimal.NewFromInt(1077), CouponCode: "WELCOME10",
		},
		PaymentMethod:  order.PaymentUPI,
		ShippingMethod: pricing.ShippingStandard,
		Status:         order.StatusPaid,
		CreatedAt:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestBytes_RendersPDF(t *testing.T) {
	out, err := Bytes(DefaultShop(), FromOrder(sampleOrder()))

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output is a PDF document")
	assert.Greater(t, len(out), 1000)
}

func TestFromOrder(t *testing.T) {
	o := sampleOrder()

	inv := FromOrder(o)

	assert.Equal(t, o.ID, inv.OrderID)
	assert.Equal(t, o.CreatedAt, inv.PlacedAt)
	assert.Equal(t, "WELCOME10", inv.Totals.CouponCode)
	assert.Len(t, inv.Items, 1)
}

func TestShippingLabel(t *testing.T) {
	assert.Equal(t, "FREE", shippingLabel(order.Totals{Shipping: decimal.Zero}))
	assert.Equal(t, "Rs. 50", shippingLabel(order.Totals{Shipping: decimal.NewFromInt(50)}))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "invoice-6f1c2b9e.pdf", Filename("6f1c2b9e-4a3d-4c57"))
	assert.Equal(t, "invoice-abc.pdf", Filename("abc"))
}
