package email

import (
	"bytes"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/example/moringa-store/internal/domain/order"
	"github.com/example/moringa-store/internal/pricing"
)

type captureSender struct {
	messages []*gomail.Message
	err      error
}

func (s *captureSender) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, m...)
	return nil
}

func confirmation() Confirmation {
	return Confirmation{
		OrderID:      "6f1c2b9e-4a3d-4c57-9d0e-2b8f1a7c3e55",
		CustomerName: "Asha <Admin>",
		Items: []order.Item{{
			ProductID: "prod-1", VariantID: "v-100g", ProductName: "Moringa Powder", VariantName: "100g",
			Quantity: 3, UnitPrice: decimal.NewFromInt(399), LineTotal: decimal.NewFromInt(1197),
		}},
		Totals: order.Totals{
			Subtotal: decimal.NewFromInt(1197), Discount: decimal.NewFromInt(120),
			Shipping: decimal.Zero, Total: decimal.NewFromInt(1077), CouponCode: "WELCOME10",
		},
		PaymentMethod:    order.PaymentCOD,
		ShippingMethod:   pricing.ShippingStandard,
		DeliveryEstimate: "5-7 business days",
	}
}

// ============================================
// Templates
// ============================================

func TestBuildOrderConfirmationBody(t *testing.T) {
	body := BuildOrderConfirmationBody(confirmation())

	assert.Contains(t, body, "Moringa Powder (100g)")
	assert.Contains(t, body, "₹1,197")
	assert.Contains(t, body, "Discount (WELCOME10)")
	assert.Contains(t, body, "-₹120")
	assert.Contains(t, body, "FREE")
	assert.Contains(t, body, "₹1,077")
	assert.Contains(t, body, "5-7 business days")
	assert.Contains(t, body, "COD")
	assert.Contains(t, body, "Asha &lt;Admin&gt;")
	assert.NotContains(t, body, "<Admin>")
}

func TestBuildOrderConfirmationBody_NoDiscountPaidShipping(t *testing.T) {
	c := confirmation()
	c.Totals = order.Totals{
		Subtotal: decimal.NewFromInt(299), Shipping: decimal.NewFromInt(50), Total: decimal.NewFromInt(349),
	}
	c.ShippingMethod = pricing.ShippingExpress

	body := BuildOrderConfirmationBody(c)

	assert.NotContains(t, body, "Discount")
	assert.Contains(t, body, "Shipping (express)")
	assert.Contains(t, body, "₹50")
	assert.Contains(t, body, "₹349")
}

func TestBuildStatusUpdateBody(t *testing.T) {
	tests := []struct {
		name   string
		update StatusUpdate
		want   string
	}{
		{"paid", StatusUpdate{OrderID: "o-1", Status: order.StatusPaid}, "received your payment"},
		{"shipped", StatusUpdate{OrderID: "o-1", Status: order.StatusShipped, TrackingNumber: "AWB123"}, "AWB123"},
		{"cancelled", StatusUpdate{OrderID: "o-1", Status: order.StatusCancelled, Reason: "out of stock"}, "out of stock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, BuildStatusUpdateBody(tt.update), tt.want)
		})
	}
}

// ============================================
// Service
// ============================================

func TestSendOrderConfirmation(t *testing.T) {
	sender := &captureSender{}
	svc := NewServiceWithSender(sender, "orders@moringa.example")

	err := svc.SendOrderConfirmation("asha@example.com", confirmation(), Attachment{
		Filename: "invoice-6f1c2b9e.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3 test"),
	})

	require.NoError(t, err)
	require.Len(t, sender.messages, 1)
	m := sender.messages[0]
	assert.Equal(t, []string{"orders@moringa.example"}, m.GetHeader("From"))
	assert.Equal(t, []string{"asha@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Order confirmed: #6f1c2b9e"}, m.GetHeader("Subject"))

	var raw bytes.Buffer
	_, err = m.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), `filename="invoice-6f1c2b9e.pdf"`)
	assert.Contains(t, raw.String(), "application/pdf")
}

func TestSendOrderStatus(t *testing.T) {
	sender := &captureSender{}
	svc := NewServiceWithSender(sender, "orders@moringa.example")

	err := svc.SendOrderStatus("asha@example.com", StatusUpdate{OrderID: "o-1", Status: order.StatusShipped})

	require.NoError(t, err)
	require.Len(t, sender.messages, 1)
	assert.Equal(t, []string{"Order #o-1 is shipped"}, sender.messages[0].GetHeader("Subject"))
}

func TestSend_Error(t *testing.T) {
	svc := NewServiceWithSender(&captureSender{err: errors.New("connection refused")}, "orders@moringa.example")

	err := svc.SendOrderConfirmation("asha@example.com", confirmation())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
