package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/example/moringa-store/internal/domain/order"
	"github.com/example/moringa-store/internal/pricing"
)

// Confirmation is what the order confirmation email shows
type Confirmation struct {
	OrderID          string
	CustomerName     string
	Items            []order.Item
	Totals           order.Totals
	PaymentMethod    order.PaymentMethod
	ShippingMethod   pricing.ShippingMethod
	DeliveryEstimate string
}

type StatusUpdate struct {
	OrderID        string
	CustomerName   string
	Status         order.Status
	TrackingNumber string
	Reason         string
}

const cell = `padding: 12px; border-bottom: 1px solid #eee;`

// BuildOrderConfirmationBody builds the HTML body for order confirmation email
func BuildOrderConfirmationBody(c Confirmation) string {
	var itemsHTML strings.Builder
	for _, item := range c.Items {
		name := item.ProductName
		if name == "" {
			name = item.ProductID
		}
		if item.VariantName != "" {
			name += " (" + item.VariantName + ")"
		}
		fmt.Fprintf(&itemsHTML,
			`<tr>
				<td style="%s">%s</td>
				<td style="%s text-align: center;">%d</td>
				<td style="%s text-align: right;">%s</td>
				<td style="%s text-align: right;">%s</td>
			</tr>`,
			cell, html.EscapeString(name),
			cell, item.Quantity,
			cell, pricing.FormatINR(item.UnitPrice),
			cell, pricing.FormatINR(item.LineTotal),
		)
	}

	t := c.Totals
	var totalsHTML strings.Builder
	totalsRow(&totalsHTML, "Subtotal", pricing.FormatINR(t.Subtotal))
	if t.Discount.IsPositive() {
		label := "Discount"
		if t.CouponCode != "" {
			label += " (" + html.EscapeString(t.CouponCode) + ")"
		}
		totalsRow(&totalsHTML, label, "-"+pricing.FormatINR(t.Discount))
	}
	shipping := "FREE"
	if !t.Shipping.IsZero() {
		shipping = pricing.FormatINR(t.Shipping)
	}
	totalsRow(&totalsHTML, "Shipping ("+html.EscapeString(string(c.ShippingMethod))+")", shipping)

	delivery := ""
	if c.DeliveryEstimate != "" {
		delivery = fmt.Sprintf(`<p>Estimated delivery: <strong>%s</strong></p>`, html.EscapeString(c.DeliveryEstimate))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #3f7d20; padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Thank you for your order</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Hi %s, we have received your order and will pack it shortly.</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Order number</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
			<p style="margin: 5px 0 0 0; font-size: 14px; color: #666;">Payment: %s</p>
		</div>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left;">Item</th>
					<th style="padding: 12px; text-align: center;">Qty</th>
					<th style="padding: 12px; text-align: right;">Price</th>
					<th style="padding: 12px; text-align: right;">Total</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
		</table>

		<table style="width: 100%%; border-collapse: collapse;">
			%s
		</table>

		<div style="text-align: right; padding: 20px; background: #f8f9fa; border-radius: 5px;">
			<span style="font-size: 14px; color: #666;">Grand total</span>
			<span style="font-size: 24px; font-weight: bold; color: #3f7d20; margin-left: 10px;">%s</span>
		</div>

		%s

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This is an automated message. Your invoice is attached.
		</p>
	</div>
</body>
</html>`,
		html.EscapeString(c.CustomerName),
		html.EscapeString(c.OrderID),
		strings.ToUpper(string(c.PaymentMethod)),
		itemsHTML.String(),
		totalsHTML.String(),
		pricing.FormatINR(t.Total),
		delivery,
	)
}

func totalsRow(b *strings.Builder, label, amount string) {
	fmt.Fprintf(b, `<tr><td style="padding: 4px 12px; text-align: right; color: #666;">%s</td><td style="padding: 4px 12px; text-align: right; width: 120px;">%s</td></tr>`,
		label, amount)
}

// BuildStatusUpdateBody builds the HTML body for paid, shipped and cancelled notices
func BuildStatusUpdateBody(u StatusUpdate) string {
	var detail string
	switch u.Status {
	case order.StatusPaid:
		detail = "We have received your payment."
	case order.StatusShipped:
		detail = "Your order is on its way."
		if u.TrackingNumber != "" {
			detail += " Tracking number: <strong>" + html.EscapeString(u.TrackingNumber) + "</strong>"
		}
	case order.StatusCancelled:
		detail = "Your order has been cancelled."
		if u.Reason != "" {
			detail += " Reason: " + html.EscapeString(u.Reason)
		}
	default:
		detail = "Your order status is now " + html.EscapeString(string(u.Status)) + "."
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<p>Hi %s,</p>
	<p>Order <span style="font-family: monospace;">%s</span>: %s</p>
</body>
</html>`, html.EscapeString(u.CustomerName), html.EscapeString(u.OrderID), detail)
}
