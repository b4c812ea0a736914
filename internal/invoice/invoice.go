// Package invoice renders order invoices as PDF.
package invoice

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/example/moringa-store/internal/domain/order"
	"github.com/example/moringa-store/internal/pricing"
	"github.com/example/moringa-store/internal/readmodel"
)

// Shop is printed in the invoice header.
type Shop struct {
	Name    string
	Address string
	Contact string
}

func DefaultShop() Shop {
	return Shop{
		Name:    "Moringa Organics",
		Address: "Plot 7, Agri Park, Madurai, Tamil Nadu 625001",
		Contact: "support@moringa.example | +91-98765-43210",
	}
}

type Invoice struct {
	OrderID        string
	PlacedAt       time.Time
	Status         order.Status
	PaymentMethod  order.PaymentMethod
	ShippingMethod pricing.ShippingMethod
	Customer       order.Customer
	Items          []order.Item
	Totals         order.Totals
}

func FromOrder(o *readmodel.OrderReadModel) Invoice {
	return Invoice{
		OrderID:        o.ID,
		PlacedAt:       o.CreatedAt,
		Status:         o.Status,
		PaymentMethod:  o.PaymentMethod,
		ShippingMethod: o.ShippingMethod,
		Customer:       o.Customer,
		Items:          o.Items,
		Totals:         o.Totals,
	}
}

// Write renders inv as a single A4 PDF.
func Write(w io.Writer, shop Shop, inv Invoice) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate names that carry accents.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Invoice "+inv.OrderID, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, tr(shop.Name))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(100, 6, tr(shop.Address))
	pdf.Ln(6)
	pdf.Cell(100, 6, tr(shop.Contact))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(95, 7, "Order: "+inv.OrderID)
	pdf.Cell(60, 7, "Date: "+inv.PlacedAt.Format("02 Jan 2006 15:04"))
	pdf.Ln(7)
	pdf.Cell(95, 7, "Payment: "+strings.ToUpper(string(inv.PaymentMethod)))
	pdf.Cell(60, 7, "Status: "+string(inv.Status))
	pdf.Ln(7)
	pdf.Cell(95, 7, "Shipping: "+string(inv.ShippingMethod))
	pdf.Ln(10)

	c := inv.Customer
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(100, 7, "Ship To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 11)
	for _, line := range []string{
		c.Name,
		c.Address,
		fmt.Sprintf("%s, %s - %s", c.City, c.State, c.PostalCode),
		c.Email + " | " + c.Phone,
	} {
		pdf.Cell(100, 6, tr(line))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(80, 8, "Item", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 11)
	for _, it := range inv.Items {
		name := it.ProductName
		if it.VariantName != "" {
			name += " (" + it.VariantName + ")"
		}
		pdf.CellFormat(80, 8, tr(name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, strconv.Itoa(it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 8, pricing.FormatRs(it.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, pricing.FormatRs(it.LineTotal), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	t := inv.Totals
	discountLabel := "Discount:"
	if t.CouponCode != "" {
		discountLabel = "Discount (" + t.CouponCode + "):"
	}
	summary := []struct {
		label  string
		amount string
	}{
		{"Subtotal:", pricing.FormatRs(t.Subtotal)},
		{discountLabel, "- " + pricing.FormatRs(t.Discount)},
		{"Shipping:", shippingLabel(t)},
	}
	for _, row := range summary {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(140, 8, row.label, "", 0, "R", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(40, 8, row.amount, "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(140, 10, "Grand Total:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 10, pricing.FormatRs(t.Total), "", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 11)
	pdf.Cell(0, 10, tr("Thank you for shopping with "+shop.Name+"!"))

	return pdf.Output(w)
}

func shippingLabel(t order.Totals) string {
	if t.Shipping.IsZero() {
		return "FREE"
	}
	return pricing.FormatRs(t.Shipping)
}

// Bytes renders inv into memory.
func Bytes(shop Shop, inv Invoice) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, shop, inv); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename is the download name for an order's invoice.
func Filename(orderID string) string {
	short := orderID
	if len(short) > 8 {
		short = short[:8]
	}
	return "invoice-" + short + ".pdf"
}
