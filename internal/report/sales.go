// Package report builds the admin sales report from order read models.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"github.com/example/moringa-store/internal/domain/order"
	"github.com/example/moringa-store/internal/pricing"
	"github.com/example/moringa-store/internal/readmodel"
)

type Row struct {
	OrderID       string
	PlacedAt      time.Time
	Customer      string
	Items         int
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Shipping      decimal.Decimal
	Total         decimal.Decimal
	CouponCode    string
	PaymentMethod order.PaymentMethod
	Status        order.Status
}

// Sales summarizes orders placed in [From, To). Cancelled orders are listed
// but left out of the money totals.
type Sales struct {
	From time.Time
	To   time.Time

	Orders            int
	Cancelled         int
	ItemsSold         int
	Revenue           decimal.Decimal
	Discounts         decimal.Decimal
	Shipping          decimal.Decimal
	AverageOrderValue decimal.Decimal
	CouponUsage       map[string]int

	Rows []Row
}

// Build aggregates orders placed in [from, to). A zero bound is open.
func Build(orders []*readmodel.OrderReadModel, from, to time.Time) Sales {
	s := Sales{
		From:        from,
		To:          to,
		Revenue:     decimal.Zero,
		Discounts:   decimal.Zero,
		Shipping:    decimal.Zero,
		CouponUsage: map[string]int{},
	}

	for _, o := range orders {
		if !from.IsZero() && o.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !o.CreatedAt.Before(to) {
			continue
		}

		items := 0
		for _, it := range o.Items {
			items += it.Quantity
		}
		s.Rows = append(s.Rows, Row{
			OrderID:       o.ID,
			PlacedAt:      o.CreatedAt,
			Customer:      o.Customer.Name,
			Items:         items,
			Subtotal:      o.Totals.Subtotal,
			Discount:      o.Totals.Discount,
			Shipping:      o.Totals.Shipping,
			Total:         o.Totals.Total,
			CouponCode:    o.Totals.CouponCode,
			PaymentMethod: o.PaymentMethod,
			Status:        o.Status,
		})

		if o.Status == order.StatusCancelled {
			s.Cancelled++
			continue
		}
		s.Orders++
		s.ItemsSold += items
		s.Revenue = s.Revenue.Add(o.Totals.Total)
		s.Discounts = s.Discounts.Add(o.Totals.Discount)
		s.Shipping = s.Shipping.Add(o.Totals.Shipping)
		if o.Totals.CouponCode != "" {
			s.CouponUsage[o.Totals.CouponCode]++
		}
	}

	sort.Slice(s.Rows, func(i, j int) bool { return s.Rows[i].PlacedAt.Before(s.Rows[j].PlacedAt) })
	if s.Orders > 0 {
		s.AverageOrderValue = pricing.Round(s.Revenue.Div(decimal.NewFromInt(int64(s.Orders))))
	} else {
		s.AverageOrderValue = decimal.Zero
	}
	return s
}

var columns = []string{
	"Order ID", "Date", "Customer", "Items", "Subtotal", "Discount",
	"Shipping", "Total", "Coupon", "Payment", "Status",
}

// WriteXLSX writes the report as a single-sheet workbook
func WriteXLSX(w io.Writer, s Sales) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Sales Report")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	bold := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	bold.Font = *font

	title := sheet.AddRow().AddCell()
	title.SetString("Moringa Organics - Sales Report")
	title.SetStyle(bold)
	sheet.AddRow().AddCell().SetString("Period: " + period(s.From, s.To))
	sheet.AddRow()

	header := sheet.AddRow()
	for _, h := range columns {
		cell := header.AddCell()
		cell.SetString(h)
		cell.SetStyle(bold)
	}

	for _, r := range s.Rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.OrderID)
		row.AddCell().SetString(r.PlacedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetString(r.Customer)
		row.AddCell().SetInt(r.Items)
		row.AddCell().SetFloat(r.Subtotal.InexactFloat64())
		row.AddCell().SetFloat(r.Discount.InexactFloat64())
		row.AddCell().SetFloat(r.Shipping.InexactFloat64())
		row.AddCell().SetFloat(r.Total.InexactFloat64())
		row.AddCell().SetString(r.CouponCode)
		row.AddCell().SetString(strings.ToUpper(string(r.PaymentMethod)))
		row.AddCell().SetString(string(r.Status))
	}

	sheet.AddRow()
	summary := sheet.AddRow().AddCell()
	summary.SetString("Summary")
	summary.SetStyle(bold)

	for _, kv := range [][2]string{
		{"Orders", fmt.Sprint(s.Orders)},
		{"Cancelled orders", fmt.Sprint(s.Cancelled)},
		{"Items sold", fmt.Sprint(s.ItemsSold)},
		{"Revenue", pricing.FormatRs(s.Revenue)},
		{"Discounts given", pricing.FormatRs(s.Discounts)},
		{"Shipping collected", pricing.FormatRs(s.Shipping)},
		{"Average order value", pricing.FormatRs(s.AverageOrderValue)},
	} {
		row := sheet.AddRow()
		row.AddCell().SetString(kv[0])
		row.AddCell().SetString(kv[1])
	}

	if len(s.CouponUsage) > 0 {
		sheet.AddRow()
		usage := sheet.AddRow().AddCell()
		usage.SetString("Coupon usage")
		usage.SetStyle(bold)

		codes := make([]string, 0, len(s.CouponUsage))
		for code := range s.CouponUsage {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			row := sheet.AddRow()
			row.AddCell().SetString(code)
			row.AddCell().SetInt(s.CouponUsage[code])
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func period(from, to time.Time) string {
	f, t := "beginning", "now"
	if !from.IsZero() {
		f = from.Format("2006-01-02")
	}
	if !to.IsZero() {
		t = to.Format("2006-01-02")
	}
	return f + " to " + t
}

// Filename is the download name for a report over [from, to)
func Filename(from, to time.Time) string {
	if from.IsZero() && to.IsZero() {
		return "sales-report.xlsx"
	}
	return "sales-report-" + strings.ReplaceAll(period(from, to), " ", "-") + ".xlsx"
}
