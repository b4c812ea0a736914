package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/example/moringa-store/internal/domain/order"
	"github.com/example/moringa-store/internal/readmodel"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC)
}

func orderOn(id string, placed time.Time, status order.Status, qty int, subtotal, discount, shipping int64, coupon string) *readmodel.OrderReadModel {
	total := subtotal - discount + shipping
	return &readmodel.OrderReadModel{
		ID:       id,
		Customer: order.Customer{Name: "Customer " + id},
		Items: []order.Item{{
			ProductID: "prod-1", VariantID: "v-1", Quantity: qty,
			UnitPrice: decimal.NewFromInt(subtotal / int64(qty)), LineTotal: decimal.NewFromInt(subtotal),
		}},
		Totals: order.Totals{
			Subtotal: decimal.NewFromInt(subtotal), Discount: decimal.NewFromInt(discount),
			Shipping: decimal.NewFromInt(shipping), Total: decimal.NewFromInt(total), CouponCode: coupon,
		},
		PaymentMethod: order.PaymentCOD,
		Status:        status,
		CreatedAt:     placed,
	}
}

func sampleOrders() []*readmodel.OrderReadModel {
	return []*readmodel.OrderReadModel{
		orderOn("o-3", day(5), order.StatusShipped, 1, 299, 0, 50, ""),
		orderOn("o-1", day(2), order.StatusPaid, 3, 1197, 120, 0, "WELCOME10"),
		orderOn("o-2", day(3), order.StatusCancelled, 2, 798, 0, 0, ""),
		orderOn("o-0", day(1), order.StatusPending, 1, 500, 0, 0, "WELCOME10"),
	}
}

// ============================================
// Build
// ============================================

func TestBuild_Totals(t *testing.T) {
	s := Build(sampleOrders(), time.Time{}, time.Time{})

	assert.Equal(t, 3, s.Orders)
	assert.Equal(t, 1, s.Cancelled)
	assert.Equal(t, 5, s.ItemsSold)
	assert.True(t, s.Revenue.Equal(decimal.NewFromInt(1077+349+500)), s.Revenue.String())
	assert.True(t, s.Discounts.Equal(decimal.NewFromInt(120)))
	assert.True(t, s.Shipping.Equal(decimal.NewFromInt(50)))
	assert.True(t, s.AverageOrderValue.Equal(decimal.NewFromInt(642)), s.AverageOrderValue.String())
	assert.Equal(t, map[string]int{"WELCOME10": 2}, s.CouponUsage)

	require.Len(t, s.Rows, 4)
	assert.Equal(t, "o-0", s.Rows[0].OrderID)
	assert.Equal(t, "o-3", s.Rows[3].OrderID)
}

func TestBuild_Period(t *testing.T) {
	tests := []struct {
		name     string
		from, to time.Time
		wantIDs  []string
	}{
		{"open", time.Time{}, time.Time{}, []string{"o-0", "o-1", "o-2", "o-3"}},
		{"from inclusive", day(2), time.Time{}, []string{"o-1", "o-2", "o-3"}},
		{"to exclusive", time.Time{}, day(3), []string{"o-0", "o-1"}},
		{"window", day(2), day(5), []string{"o-1", "o-2"}},
		{"empty", day(10), day(11), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Build(sampleOrders(), tt.from, tt.to)

			var ids []string
			for _, r := range s.Rows {
				ids = append(ids, r.OrderID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestBuild_NoOrders(t *testing.T) {
	s := Build(nil, time.Time{}, time.Time{})

	assert.Zero(t, s.Orders)
	assert.True(t, s.Revenue.IsZero())
	assert.True(t, s.AverageOrderValue.IsZero())
}

// ============================================
// WriteXLSX
// ============================================

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, Build(sampleOrders(), time.Time{}, time.Time{})))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	assert.Equal(t, "Sales Report", sheet.Name)

	assert.Equal(t, "Moringa Organics - Sales Report", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "Period: beginning to now", sheet.Rows[1].Cells[0].Value)
	assert.Equal(t, "Order ID", sheet.Rows[3].Cells[0].Value)
	assert.Equal(t, "Status", sheet.Rows[3].Cells[10].Value)

	first := sheet.Rows[4]
	assert.Equal(t, "o-0", first.Cells[0].Value)
	items, err := first.Cells[3].Int()
	require.NoError(t, err)
	assert.Equal(t, 1, items)
	total, err := first.Cells[7].Float()
	require.NoError(t, err)
	assert.InDelta(t, 500, total, 0.001)

	values := map[string]string{}
	for _, row := range sheet.Rows {
		if len(row.Cells) >= 2 {
			values[row.Cells[0].Value] = row.Cells[1].Value
		}
	}
	assert.Equal(t, "3", values["Orders"])
	assert.Equal(t, "Rs. 1,926", values["Revenue"])
	assert.Equal(t, "Rs. 642", values["Average order value"])
	assert.Equal(t, "2", values["WELCOME10"])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "sales-report.xlsx", Filename(time.Time{}, time.Time{}))
	assert.Equal(t, "sales-report-2026-03-01-to-2026-03-05.xlsx", Filename(day(1), day(5)))
}
