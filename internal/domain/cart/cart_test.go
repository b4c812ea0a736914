package cart

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/moringa-store/internal/domain/coupon"
	"github.com/example/moringa-store/internal/pricing"
)

var (
	testNow      = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	testShipping = pricing.ShippingConfig{
		FreeShippingThreshold: decimal.NewFromInt(499),
		StandardShippingCost:  decimal.NewFromInt(50),
		ExpressShippingCost:   decimal.NewFromInt(120),
	}
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got.String())
}

func mustItem(t *testing.T, productID, variantID, price string, qty int) LineItem {
	t.Helper()
	item, err := NewLineItem(productID, variantID, "Product "+productID, variantID, d(price), qty)
	require.NoError(t, err)
	return item
}

// sampleCart is product A 100g x2 at 299 and product B 250g x1 at 599.
func sampleCart(t *testing.T) *Cart {
	t.Helper()
	c := New("owner-1")
	require.NoError(t, c.AddItem(mustItem(t, "A", "100g", "299", 2)))
	require.NoError(t, c.AddItem(mustItem(t, "B", "250g", "599", 1)))
	return c
}

// ============================================
// LineItem Tests
// ============================================

func TestNewLineItem(t *testing.T) {
	tests := []struct {
		name      string
		productID string
		variantID string
		price     string
		qty       int
		wantErr   error
	}{
		{"valid", "p1", "v1", "299", 1, nil},
		{"free item", "p1", "v1", "0", 1, nil},
		{"missing product", "", "v1", "299", 1, ErrInvalidProduct},
		{"missing variant", "p1", "", "299", 1, ErrInvalidVariant},
		{"negative price", "p1", "v1", "-1", 1, ErrNegativePrice},
		{"zero quantity", "p1", "v1", "299", 0, ErrInvalidQuantity},
		{"negative quantity", "p1", "v1", "299", -3, ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewLineItem(tt.productID, tt.variantID, "Moringa Powder", "100g", d(tt.price), tt.qty)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.qty, item.Quantity)
		})
	}
}

func TestLineItem_LineTotal(t *testing.T) {
	assertAmount(t, "897", mustItem(t, "A", "100g", "299", 3).LineTotal())
}

// ============================================
// Item mutation Tests
// ============================================

func TestCart_AddItem_MergesSameVariant(t *testing.T) {
	c := New("owner-1")
	require.NoError(t, c.AddItem(mustItem(t, "A", "100g", "299", 1)))
	require.NoError(t, c.AddItem(mustItem(t, "A", "250g", "599", 1)))
	require.NoError(t, c.AddItem(mustItem(t, "A", "100g", "299", 2)))

	require.Len(t, c.Items, 2)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, "250g", c.Items[1].VariantID)
	assert.Equal(t, 4, c.TotalItems())
}

func TestCart_AddItem_KeepsSnapshottedPrice(t *testing.T) {
	c := New("owner-1")
	require.NoError(t, c.AddItem(mustItem(t, "A", "100g", "299", 1)))
	require.NoError(t, c.AddItem(mustItem(t, "A", "100g", "349", 1)))

	assertAmount(t, "299", c.Items[0].UnitPrice)
	assertAmount(t, "598", c.Subtotal())
}

func TestCart_AddItem_InvalidQuantityIsNoop(t *testing.T) {
	c := sampleCart(t)
	before := c.Subtotal()

	err := c.AddItem(LineItem{ProductID: "C", VariantID: "1kg", UnitPrice: d("999"), Quantity: 0})

	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Len(t, c.Items, 2)
	assert.True(t, before.Equal(c.Subtotal()))
}

func TestCart_RemoveItem(t *testing.T) {
	c := sampleCart(t)

	c.RemoveItem("A", "100g")
	require.Len(t, c.Items, 1)
	assert.Equal(t, "B", c.Items[0].ProductID)

	c.RemoveItem("A", "100g")
	c.RemoveItem("B", "1kg")
	assert.Len(t, c.Items, 1, "removing an absent line is a no-op")
}

func TestCart_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name      string
		qty       int
		wantLines int
		wantUnits int
	}{
		{"sets quantity directly", 5, 2, 6},
		{"zero removes the line", 0, 1, 1},
		{"negative removes the line", -2, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := sampleCart(t)
			require.NoError(t, c.UpdateQuantity("A", "100g", tt.qty))
			assert.Len(t, c.Items, tt.wantLines)
			assert.Equal(t, tt.wantUnits, c.TotalItems())
		})
	}
}

func TestCart_UpdateQuantity_AbsentIsNoop(t *testing.T) {
	c := sampleCart(t)
	require.NoError(t, c.UpdateQuantity("Z", "100g", 4))
	assert.Equal(t, 3, c.TotalItems())
}

func TestCart_UpdateQuantity_AboveMaximumIsNoop(t *testing.T) {
	c := sampleCart(t)

	err := c.UpdateQuantity("A", "100g", MaxQuantity+1)

	assert.ErrorIs(t, err, ErrQuantityTooLarge)
	assert.Equal(t, 3, c.TotalItems())
}

func TestCart_AddItem_QuantityLimit(t *testing.T) {
	tests := []struct {
		name      string
		first     int
		second    int
		wantErr   error
		wantUnits int
	}{
		{"merge up to the limit", MaxQuantity - 1, 1, nil, MaxQuantity},
		{"merge past the limit", MaxQuantity, 1, ErrQuantityTooLarge, MaxQuantity},
		{"both halves large", 60, 60, ErrQuantityTooLarge, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("owner-1")
			require.NoError(t, c.AddItem(mustItem(t, "A", "100g", "299", tt.first)))

			err := c.AddItem(mustItem(t, "A", "100g", "299", tt.second))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantUnits, c.TotalItems())
			assertAmount(t, d("299").Mul(decimal.NewFromInt(int64(tt.wantUnits))).String(), c.Subtotal())
		})
	}
}

func TestNewLineItem_RejectsHugeQuantity(t *testing.T) {
	_, err := NewLineItem("A", "100g", "Moringa Powder", "100g", d("299"), math.MaxInt)
	assert.ErrorIs(t, err, ErrQuantityTooLarge)
}

func TestCart_SubtotalAdditivity(t *testing.T) {
	c := sampleCart(t)
	before := c.Subtotal()

	require.NoError(t, c.AddItem(mustItem(t, "C", "500g", "849", 2)))
	assertAmount(t, "2895", c.Subtotal())

	c.RemoveItem("C", "500g")
	assert.True(t, before.Equal(c.Subtotal()))
}

func TestCart_Clear(t *testing.T) {
	c := sampleCart(t)
	require.NoError(t, c.ApplyCoupon(context.Background(), coupon.DemoCatalog(), "WELCOME10", testNow))
	c.RejectCoupon("stale")

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Nil(t, c.Coupon)
	assert.Empty(t, c.CouponError)
	assert.Equal(t, 0, c.TotalItems())
}

// ============================================
// Coupon Tests
// ============================================

func TestCart_ApplyCoupon_Success(t *testing.T) {
	c := sampleCart(t)

	err := c.ApplyCoupon(context.Background(), coupon.DemoCatalog(), "welcome10", testNow)

	require.NoError(t, err)
	require.NotNil(t, c.Coupon)
	assert.Equal(t, "WELCOME10", c.Coupon.Code)
	assert.Empty(t, c.CouponError)
}

func TestCart_ApplyCoupon_ReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	c := sampleCart(t)
	require.NoError(t, c.ApplyCoupon(ctx, coupon.DemoCatalog(), "WELCOME10", testNow))

	require.NoError(t, c.ApplyCoupon(ctx, coupon.DemoCatalog(), "FLAT100", testNow))

	assert.Equal(t, "FLAT100", c.Coupon.Code)
	assertAmount(t, "100", c.DiscountAmount())
}

func TestCart_ApplyCoupon_Idempotent(t *testing.T) {
	ctx := context.Background()
	c := sampleCart(t)
	require.NoError(t, c.ApplyCoupon(ctx, coupon.DemoCatalog(), "WELCOME10", testNow))
	first := *c.Coupon
	firstTotals := c.Totals(testShipping, pricing.ShippingStandard)

	require.NoError(t, c.ApplyCoupon(ctx, coupon.DemoCatalog(), "WELCOME10", testNow.Add(time.Minute)))

	assert.Equal(t, first, *c.Coupon)
	assert.Equal(t, firstTotals, c.Totals(testShipping, pricing.ShippingStandard))
}

func TestCart_ApplyCoupon_FailureRecordsError(t *testing.T) {
	ctx := context.Background()

	t.Run("empty slot stays empty", func(t *testing.T) {
		c := New("owner-1")
		require.NoError(t, c.AddItem(mustItem(t, "A", "100g", "300", 1)))

		err := c.ApplyCoupon(ctx, coupon.DemoCatalog(), "FLAT100", testNow)

		assert.ErrorIs(t, err, coupon.ErrBelowMinimumOrder)
		assert.Nil(t, c.Coupon)
		assert.Equal(t, "add ₹200 more to use this coupon", c.CouponError)
		assertAmount(t, "300", c.Subtotal())
	})

	t.Run("applied coupon is kept", func(t *testing.T) {
		c := sampleCart(t)
		require.NoError(t, c.ApplyCoupon(ctx, coupon.DemoCatalog(), "WELCOME10", testNow))

		err := c.ApplyCoupon(ctx, coupon.DemoCatalog(), "BOGUS", testNow)

		assert.ErrorIs(t, err, coupon.ErrCouponNotFound)
		assert.Equal(t, "WELCOME10", c.Coupon.Code)
		assert.Equal(t, "coupon not found", c.CouponError)
	})

	t.Run("success clears the error", func(t *testing.T) {
		c := sampleCart(t)
		_ = c.ApplyCoupon(ctx, coupon.DemoCatalog(), "BOGUS", testNow)
		require.NotEmpty(t, c.CouponError)

		require.NoError(t, c.ApplyCoupon(ctx, coupon.DemoCatalog(), "FLAT100", testNow))
		assert.Empty(t, c.CouponError)
	})
}

type brokenCatalog struct{}

func (brokenCatalog) Lookup(context.Context, string) (*coupon.Definition, error) {
	return nil, errors.New("catalog unavailable")
}

func TestCart_ApplyCoupon_LookupFailureLeavesState(t *testing.T) {
	c := sampleCart(t)

	err := c.ApplyCoupon(context.Background(), brokenCatalog{}, "WELCOME10", testNow)

	require.Error(t, err)
	assert.False(t, IsRejection(err))
	assert.Nil(t, c.Coupon)
	assert.Empty(t, c.CouponError)
}

func TestCart_RemoveCoupon(t *testing.T) {
	c := sampleCart(t)
	require.NoError(t, c.ApplyCoupon(context.Background(), coupon.DemoCatalog(), "FLAT100", testNow))

	c.RemoveCoupon()
	assert.Nil(t, c.Coupon)

	before := *c
	c.RemoveCoupon()
	assert.Equal(t, before, *c, "removing when none is applied changes nothing")
}

func TestCart_CouponDroppedWhenBelowMinimum(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		shrink func(c *Cart) error
		notice string
	}{
		{
			name:   "remove item below MORINGA20",
			code:   "MORINGA20",
			shrink: func(c *Cart) error { c.RemoveItem("B", "250g"); return nil },
			notice: "coupon MORINGA20 was removed: orders must be at least ₹999",
		},
		{
			name: "lower quantities below FLAT100",
			code: "FLAT100",
			shrink: func(c *Cart) error {
				c.RemoveItem("B", "250g")
				return c.UpdateQuantity("A", "100g", 1)
			},
			notice: "coupon FLAT100 was removed: orders must be at least ₹500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := sampleCart(t)
			require.NoError(t, c.ApplyCoupon(context.Background(), coupon.DemoCatalog(), tt.code, testNow))
			require.NotNil(t, c.Coupon)

			require.NoError(t, tt.shrink(c))

			assert.Nil(t, c.Coupon)
			assert.Equal(t, tt.notice, c.CouponNotice)
			assertAmount(t, "0", c.DiscountAmount())
		})
	}
}

func TestCart_SetCoupon_ChecksCurrentSubtotal(t *testing.T) {
	c := sampleCart(t)
	applied, err := coupon.Evaluate(context.Background(), coupon.DemoCatalog(), "MORINGA20", c.Subtotal(), testNow)
	require.NoError(t, err)

	c.RemoveItem("B", "250g")
	c.SetCoupon(applied)

	assert.Nil(t, c.Coupon, "598 does not meet the 999 minimum")
	assert.Equal(t, "coupon MORINGA20 was removed: orders must be at least ₹999", c.CouponNotice)
	assertAmount(t, "598", c.Totals(testShipping, pricing.ShippingStandard).GrandTotal)
}

func TestCart_CouponKeptWhileEligible(t *testing.T) {
	c := sampleCart(t)
	require.NoError(t, c.ApplyCoupon(context.Background(), coupon.DemoCatalog(), "FLAT100", testNow))

	require.NoError(t, c.UpdateQuantity("A", "100g", 1))

	require.NotNil(t, c.Coupon, "898 still meets the 500 minimum")
	assert.Empty(t, c.CouponNotice)
}

// ============================================
// Totals Tests
// ============================================

func TestCart_Totals_Scenarios(t *testing.T) {
	tests := []struct {
		name         string
		code         string
		wantDiscount string
		wantAfter    string
		wantShipping string
		wantTotal    string
	}{
		{"no coupon", "", "0", "1197", "0", "1197"},
		{"WELCOME10 rounds half up", "WELCOME10", "120", "1077", "0", "1077"},
		{"FLAT100", "FLAT100", "100", "1097", "0", "1097"},
		{"MORINGA20", "MORINGA20", "239", "958", "0", "958"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := sampleCart(t)
			if tt.code != "" {
				require.NoError(t, c.ApplyCoupon(context.Background(), coupon.DemoCatalog(), tt.code, testNow))
			}

			s := c.Totals(testShipping, pricing.ShippingStandard)

			assertAmount(t, "1197", s.Subtotal)
			assertAmount(t, tt.wantDiscount, s.Discount)
			assertAmount(t, tt.wantAfter, s.PriceAfterDiscount)
			assertAmount(t, tt.wantShipping, s.Shipping)
			assertAmount(t, tt.wantTotal, s.GrandTotal)
			assertAmount(t, tt.wantAfter, c.FinalPrice())
			assert.True(t, s.GrandTotal.Equal(s.Subtotal.Sub(s.Discount).Add(s.Shipping)))
		})
	}
}

func TestCart_Totals_EmptyCart(t *testing.T) {
	s := New("owner-1").Totals(testShipping, pricing.ShippingStandard)

	assertAmount(t, "0", s.Subtotal)
	assertAmount(t, "0", s.Discount)
	assertAmount(t, "0", s.Shipping)
	assertAmount(t, "0", s.GrandTotal)
}

func TestCart_Totals_Express(t *testing.T) {
	s := sampleCart(t).Totals(testShipping, pricing.ShippingExpress)
	assertAmount(t, "120", s.Shipping)
	assertAmount(t, "1317", s.GrandTotal)
}
