package cart

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/moringa-store/internal/domain/coupon"
	"github.com/example/moringa-store/internal/infrastructure/store"
	"github.com/example/moringa-store/internal/infrastructure/store/mocks"
)

func newTestCartService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	service := NewService(eventStore, coupon.DemoCatalog())
	service.now = func() time.Time { return testNow }
	return service, eventStore
}

// ============================================
// GetCartID Tests
// ============================================

func TestGetCartID(t *testing.T) {
	tests := []struct {
		name       string
		ownerID    string
		expectedID string
	}{
		{"session id", "3f1c9a3e-6b7d-4b8e-9c53-1f0d8a2b7e41", "cart-3f1c9a3e-6b7d-4b8e-9c53-1f0d8a2b7e41"},
		{"plain id", "owner-123", "cart-owner-123"},
		{"empty id", "", "cart-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedID, GetCartID(tt.ownerID))
		})
	}
}

// ============================================
// Item Tests
// ============================================

func TestService_AddItem(t *testing.T) {
	service, eventStore := newTestCartService()
	ctx := context.Background()

	c, err := service.AddItem(ctx, "owner-1", mustItem(t, "A", "100g", "299", 2))

	require.NoError(t, err)
	assert.Equal(t, 1, c.Version)
	assert.Equal(t, 2, c.TotalItems())
	require.Len(t, eventStore.AppendCalls, 1)
	call := eventStore.AppendCalls[0]
	assert.Equal(t, "cart-owner-1", call.AggregateID)
	assert.Equal(t, AggregateType, call.AggregateType)
	assert.Equal(t, EventItemAdded, call.EventType)

	data := call.Data.(ItemAddedToCart)
	assert.Equal(t, "owner-1", data.OwnerID)
	assert.Equal(t, "A", data.Item.ProductID)
	assert.Equal(t, testNow, data.AddedAt)
}

func TestService_AddItem_Invalid(t *testing.T) {
	service, eventStore := newTestCartService()

	_, err := service.AddItem(context.Background(), "owner-1", LineItem{ProductID: "A", VariantID: "100g", Quantity: 0})

	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_RemoveItem(t *testing.T) {
	service, eventStore := newTestCartService()
	ctx := context.Background()
	_, err := service.AddItem(ctx, "owner-1", mustItem(t, "A", "100g", "299", 2))
	require.NoError(t, err)

	c, err := service.RemoveItem(ctx, "owner-1", "A", "100g")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	_, err = service.RemoveItem(ctx, "owner-1", "A", "100g")
	require.NoError(t, err)
	assert.Equal(t, []string{EventItemAdded, EventItemRemoved}, eventStore.EventTypes(), "absent line appends nothing")
}

func TestService_UpdateQuantity(t *testing.T) {
	service, eventStore := newTestCartService()
	ctx := context.Background()
	_, err := service.AddItem(ctx, "owner-1", mustItem(t, "A", "100g", "299", 2))
	require.NoError(t, err)

	c, err := service.UpdateQuantity(ctx, "owner-1", "A", "100g", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.TotalItems())

	_, err = service.UpdateQuantity(ctx, "owner-1", "A", "100g", 5)
	require.NoError(t, err)
	_, err = service.UpdateQuantity(ctx, "owner-1", "missing", "100g", 5)
	require.NoError(t, err)

	c, err = service.UpdateQuantity(ctx, "owner-1", "A", "100g", 0)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	assert.Equal(t, []string{EventItemAdded, EventItemQuantityUpdated, EventItemQuantityUpdated}, eventStore.EventTypes())
}

func TestService_Clear(t *testing.T) {
	service, eventStore := newTestCartService()
	ctx := context.Background()

	_, err := service.Clear(ctx, "owner-1", ClearedByShopper)
	require.NoError(t, err)
	assert.Empty(t, eventStore.AppendCalls, "clearing an empty cart appends nothing")

	_, err = service.AddItem(ctx, "owner-1", mustItem(t, "A", "100g", "299", 2))
	require.NoError(t, err)
	c, err := service.Clear(ctx, "owner-1", ClearedAtCheckout)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, ClearedAtCheckout, eventStore.AppendCalls[1].Data.(CartCleared).Reason)
}

// ============================================
// Coupon Tests
// ============================================

func TestService_ApplyCoupon(t *testing.T) {
	service, eventStore := newTestCartService()
	ctx := context.Background()
	_, err := service.AddItem(ctx, "owner-1", mustItem(t, "A", "100g", "299", 2))
	require.NoError(t, err)
	_, err = service.AddItem(ctx, "owner-1", mustItem(t, "B", "250g", "599", 1))
	require.NoError(t, err)

	c, err := service.ApplyCoupon(ctx, "owner-1", "flat100")
	require.NoError(t, err)
	assert.Equal(t, "FLAT100", c.Coupon.Code)
	assertAmount(t, "1097", c.FinalPrice())

	_, err = service.ApplyCoupon(ctx, "owner-1", "FLAT100")
	require.NoError(t, err)
	assert.Equal(t, []string{EventItemAdded, EventItemAdded, EventCouponApplied}, eventStore.EventTypes(),
		"re-applying the same coupon appends nothing")
}

func TestService_ApplyCoupon_Rejected(t *testing.T) {
	service, eventStore := newTestCartService()
	ctx := context.Background()
	_, err := service.AddItem(ctx, "owner-1", mustItem(t, "A", "100g", "300", 1))
	require.NoError(t, err)

	c, err := service.ApplyCoupon(ctx, "owner-1", "FLAT100")

	assert.ErrorIs(t, err, coupon.ErrBelowMinimumOrder)
	require.NotNil(t, c)
	assert.Nil(t, c.Coupon)
	assert.Equal(t, "add ₹200 more to use this coupon", c.CouponError)
	assert.Equal(t, EventCouponRejected, eventStore.AppendCalls[1].EventType)

	reloaded, err := service.Load(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, c.CouponError, reloaded.CouponError)
}

func TestService_ApplyCoupon_LookupFailure(t *testing.T) {
	eventStore := mocks.NewMockEventStore()
	service := NewService(eventStore, brokenCatalog{})

	c, err := service.ApplyCoupon(context.Background(), "owner-1", "WELCOME10")

	require.Error(t, err)
	assert.Nil(t, c)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_RemoveCoupon_Idempotent(t *testing.T) {
	service, eventStore := newTestCartService()
	ctx := context.Background()
	_, err := service.AddItem(ctx, "owner-1", mustItem(t, "A", "100g", "299", 2))
	require.NoError(t, err)
	_, err = service.ApplyCoupon(ctx, "owner-1", "WELCOME10")
	require.NoError(t, err)

	c, err := service.RemoveCoupon(ctx, "owner-1")
	require.NoError(t, err)
	assert.Nil(t, c.Coupon)

	_, err = service.RemoveCoupon(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, []string{EventItemAdded, EventCouponApplied, EventCouponRemoved}, eventStore.EventTypes())
}

// ============================================
// Replay Tests
// ============================================

func TestService_ReplayMatchesLiveState(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()
	_, err := service.AddItem(ctx, "owner-1", mustItem(t, "A", "100g", "299", 2))
	require.NoError(t, err)
	_, err = service.AddItem(ctx, "owner-1", mustItem(t, "B", "250g", "599", 1))
	require.NoError(t, err)
	_, err = service.ApplyCoupon(ctx, "owner-1", "MORINGA20")
	require.NoError(t, err)

	live, err := service.RemoveItem(ctx, "owner-1", "B", "250g")
	require.NoError(t, err)
	require.Nil(t, live.Coupon, "598 is below the MORINGA20 minimum")
	require.NotEmpty(t, live.CouponNotice)

	replayed, err := service.Load(ctx, "owner-1")
	require.NoError(t, err)
	assert.Nil(t, replayed.Coupon)
	assert.Equal(t, live.CouponNotice, replayed.CouponNotice)
	assert.Equal(t, live.Version, replayed.Version)
	assert.True(t, live.Subtotal().Equal(replayed.Subtotal()))
}

func TestService_UpdateQuantityDropsCoupon(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()
	_, err := service.AddItem(ctx, "owner-1", mustItem(t, "A", "100g", "299", 2))
	require.NoError(t, err)
	_, err = service.AddItem(ctx, "owner-1", mustItem(t, "B", "250g", "599", 1))
	require.NoError(t, err)
	_, err = service.ApplyCoupon(ctx, "owner-1", "MORINGA20")
	require.NoError(t, err)

	live, err := service.UpdateQuantity(ctx, "owner-1", "A", "100g", 1)
	require.NoError(t, err)

	notice := "coupon MORINGA20 was removed: orders must be at least ₹999"
	assert.Nil(t, live.Coupon, "898 is below the MORINGA20 minimum")
	assert.Equal(t, notice, live.CouponNotice)

	replayed, err := service.Load(ctx, "owner-1")
	require.NoError(t, err)
	assert.Nil(t, replayed.Coupon)
	assert.Equal(t, notice, replayed.CouponNotice)
	assertAmount(t, "898", replayed.Subtotal())
	assert.Equal(t, 2, replayed.TotalItems())
}

func TestService_QuantityUpdatesSurviveReplay(t *testing.T) {
	service, eventStore := newTestCartService()
	ctx := context.Background()
	_, err := service.AddItem(ctx, "owner-1", mustItem(t, "A", "100g", "299", 2))
	require.NoError(t, err)
	_, err = service.AddItem(ctx, "owner-1", mustItem(t, "B", "250g", "599", 3))
	require.NoError(t, err)

	_, err = service.UpdateQuantity(ctx, "owner-1", "A", "100g", MaxQuantity+1)
	assert.ErrorIs(t, err, ErrQuantityTooLarge)
	_, err = service.UpdateQuantity(ctx, "owner-1", "B", "250g", -1)
	require.NoError(t, err)
	_, err = service.UpdateQuantity(ctx, "owner-1", "A", "100g", 0)
	require.NoError(t, err)
	_, err = service.AddItem(ctx, "owner-1", mustItem(t, "A", "100g", "299", 4))
	require.NoError(t, err)

	replayed, err := service.Load(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 4, replayed.TotalItems())
	require.Len(t, replayed.Items, 1)
	assert.Equal(t, "A", replayed.Items[0].ProductID)
	assert.Equal(t, []string{
		EventItemAdded, EventItemAdded,
		EventItemQuantityUpdated, EventItemQuantityUpdated,
		EventItemAdded,
	}, eventStore.EventTypes(), "rejected update appends nothing")
}

func TestService_AddItemRejectsMergePastLimit(t *testing.T) {
	service, eventStore := newTestCartService()
	ctx := context.Background()
	_, err := service.AddItem(ctx, "owner-1", mustItem(t, "A", "100g", "299", MaxQuantity))
	require.NoError(t, err)

	_, err = service.AddItem(ctx, "owner-1", mustItem(t, "A", "100g", "299", MaxQuantity))

	assert.ErrorIs(t, err, ErrQuantityTooLarge)
	assert.Len(t, eventStore.AppendCalls, 1, "rejected merge is not persisted")

	c, err := service.Load(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, c.TotalItems())
	assertAmount(t, d("299").Mul(decimal.NewFromInt(MaxQuantity)).String(), c.Subtotal())
}

func TestService_StaleCouponApplyIsRevalidated(t *testing.T) {
	service, eventStore := newTestCartService()
	ctx := context.Background()
	_, err := service.AddItem(ctx, "owner-1", mustItem(t, "A", "100g", "299", 2))
	require.NoError(t, err)
	_, err = service.AddItem(ctx, "owner-1", mustItem(t, "B", "250g", "599", 1))
	require.NoError(t, err)

	// The coupon is evaluated against the 1197 cart, then an item removal
	// lands before the apply is recorded.
	applied, err := coupon.Evaluate(ctx, coupon.DemoCatalog(), "MORINGA20", d("1197"), testNow)
	require.NoError(t, err)
	_, err = service.RemoveItem(ctx, "owner-1", "B", "250g")
	require.NoError(t, err)
	_, err = eventStore.Append(ctx, GetCartID("owner-1"), AggregateType, EventCouponApplied, CouponApplied{
		CartID:  GetCartID("owner-1"),
		OwnerID: "owner-1",
		Coupon:  *applied,
	})
	require.NoError(t, err)

	c, err := service.Load(ctx, "owner-1")
	require.NoError(t, err)
	assertAmount(t, "598", c.Subtotal())
	assert.Nil(t, c.Coupon)
	assertAmount(t, "0", c.DiscountAmount())
	assert.Equal(t, "coupon MORINGA20 was removed: orders must be at least ₹999", c.CouponNotice)
}

func TestService_Snapshot(t *testing.T) {
	service, eventStore := newTestCartService()
	ctx := context.Background()

	for i := 0; i < store.SnapshotThreshold; i++ {
		_, err := service.AddItem(ctx, "owner-1", mustItem(t, "A", "100g", "299", 1))
		require.NoError(t, err)
	}

	require.Len(t, eventStore.SaveSnapshotCalls, 1)
	assert.Equal(t, store.SnapshotThreshold, eventStore.SaveSnapshotCalls[0].Version)

	c, err := service.Load(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, store.SnapshotThreshold, c.TotalItems())
}

func TestService_AppendFailure(t *testing.T) {
	service, eventStore := newTestCartService()
	eventStore.AppendErr = errors.New("disk full")

	_, err := service.AddItem(context.Background(), "owner-1", mustItem(t, "A", "100g", "299", 1))

	assert.EqualError(t, err, "disk full")
}
