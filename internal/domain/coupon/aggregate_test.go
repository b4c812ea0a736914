package coupon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/moringa-store/internal/infrastructure/store/mocks"
	"github.com/example/moringa-store/internal/pricing"
)

func newTestCouponService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	return NewService(eventStore), eventStore
}

func festive() Definition {
	return Definition{
		Code:          "festive25",
		DiscountType:  pricing.DiscountPercentage,
		DiscountValue: d("25"),
		MinOrderValue: d("800"),
		MaxDiscount:   d("400"),
		Description:   "Festive offer",
	}
}

func TestService_Create(t *testing.T) {
	service, eventStore := newTestCouponService()
	ctx := context.Background()

	c, err := service.Create(ctx, festive())

	require.NoError(t, err)
	assert.Equal(t, "FESTIVE25", c.Code)
	assert.True(t, c.Active)
	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, "coupon-FESTIVE25", eventStore.AppendCalls[0].AggregateID)
	assert.Equal(t, EventCouponCreated, eventStore.AppendCalls[0].EventType)
}

func TestService_Create_Duplicate(t *testing.T) {
	service, eventStore := newTestCouponService()
	ctx := context.Background()
	_, err := service.Create(ctx, festive())
	require.NoError(t, err)

	dup := festive()
	dup.Code = "FESTIVE25 "
	_, err = service.Create(ctx, dup)

	assert.ErrorIs(t, err, ErrCouponExists)
	assert.Len(t, eventStore.AppendCalls, 1)
}

func TestService_Create_Invalid(t *testing.T) {
	service, eventStore := newTestCouponService()
	def := festive()
	def.DiscountValue = d("120")

	_, err := service.Create(context.Background(), def)

	assert.ErrorIs(t, err, ErrPercentageTooLarge)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_Update(t *testing.T) {
	service, _ := newTestCouponService()
	ctx := context.Background()
	_, err := service.Create(ctx, festive())
	require.NoError(t, err)

	changed := festive()
	changed.DiscountValue = d("30")
	updated, err := service.Update(ctx, changed)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	loaded, err := service.Load(ctx, "festive25")
	require.NoError(t, err)
	assert.True(t, loaded.DiscountValue.Equal(d("30")))
	assert.True(t, loaded.Active)
}

func TestService_Update_NotFound(t *testing.T) {
	service, _ := newTestCouponService()
	_, err := service.Update(context.Background(), festive())
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestService_Deactivate(t *testing.T) {
	service, eventStore := newTestCouponService()
	ctx := context.Background()
	_, err := service.Create(ctx, festive())
	require.NoError(t, err)

	require.NoError(t, service.Deactivate(ctx, "FESTIVE25"))
	assert.ErrorIs(t, service.Deactivate(ctx, "FESTIVE25"), ErrCouponInactive)

	loaded, err := service.Load(ctx, "FESTIVE25")
	require.NoError(t, err)
	assert.False(t, loaded.Active)
	assert.Equal(t, []string{EventCouponCreated, EventCouponDeactivated}, eventStore.EventTypes())

	_, err = Evaluate(ctx, NewStaticCatalog(loaded.Definition), "FESTIVE25", d("1000"), testNow)
	assert.ErrorIs(t, err, ErrCouponNotFound)
}
