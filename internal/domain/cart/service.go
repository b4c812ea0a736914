package cart

import (
	"context"
	"time"

	"github.com/example/moringa-store/internal/domain/aggregate"
	"github.com/example/moringa-store/internal/domain/coupon"
	"github.com/example/moringa-store/internal/infrastructure/store"
)

// ApplyEvent replays a stored event through the cart operations, so a
// rebuilt cart re-runs coupon re-validation exactly as the live one did.
func (c *Cart) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventItemAdded:
		var data ItemAddedToCart
		if err := event.Decode(&data); err != nil {
			return err
		}
		if err := c.AddItem(data.Item); err != nil {
			return err
		}
	case EventItemRemoved:
		var data ItemRemovedFromCart
		if err := event.Decode(&data); err != nil {
			return err
		}
		c.RemoveItem(data.ProductID, data.VariantID)
	case EventItemQuantityUpdated:
		var data CartItemQuantityUpdated
		if err := event.Decode(&data); err != nil {
			return err
		}
		if err := c.UpdateQuantity(data.ProductID, data.VariantID, data.Quantity); err != nil {
			return err
		}
	case EventCartCleared:
		c.Clear()
	case EventCouponApplied:
		var data CouponApplied
		if err := event.Decode(&data); err != nil {
			return err
		}
		c.SetCoupon(&data.Coupon)
	case EventCouponRejected:
		var data CouponRejected
		if err := event.Decode(&data); err != nil {
			return err
		}
		c.RejectCoupon(data.Reason)
	case EventCouponRemoved:
		c.RemoveCoupon()
	}
	c.Version = event.Version
	return nil
}

// Service persists carts as event streams, one per owner.
type Service struct {
	eventStore store.EventStoreInterface
	catalog    coupon.Catalog
	now        func() time.Time
}

func NewService(es store.EventStoreInterface, catalog coupon.Catalog) *Service {
	return &Service{
		eventStore: es,
		catalog:    catalog,
		now:        time.Now,
	}
}

// Load returns the owner's cart. A cart that was never written is empty.
func (s *Service) Load(ctx context.Context, ownerID string) (*Cart, error) {
	c, _, err := aggregate.LoadAggregate(ctx, s.eventStore, GetCartID(ownerID), func() *Cart { return New(ownerID) })
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) record(ctx context.Context, c *Cart, eventType string, data any) error {
	_, err := aggregate.Append(ctx, s.eventStore, c, AggregateType, eventType, data)
	return err
}

func (s *Service) AddItem(ctx context.Context, ownerID string, item LineItem) (*Cart, error) {
	if err := item.validate(); err != nil {
		return nil, err
	}

	c, err := s.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := c.CanAdd(item); err != nil {
		return nil, err
	}

	err = s.record(ctx, c, EventItemAdded, ItemAddedToCart{
		CartID:  c.ID,
		OwnerID: ownerID,
		Item:    item,
		AddedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) RemoveItem(ctx context.Context, ownerID, productID, variantID string) (*Cart, error) {
	c, err := s.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if _, ok := c.Item(productID, variantID); !ok {
		return c, nil
	}

	err = s.record(ctx, c, EventItemRemoved, ItemRemovedFromCart{
		CartID:    c.ID,
		OwnerID:   ownerID,
		ProductID: productID,
		VariantID: variantID,
		RemovedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, ownerID, productID, variantID string, quantity int) (*Cart, error) {
	if quantity > MaxQuantity {
		return nil, ErrQuantityTooLarge
	}
	c, err := s.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	line, ok := c.Item(productID, variantID)
	if !ok || line.Quantity == quantity {
		return c, nil
	}

	err = s.record(ctx, c, EventItemQuantityUpdated, CartItemQuantityUpdated{
		CartID:    c.ID,
		OwnerID:   ownerID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Clear(ctx context.Context, ownerID, reason string) (*Cart, error) {
	c, err := s.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() && c.Coupon == nil && c.CouponError == "" && c.CouponNotice == "" {
		return c, nil
	}

	err = s.record(ctx, c, EventCartCleared, CartCleared{
		CartID:    c.ID,
		OwnerID:   ownerID,
		Reason:    reason,
		ClearedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyCoupon evaluates code against the cart. A rejection is stored on the
// cart and also returned, together with the updated cart.
func (s *Service) ApplyCoupon(ctx context.Context, ownerID, code string) (*Cart, error) {
	c, err := s.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	applied, evalErr := coupon.Evaluate(ctx, s.catalog, code, c.Subtotal(), now)
	if evalErr != nil {
		if !IsRejection(evalErr) {
			return nil, evalErr
		}
		err := s.record(ctx, c, EventCouponRejected, CouponRejected{
			CartID:     c.ID,
			OwnerID:    ownerID,
			Code:       coupon.NormalizeCode(code),
			Reason:     evalErr.Error(),
			RejectedAt: now,
		})
		if err != nil {
			return nil, err
		}
		return c, evalErr
	}

	if c.Coupon.SameTerms(applied) && c.CouponError == "" && c.CouponNotice == "" {
		return c, nil
	}

	err = s.record(ctx, c, EventCouponApplied, CouponApplied{
		CartID:  c.ID,
		OwnerID: ownerID,
		Coupon:  *applied,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveCoupon is idempotent.
func (s *Service) RemoveCoupon(ctx context.Context, ownerID string) (*Cart, error) {
	c, err := s.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if c.Coupon == nil && c.CouponError == "" && c.CouponNotice == "" {
		return c, nil
	}

	err = s.record(ctx, c, EventCouponRemoved, CouponRemoved{
		CartID:    c.ID,
		OwnerID:   ownerID,
		RemovedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
