package projection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/example/moringa-store/internal/domain/coupon"
	"github.com/example/moringa-store/internal/domain/order"
	"github.com/example/moringa-store/internal/domain/product"
	"github.com/example/moringa-store/internal/infrastructure/store"
	"github.com/example/moringa-store/internal/readmodel"
)

// Projector turns product, coupon and order events into read models.
// Carts are not projected; the cart view is computed from the aggregate.
type Projector struct {
	readStore store.ReadStoreInterface
	log       *slog.Logger
}

func NewProjector(readStore store.ReadStoreInterface, logger *slog.Logger) *Projector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Projector{readStore: readStore, log: logger.With("component", "projector")}
}

// HandleEvent decodes a bus message and projects it.
func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}
	return p.Project(ctx, event)
}

// Publish projects events in-process, letting the Projector stand in for
// the event bus when no broker is configured.
func (p *Projector) Publish(ctx context.Context, _ string, event any) error {
	e, ok := event.(store.Event)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	return p.Project(ctx, e)
}

func (p *Projector) Project(ctx context.Context, event store.Event) error {
	p.log.DebugContext(ctx, "projecting event",
		"event_type", event.EventType,
		"aggregate_type", event.AggregateType,
		"aggregate_id", event.AggregateID,
	)

	var err error
	switch event.AggregateType {
	case product.AggregateType:
		err = p.handleProductEvent(ctx, event)
	case coupon.AggregateType:
		err = p.handleCouponEvent(ctx, event)
	case order.AggregateType:
		err = p.handleOrderEvent(ctx, event)
	}
	if err != nil {
		return fmt.Errorf("project %s %s: %w", event.EventType, event.AggregateID, err)
	}
	return nil
}

// Replay rebuilds the read models from every stored event.
func (p *Projector) Replay(ctx context.Context, es store.EventStoreInterface) (int, error) {
	events, err := es.GetAllEvents(ctx)
	if err != nil {
		return 0, err
	}
	failed := 0
	for _, event := range events {
		if err := p.Project(ctx, event); err != nil {
			failed++
			p.log.ErrorContext(ctx, "replay failed", "event_id", event.ID, "error", err)
		}
	}
	p.log.InfoContext(ctx, "replay completed", "events", len(events), "failed", failed)
	return len(events), nil
}

func (p *Projector) handleProductEvent(ctx context.Context, event store.Event) error {
	switch event.EventType {
	case product.EventProductCreated:
		var e product.ProductCreated
		if err := event.Decode(&e); err != nil {
			return err
		}
		variants := make([]readmodel.VariantReadModel, 0, len(e.Variants))
		for _, v := range e.Variants {
			variants = append(variants, variantModel(v))
		}
		return p.readStore.Set(ctx, store.CollectionProducts, e.ProductID, &readmodel.ProductReadModel{
			ID:          e.ProductID,
			Name:        e.Name,
			Description: e.Description,
			Variants:    variants,
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.CreatedAt,
		})

	case product.EventProductUpdated:
		var e product.ProductUpdated
		if err := event.Decode(&e); err != nil {
			return err
		}
		return p.updateProduct(ctx, e.ProductID, func(prod *readmodel.ProductReadModel) {
			prod.Name = e.Name
			prod.Description = e.Description
			prod.UpdatedAt = e.UpdatedAt
		})

	case product.EventProductDeleted:
		var e product.ProductDeleted
		if err := event.Decode(&e); err != nil {
			return err
		}
		return p.readStore.Delete(ctx, store.CollectionProducts, e.ProductID)

	case product.EventVariantAdded:
		var e product.VariantAdded
		if err := event.Decode(&e); err != nil {
			return err
		}
		return p.updateProduct(ctx, e.ProductID, func(prod *readmodel.ProductReadModel) {
			prod.Variants = append(prod.Variants, variantModel(e.Variant))
			prod.UpdatedAt = e.AddedAt
		})

	case product.EventVariantPriceChanged:
		var e product.VariantPriceChanged
		if err := event.Decode(&e); err != nil {
			return err
		}
		return p.updateProduct(ctx, e.ProductID, func(prod *readmodel.ProductReadModel) {
			if v, ok := prod.Variant(e.VariantID); ok {
				v.Price = e.Price
			}
			prod.UpdatedAt = e.ChangedAt
		})

	case product.EventVariantDeactivated:
		var e product.VariantDeactivated
		if err := event.Decode(&e); err != nil {
			return err
		}
		return p.updateProduct(ctx, e.ProductID, func(prod *readmodel.ProductReadModel) {
			if v, ok := prod.Variant(e.VariantID); ok {
				v.Active = false
			}
			prod.UpdatedAt = e.DeactivatedAt
		})
	}
	return nil
}

func (p *Projector) updateProduct(ctx context.Context, id string, fn func(*readmodel.ProductReadModel)) error {
	ok, err := store.Update(ctx, p.readStore, store.CollectionProducts, id, fn)
	if err == nil && !ok {
		p.log.WarnContext(ctx, "product read model missing", "product_id", id)
	}
	return err
}

func variantModel(v product.Variant) readmodel.VariantReadModel {
	return readmodel.VariantReadModel{ID: v.ID, Name: v.Name, Price: v.Price, Active: v.Active}
}

func (p *Projector) handleCouponEvent(ctx context.Context, event store.Event) error {
	switch event.EventType {
	case coupon.EventCouponCreated:
		var e coupon.CouponCreated
		if err := event.Decode(&e); err != nil {
			return err
		}
		code := coupon.NormalizeCode(e.Code)
		return p.readStore.Set(ctx, store.CollectionCoupons, code, &readmodel.CouponReadModel{
			Definition: e.Definition,
			CreatedAt:  e.CreatedAt,
			UpdatedAt:  e.CreatedAt,
		})

	case coupon.EventCouponUpdated:
		var e coupon.CouponUpdated
		if err := event.Decode(&e); err != nil {
			return err
		}
		code := coupon.NormalizeCode(e.Code)
		ok, err := store.Update(ctx, p.readStore, store.CollectionCoupons, code, func(c *readmodel.CouponReadModel) {
			c.Definition = e.Definition
			c.UpdatedAt = e.UpdatedAt
		})
		if err != nil || ok {
			return err
		}
		return p.readStore.Set(ctx, store.CollectionCoupons, code, &readmodel.CouponReadModel{
			Definition: e.Definition,
			CreatedAt:  e.UpdatedAt,
			UpdatedAt:  e.UpdatedAt,
		})

	case coupon.EventCouponDeactivated:
		var e coupon.CouponDeactivated
		if err := event.Decode(&e); err != nil {
			return err
		}
		_, err := store.Update(ctx, p.readStore, store.CollectionCoupons, coupon.NormalizeCode(e.Code), func(c *readmodel.CouponReadModel) {
			c.Active = false
			c.UpdatedAt = e.DeactivatedAt
		})
		return err
	}
	return nil
}

func (p *Projector) handleOrderEvent(ctx context.Context, event store.Event) error {
	switch event.EventType {
	case order.EventOrderPlaced:
		var e order.OrderPlaced
		if err := event.Decode(&e); err != nil {
			return err
		}
		return p.readStore.Set(ctx, store.CollectionOrders, e.OrderID, &readmodel.OrderReadModel{
			ID:             e.OrderID,
			CartID:         e.CartID,
			Customer:       e.Customer,
			Items:          e.Items,
			Totals:         e.Totals,
			PaymentMethod:  e.PaymentMethod,
			ShippingMethod: e.ShippingMethod,
			Status:         order.StatusPending,
			CreatedAt:      e.PlacedAt,
			UpdatedAt:      e.PlacedAt,
		})

	case order.EventOrderPaid:
		var e order.OrderPaid
		if err := event.Decode(&e); err != nil {
			return err
		}
		return p.updateOrder(ctx, e.OrderID, func(o *readmodel.OrderReadModel) {
			o.Status = order.StatusPaid
			o.UpdatedAt = e.PaidAt
		})

	case order.EventOrderShipped:
		var e order.OrderShipped
		if err := event.Decode(&e); err != nil {
			return err
		}
		return p.updateOrder(ctx, e.OrderID, func(o *readmodel.OrderReadModel) {
			o.Status = order.StatusShipped
			o.TrackingNumber = e.TrackingNumber
			o.UpdatedAt = e.ShippedAt
		})

	case order.EventOrderCancelled:
		var e order.OrderCancelled
		if err := event.Decode(&e); err != nil {
			return err
		}
		return p.updateOrder(ctx, e.OrderID, func(o *readmodel.OrderReadModel) {
			o.Status = order.StatusCancelled
			o.CancelReason = e.Reason
			o.UpdatedAt = e.CancelledAt
		})
	}
	return nil
}

func (p *Projector) updateOrder(ctx context.Context, id string, fn func(*readmodel.OrderReadModel)) error {
	ok, err := store.Update(ctx, p.readStore, store.CollectionOrders, id, fn)
	if err == nil && !ok {
		p.log.WarnContext(ctx, "order read model missing", "order_id", id)
	}
	return err
}
