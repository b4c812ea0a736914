package order

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/example/moringa-store/internal/domain/aggregate"
	"github.com/example/moringa-store/internal/infrastructure/store"
	"github.com/example/moringa-store/internal/pricing"
)

const AggregateType = "Order"

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusCancelled Status = "cancelled"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidStatus    = errors.New("invalid order status transition")
	ErrOrderAlreadyPaid = errors.New("order is already paid")
	ErrOrderNotPaid     = errors.New("order must be paid before shipping")
	ErrOrderShipped     = errors.New("cannot cancel shipped order")
	ErrOrderCancelled   = errors.New("order is already cancelled")
)

// validTransitions defines allowed state transitions
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusCancelled},
	StatusShipped:   {},
	StatusCancelled: {},
}

type Order struct {
	ID             string                 `json:"id"`
	CartID         string                 `json:"cart_id"`
	Customer       Customer               `json:"customer"`
	Items          []Item                 `json:"items"`
	Totals         Totals                 `json:"totals"`
	PaymentMethod  PaymentMethod          `json:"payment_method"`
	ShippingMethod pricing.ShippingMethod `json:"shipping_method"`
	Status         Status                 `json:"status"`
	TrackingNumber string                 `json:"tracking_number,omitempty"`
	CancelReason   string                 `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Version        int                    `json:"version"`
}

func (o *Order) GetID() string   { return o.ID }
func (o *Order) GetVersion() int { return o.Version }

// CanTransitionTo checks if the order can transition to the target status
func (o *Order) CanTransitionTo(target Status) bool {
	return slices.Contains(validTransitions[o.Status], target)
}

// transitionError returns an appropriate error for an invalid transition
func (o *Order) transitionError(target Status) error {
	switch {
	case o.Status == StatusCancelled:
		return ErrOrderCancelled
	case o.Status == StatusShipped && target == StatusCancelled:
		return ErrOrderShipped
	case (o.Status == StatusPaid || o.Status == StatusShipped) && target == StatusPaid:
		return ErrOrderAlreadyPaid
	case o.Status == StatusPending && target == StatusShipped:
		return ErrOrderNotPaid
	default:
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidStatus, o.Status, target)
	}
}

func (o *Order) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventOrderPlaced:
		var data OrderPlaced
		if err := event.Decode(&data); err != nil {
			return err
		}
		o.ID = data.OrderID
		o.CartID = data.CartID
		o.Customer = data.Customer
		o.Items = data.Items
		o.Totals = data.Totals
		o.PaymentMethod = data.PaymentMethod
		o.ShippingMethod = data.ShippingMethod
		o.Status = StatusPending
		o.CreatedAt = data.PlacedAt
		o.UpdatedAt = data.PlacedAt
	case EventOrderPaid:
		var data OrderPaid
		if err := event.Decode(&data); err != nil {
			return err
		}
		o.Status = StatusPaid
		o.UpdatedAt = data.PaidAt
	case EventOrderShipped:
		var data OrderShipped
		if err := event.Decode(&data); err != nil {
			return err
		}
		o.Status = StatusShipped
		o.TrackingNumber = data.TrackingNumber
		o.UpdatedAt = data.ShippedAt
	case EventOrderCancelled:
		var data OrderCancelled
		if err := event.Decode(&data); err != nil {
			return err
		}
		o.Status = StatusCancelled
		o.CancelReason = data.Reason
		o.UpdatedAt = data.CancelledAt
	}
	o.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
	now        func() time.Time
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es, now: time.Now}
}

// Load loads an order by replaying events, using snapshot if available
func (s *Service) Load(ctx context.Context, orderID string) (*Order, error) {
	order, found, err := aggregate.LoadAggregate(ctx, s.eventStore, orderID, func() *Order {
		return &Order{}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// Place records a new pending order. The input totals must be consistent.
func (s *Service) Place(ctx context.Context, in PlaceInput) (*Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	order := &Order{ID: uuid.New().String()}
	_, err := aggregate.Append(ctx, s.eventStore, order, AggregateType, EventOrderPlaced, OrderPlaced{
		OrderID:        order.ID,
		CartID:         in.CartID,
		Customer:       in.Customer,
		Items:          in.Items,
		Totals:         in.Totals,
		PaymentMethod:  in.PaymentMethod,
		ShippingMethod: in.ShippingMethod,
		PlacedAt:       s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// transition loads the order, checks the move to target and appends the event
func (s *Service) transition(ctx context.Context, orderID string, target Status, eventType string, data any) error {
	order, err := s.Load(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.CanTransitionTo(target) {
		return order.transitionError(target)
	}
	_, err = aggregate.Append(ctx, s.eventStore, order, AggregateType, eventType, data)
	return err
}

func (s *Service) Pay(ctx context.Context, orderID string) error {
	return s.transition(ctx, orderID, StatusPaid, EventOrderPaid, OrderPaid{
		OrderID: orderID,
		PaidAt:  s.now().UTC(),
	})
}

func (s *Service) Ship(ctx context.Context, orderID, trackingNumber string) error {
	return s.transition(ctx, orderID, StatusShipped, EventOrderShipped, OrderShipped{
		OrderID:        orderID,
		TrackingNumber: trackingNumber,
		ShippedAt:      s.now().UTC(),
	})
}

func (s *Service) Cancel(ctx context.Context, orderID, reason string) error {
	return s.transition(ctx, orderID, StatusCancelled, EventOrderCancelled, OrderCancelled{
		OrderID:     orderID,
		Reason:      reason,
		CancelledAt: s.now().UTC(),
	})
}
