package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/example/moringa-store/internal/domain/aggregate"
	"github.com/example/moringa-store/internal/infrastructure/store"
)

const AggregateType = "Coupon"

var (
	ErrCouponExists   = errors.New("coupon already exists")
	ErrCouponInactive = errors.New("coupon already deactivated")
)

// Coupon is the event-sourced admin view of a coupon definition.
type Coupon struct {
	Definition
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Coupon) GetID() string   { return AggregateID(c.Code) }
func (c *Coupon) GetVersion() int { return c.Version }

// AggregateID returns the event stream id of a coupon code.
func AggregateID(code string) string {
	return "coupon-" + NormalizeCode(code)
}

func (c *Coupon) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventCouponCreated:
		var data CouponCreated
		if err := event.Decode(&data); err != nil {
			return err
		}
		c.Definition = data.Definition
		c.CreatedAt = data.CreatedAt
		c.UpdatedAt = data.CreatedAt
	case EventCouponUpdated:
		var data CouponUpdated
		if err := event.Decode(&data); err != nil {
			return err
		}
		c.Definition = data.Definition
		c.UpdatedAt = data.UpdatedAt
	case EventCouponDeactivated:
		var data CouponDeactivated
		if err := event.Decode(&data); err != nil {
			return err
		}
		c.Active = false
		c.UpdatedAt = data.DeactivatedAt
	}
	c.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
	now        func() time.Time
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es, now: time.Now}
}

// Load returns the coupon for code, or ErrCouponNotFound.
func (s *Service) Load(ctx context.Context, code string) (*Coupon, error) {
	c, found, err := aggregate.LoadAggregate(ctx, s.eventStore, AggregateID(code), func() *Coupon { return &Coupon{} })
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrCouponNotFound
	}
	return c, nil
}

// Create stores a new coupon. Codes are unique.
func (s *Service) Create(ctx context.Context, def Definition) (*Coupon, error) {
	def.Code = NormalizeCode(def.Code)
	def.Active = true
	if err := def.Validate(); err != nil {
		return nil, err
	}

	_, err := s.Load(ctx, def.Code)
	switch {
	case err == nil:
		return nil, ErrCouponExists
	case !errors.Is(err, ErrCouponNotFound):
		return nil, err
	}

	c := &Coupon{Definition: Definition{Code: def.Code}}
	if _, err := aggregate.Append(ctx, s.eventStore, c, AggregateType, EventCouponCreated, CouponCreated{
		Definition: def,
		CreatedAt:  s.now().UTC(),
	}); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the terms of an existing coupon. The code cannot change.
func (s *Service) Update(ctx context.Context, def Definition) (*Coupon, error) {
	def.Code = NormalizeCode(def.Code)
	if err := def.Validate(); err != nil {
		return nil, err
	}

	c, err := s.Load(ctx, def.Code)
	if err != nil {
		return nil, err
	}
	def.Active = c.Active

	if _, err := aggregate.Append(ctx, s.eventStore, c, AggregateType, EventCouponUpdated, CouponUpdated{
		Definition: def,
		UpdatedAt:  s.now().UTC(),
	}); err != nil {
		return nil, err
	}
	return c, nil
}

// Deactivate withdraws a coupon. Carts that already hold it keep it.
func (s *Service) Deactivate(ctx context.Context, code string) error {
	c, err := s.Load(ctx, code)
	if err != nil {
		return err
	}
	if !c.Active {
		return ErrCouponInactive
	}

	_, err = aggregate.Append(ctx, s.eventStore, c, AggregateType, EventCouponDeactivated, CouponDeactivated{
		Code:          c.Code,
		DeactivatedAt: s.now().UTC(),
	})
	return err
}
