package product

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/moringa-store/internal/domain/aggregate"
	"github.com/example/moringa-store/internal/infrastructure/store"
)

const AggregateType = "Product"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("variant not found")
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrInvalidName     = errors.New("name is required")
	ErrNoVariants      = errors.New("product needs at least one variant")
)

// Variant is a purchasable size or pack of a product, e.g. "100g".
type Variant struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Active bool            `json:"active"`
}

// VariantInput describes a variant to create.
type VariantInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func (in VariantInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrInvalidName
	}
	if !in.Price.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Variants    []Variant `json:"variants"`
	IsDeleted   bool      `json:"is_deleted,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

func (p *Product) GetID() string   { return p.ID }
func (p *Product) GetVersion() int { return p.Version }

// Variant returns the variant with id.
func (p *Product) Variant(id string) (Variant, bool) {
	i := slices.IndexFunc(p.Variants, func(v Variant) bool { return v.ID == id })
	if i < 0 {
		return Variant{}, false
	}
	return p.Variants[i], true
}

func (p *Product) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventProductCreated:
		var data ProductCreated
		if err := event.Decode(&data); err != nil {
			return err
		}
		p.ID = data.ProductID
		p.Name = data.Name
		p.Description = data.Description
		p.Variants = data.Variants
		p.CreatedAt = data.CreatedAt
		p.UpdatedAt = data.CreatedAt
	case EventProductUpdated:
		var data ProductUpdated
		if err := event.Decode(&data); err != nil {
			return err
		}
		p.Name = data.Name
		p.Description = data.Description
		p.UpdatedAt = data.UpdatedAt
	case EventProductDeleted:
		var data ProductDeleted
		if err := event.Decode(&data); err != nil {
			return err
		}
		p.IsDeleted = true
		p.UpdatedAt = data.DeletedAt
	case EventVariantAdded:
		var data VariantAdded
		if err := event.Decode(&data); err != nil {
			return err
		}
		p.Variants = append(p.Variants, data.Variant)
		p.UpdatedAt = data.AddedAt
	case EventVariantPriceChanged:
		var data VariantPriceChanged
		if err := event.Decode(&data); err != nil {
			return err
		}
		p.updateVariant(data.VariantID, func(v *Variant) { v.Price = data.Price })
		p.UpdatedAt = data.ChangedAt
	case EventVariantDeactivated:
		var data VariantDeactivated
		if err := event.Decode(&data); err != nil {
			return err
		}
		p.updateVariant(data.VariantID, func(v *Variant) { v.Active = false })
		p.UpdatedAt = data.DeactivatedAt
	}
	p.Version = event.Version
	return nil
}

func (p *Product) updateVariant(id string, fn func(*Variant)) {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			fn(&p.Variants[i])
			return
		}
	}
}

type Service struct {
	eventStore store.EventStoreInterface
	now        func() time.Time
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es, now: time.Now}
}

// Load returns a live product. Deleted products are not found.
func (s *Service) Load(ctx context.Context, productID string) (*Product, error) {
	p, found, err := aggregate.LoadAggregate(ctx, s.eventStore, productID, func() *Product { return &Product{} })
	if err != nil {
		return nil, err
	}
	if !found || p.IsDeleted {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, name, description string, variants []VariantInput) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	if len(variants) == 0 {
		return nil, ErrNoVariants
	}

	created := make([]Variant, 0, len(variants))
	for _, in := range variants {
		if err := in.validate(); err != nil {
			return nil, err
		}
		created = append(created, Variant{
			ID:     uuid.New().String(),
			Name:   strings.TrimSpace(in.Name),
			Price:  in.Price,
			Active: true,
		})
	}

	p := &Product{ID: uuid.New().String()}
	_, err := aggregate.Append(ctx, s.eventStore, p, AggregateType, EventProductCreated, ProductCreated{
		ProductID:   p.ID,
		Name:        strings.TrimSpace(name),
		Description: description,
		Variants:    created,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, productID, name, description string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}

	p, err := s.Load(ctx, productID)
	if err != nil {
		return err
	}

	_, err = aggregate.Append(ctx, s.eventStore, p, AggregateType, EventProductUpdated, ProductUpdated{
		ProductID:   productID,
		Name:        strings.TrimSpace(name),
		Description: description,
		UpdatedAt:   s.now().UTC(),
	})
	return err
}

func (s *Service) AddVariant(ctx context.Context, productID string, in VariantInput) (*Variant, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p, err := s.Load(ctx, productID)
	if err != nil {
		return nil, err
	}

	v := Variant{ID: uuid.New().String(), Name: strings.TrimSpace(in.Name), Price: in.Price, Active: true}
	_, err = aggregate.Append(ctx, s.eventStore, p, AggregateType, EventVariantAdded, VariantAdded{
		ProductID: productID,
		Variant:   v,
		AddedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// UpdateVariantPrice changes the price for future cart additions. Lines
// already in carts keep the price they were added at.
func (s *Service) UpdateVariantPrice(ctx context.Context, productID, variantID string, price decimal.Decimal) error {
	if !price.IsPositive() {
		return ErrInvalidPrice
	}

	p, err := s.Load(ctx, productID)
	if err != nil {
		return err
	}
	if _, ok := p.Variant(variantID); !ok {
		return ErrVariantNotFound
	}

	_, err = aggregate.Append(ctx, s.eventStore, p, AggregateType, EventVariantPriceChanged, VariantPriceChanged{
		ProductID: productID,
		VariantID: variantID,
		Price:     price,
		ChangedAt: s.now().UTC(),
	})
	return err
}

func (s *Service) DeactivateVariant(ctx context.Context, productID, variantID string) error {
	p, err := s.Load(ctx, productID)
	if err != nil {
		return err
	}
	v, ok := p.Variant(variantID)
	if !ok {
		return ErrVariantNotFound
	}
	if !v.Active {
		return nil
	}

	_, err = aggregate.Append(ctx, s.eventStore, p, AggregateType, EventVariantDeactivated, VariantDeactivated{
		ProductID:     productID,
		VariantID:     variantID,
		DeactivatedAt: s.now().UTC(),
	})
	return err
}

func (s *Service) Delete(ctx context.Context, productID string) error {
	p, err := s.Load(ctx, productID)
	if err != nil {
		return err
	}

	_, err = aggregate.Append(ctx, s.eventStore, p, AggregateType, EventProductDeleted, ProductDeleted{
		ProductID: productID,
		DeletedAt: s.now().UTC(),
	})
	return err
}
