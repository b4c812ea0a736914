package product

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventProductCreated      = "ProductCreated"
	EventProductUpdated      = "ProductUpdated"
	EventProductDeleted      = "ProductDeleted"
	EventVariantAdded        = "VariantAdded"
	EventVariantPriceChanged = "VariantPriceChanged"
	EventVariantDeactivated  = "VariantDeactivated"
)

type ProductCreated struct {
	ProductID   string    `json:"product_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Variants    []Variant `json:"variants"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProductUpdated struct {
	ProductID   string    `json:"product_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductDeleted struct {
	ProductID string    `json:"product_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

type VariantAdded struct {
	ProductID string    `json:"product_id"`
	Variant   Variant   `json:"variant"`
	AddedAt   time.Time `json:"added_at"`
}

type VariantPriceChanged struct {
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id"`
	Price     decimal.Decimal `json:"price"`
	ChangedAt time.Time       `json:"changed_at"`
}

type VariantDeactivated struct {
	ProductID     string    `json:"product_id"`
	VariantID     string    `json:"variant_id"`
	DeactivatedAt time.Time `json:"deactivated_at"`
}
