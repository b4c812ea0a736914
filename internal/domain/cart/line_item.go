package cart

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/example/moringa-store/internal/pricing"
)

// MaxQuantity is the most units of one variant a cart line may hold.
const MaxQuantity = 99

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrQuantityTooLarge = errors.New("quantity must be at most 99")
	ErrInvalidProduct   = errors.New("product_id is required")
	ErrInvalidVariant   = errors.New("variant_id is required")
	ErrNegativePrice    = errors.New("unit price must not be negative")
)

// LineItem is one product variant in the cart. UnitPrice is the variant
// price at the time the item was added.
type LineItem struct {
	ProductID   string          `json:"product_id"`
	VariantID   string          `json:"variant_id"`
	ProductName string          `json:"product_name"`
	VariantName string          `json:"variant_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// NewLineItem validates and builds a line item.
func NewLineItem(productID, variantID, productName, variantName string, unitPrice decimal.Decimal, quantity int) (LineItem, error) {
	item := LineItem{
		ProductID:   productID,
		VariantID:   variantID,
		ProductName: productName,
		VariantName: variantName,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
	}
	if err := item.validate(); err != nil {
		return LineItem{}, err
	}
	return item, nil
}

func (l LineItem) validate() error {
	switch {
	case l.ProductID == "":
		return ErrInvalidProduct
	case l.VariantID == "":
		return ErrInvalidVariant
	case l.UnitPrice.IsNegative():
		return ErrNegativePrice
	case l.Quantity < 1:
		return ErrInvalidQuantity
	case l.Quantity > MaxQuantity:
		return ErrQuantityTooLarge
	}
	return nil
}

func (l LineItem) matches(productID, variantID string) bool {
	return l.ProductID == productID && l.VariantID == variantID
}

// LineTotal is unit price times quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l LineItem) line() pricing.Line {
	return pricing.Line{UnitPrice: l.UnitPrice, Quantity: l.Quantity}
}
