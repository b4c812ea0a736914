package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Read model collections
const (
	CollectionProducts = "products"
	CollectionCoupons  = "coupons"
	CollectionOrders   = "orders"
)

// ReadStoreInterface stores read models as JSON documents grouped by collection
type ReadStoreInterface interface {
	// Set stores (or replaces) a read model
	Set(ctx context.Context, collection, id string, data any) error

	// Get unmarshals the read model into dest and reports whether it exists
	Get(ctx context.Context, collection, id string, dest any) (bool, error)

	// List returns every document in a collection
	List(ctx context.Context, collection string) ([]json.RawMessage, error)

	// Delete removes a read model; deleting a missing id is not an error
	Delete(ctx context.Context, collection, id string) error
}

// GetAs loads a typed read model
func GetAs[T any](ctx context.Context, rs ReadStoreInterface, collection, id string) (*T, bool, error) {
	var v T
	ok, err := rs.Get(ctx, collection, id, &v)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &v, true, nil
}

// ListAs loads every read model of a collection
func ListAs[T any](ctx context.Context, rs ReadStoreInterface, collection string) ([]*T, error) {
	docs, err := rs.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := json.Unmarshal(doc, &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s document: %w", collection, err)
		}
		out = append(out, &v)
	}
	return out, nil
}

// Update applies fn to an existing read model and stores the result.
// It reports false when the model does not exist.
func Update[T any](ctx context.Context, rs ReadStoreInterface, collection, id string, fn func(*T)) (bool, error) {
	current, ok, err := GetAs[T](ctx, rs, collection, id)
	if err != nil || !ok {
		return false, err
	}
	fn(current)
	return true, rs.Set(ctx, collection, id, current)
}
