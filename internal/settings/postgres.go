package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresProvider stores settings in the single-row store_settings table.
type PostgresProvider struct {
	db *sql.DB
}

func NewPostgresProvider(db *sql.DB) *PostgresProvider {
	return &PostgresProvider{db: db}
}

func (p *PostgresProvider) GetShipping(ctx context.Context) (Shipping, error) {
	var s Shipping
	err := p.db.QueryRowContext(ctx,
		`SELECT free_shipping_threshold, standard_shipping_cost, express_shipping_cost,
		        standard_delivery_estimate, express_delivery_estimate
		 FROM store_settings WHERE id = 1`,
	).Scan(&s.FreeShippingThreshold, &s.StandardShippingCost, &s.ExpressShippingCost,
		&s.StandardDeliveryEstimate, &s.ExpressDeliveryEstimate)
	if errors.Is(err, sql.ErrNoRows) {
		return Shipping{}, ErrNotConfigured
	}
	if err != nil {
		return Shipping{}, fmt.Errorf("failed to load shipping settings: %w", err)
	}
	return s, nil
}

func (p *PostgresProvider) SaveShipping(ctx context.Context, s Shipping) error {
	if err := s.Validate(); err != nil {
		return err
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO store_settings (id, free_shipping_threshold, standard_shipping_cost, express_shipping_cost,
		                             standard_delivery_estimate, express_delivery_estimate, updated_at)
		 VALUES (1, $1, $2, $3, $4, $5, now())
		 ON CONFLICT (id) DO UPDATE SET
		   free_shipping_threshold = EXCLUDED.free_shipping_threshold,
		   standard_shipping_cost = EXCLUDED.standard_shipping_cost,
		   express_shipping_cost = EXCLUDED.express_shipping_cost,
		   standard_delivery_estimate = EXCLUDED.standard_delivery_estimate,
		   express_delivery_estimate = EXCLUDED.express_delivery_estimate,
		   updated_at = now()`,
		s.FreeShippingThreshold, s.StandardShippingCost, s.ExpressShippingCost,
		s.StandardDeliveryEstimate, s.ExpressDeliveryEstimate,
	)
	if err != nil {
		return fmt.Errorf("failed to save shipping settings: %w", err)
	}
	return nil
}
