// Package storage holds backend-independent helpers shared by the postgres
// and memory stores.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	contractx "github.com/voxdesk/voxdesk/engine/contract"
)

// Seed inserts the demo catalog when the store is empty, so a fresh
// deployment has something to sell and book against.
func Seed(ctx context.Context, inventory contractx.InventoryLedger, products contractx.ProductStore) error {
	existing, err := inventory.ActiveProducts(ctx)
	if err != nil {
		return fmt.Errorf("check catalog: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	log.Info().Msg("seeding empty catalog")
	demo := []contractx.Product{
		{
			Name:        "Premium Widget",
			Description: "High quality widget for all your needs",
			Price:       decimal.RequireFromString("29.99"),
			Stock:       50,
			Category:    "Widgets",
			Active:      true,
		},
		{
			Name:        "Super Gadget",
			Description: "The latest gadget in tech",
			Price:       decimal.RequireFromString("199.99"),
			Stock:       15,
			Category:    "Gadgets",
			Active:      true,
		},
		{
			Name:        "Consultation Hour",
			Description: "One hour consultation with expert",
			Price:       decimal.RequireFromString("150.00"),
			Stock:       100,
			Category:    "Services",
			Active:      true,
		},
	}
	for i := range demo {
		if err := products.CreateProduct(ctx, &demo[i]); err != nil {
			return fmt.Errorf("seed product %q: %w", demo[i].Name, err)
		}
	}
	return nil
}
