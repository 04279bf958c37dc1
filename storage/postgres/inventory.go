package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	contractx "github.com/voxdesk/voxdesk/engine/contract"
)

func (s *Store) ActiveProducts(ctx context.Context) ([]contractx.Product, error) {
	var products []contractx.Product
	err := s.db.NewSelect().
		Model(&products).
		Where("active = TRUE").
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	return products, nil
}

func (s *Store) Products(ctx context.Context) ([]contractx.Product, error) {
	var products []contractx.Product
	err := s.db.NewSelect().Model(&products).Order("name ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *Store) ProductByID(ctx context.Context, id int64) (*contractx.Product, error) {
	var product contractx.Product
	err := s.db.NewSelect().Model(&product).Where("p.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contractx.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product id=%d: %w", id, err)
	}
	return &product, nil
}

func (s *Store) ProductByName(ctx context.Context, name string) (*contractx.Product, error) {
	var product contractx.Product
	err := s.db.NewSelect().
		Model(&product).
		Where("lower(p.name) = lower(?)", name).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contractx.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product name=%q: %w", name, err)
	}
	return &product, nil
}

// ReserveStock locks each product row, verifies stock, and decrements, all
// inside one transaction. Any shortfall rolls back every decrement.
func (s *Store) ReserveStock(ctx context.Context, lines []contractx.StockLine) ([]contractx.OrderItem, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no stock lines", contractx.ErrValidation)
	}

	items := make([]contractx.OrderItem, 0, len(lines))
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, line := range lines {
			var product contractx.Product
			err := tx.NewSelect().
				Model(&product).
				Where("p.id = ?", line.ProductID).
				For("UPDATE").
				Scan(ctx)
			if errors.Is(err, sql.ErrNoRows) {
				return &contractx.ProductNotFoundError{Name: line.ProductName}
			}
			if err != nil {
				return fmt.Errorf("lock product id=%d: %w", line.ProductID, err)
			}

			if product.Stock < line.Quantity {
				return &contractx.InsufficientStockError{
					Name:      product.Name,
					Requested: line.Quantity,
					Available: product.Stock,
				}
			}

			_, err = tx.NewUpdate().
				Model((*contractx.Product)(nil)).
				Set("stock = stock - ?", line.Quantity).
				Where("id = ?", line.ProductID).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("decrement stock id=%d: %w", line.ProductID, err)
			}

			items = append(items, contractx.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     product.Price,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

/* --------------------------- Admin surface --------------------------- */

func (s *Store) CreateProduct(ctx context.Context, product *contractx.Product) error {
	if _, err := s.db.NewInsert().Model(product).Exec(ctx); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, id int64, patch contractx.ProductPatch) (*contractx.Product, error) {
	product, err := s.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProductPatch(product, patch)

	if _, err := s.db.NewUpdate().Model(product).WherePK().Exec(ctx); err != nil {
		return nil, fmt.Errorf("update product id=%d: %w", id, err)
	}
	return product, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().Model((*contractx.Product)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete product id=%d: %w", id, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return contractx.ErrNotFound
	}
	return nil
}

func applyProductPatch(product *contractx.Product, patch contractx.ProductPatch) {
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.ImageURL != nil {
		product.ImageURL = *patch.ImageURL
	}
	if patch.Active != nil {
		product.Active = *patch.Active
	}
}
