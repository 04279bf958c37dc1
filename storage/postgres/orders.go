package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	contractx "github.com/voxdesk/voxdesk/engine/contract"
)

func (s *Store) CreateOrder(ctx context.Context, order *contractx.Order) error {
	if order == nil {
		return fmt.Errorf("%w: nil order", contractx.ErrValidation)
	}
	if order.Status == "" {
		order.Status = contractx.OrderPending
	}
	if _, err := s.db.NewInsert().Model(order).Exec(ctx); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *Store) Orders(ctx context.Context) ([]contractx.Order, error) {
	var orders []contractx.Order
	err := s.db.NewSelect().Model(&orders).Order("created_at DESC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *Store) UpdateOrder(ctx context.Context, id int64, patch contractx.OrderPatch) (*contractx.Order, error) {
	var order contractx.Order
	err := s.db.NewSelect().Model(&order).Where("o.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contractx.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order id=%d: %w", id, err)
	}

	if patch.CustomerName != nil {
		order.CustomerName = *patch.CustomerName
	}
	if patch.Status != nil {
		order.Status = *patch.Status
	}

	if _, err := s.db.NewUpdate().Model(&order).WherePK().Exec(ctx); err != nil {
		return nil, fmt.Errorf("update order id=%d: %w", id, err)
	}
	return &order, nil
}
