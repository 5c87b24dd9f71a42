package postgres

import (
	"context"
	"fmt"

	"github.com/eventloom/server/internal/domain/orders"
	"github.com/jackc/pgx/v5"
)

var _ orders.Repository = (*OrderRepository)(nil)

const orderColumns = `id, event_id, buyer_id, total, created_at`

func scanOrder(row pgx.Row) (*orders.Order, error) {
	var order orders.Order
	err := row.Scan(
		&order.ID,
		&order.EventID,
		&order.BuyerID,
		&order.Total,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) Create(ctx context.Context, order orders.Order) (*orders.Order, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO orders (id, event_id, buyer_id, total)
VALUES ($1, $2, $3, $4)
RETURNING `+orderColumns,
		order.ID,
		order.EventID,
		order.BuyerID,
		order.Total,
	)

	created, err := scanOrder(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, orders.ErrEventNotFound
		}
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return created, nil
}

func (r *OrderRepository) ListByEvent(ctx context.Context, eventID string) ([]orders.Order, error) {
	return r.list(ctx, `
SELECT `+orderColumns+`
  FROM orders
 WHERE event_id = $1
 ORDER BY created_at DESC`, eventID)
}

func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]orders.Order, error) {
	return r.list(ctx, `
SELECT `+orderColumns+`
  FROM orders
 WHERE buyer_id = $1
 ORDER BY created_at DESC`, buyerID)
}

func (r *OrderRepository) list(ctx context.Context, query string, arg any) ([]orders.Order, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var items []orders.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		items = append(items, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return items, nil
}
