package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

// PostgresOrders Postgres-репозиторий заказов
type PostgresOrders struct{ store *PostgresStore }

func NewPostgresOrders(store *PostgresStore) *PostgresOrders {
	return &PostgresOrders{store: store}
}

var _ OrderRepository = (*PostgresOrders)(nil)

func (r *PostgresOrders) Create(ctx context.Context, o *domain.Order) error {
	query := `INSERT INTO orders (order_id, user_id, total_price, status, created_at)
	          VALUES ($1, $2, $3, $4, NOW())
	          RETURNING created_at`

	err := r.store.q(ctx).QueryRowContext(ctx, query,
		o.ID, o.UserID, o.TotalPrice, o.Status,
	).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *PostgresOrders) AddItems(ctx context.Context, items []domain.OrderItem) error {
	query := `INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
	          VALUES ($1, $2, $3, $4)`

	for _, it := range items {
		if _, err := r.store.q(ctx).ExecContext(ctx, query,
			it.OrderID, it.ProductID, it.Quantity, it.Price); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (r *PostgresOrders) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT order_id, user_id, total_price, status, created_at
	          FROM orders WHERE order_id = $1`

	var o domain.Order
	err := r.store.q(ctx).QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.UserID, &o.TotalPrice, &o.Status, &o.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return &o, nil
}

const orderItemRowsQuery = `SELECT o.order_id, o.user_id, o.total_price, o.status, o.created_at,
       oi.product_id, oi.quantity, oi.price_at_purchase,
       p.name, p.image_url
FROM orders o
JOIN order_items oi ON oi.order_id = o.order_id
JOIN products p ON p.product_id = oi.product_id
WHERE %s
ORDER BY o.created_at DESC, oi.id`

func (r *PostgresOrders) ItemRowsForVendor(ctx context.Context, vendorID int64) ([]OrderItemRow, error) {
	return r.scanItemRows(ctx, fmt.Sprintf(orderItemRowsQuery, "p.vendor_id = $1"), vendorID)
}

func (r *PostgresOrders) ItemRowsForUser(ctx context.Context, userID int64) ([]OrderItemRow, error) {
	return r.scanItemRows(ctx, fmt.Sprintf(orderItemRowsQuery, "o.user_id = $1"), userID)
}

func (r *PostgresOrders) scanItemRows(ctx context.Context, query string, arg any) ([]OrderItemRow, error) {
	rows, err := r.store.q(ctx).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query order item rows: %w", err)
	}
	defer rows.Close()

	out := make([]OrderItemRow, 0)
	for rows.Next() {
		var row OrderItemRow
		if err := rows.Scan(
			&row.Order.ID, &row.Order.UserID, &row.Order.TotalPrice, &row.Order.Status, &row.Order.CreatedAt,
			&row.Item.ProductID, &row.Item.Quantity, &row.Item.Price,
			&row.Item.Name, &row.Item.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}
