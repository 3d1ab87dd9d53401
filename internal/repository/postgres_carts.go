package repository

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/domain"
)

// PostgresCarts Postgres-репозиторий корзины
type PostgresCarts struct{ store *PostgresStore }

func NewPostgresCarts(store *PostgresStore) *PostgresCarts {
	return &PostgresCarts{store: store}
}

var _ CartRepository = (*PostgresCarts)(nil)

func (r *PostgresCarts) Add(ctx context.Context, userID, productID, quantity int64) error {
	query := `INSERT INTO cart_items (user_id, product_id, quantity, added_at)
	          VALUES ($1, $2, $3, NOW())
	          ON CONFLICT (user_id, product_id)
	          DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`

	if _, err := r.store.q(ctx).ExecContext(ctx, query, userID, productID, quantity); err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

func (r *PostgresCarts) Update(ctx context.Context, userID, productID, quantity int64) error {
	query := `UPDATE cart_items SET quantity = $1 WHERE user_id = $2 AND product_id = $3`

	res, err := r.store.q(ctx).ExecContext(ctx, query, quantity, userID, productID)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update cart item rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresCarts) Remove(ctx context.Context, userID, productID int64) error {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`
	if _, err := r.store.q(ctx).ExecContext(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

func (r *PostgresCarts) Clear(ctx context.Context, userID int64) error {
	if _, err := r.store.q(ctx).ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (r *PostgresCarts) List(ctx context.Context, userID int64) ([]domain.CartItemView, error) {
	query := `SELECT c.user_id, c.product_id, c.quantity, c.added_at,
	                 p.name, p.price, p.image_url, u.fullname
	          FROM cart_items c
	          JOIN products p ON p.product_id = c.product_id
	          JOIN users u ON u.id = p.vendor_id
	          WHERE c.user_id = $1
	          ORDER BY c.added_at, c.product_id`

	rows, err := r.store.q(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	out := make([]domain.CartItemView, 0)
	for rows.Next() {
		var v domain.CartItemView
		if err := rows.Scan(
			&v.UserID, &v.ProductID, &v.Quantity, &v.AddedAt,
			&v.Name, &v.Price, &v.ImageURL, &v.SellerName,
		); err != nil {
			return nil, fmt.Errorf("scan cart row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

// LinesForCheckout locks the user's cart rows (FOR UPDATE OF c) so two
// checkouts for the same user serialize on the same rows, while other users
// are untouched. LEFT JOIN keeps a line whose product was deleted visible as
// a NULL price, which is reported as ErrNotFound instead of silently
// dropping the line.
func (r *PostgresCarts) LinesForCheckout(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	query := `SELECT c.product_id, c.quantity, p.price
	          FROM cart_items c
	          LEFT JOIN products p ON p.product_id = c.product_id
	          WHERE c.user_id = $1
	          ORDER BY c.added_at, c.product_id
	          FOR UPDATE OF c`

	rows, err := r.store.q(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	out := make([]domain.CartLine, 0)
	for rows.Next() {
		var line domain.CartLine
		var price sql.NullFloat64
		if err := rows.Scan(&line.ProductID, &line.Quantity, &price); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		if !price.Valid {
			return nil, fmt.Errorf("product %d: %w", line.ProductID, ErrNotFound)
		}
		line.Price = price.Float64
		out = append(out, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}
