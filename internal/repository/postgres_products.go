package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"
)

// PostgresProducts Postgres-репозиторий товаров
type PostgresProducts struct{ store *PostgresStore }

func NewPostgresProducts(store *PostgresStore) *PostgresProducts {
	return &PostgresProducts{store: store}
}

var _ ProductRepository = (*PostgresProducts)(nil)

func (r *PostgresProducts) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (vendor_id, name, description, price, stock, category, image_url, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	          RETURNING product_id, created_at`

	err := r.store.q(ctx).QueryRowContext(ctx, query,
		p.VendorID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.ImageURL,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *PostgresProducts) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT product_id, vendor_id, name, description, price, stock, category, image_url, created_at
	          FROM products WHERE product_id = $1`

	var p domain.Product
	err := r.store.q(ctx).QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.VendorID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.ImageURL, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return &p, nil
}

func (r *PostgresProducts) GetDetail(ctx context.Context, id int64) (*domain.ProductDetail, error) {
	query := `SELECT p.product_id, p.vendor_id, p.name, p.description, p.price, p.stock, p.category, p.image_url, p.created_at,
	                 u.fullname, u.email, u.phone, COALESCE(u.avatar, '')
	          FROM products p
	          JOIN users u ON u.id = p.vendor_id
	          WHERE p.product_id = $1`

	var d domain.ProductDetail
	err := r.store.q(ctx).QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.VendorID, &d.Name, &d.Description, &d.Price, &d.Stock, &d.Category, &d.ImageURL, &d.CreatedAt,
		&d.VendorName, &d.VendorEmail, &d.VendorPhone, &d.VendorAvatar,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product detail: %w", err)
	}
	return &d, nil
}

func (r *PostgresProducts) Update(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products
	          SET vendor_id = $1, name = $2, description = $3, price = $4, stock = $5, category = $6, image_url = $7
	          WHERE product_id = $8`

	res, err := r.store.q(ctx).ExecContext(ctx, query,
		p.VendorID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.ImageURL, p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresProducts) Delete(ctx context.Context, id int64) error {
	res, err := r.store.q(ctx).ExecContext(ctx, `DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List собирает WHERE из параметризованных предикатов; пользовательский
// ввод в текст запроса не попадает
func (r *PostgresProducts) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	query := `SELECT product_id, vendor_id, name, description, price, stock, category, image_url, created_at
	          FROM products WHERE 1=1`
	args := make([]any, 0, 3)

	if f.Category != nil {
		args = append(args, *f.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		query += fmt.Sprintf(" AND price >= $%d", len(args))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		query += fmt.Sprintf(" AND price <= $%d", len(args))
	}
	query += " ORDER BY created_at DESC, product_id DESC"

	return r.scanProducts(ctx, query, args...)
}

func (r *PostgresProducts) ListByVendor(ctx context.Context, vendorID int64) ([]domain.Product, error) {
	query := `SELECT product_id, vendor_id, name, description, price, stock, category, image_url, created_at
	          FROM products WHERE vendor_id = $1
	          ORDER BY created_at DESC, product_id DESC`
	return r.scanProducts(ctx, query, vendorID)
}

func (r *PostgresProducts) scanProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.store.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.VendorID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.ImageURL, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}
