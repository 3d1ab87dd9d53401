package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"storefront/internal/domain"
)

// PostgresUsers Postgres-репозиторий пользователей
type PostgresUsers struct{ store *PostgresStore }

func NewPostgresUsers(store *PostgresStore) *PostgresUsers {
	return &PostgresUsers{store: store}
}

var _ UserRepository = (*PostgresUsers)(nil)

func (r *PostgresUsers) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (username, fullname, email, phone, address, password, role, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	          RETURNING id, created_at`

	err := r.store.q(ctx).QueryRowContext(ctx, query,
		u.Username, u.Fullname, u.Email, u.Phone, u.Address, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PostgresUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT id, username, fullname, email, phone, address, password, role, COALESCE(avatar, ''), created_at
	          FROM users WHERE username = $1`

	var u domain.User
	err := r.store.q(ctx).QueryRowContext(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.Fullname, &u.Email, &u.Phone, &u.Address,
		&u.PasswordHash, &u.Role, &u.Avatar, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user by username: %w", err)
	}
	return &u, nil
}

func (r *PostgresUsers) UpdateProfile(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET fullname = $1, email = $2, phone = $3, address = $4
	          WHERE username = $5`

	res, err := r.store.q(ctx).ExecContext(ctx, query,
		u.Fullname, u.Email, u.Phone, u.Address, u.Username)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
