package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// Credentials параметры подключения к Postgres
type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// PostgresStore общее подключение для всех Postgres-репозиториев
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(cred *Credentials) (*PostgresStore, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(s.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// querier то, что умеют и *sql.DB, и *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type pgTxKey struct{}

// q returns the transaction carried by the context, or the bare connection
// pool. Repositories never care which one they got.
func (s *PostgresStore) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(pgTxKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// PostgresTx реализация TxManager поверх database/sql
type PostgresTx struct{ store *PostgresStore }

func NewPostgresTx(store *PostgresStore) *PostgresTx { return &PostgresTx{store: store} }

var _ TxManager = (*PostgresTx)(nil)

// WithTransaction выполняет fn в одной транзакции: commit при nil,
// откат при любой ошибке или панике. The tx handle travels in the context
// so that repository calls inside fn join the same transaction.
func (tx *PostgresTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t, err := tx.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = t.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, pgTxKey{}, t)); err != nil {
		if rbErr := t.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback: %v (original: %w)", rbErr, err)
		}
		return err
	}

	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
