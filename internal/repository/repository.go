package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

// ErrNotFound возвращается, когда сущность не найдена
var ErrNotFound = errors.New("not found")

// ErrDuplicate возвращается при нарушении уникальности (например, username)
var ErrDuplicate = errors.New("already exists")

// ProductFilter параметры фильтрации списка товаров.
// Nil pointer means the predicate is off; predicates are combined with AND
// as a parameterized list, never by concatenating user input into SQL.
type ProductFilter struct {
	Category *string
	MinPrice *float64
	MaxPrice *float64
}

// ProductRepository интерфейс репозитория товаров
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetDetail(ctx context.Context, id int64) (*domain.ProductDetail, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]domain.Product, error)
}

// CartRepository интерфейс репозитория корзины
type CartRepository interface {
	// Add upserts a cart line; on conflict the quantity is added to the
	// existing one.
	Add(ctx context.Context, userID, productID, quantity int64) error
	// Update sets the quantity to an absolute value.
	Update(ctx context.Context, userID, productID, quantity int64) error
	Remove(ctx context.Context, userID, productID int64) error
	Clear(ctx context.Context, userID int64) error
	List(ctx context.Context, userID int64) ([]domain.CartItemView, error)
	// LinesForCheckout reads the user's cart lines with the current product
	// price. Inside a transaction the cart rows are locked until commit, so
	// a concurrent checkout for the same user waits and then sees an empty
	// cart. A line whose product no longer exists yields ErrNotFound.
	LinesForCheckout(ctx context.Context, userID int64) ([]domain.CartLine, error)
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	AddItems(ctx context.Context, items []domain.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// ItemRowsForVendor and ItemRowsForUser return the flat order/item join
	// ordered by order creation time (newest first) and row read order.
	// Grouping is the read model's job, not the repository's.
	ItemRowsForVendor(ctx context.Context, vendorID int64) ([]OrderItemRow, error)
	ItemRowsForUser(ctx context.Context, userID int64) ([]OrderItemRow, error)
}

// OrderItemRow одна строка плоской выборки заказ+позиция
type OrderItemRow struct {
	Order domain.Order
	Item  domain.OrderViewItem
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, u *domain.User) error
}

// TxManager абстракция транзакции. Postgres реализация несёт *sql.Tx через
// контекст; in-memory — глобальная блокировка записи.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
