package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// ShippingFee фиксированная стоимость доставки, добавляется к каждому заказу
const ShippingFee = 5.99

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrCheckoutFailed  = errors.New("checkout failed")
	ErrProductNotFound = errors.New("product not found")
)

// CheckoutService превращает корзину пользователя в заказ — атомарно.
// Чтение корзины, вставка заказа и позиций и очистка корзины выполняются
// в одной транзакции; любой сбой откатывает всё
type CheckoutService struct {
	carts  repository.CartRepository
	orders repository.OrderRepository
	tx     repository.TxManager
}

func NewCheckoutService(carts repository.CartRepository, orders repository.OrderRepository, tx repository.TxManager) *CheckoutService {
	return &CheckoutService{carts: carts, orders: orders, tx: tx}
}

// Checkout выполняет чекаут для пользователя и возвращает id нового заказа.
//
// Порядок шагов фиксирован: прочитать строки корзины с текущими ценами
// (под блокировкой строк), отклонить пустую корзину до любой записи,
// посчитать сумму по тому же снимку цен, вставить заказ и позиции с
// зафиксированными ценами, очистить корзину. Цена между подсчётом суммы и
// вставкой позиций не перечитывается
func (s *CheckoutService) Checkout(ctx context.Context, userID int64) (uuid.UUID, error) {
	if userID <= 0 {
		return uuid.Nil, ErrInvalidInput
	}

	var orderID uuid.UUID
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		lines, err := s.carts.LinesForCheckout(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// a cart line points at a deleted product: the cart is
				// inconsistent, abort instead of silently skipping the line
				return fmt.Errorf("%w: %v", ErrProductNotFound, err)
			}
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		total := ShippingFee
		for _, line := range lines {
			total += line.Price * float64(line.Quantity)
		}

		order := domain.Order{
			ID:         uuid.New(),
			UserID:     userID,
			TotalPrice: total,
			Status:     domain.OrderStatusPending,
		}
		if err := s.orders.Create(ctx, &order); err != nil {
			return err
		}

		items := make([]domain.OrderItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, domain.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Price,
			})
		}
		if err := s.orders.AddItems(ctx, items); err != nil {
			return err
		}

		if err := s.carts.Clear(ctx, userID); err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmptyCart) || errors.Is(err, ErrInvalidInput) {
			return uuid.Nil, err
		}
		slog.Error("checkout aborted", "user_id", userID, "error", err)
		return uuid.Nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}
	return orderID, nil
}
