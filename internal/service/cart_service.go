package service

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// CartService инкапсулирует операции над корзиной
type CartService struct {
	carts repository.CartRepository
}

func NewCartService(carts repository.CartRepository) *CartService {
	return &CartService{carts: carts}
}

// Add добавляет товар в корзину; повторный вызов накапливает количество
func (s *CartService) Add(ctx context.Context, userID, productID, quantity int64) error {
	if userID <= 0 || productID <= 0 || quantity <= 0 {
		return ErrInvalidInput
	}
	return s.carts.Add(ctx, userID, productID, quantity)
}

// Update устанавливает абсолютное количество для строки корзины
func (s *CartService) Update(ctx context.Context, userID, productID, quantity int64) error {
	if userID <= 0 || productID <= 0 || quantity <= 0 {
		return ErrInvalidInput
	}
	return s.carts.Update(ctx, userID, productID, quantity)
}

func (s *CartService) Remove(ctx context.Context, userID, productID int64) error {
	if userID <= 0 || productID <= 0 {
		return ErrInvalidInput
	}
	return s.carts.Remove(ctx, userID, productID)
}

func (s *CartService) List(ctx context.Context, userID int64) ([]domain.CartItemView, error) {
	if userID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.carts.List(ctx, userID)
}
