package service

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// OrderHistoryService read model истории заказов: собирает плоскую выборку
// заказ+позиция в сгруппированные представления. Только чтение
type OrderHistoryService struct {
	orders repository.OrderRepository
}

func NewOrderHistoryService(orders repository.OrderRepository) *OrderHistoryService {
	return &OrderHistoryService{orders: orders}
}

// OrdersForVendor заказы, содержащие товары продавца
func (s *OrderHistoryService) OrdersForVendor(ctx context.Context, vendorID int64) ([]domain.OrderView, error) {
	if vendorID <= 0 {
		return nil, ErrInvalidInput
	}
	rows, err := s.orders.ItemRowsForVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return groupOrderRows(rows), nil
}

// OrdersForUser заказы покупателя
func (s *OrderHistoryService) OrdersForUser(ctx context.Context, userID int64) ([]domain.OrderView, error) {
	if userID <= 0 {
		return nil, ErrInvalidInput
	}
	rows, err := s.orders.ItemRowsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return groupOrderRows(rows), nil
}

// groupOrderRows группирует строки по order_id. Порядок групп — порядок
// первого вхождения, порядок позиций внутри группы — порядок чтения
func groupOrderRows(rows []repository.OrderItemRow) []domain.OrderView {
	views := make([]domain.OrderView, 0)
	index := make(map[uuid.UUID]int)
	for _, row := range rows {
		i, ok := index[row.Order.ID]
		if !ok {
			i = len(views)
			index[row.Order.ID] = i
			views = append(views, domain.OrderView{
				OrderID:    row.Order.ID,
				UserID:     row.Order.UserID,
				TotalPrice: row.Order.TotalPrice,
				Status:     row.Order.Status,
				CreatedAt:  row.Order.CreatedAt,
			})
		}
		views[i].Items = append(views[i].Items, row.Item)
	}
	return views
}
