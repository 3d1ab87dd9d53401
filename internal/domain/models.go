package domain

import (
	"time"

	"github.com/google/uuid"
)

// User учётная запись магазина. Role отличает покупателя от продавца
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Fullname     string    `json:"fullname"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Product представляет товар витрины
type Product struct {
	ID          int64     `json:"product_id"`
	VendorID    int64     `json:"vendor_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int64     `json:"stock"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductDetail товар вместе с публичным профилем продавца
type ProductDetail struct {
	Product
	VendorName   string `json:"vendor_name"`
	VendorEmail  string `json:"vendor_email"`
	VendorPhone  string `json:"vendor_phone"`
	VendorAvatar string `json:"vendor_avatar,omitempty"`
}

// CartItem позиция в корзине, уникальна по (user_id, product_id)
type CartItem struct {
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// CartItemView позиция корзины с данными товара для отображения
type CartItemView struct {
	CartItem
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	ImageURL   string  `json:"image_url"`
	SellerName string  `json:"seller_name"`
}

// CartLine снимок строки корзины на момент checkout: количество плюс цена,
// прочитанная под блокировкой. Price is captured once, never re-read.
type CartLine struct {
	ProductID int64
	Quantity  int64
	Price     float64
}

// OrderStatus тип статуса заказа
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order сущность заказа. После создания не изменяется
type Order struct {
	ID         uuid.UUID   `json:"order_id"`
	UserID     int64       `json:"user_id"`
	TotalPrice float64     `json:"total_price"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}

// OrderItem позиция в заказе. Price — снимок цены на момент checkout,
// не живая ссылка на products.price
type OrderItem struct {
	OrderID   uuid.UUID `json:"order_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	Price     float64   `json:"price_at_purchase"`
}

// OrderViewItem строка заказа в истории, обогащённая данными товара
type OrderViewItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
}

// OrderView сгруппированный заказ для истории: шапка плюс позиции
// в порядке чтения
type OrderView struct {
	OrderID    uuid.UUID       `json:"order_id"`
	UserID     int64           `json:"user_id"`
	TotalPrice float64         `json:"total_price"`
	Status     OrderStatus     `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	Items      []OrderViewItem `json:"items"`
}
