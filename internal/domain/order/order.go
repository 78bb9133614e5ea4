package order

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no order has the requested ID
var ErrNotFound = errors.New("order not found")

// FirstID is the lowest ID assigned to a new order
const FirstID = 1001

// Order is a placed order for a single product
type Order struct {
	ID          int       `json:"id"`
	ProductName string    `json:"product_name"`
	Price       float64   `json:"price"`
	OrderDate   time.Time `json:"order_date"`
}

// NewOrder creates an order dated now that has not been stored yet
func NewOrder(productName string, price float64, now time.Time) *Order {
	return &Order{
		ProductName: productName,
		Price:       price,
		OrderDate:   now.UTC(),
	}
}
