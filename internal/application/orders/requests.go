package orders

import (
	"github.com/andrescamacho/mediator-go/internal/domain/order"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// GetOrderQuery looks up an order by ID
type GetOrderQuery struct {
	mediator.Returns[*order.Order]
	OrderID int `json:"order_id" validate:"required,gt=0"`
}

// CreateOrderCommand places an order and returns its ID
type CreateOrderCommand struct {
	mediator.Returns[int]
	ProductName string  `json:"product_name" validate:"required,max=200"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// DeleteOrderCommand removes an order
type DeleteOrderCommand struct {
	mediator.Void
	OrderID int `json:"order_id" validate:"required,gt=0"`
}
