package order

import "time"

// Event is an order lifecycle event
type Event interface {
	// EventType names the event, e.g. "order.created"
	EventType() string
	// AggregateID is the ID of the affected order
	AggregateID() int
}

// Created is raised after an order is stored
type Created struct {
	Order      Order     `json:"order"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (Created) EventType() string { return "order.created" }
func (e Created) AggregateID() int { return e.Order.ID }

// Deleted is raised after an order is removed
type Deleted struct {
	OrderID    int       `json:"order_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (Deleted) EventType() string { return "order.deleted" }
func (e Deleted) AggregateID() int { return e.OrderID }
