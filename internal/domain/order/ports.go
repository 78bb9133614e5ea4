package order

import "context"

// Repository defines order persistence operations
type Repository interface {
	FindByID(ctx context.Context, id int) (*Order, error)
	// Add stores o and sets its ID
	Add(ctx context.Context, o *Order) error
	// Delete removes the order, returning ErrNotFound if it does not exist
	Delete(ctx context.Context, id int) error
}

// Cache is a read-through cache in front of the Repository
type Cache interface {
	// Get returns ok=false on a miss
	Get(ctx context.Context, id int) (o *Order, ok bool, err error)
	Set(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id int) error
}

// EventPublisher delivers order events to other services
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
