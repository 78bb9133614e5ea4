package setup

import (
	"context"
	"fmt"

	"github.com/andrescamacho/mediator-go/internal/application/orders"
	"github.com/andrescamacho/mediator-go/internal/application/users"
	"github.com/andrescamacho/mediator-go/internal/domain/order"
	"github.com/andrescamacho/mediator-go/internal/domain/shared"
	"github.com/andrescamacho/mediator-go/internal/domain/user"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
	"github.com/andrescamacho/mediator-go/pkg/services"
)

// HandlerRegistry holds the application dependencies the handler modules
// resolve from the container
type HandlerRegistry struct {
	userRepo  user.Repository
	orderRepo order.Repository

	// Optional collaborators
	orderCache     order.Cache
	eventPublisher order.EventPublisher
	clock          shared.Clock
	observers      []mediator.Observer
}

// Option configures optional HandlerRegistry dependencies
type Option func(*HandlerRegistry)

// WithOrderCache enables the read-through order cache
func WithOrderCache(cache order.Cache) Option {
	return func(r *HandlerRegistry) { r.orderCache = cache }
}

// WithEventPublisher publishes order events
func WithEventPublisher(publisher order.EventPublisher) Option {
	return func(r *HandlerRegistry) { r.eventPublisher = publisher }
}

// WithClock overrides the system clock
func WithClock(clock shared.Clock) Option {
	return func(r *HandlerRegistry) { r.clock = clock }
}

// WithObservers attaches dispatch observers to the mediator
func WithObservers(observers ...mediator.Observer) Option {
	return func(r *HandlerRegistry) { r.observers = append(r.observers, observers...) }
}

// NewHandlerRegistry creates a new handler registry with required dependencies
func NewHandlerRegistry(userRepo user.Repository, orderRepo order.Repository, opts ...Option) *HandlerRegistry {
	r := &HandlerRegistry{
		userRepo:  userRepo,
		orderRepo: orderRepo,
		clock:     shared.RealClock{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Modules returns every application handler module
func Modules() []*mediator.Module {
	return []*mediator.Module{users.Module, orders.Module}
}

// Register adds the dependencies, the handler modules and the mediator to c
func (r *HandlerRegistry) Register(c *services.Collection) error {
	if r.userRepo == nil || r.orderRepo == nil {
		return fmt.Errorf("user and order repositories are required")
	}

	if err := services.AddInstance(c, r.userRepo); err != nil {
		return err
	}
	if err := services.AddInstance(c, r.orderRepo); err != nil {
		return err
	}
	if err := services.AddInstance(c, r.clock); err != nil {
		return err
	}
	if r.orderCache != nil {
		if err := services.AddInstance(c, r.orderCache); err != nil {
			return err
		}
	}
	if r.eventPublisher != nil {
		if err := services.AddInstance(c, r.eventPublisher); err != nil {
			return err
		}
	}
	if len(r.observers) > 0 {
		if err := services.AddInstance(c, mediator.Observers(r.observers...)); err != nil {
			return err
		}
	}

	return services.AddMediator(c, Modules()...)
}

// CreateConfiguredMediator builds a container with every handler registered
// and returns its mediator. Close the provider when done.
func (r *HandlerRegistry) CreateConfiguredMediator(ctx context.Context) (mediator.Mediator, *services.Provider, error) {
	c := services.NewCollection()
	if err := r.Register(c); err != nil {
		return nil, nil, err
	}

	provider := c.Build()
	m, err := services.Get[mediator.Mediator](ctx, provider)
	if err != nil {
		_ = provider.Close()
		return nil, nil, err
	}
	return m, provider, nil
}
