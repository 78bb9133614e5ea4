package orders

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/andrescamacho/mediator-go/internal/domain/order"
	"github.com/andrescamacho/mediator-go/internal/domain/shared"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/logging"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
	"github.com/andrescamacho/mediator-go/pkg/services"
)

// OrderHandlers handles every order request. The cache and publisher are
// optional.
type OrderHandlers struct {
	repo      order.Repository
	cache     order.Cache
	publisher order.EventPublisher
	clock     shared.Clock
}

// NewOrderHandlers creates order handlers. A nil cache disables caching, a
// nil publisher drops events and a nil clock uses the system time.
func NewOrderHandlers(repo order.Repository, cache order.Cache, publisher order.EventPublisher, clock shared.Clock) *OrderHandlers {
	if clock == nil {
		clock = shared.RealClock{}
	}
	return &OrderHandlers{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		clock:     clock,
	}
}

func newOrderHandlers(ctx context.Context, r mediator.Resolver) (*OrderHandlers, error) {
	repo, err := services.Get[order.Repository](ctx, r)
	if err != nil {
		return nil, err
	}
	cache, _, err := services.GetOptional[order.Cache](ctx, r)
	if err != nil {
		return nil, err
	}
	publisher, _, err := services.GetOptional[order.EventPublisher](ctx, r)
	if err != nil {
		return nil, err
	}
	clock, _, err := services.GetOptional[shared.Clock](ctx, r)
	if err != nil {
		return nil, err
	}
	return NewOrderHandlers(repo, cache, publisher, clock), nil
}

// GetOrder reads through the cache
func (h *OrderHandlers) GetOrder(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	logger := logging.LoggerFromContext(ctx)

	if h.cache != nil {
		cached, ok, err := h.cache.Get(ctx, query.OrderID)
		if err != nil {
			logger.Warn("order cache read failed", zap.Int("order_id", query.OrderID), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	o, err := h.repo.FindByID(ctx, query.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %d: %w", query.OrderID, err)
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, o); err != nil {
			logger.Warn("order cache write failed", zap.Int("order_id", o.ID), zap.Error(err))
		}
	}
	return o, nil
}

// CreateOrder stores a new order and returns its ID
func (h *OrderHandlers) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (int, error) {
	o := order.NewOrder(cmd.ProductName, cmd.Price, h.clock.Now())
	if err := h.repo.Add(ctx, o); err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}

	logging.LoggerFromContext(ctx).Info("order created",
		zap.Int("order_id", o.ID),
		zap.String("product", o.ProductName),
		zap.Float64("price", o.Price))

	h.publish(ctx, order.Created{Order: *o, OccurredAt: h.clock.Now()})
	return o.ID, nil
}

// DeleteOrder removes an order and evicts it from the cache
func (h *OrderHandlers) DeleteOrder(ctx context.Context, cmd DeleteOrderCommand) error {
	if err := h.repo.Delete(ctx, cmd.OrderID); err != nil {
		return fmt.Errorf("failed to delete order %d: %w", cmd.OrderID, err)
	}

	if h.cache != nil {
		if err := h.cache.Delete(ctx, cmd.OrderID); err != nil {
			logging.LoggerFromContext(ctx).Warn("order cache eviction failed",
				zap.Int("order_id", cmd.OrderID), zap.Error(err))
		}
	}

	logging.LoggerFromContext(ctx).Info("order deleted", zap.Int("order_id", cmd.OrderID))
	h.publish(ctx, order.Deleted{OrderID: cmd.OrderID, OccurredAt: h.clock.Now()})
	return nil
}

// publish is best effort: the order change is already committed
func (h *OrderHandlers) publish(ctx context.Context, evt order.Event) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(ctx, evt); err != nil {
		logging.LoggerFromContext(ctx).Warn("failed to publish order event",
			zap.String("event", evt.EventType()),
			zap.Int("order_id", evt.AggregateID()),
			zap.Error(err))
	}
}
