package mediator

import (
	"context"
	"reflect"
	"time"
)

// Sender dispatches requests to their handlers
type Sender interface {
	// Dispatch routes request to the handler registered for its runtime
	// type and returns the handler's result. Void requests yield nil
	Dispatch(ctx context.Context, request any) (any, error)

	// DispatchVoid routes a void request
	DispatchVoid(ctx context.Context, request VoidRequest) error
}

// Mediator is the dispatch entry point. It is cheap to create; the
// expensive per-type work lives in its WrapperCache
type Mediator interface {
	Sender
}

// Option configures a Mediator
type Option func(*mediator)

// WithWrapperCache makes the mediator use cache instead of the shared one
func WithWrapperCache(cache *WrapperCache) Option {
	return func(m *mediator) {
		if cache != nil {
			m.cache = cache
		}
	}
}

// WithDeclarations makes the mediator route the request types declared in
// d instead of those carried by its resolver
func WithDeclarations(d *Declarations) Option {
	return func(m *mediator) {
		if d != nil {
			m.declarations = d
		}
	}
}

// WithObserver attaches instrumentation to the mediator
func WithObserver(observer Observer) Option {
	return func(m *mediator) {
		if observer != nil {
			m.observer = observer
		}
	}
}

// mediator implements Mediator on top of a Resolver
type mediator struct {
	resolver     Resolver
	declarations *Declarations
	cache        *WrapperCache
	observer     Observer
}

// New creates a Mediator that obtains handlers from resolver. The request
// types it routes come from WithDeclarations, or else from resolver when it
// is a DeclarationSource
func New(resolver Resolver, opts ...Option) Mediator {
	m := &mediator{
		resolver: resolver,
		cache:    SharedWrapperCache(),
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.declarations == nil {
		if source, ok := resolver.(DeclarationSource); ok {
			m.declarations = source.Declarations()
		}
	}
	return m
}

// Dispatch routes request to its handler
func (m *mediator) Dispatch(ctx context.Context, request any) (any, error) {
	if isNil(request) {
		return nil, ErrNilRequest
	}
	if m.resolver == nil {
		return nil, configurationErrorf("mediator has no resolver")
	}

	requestType := reflect.TypeOf(request)
	start := time.Now()

	var result any
	var err error
	if ctor, ok := m.declarations.lookup(requestType); ok {
		w := m.cache.getOrCreate(requestType, ctor, m.observer)
		result, err = w.handle(ctx, request, m.resolver, m.observer)
	} else {
		err = &HandlerNotFoundError{RequestType: requestType}
	}

	m.observer.DispatchCompleted(requestType, time.Since(start), err)
	return result, err
}

// DispatchVoid routes a void request to its handler
func (m *mediator) DispatchVoid(ctx context.Context, request VoidRequest) error {
	_, err := m.Dispatch(ctx, request)
	return err
}

// Send dispatches request and returns its typed response
func Send[R any](ctx context.Context, sender Sender, request Request[R]) (R, error) {
	var zero R

	result, err := sender.Dispatch(ctx, request)
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}

	typed, ok := result.(R)
	if !ok {
		return zero, configurationErrorf("handler for %T returned %T, expected %s",
			request, result, reflect.TypeFor[R]())
	}
	return typed, nil
}

// SendVoid dispatches a request that produces no response
func SendVoid(ctx context.Context, sender Sender, request VoidRequest) error {
	return sender.DispatchVoid(ctx, request)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
