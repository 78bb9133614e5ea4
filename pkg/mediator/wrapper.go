package mediator

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
)

// wrapper invokes the handler for one request type. A wrapper holds no
// handler instance; it resolves one on every call
type wrapper interface {
	handle(ctx context.Context, request any, resolver Resolver, observer Observer) (any, error)
	handlerContract() reflect.Type
}

type requestWrapper[T Request[R], R any] struct {
	contract reflect.Type
}

func (w *requestWrapper[T, R]) handle(ctx context.Context, request any, resolver Resolver, observer Observer) (any, error) {
	typed, ok := request.(T)
	if !ok {
		return nil, configurationErrorf("request %T cannot be handled as %s", request, reflect.TypeFor[T]())
	}

	instance, err := resolver.Resolve(ctx, w.contract)
	if err != nil {
		return nil, err
	}
	handler, ok := instance.(RequestHandler[T, R])
	if !ok {
		return nil, configurationErrorf("resolved %T does not implement %s", instance, w.contract)
	}
	observer.HandlerResolved(w.contract)

	return handler.Handle(ctx, typed)
}

func (w *requestWrapper[T, R]) handlerContract() reflect.Type { return w.contract }

type voidWrapper[T VoidRequest] struct {
	contract reflect.Type
}

func (w *voidWrapper[T]) handlerContract() reflect.Type { return w.contract }

func (w *voidWrapper[T]) handle(ctx context.Context, request any, resolver Resolver, observer Observer) (any, error) {
	typed, ok := request.(T)
	if !ok {
		return nil, configurationErrorf("request %T cannot be handled as %s", request, reflect.TypeFor[T]())
	}

	instance, err := resolver.Resolve(ctx, w.contract)
	if err != nil {
		return nil, err
	}
	handler, ok := instance.(VoidRequestHandler[T])
	if !ok {
		return nil, configurationErrorf("resolved %T does not implement %s", instance, w.contract)
	}
	observer.HandlerResolved(w.contract)

	return nil, handler.Handle(ctx, typed)
}

// wrapperConstructor builds the wrapper for one request type. Only the
// declaration site knows the request's response shape statically, so the
// constructor is captured there
type wrapperConstructor struct {
	contract reflect.Type
	build    func() wrapper
}

// WrapperCache holds one wrapper per request type. Entries are created on
// first dispatch and never removed
type WrapperCache struct {
	wrappers sync.Map
	size     atomic.Int64
}

// NewWrapperCache returns an empty cache
func NewWrapperCache() *WrapperCache {
	return &WrapperCache{}
}

var sharedCache = NewWrapperCache()

// SharedWrapperCache returns the process-wide cache used by mediators that
// are not given one explicitly
func SharedWrapperCache() *WrapperCache {
	return sharedCache
}

// Len returns the number of cached wrappers
func (c *WrapperCache) Len() int {
	return int(c.size.Load())
}

// Contains reports whether a wrapper for requestType has been built
func (c *WrapperCache) Contains(requestType reflect.Type) bool {
	_, ok := c.wrappers.Load(requestType)
	return ok
}

// getOrCreate returns the wrapper for requestType, building it with ctor on
// first use. Racing callers may each build a candidate, but only the stored
// one is returned and reported to observer. A cached wrapper for another
// contract of the same request type is bypassed, not replaced.
func (c *WrapperCache) getOrCreate(requestType reflect.Type, ctor wrapperConstructor, observer Observer) wrapper {
	if v, ok := c.wrappers.Load(requestType); ok {
		return matching(v.(wrapper), ctor)
	}

	actual, loaded := c.wrappers.LoadOrStore(requestType, ctor.build())
	if !loaded {
		c.size.Add(1)
		observer.WrapperBuilt(requestType)
	}
	return matching(actual.(wrapper), ctor)
}

func matching(w wrapper, ctor wrapperConstructor) wrapper {
	if w.handlerContract() == ctor.contract {
		return w
	}
	return ctor.build()
}
