package mediator

import (
	"context"
	"reflect"
)

// Request is satisfied by request types whose handler produces an R.
// Declare one by embedding Returns[R]
type Request[R any] interface {
	responseOf() R
}

// VoidRequest is satisfied by request types whose handler produces no value.
// Declare one by embedding Void
type VoidRequest interface {
	voidRequest()
}

// Returns marks the embedding struct as a Request[R]
type Returns[R any] struct{}

func (Returns[R]) responseOf() (r R) { return r }

// Void marks the embedding struct as a VoidRequest
type Void struct{}

func (Void) voidRequest() {}

// RequestHandler handles requests of type T and produces an R
type RequestHandler[T Request[R], R any] interface {
	Handle(ctx context.Context, request T) (R, error)
}

// VoidRequestHandler handles requests of type T and produces nothing
type VoidRequestHandler[T VoidRequest] interface {
	Handle(ctx context.Context, request T) error
}

// RequestHandlerFunc adapts a function to a RequestHandler
type RequestHandlerFunc[T Request[R], R any] func(ctx context.Context, request T) (R, error)

// Handle calls f(ctx, request)
func (f RequestHandlerFunc[T, R]) Handle(ctx context.Context, request T) (R, error) {
	return f(ctx, request)
}

// VoidRequestHandlerFunc adapts a function to a VoidRequestHandler
type VoidRequestHandlerFunc[T VoidRequest] func(ctx context.Context, request T) error

// Handle calls f(ctx, request)
func (f VoidRequestHandlerFunc[T]) Handle(ctx context.Context, request T) error {
	return f(ctx, request)
}

// ContractOf returns the handler contract for requests of type T
func ContractOf[T Request[R], R any]() reflect.Type {
	return reflect.TypeFor[RequestHandler[T, R]]()
}

// VoidContractOf returns the handler contract for void requests of type T
func VoidContractOf[T VoidRequest]() reflect.Type {
	return reflect.TypeFor[VoidRequestHandler[T]]()
}

// RequestName returns the short name of a request type: the type name
// without package path or pointer indirection
func RequestName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
