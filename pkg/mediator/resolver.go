package mediator

import (
	"context"
	"reflect"
)

// Resolver produces service instances by type. The mediator uses it to
// obtain a handler for a contract on every dispatch.
//
// Resolve returns an error matching ErrHandlerNotFound when nothing is
// registered for the requested type
type Resolver interface {
	Resolve(ctx context.Context, serviceType reflect.Type) (any, error)
}

// Factory builds one instance of a service. Dependencies are obtained from
// the Resolver it is given
type Factory func(ctx context.Context, resolver Resolver) (any, error)

// Registrar receives handler registrations during discovery. Each
// registration also declares its request type in the registrar's
// Declarations
type Registrar interface {
	DeclarationSource

	// Register binds contract to impl. Every resolution of contract calls
	// factory to produce a new instance
	Register(contract, impl reflect.Type, factory Factory) error

	// Lookup returns the implementation bound to contract, if any
	Lookup(contract reflect.Type) (reflect.Type, bool)
}

// ResolverFunc adapts a function to a Resolver
type ResolverFunc func(ctx context.Context, serviceType reflect.Type) (any, error)

// Resolve calls f(ctx, serviceType)
func (f ResolverFunc) Resolve(ctx context.Context, serviceType reflect.Type) (any, error) {
	return f(ctx, serviceType)
}
