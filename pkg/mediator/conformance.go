package mediator

import (
	"context"
	"reflect"
)

// Conformance declares that an implementation type handles one contract.
// Build one with Handles, HandlesVoid, HandlesVia or HandlesVoidVia
type Conformance struct {
	// Contract is the handler contract being served
	Contract reflect.Type
	// RequestType is the request type routed to Contract
	RequestType reflect.Type
	// ResponseType is nil for void requests
	ResponseType reflect.Type

	wrapper wrapperConstructor
	// bind checks impl against the contract and returns the factory to
	// register for it
	bind func(impl reflect.Type, factory Factory) (Factory, error)
}

// Void reports whether the conformance is for a void request
func (c Conformance) Void() bool {
	return c.ResponseType == nil
}

// Handles declares an implementation of RequestHandler[T, R]
func Handles[T Request[R], R any]() Conformance {
	contract := ContractOf[T, R]()
	return Conformance{
		Contract:     contract,
		RequestType:  reflect.TypeFor[T](),
		ResponseType: reflect.TypeFor[R](),
		wrapper:      requestWrapperFor[T, R](contract),
		bind:         implementsContract(contract),
	}
}

// HandlesVoid declares an implementation of VoidRequestHandler[T]
func HandlesVoid[T VoidRequest]() Conformance {
	contract := VoidContractOf[T]()
	return Conformance{
		Contract:    contract,
		RequestType: reflect.TypeFor[T](),
		wrapper:     voidWrapperFor[T](contract),
		bind:        implementsContract(contract),
	}
}

// HandlesVia declares that H handles T through method, typically a method
// expression such as (*OrderHandlers).GetOrder. It lets one type serve
// several contracts
func HandlesVia[H any, T Request[R], R any](method func(H, context.Context, T) (R, error)) Conformance {
	contract := ContractOf[T, R]()
	return Conformance{
		Contract:     contract,
		RequestType:  reflect.TypeFor[T](),
		ResponseType: reflect.TypeFor[R](),
		wrapper:      requestWrapperFor[T, R](contract),
		bind: adaptTo[H](func(h H) any {
			return RequestHandlerFunc[T, R](func(ctx context.Context, request T) (R, error) {
				return method(h, ctx, request)
			})
		}),
	}
}

// HandlesVoidVia is HandlesVia for void requests
func HandlesVoidVia[H any, T VoidRequest](method func(H, context.Context, T) error) Conformance {
	contract := VoidContractOf[T]()
	return Conformance{
		Contract:    contract,
		RequestType: reflect.TypeFor[T](),
		wrapper:     voidWrapperFor[T](contract),
		bind: adaptTo[H](func(h H) any {
			return VoidRequestHandlerFunc[T](func(ctx context.Context, request T) error {
				return method(h, ctx, request)
			})
		}),
	}
}

func requestWrapperFor[T Request[R], R any](contract reflect.Type) wrapperConstructor {
	return wrapperConstructor{
		contract: contract,
		build:    func() wrapper { return &requestWrapper[T, R]{contract: contract} },
	}
}

func voidWrapperFor[T VoidRequest](contract reflect.Type) wrapperConstructor {
	return wrapperConstructor{
		contract: contract,
		build:    func() wrapper { return &voidWrapper[T]{contract: contract} },
	}
}

func implementsContract(contract reflect.Type) func(reflect.Type, Factory) (Factory, error) {
	return func(impl reflect.Type, factory Factory) (Factory, error) {
		if !impl.Implements(contract) {
			return nil, configurationErrorf("%s does not implement %s", impl, contract)
		}
		return factory, nil
	}
}

func adaptTo[H any](adapt func(H) any) func(reflect.Type, Factory) (Factory, error) {
	return func(impl reflect.Type, factory Factory) (Factory, error) {
		target := reflect.TypeFor[H]()
		if !impl.AssignableTo(target) {
			return nil, configurationErrorf("%s cannot be used as %s", impl, target)
		}
		return func(ctx context.Context, resolver Resolver) (any, error) {
			instance, err := factory(ctx, resolver)
			if err != nil {
				return nil, err
			}
			h, ok := instance.(H)
			if !ok {
				return nil, configurationErrorf("factory for %s returned %T", target, instance)
			}
			return adapt(h), nil
		}, nil
	}
}

// register validates c against impl and records it with registrar.
// Registering the same implementation for a contract twice is a no-op
func (c Conformance) register(registrar Registrar, impl reflect.Type, factory Factory) error {
	if c.Contract == nil || c.bind == nil {
		return configurationErrorf("conformance for %s was not built with Handles", impl)
	}

	bound, err := c.bind(impl, factory)
	if err != nil {
		return err
	}
	declarations := registrar.Declarations()
	if declarations == nil {
		return configurationErrorf("registrar has no declarations for %s", c.RequestType)
	}
	if err := declarations.declare(c.RequestType, c.wrapper); err != nil {
		return err
	}

	if existing, ok := registrar.Lookup(c.Contract); ok {
		if existing == impl {
			return nil
		}
		return configurationErrorf("%s is already handled by %s, cannot also register %s",
			c.Contract, existing, impl)
	}
	return registrar.Register(c.Contract, impl, bound)
}
