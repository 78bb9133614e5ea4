package mediator

import (
	"context"
	"reflect"
)

// TypeScanner enumerates the concrete, instantiable types of modules
type TypeScanner interface {
	ConcreteTypes(modules ...*Module) ([]TypeDescriptor, error)
}

// ModuleScanner is the default TypeScanner. It skips abstract descriptors
// and descriptors without a constructor
type ModuleScanner struct{}

// ConcreteTypes lists the concrete types of modules in declaration order
func (ModuleScanner) ConcreteTypes(modules ...*Module) ([]TypeDescriptor, error) {
	var out []TypeDescriptor
	for _, m := range modules {
		if m == nil {
			return nil, configurationErrorf("nil module supplied for scanning")
		}
		for _, d := range m.Types() {
			if d.Abstract || d.New == nil || d.Type == nil {
				continue
			}
			out = append(out, d)
		}
	}
	return out, nil
}

// RegisterHandlers registers every handler declared in modules
func RegisterHandlers(registrar Registrar, modules ...*Module) error {
	return RegisterHandlersWith(registrar, ModuleScanner{}, modules...)
}

// RegisterHandlersWith registers every handler that scanner finds in
// modules. It fails with a ConfigurationError when no modules are given,
// when a declared conformance does not hold, or when a contract is already
// bound to a different implementation
func RegisterHandlersWith(registrar Registrar, scanner TypeScanner, modules ...*Module) error {
	if len(modules) == 0 {
		return configurationErrorf("no modules found to scan, supply at least one module")
	}
	if registrar == nil {
		return configurationErrorf("registrar cannot be nil")
	}
	if scanner == nil {
		scanner = ModuleScanner{}
	}

	candidates, err := scanner.ConcreteTypes(modules...)
	if err != nil {
		return err
	}

	for _, candidate := range candidates {
		for _, c := range candidate.Conformances {
			if err := c.register(registrar, candidate.Type, candidate.New); err != nil {
				return err
			}
		}
	}
	return nil
}

// RegisterHandlersFor registers the handlers of the module that owns Marker
func RegisterHandlersFor[Marker any](registrar Registrar) error {
	m, err := ModuleFor[Marker]()
	if err != nil {
		return err
	}
	return RegisterHandlers(registrar, m)
}

// RegisterHandler registers a single request handler without a module
func RegisterHandler[T Request[R], R any](registrar Registrar, handler RequestHandler[T, R]) error {
	if registrar == nil {
		return configurationErrorf("registrar cannot be nil")
	}
	if isNil(handler) {
		return configurationErrorf("handler for %s cannot be nil", reflect.TypeFor[T]())
	}
	return Handles[T, R]().register(registrar, reflect.TypeOf(handler), instance(handler))
}

// RegisterVoidHandler registers a single void request handler without a
// module
func RegisterVoidHandler[T VoidRequest](registrar Registrar, handler VoidRequestHandler[T]) error {
	if registrar == nil {
		return configurationErrorf("registrar cannot be nil")
	}
	if isNil(handler) {
		return configurationErrorf("handler for %s cannot be nil", reflect.TypeFor[T]())
	}
	return HandlesVoid[T]().register(registrar, reflect.TypeOf(handler), instance(handler))
}

func instance(v any) Factory {
	return func(context.Context, Resolver) (any, error) {
		return v, nil
	}
}
