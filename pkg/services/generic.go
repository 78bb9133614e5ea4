package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// AddTransient registers T to be built by factory on every resolution
func AddTransient[T any](c *Collection, factory func(ctx context.Context, r mediator.Resolver) (T, error)) error {
	return add(c, Transient, factory)
}

// AddScoped registers T to be built once per scope
func AddScoped[T any](c *Collection, factory func(ctx context.Context, r mediator.Resolver) (T, error)) error {
	return add(c, Scoped, factory)
}

// AddSingleton registers T to be built once per provider
func AddSingleton[T any](c *Collection, factory func(ctx context.Context, r mediator.Resolver) (T, error)) error {
	return add(c, Singleton, factory)
}

// AddInstance registers an existing value as the singleton T
func AddInstance[T any](c *Collection, instance T) error {
	return c.Add(Descriptor{
		ServiceType:        reflect.TypeFor[T](),
		ImplementationType: implementationOf(instance),
		Lifetime:           Singleton,
		Factory: func(context.Context, mediator.Resolver) (any, error) {
			return instance, nil
		},
	})
}

func add[T any](c *Collection, lifetime Lifetime, factory func(ctx context.Context, r mediator.Resolver) (T, error)) error {
	if factory == nil {
		return fmt.Errorf("services: factory for %s cannot be nil", reflect.TypeFor[T]())
	}
	return c.Add(Descriptor{
		ServiceType: reflect.TypeFor[T](),
		Lifetime:    lifetime,
		Factory: func(ctx context.Context, r mediator.Resolver) (any, error) {
			return factory(ctx, r)
		},
	})
}

func implementationOf(v any) reflect.Type {
	if v == nil {
		return nil
	}
	return reflect.TypeOf(v)
}

// Get resolves T from r
func Get[T any](ctx context.Context, r mediator.Resolver) (T, error) {
	var zero T

	v, err := r.Resolve(ctx, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("services: resolved %T is not a %s", v, reflect.TypeFor[T]())
	}
	return typed, nil
}

// GetOptional resolves T from r, returning ok=false instead of an error
// when T is not registered
func GetOptional[T any](ctx context.Context, r mediator.Resolver) (value T, ok bool, err error) {
	value, err = Get[T](ctx, r)
	if errors.Is(err, ErrUnregistered) {
		return value, false, nil
	}
	if err != nil {
		return value, false, err
	}
	return value, true, nil
}

// MustGet resolves T from r and panics on failure. Use it only during
// startup wiring
func MustGet[T any](ctx context.Context, r mediator.Resolver) T {
	v, err := Get[T](ctx, r)
	if err != nil {
		panic(err)
	}
	return v
}
