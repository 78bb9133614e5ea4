package services

import (
	"context"
	"reflect"

	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// AddMediator registers the handlers found in modules plus a transient
// mediator.Mediator and mediator.Sender. Existing Mediator or Sender
// registrations are kept.
//
// The mediator picks up a mediator.Observer and a *mediator.WrapperCache
// from the container when they are registered
func AddMediator(c *Collection, modules ...*mediator.Module) error {
	if err := mediator.RegisterHandlers(c, modules...); err != nil {
		return err
	}

	if _, err := c.TryAdd(Descriptor{
		ServiceType: reflect.TypeFor[mediator.Mediator](),
		Lifetime:    Transient,
		Factory:     newMediator,
	}); err != nil {
		return err
	}

	_, err := c.TryAdd(Descriptor{
		ServiceType: reflect.TypeFor[mediator.Sender](),
		Lifetime:    Transient,
		Factory: func(ctx context.Context, r mediator.Resolver) (any, error) {
			return Get[mediator.Mediator](ctx, r)
		},
	})
	return err
}

// AddMediatorFor is AddMediator for the module of the package that declares
// Marker
func AddMediatorFor[Marker any](c *Collection) error {
	m, err := mediator.ModuleFor[Marker]()
	if err != nil {
		return err
	}
	return AddMediator(c, m)
}

func newMediator(ctx context.Context, r mediator.Resolver) (any, error) {
	var opts []mediator.Option

	observer, ok, err := GetOptional[mediator.Observer](ctx, r)
	if err != nil {
		return nil, err
	}
	if ok {
		opts = append(opts, mediator.WithObserver(observer))
	}

	cache, ok, err := GetOptional[*mediator.WrapperCache](ctx, r)
	if err != nil {
		return nil, err
	}
	if ok {
		opts = append(opts, mediator.WithWrapperCache(cache))
	}

	return mediator.New(r, opts...), nil
}
