package services

import (
	"context"
	"errors"
	"io"
	"reflect"
	"slices"
	"sync"

	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// Provider resolves services registered in a Collection. Scoped services
// resolved directly from a Provider live in its root scope
type Provider struct {
	registrations map[reflect.Type]Descriptor
	declarations  *mediator.Declarations
	root          *Scope
}

func newProvider(registrations map[reflect.Type]Descriptor, declarations *mediator.Declarations) *Provider {
	p := &Provider{registrations: registrations, declarations: declarations}
	p.root = p.newScope()
	return p
}

// Resolve implements mediator.Resolver
func (p *Provider) Resolve(ctx context.Context, serviceType reflect.Type) (any, error) {
	return p.root.Resolve(ctx, serviceType)
}

// Declarations implements mediator.DeclarationSource
func (p *Provider) Declarations() *mediator.Declarations {
	return p.declarations
}

// CreateScope starts a new scope. Close it when done to release scoped
// instances
func (p *Provider) CreateScope() *Scope {
	return p.newScope()
}

// Close releases singletons and root-scoped instances that implement
// io.Closer
func (p *Provider) Close() error {
	return p.root.Close()
}

func (p *Provider) newScope() *Scope {
	return &Scope{
		provider:  p,
		instances: make(map[reflect.Type]*lazyInstance),
	}
}

// Scope resolves scoped services to one instance per scope
type Scope struct {
	provider *Provider

	mu        sync.Mutex
	instances map[reflect.Type]*lazyInstance
	closers   []io.Closer
	closed    bool
}

// Declarations implements mediator.DeclarationSource
func (s *Scope) Declarations() *mediator.Declarations {
	return s.provider.declarations
}

// Resolve implements mediator.Resolver. Transient instances that implement
// io.Closer are released with the scope
func (s *Scope) Resolve(ctx context.Context, serviceType reflect.Type) (any, error) {
	if s.isClosed() {
		return nil, ErrScopeClosed
	}

	d, ok := s.provider.registrations[serviceType]
	if !ok {
		return nil, &UnregisteredError{ServiceType: serviceType}
	}

	ctx, err := enterResolution(ctx, serviceType)
	if err != nil {
		return nil, err
	}

	switch d.Lifetime {
	case Singleton:
		root := s.provider.root
		return root.cached(serviceType, func() (any, error) {
			return root.construct(ctx, d)
		})
	case Scoped:
		return s.cached(serviceType, func() (any, error) {
			return s.construct(ctx, d)
		})
	default:
		return s.construct(ctx, d)
	}
}

func (s *Scope) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases scoped instances that implement io.Closer, most recent
// first. Further resolutions fail with ErrScopeClosed
func (s *Scope) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	closers := s.closers
	s.closers = nil
	s.mu.Unlock()

	var errs []error
	for _, c := range slices.Backward(closers) {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Scope) cached(serviceType reflect.Type, build func() (any, error)) (any, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrScopeClosed
	}
	inst, ok := s.instances[serviceType]
	if !ok {
		inst = &lazyInstance{}
		s.instances[serviceType] = inst
	}
	s.mu.Unlock()

	return inst.get(build)
}

func (s *Scope) construct(ctx context.Context, d Descriptor) (any, error) {
	v, err := d.Factory(ctx, s)
	if err != nil {
		return nil, err
	}
	closer, ok := v.(io.Closer)
	if !ok {
		return v, nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = closer.Close()
		return nil, ErrScopeClosed
	}
	s.closers = append(s.closers, closer)
	s.mu.Unlock()
	return v, nil
}

// lazyInstance builds its value once. A failed build is retried on the
// next call
type lazyInstance struct {
	mu    sync.Mutex
	done  bool
	value any
}

func (l *lazyInstance) get(build func() (any, error)) (any, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done {
		return l.value, nil
	}
	v, err := build()
	if err != nil {
		return nil, err
	}
	l.value, l.done = v, true
	return v, nil
}

type resolutionPathKey struct{}

// enterResolution records serviceType on the resolution path carried by ctx
// and fails if it is already there
func enterResolution(ctx context.Context, serviceType reflect.Type) (context.Context, error) {
	path, _ := ctx.Value(resolutionPathKey{}).([]reflect.Type)
	if slices.Contains(path, serviceType) {
		return ctx, &CircularDependencyError{Path: append(slices.Clone(path), serviceType)}
	}
	next := append(slices.Clone(path), serviceType)
	return context.WithValue(ctx, resolutionPathKey{}, next), nil
}

var (
	_ mediator.Resolver          = (*Provider)(nil)
	_ mediator.Resolver          = (*Scope)(nil)
	_ mediator.DeclarationSource = (*Provider)(nil)
	_ mediator.DeclarationSource = (*Scope)(nil)
)
