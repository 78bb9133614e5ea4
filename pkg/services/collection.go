// Package services is a small dependency-injection container. A Collection
// gathers service descriptors; Build turns it into a Provider that resolves
// them with transient, scoped or singleton lifetimes.
//
// Collection implements mediator.Registrar and Provider and Scope implement
// mediator.Resolver, so the container can host a mediator directly:
//
//	c := services.NewCollection()
//	if err := services.AddMediator(c, orders.Module); err != nil { ... }
//	p := c.Build()
//	m, err := services.Get[mediator.Mediator](ctx, p)
package services

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// Lifetime controls how long a resolved instance is reused
type Lifetime int

const (
	// Transient services are built on every resolution
	Transient Lifetime = iota
	// Scoped services are built once per Scope
	Scoped
	// Singleton services are built once per Provider
	Singleton
)

func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	case Singleton:
		return "singleton"
	default:
		return fmt.Sprintf("Lifetime(%d)", int(l))
	}
}

// Descriptor binds a service type to the factory that builds it
type Descriptor struct {
	ServiceType        reflect.Type
	ImplementationType reflect.Type
	Lifetime           Lifetime
	Factory            mediator.Factory
}

// Collection accumulates descriptors. When a service type is added more
// than once, the last descriptor wins
type Collection struct {
	mu           sync.RWMutex
	descriptors  []Descriptor
	latest       map[reflect.Type]int
	declarations *mediator.Declarations
}

// NewCollection returns an empty collection
func NewCollection() *Collection {
	return &Collection{
		latest:       make(map[reflect.Type]int),
		declarations: mediator.NewDeclarations(),
	}
}

// Add appends d
func (c *Collection) Add(d Descriptor) error {
	if err := validateDescriptor(&d); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.descriptors = append(c.descriptors, d)
	c.latest[d.ServiceType] = len(c.descriptors) - 1
	return nil
}

// TryAdd appends d unless its service type is already present. It reports
// whether d was added
func (c *Collection) TryAdd(d Descriptor) (bool, error) {
	if err := validateDescriptor(&d); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.latest[d.ServiceType]; ok {
		return false, nil
	}
	c.descriptors = append(c.descriptors, d)
	c.latest[d.ServiceType] = len(c.descriptors) - 1
	return true, nil
}

// Contains reports whether serviceType has a descriptor
func (c *Collection) Contains(serviceType reflect.Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.latest[serviceType]
	return ok
}

// Descriptors returns a copy of all descriptors in insertion order
func (c *Collection) Descriptors() []Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Descriptor, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}

// Register implements mediator.Registrar. Handlers are transient
func (c *Collection) Register(contract, impl reflect.Type, factory mediator.Factory) error {
	return c.Add(Descriptor{
		ServiceType:        contract,
		ImplementationType: impl,
		Lifetime:           Transient,
		Factory:            factory,
	})
}

// Lookup implements mediator.Registrar
func (c *Collection) Lookup(contract reflect.Type) (reflect.Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.latest[contract]
	if !ok {
		return nil, false
	}
	return c.descriptors[i].ImplementationType, true
}

// Declarations implements mediator.Registrar. Handlers added with
// AddTransient and friends rather than through mediator registration must
// be declared here with mediator.Declare or mediator.DeclareVoid
func (c *Collection) Declarations() *mediator.Declarations {
	return c.declarations
}

// Build snapshots the collection into a Provider. Later changes to the
// collection do not affect the provider
func (c *Collection) Build() *Provider {
	c.mu.RLock()
	defer c.mu.RUnlock()

	registrations := make(map[reflect.Type]Descriptor, len(c.latest))
	for serviceType, i := range c.latest {
		registrations[serviceType] = c.descriptors[i]
	}
	return newProvider(registrations, c.declarations.Clone())
}

func validateDescriptor(d *Descriptor) error {
	if d.ServiceType == nil {
		return fmt.Errorf("services: service type cannot be nil")
	}
	if d.Factory == nil {
		return fmt.Errorf("services: factory for %s cannot be nil", d.ServiceType)
	}
	if d.Lifetime < Transient || d.Lifetime > Singleton {
		return fmt.Errorf("services: invalid lifetime %s for %s", d.Lifetime, d.ServiceType)
	}
	if d.ImplementationType == nil {
		d.ImplementationType = d.ServiceType
	}
	return nil
}

var _ mediator.Registrar = (*Collection)(nil)
