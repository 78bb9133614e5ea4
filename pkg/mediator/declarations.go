package mediator

import (
	"reflect"
	"sync"
)

// Declarations records which request types can be dispatched and how to
// build the wrapper for each. A mediator only routes request types its
// Declarations know about.
//
// Registering through a Registrar declares the request type in the
// registrar's Declarations. A handler added to a container by other means
// needs an explicit Declare or DeclareVoid
type Declarations struct {
	mu    sync.RWMutex
	ctors map[reflect.Type]wrapperConstructor
}

// NewDeclarations returns an empty registry
func NewDeclarations() *Declarations {
	return &Declarations{ctors: make(map[reflect.Type]wrapperConstructor)}
}

// DeclarationSource is implemented by resolvers that carry the
// Declarations of the handlers registered with them. New uses it when no
// WithDeclarations option is given
type DeclarationSource interface {
	Declarations() *Declarations
}

// Declare makes T dispatchable as a request with response R
func Declare[T Request[R], R any](d *Declarations) error {
	if d == nil {
		return configurationErrorf("declarations for %s cannot be nil", reflect.TypeFor[T]())
	}
	return d.declare(reflect.TypeFor[T](), requestWrapperFor[T, R](ContractOf[T, R]()))
}

// DeclareVoid makes T dispatchable as a void request
func DeclareVoid[T VoidRequest](d *Declarations) error {
	if d == nil {
		return configurationErrorf("declarations for %s cannot be nil", reflect.TypeFor[T]())
	}
	return d.declare(reflect.TypeFor[T](), voidWrapperFor[T](VoidContractOf[T]()))
}

// Declared reports whether requestType has been declared
func (d *Declarations) Declared(requestType reflect.Type) bool {
	_, ok := d.lookup(requestType)
	return ok
}

// Len returns the number of declared request types
func (d *Declarations) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.ctors)
}

// Clone returns an independent copy of d
func (d *Declarations) Clone() *Declarations {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := NewDeclarations()
	for t, ctor := range d.ctors {
		out.ctors[t] = ctor
	}
	return out
}

// declare records ctor for requestType. Declaring the same contract again
// is a no-op; a request type may not be declared under two contracts
func (d *Declarations) declare(requestType reflect.Type, ctor wrapperConstructor) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.ctors[requestType]; ok {
		if existing.contract != ctor.contract {
			return configurationErrorf("request type %s is declared for both %s and %s",
				requestType, existing.contract, ctor.contract)
		}
		return nil
	}
	d.ctors[requestType] = ctor
	return nil
}

func (d *Declarations) lookup(requestType reflect.Type) (wrapperConstructor, bool) {
	if d == nil {
		return wrapperConstructor{}, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	ctor, ok := d.ctors[requestType]
	return ctor, ok
}
