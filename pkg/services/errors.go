package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

var (
	// ErrUnregistered matches every UnregisteredError
	ErrUnregistered = errors.New("services: service not registered")

	// ErrCircularDependency matches every CircularDependencyError
	ErrCircularDependency = errors.New("services: circular dependency")

	// ErrScopeClosed is returned when resolving from a closed scope
	ErrScopeClosed = errors.New("services: scope is closed")
)

// UnregisteredError reports a resolution of a type with no descriptor.
// It also matches mediator.ErrHandlerNotFound so a missing handler surfaces
// as such through the mediator
type UnregisteredError struct {
	ServiceType reflect.Type
}

func (e *UnregisteredError) Error() string {
	return fmt.Sprintf("services: no service registered for type %s", e.ServiceType)
}

// Is reports whether target is ErrUnregistered or mediator.ErrHandlerNotFound
func (e *UnregisteredError) Is(target error) bool {
	return target == ErrUnregistered || target == mediator.ErrHandlerNotFound
}

// CircularDependencyError reports a service that depends on itself
type CircularDependencyError struct {
	Path []reflect.Type
}

func (e *CircularDependencyError) Error() string {
	names := make([]string, len(e.Path))
	for i, t := range e.Path {
		names[i] = t.String()
	}
	return "services: circular dependency: " + strings.Join(names, " -> ")
}

// Is reports whether target is ErrCircularDependency
func (e *CircularDependencyError) Is(target error) bool {
	return target == ErrCircularDependency
}
