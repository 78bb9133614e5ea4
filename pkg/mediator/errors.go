package mediator

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNilRequest is returned when a nil request is dispatched
	ErrNilRequest = errors.New("mediator: request cannot be nil")

	// ErrHandlerNotFound matches every error reporting a missing handler
	ErrHandlerNotFound = errors.New("mediator: no handler registered")

	// ErrConfiguration matches every ConfigurationError
	ErrConfiguration = errors.New("mediator: invalid configuration")
)

// HandlerNotFoundError reports that no handler could be obtained for a
// request. Contract is nil when the request type is not declared in the
// mediator's Declarations
type HandlerNotFoundError struct {
	RequestType reflect.Type
	Contract    reflect.Type
}

func (e *HandlerNotFoundError) Error() string {
	if e.Contract != nil {
		return fmt.Sprintf("mediator: no handler registered for %s", e.Contract)
	}
	return fmt.Sprintf("mediator: no handler registered for request type %s", e.RequestType)
}

// Is reports whether target is ErrHandlerNotFound
func (e *HandlerNotFoundError) Is(target error) bool {
	return target == ErrHandlerNotFound
}

// ConfigurationError reports a problem with handler registration or
// discovery input
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "mediator: " + e.Reason
}

// Is reports whether target is ErrConfiguration
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configurationErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
