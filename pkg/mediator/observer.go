package mediator

import (
	"reflect"
	"time"
)

// Observer receives dispatch events for instrumentation. Implementations
// must be safe for concurrent use and must not block
type Observer interface {
	// WrapperBuilt is called once per request type per WrapperCache
	WrapperBuilt(requestType reflect.Type)

	// HandlerResolved is called each time a handler instance is obtained
	HandlerResolved(contract reflect.Type)

	// DispatchCompleted is called after every dispatch of a non-nil request
	DispatchCompleted(requestType reflect.Type, elapsed time.Duration, err error)
}

// NopObserver ignores all events
type NopObserver struct{}

func (NopObserver) WrapperBuilt(reflect.Type) {}
func (NopObserver) HandlerResolved(reflect.Type) {}
func (NopObserver) DispatchCompleted(reflect.Type, time.Duration, error) {}

type multiObserver []Observer

// Observers fans events out to each of the given observers in order
func Observers(observers ...Observer) Observer {
	var out multiObserver
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	switch len(out) {
	case 0:
		return NopObserver{}
	case 1:
		return out[0]
	}
	return out
}

func (m multiObserver) WrapperBuilt(requestType reflect.Type) {
	for _, o := range m {
		o.WrapperBuilt(requestType)
	}
}

func (m multiObserver) HandlerResolved(contract reflect.Type) {
	for _, o := range m {
		o.HandlerResolved(contract)
	}
}

func (m multiObserver) DispatchCompleted(requestType reflect.Type, elapsed time.Duration, err error) {
	for _, o := range m {
		o.DispatchCompleted(requestType, elapsed, err)
	}
}
