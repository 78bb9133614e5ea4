// Package mediatortest provides test doubles for code that dispatches
// through a mediator
package mediatortest

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// SpyResolver wraps a Resolver and counts resolutions per service type
type SpyResolver struct {
	inner mediator.Resolver

	mu    sync.Mutex
	calls map[reflect.Type]int
}

// NewSpyResolver wraps inner
func NewSpyResolver(inner mediator.Resolver) *SpyResolver {
	return &SpyResolver{inner: inner, calls: make(map[reflect.Type]int)}
}

// Resolve records the call and delegates to the wrapped resolver
func (s *SpyResolver) Resolve(ctx context.Context, serviceType reflect.Type) (any, error) {
	s.mu.Lock()
	s.calls[serviceType]++
	s.mu.Unlock()

	return s.inner.Resolve(ctx, serviceType)
}

// Declarations forwards to the wrapped resolver when it carries
// declarations
func (s *SpyResolver) Declarations() *mediator.Declarations {
	if source, ok := s.inner.(mediator.DeclarationSource); ok {
		return source.Declarations()
	}
	return nil
}

// Calls returns the total number of resolutions
func (s *SpyResolver) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// CallsFor returns the number of resolutions of serviceType
func (s *SpyResolver) CallsFor(serviceType reflect.Type) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[serviceType]
}

// RecordingObserver counts observer events
type RecordingObserver struct {
	mu         sync.Mutex
	built      map[reflect.Type]int
	resolved   map[reflect.Type]int
	dispatches int
	failures   int
}

// NewRecordingObserver returns an observer with no recorded events
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{
		built:    make(map[reflect.Type]int),
		resolved: make(map[reflect.Type]int),
	}
}

func (o *RecordingObserver) WrapperBuilt(requestType reflect.Type) {
	o.mu.Lock()
	o.built[requestType]++
	o.mu.Unlock()
}

func (o *RecordingObserver) HandlerResolved(contract reflect.Type) {
	o.mu.Lock()
	o.resolved[contract]++
	o.mu.Unlock()
}

func (o *RecordingObserver) DispatchCompleted(_ reflect.Type, _ time.Duration, err error) {
	o.mu.Lock()
	o.dispatches++
	if err != nil {
		o.failures++
	}
	o.mu.Unlock()
}

// WrappersBuilt returns how many wrappers were built for requestType
func (o *RecordingObserver) WrappersBuilt(requestType reflect.Type) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.built[requestType]
}

// HandlersResolved returns how many handlers were resolved for contract
func (o *RecordingObserver) HandlersResolved(contract reflect.Type) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.resolved[contract]
}

// Dispatches returns the number of completed dispatches and how many of
// them failed
func (o *RecordingObserver) Dispatches() (total, failed int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dispatches, o.failures
}

// MockSender is a mediator.Mediator that answers from a function and keeps
// a log of dispatched request types
type MockSender struct {
	mu           sync.Mutex
	dispatchFunc func(ctx context.Context, request any) (any, error)
	callLog      []string
}

// NewMockSender creates a MockSender that fails every dispatch until a
// function is set
func NewMockSender() *MockSender {
	return &MockSender{callLog: []string{}}
}

// Dispatch implements mediator.Sender
func (m *MockSender) Dispatch(ctx context.Context, request any) (any, error) {
	m.mu.Lock()
	m.callLog = append(m.callLog, mediator.RequestName(reflect.TypeOf(request)))
	fn := m.dispatchFunc
	m.mu.Unlock()

	if fn == nil {
		return nil, fmt.Errorf("unsupported request type: %T", request)
	}
	return fn(ctx, request)
}

// DispatchVoid implements mediator.Sender
func (m *MockSender) DispatchVoid(ctx context.Context, request mediator.VoidRequest) error {
	_, err := m.Dispatch(ctx, request)
	return err
}

// SetDispatchFunc sets the function answering every dispatch
func (m *MockSender) SetDispatchFunc(fn func(ctx context.Context, request any) (any, error)) {
	m.mu.Lock()
	m.dispatchFunc = fn
	m.mu.Unlock()
}

// CallLog returns the short names of dispatched request types in order
func (m *MockSender) CallLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.callLog...)
}

// ClearCallLog empties the call log
func (m *MockSender) ClearCallLog() {
	m.mu.Lock()
	m.callLog = []string{}
	m.mu.Unlock()
}

var _ mediator.Mediator = (*MockSender)(nil)
