package mediator_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mediator-go/pkg/mediator"
	"github.com/andrescamacho/mediator-go/pkg/mediator/mediatortest"
	"github.com/andrescamacho/mediator-go/pkg/services"
)

type Ping struct {
	mediator.Returns[Pong]
	Message string
}

type Pong struct {
	Message string
}

type VoidPing struct {
	mediator.Void
	Message string
}

type Delete struct {
	mediator.Void
	ID int
}

type Echo struct {
	mediator.Returns[string]
	Index int
}

type Another struct {
	mediator.Returns[string]
	Value string
}

type Failing struct {
	mediator.Returns[string]
}

type Slow struct {
	mediator.Returns[string]
	Delay time.Duration
}

type Unhandled struct {
	mediator.Returns[int]
}

var errDomain = errors.New("test exception")

// Recorder is shared with handlers to observe side effects
type Recorder struct {
	mu       sync.Mutex
	messages []string
	deleted  []int
}

func (r *Recorder) record(message string) {
	r.mu.Lock()
	r.messages = append(r.messages, message)
	r.mu.Unlock()
}

func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.messages...)
}

func (r *Recorder) Deleted() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int{}, r.deleted...)
}

type PingHandler struct {
	recorder *Recorder
}

func NewPingHandler(ctx context.Context, r mediator.Resolver) (*PingHandler, error) {
	rec, err := services.Get[*Recorder](ctx, r)
	if err != nil {
		return nil, err
	}
	return &PingHandler{recorder: rec}, nil
}

func (h *PingHandler) Handle(_ context.Context, req Ping) (Pong, error) {
	h.recorder.record(req.Message)
	return Pong{Message: req.Message + " Pong"}, nil
}

type VoidPingHandler struct {
	recorder *Recorder
}

func NewVoidPingHandler(ctx context.Context, r mediator.Resolver) (*VoidPingHandler, error) {
	rec, err := services.Get[*Recorder](ctx, r)
	if err != nil {
		return nil, err
	}
	return &VoidPingHandler{recorder: rec}, nil
}

func (h *VoidPingHandler) Handle(_ context.Context, req VoidPing) error {
	h.recorder.record(req.Message)
	return nil
}

// MiscHandlers serves several contracts through method expressions
type MiscHandlers struct {
	recorder *Recorder
}

func NewMiscHandlers(ctx context.Context, r mediator.Resolver) (*MiscHandlers, error) {
	rec, err := services.Get[*Recorder](ctx, r)
	if err != nil {
		return nil, err
	}
	return &MiscHandlers{recorder: rec}, nil
}

func (h *MiscHandlers) Echo(_ context.Context, req Echo) (string, error) {
	return fmt.Sprintf("Response for %d", req.Index), nil
}

func (h *MiscHandlers) Another(_ context.Context, req Another) (string, error) {
	return "Another: " + req.Value, nil
}

func (h *MiscHandlers) Failing(context.Context, Failing) (string, error) {
	return "", errDomain
}

func (h *MiscHandlers) Slow(ctx context.Context, req Slow) (string, error) {
	select {
	case <-time.After(req.Delay):
		return "done", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (h *MiscHandlers) Delete(_ context.Context, req Delete) error {
	h.recorder.mu.Lock()
	h.recorder.deleted = append(h.recorder.deleted, req.ID)
	h.recorder.mu.Unlock()
	return nil
}

// Describer is an interface type; discovery must skip it
type Describer interface {
	Handle(ctx context.Context, req Ping) (Pong, error)
}

var testModule = mediator.NewModule("mediator_test",
	mediator.Implementation(NewPingHandler, mediator.Handles[Ping, Pong]()),
	mediator.Implementation(NewVoidPingHandler, mediator.HandlesVoid[VoidPing]()),
	mediator.Implementation(NewMiscHandlers,
		mediator.HandlesVia((*MiscHandlers).Echo),
		mediator.HandlesVia((*MiscHandlers).Another),
		mediator.HandlesVia((*MiscHandlers).Failing),
		mediator.HandlesVia((*MiscHandlers).Slow),
		mediator.HandlesVoidVia((*MiscHandlers).Delete),
	),
	mediator.Abstract[Describer](mediator.Handles[Ping, Pong]()),
)

var _ = mediator.DefineModule[Ping](
	mediator.Implementation(NewPingHandler, mediator.Handles[Ping, Pong]()),
)

// harness wires a container, a spying resolver and an isolated cache
type harness struct {
	mediator mediator.Mediator
	resolver *mediatortest.SpyResolver
	observer *mediatortest.RecordingObserver
	cache    *mediator.WrapperCache
	recorder *Recorder
}

func newHarness(t *testing.T, modules ...*mediator.Module) *harness {
	t.Helper()

	recorder := &Recorder{}
	c := services.NewCollection()
	require.NoError(t, services.AddInstance(c, recorder))
	if len(modules) > 0 {
		require.NoError(t, mediator.RegisterHandlers(c, modules...))
	}

	resolver := mediatortest.NewSpyResolver(c.Build())
	observer := mediatortest.NewRecordingObserver()
	cache := mediator.NewWrapperCache()

	return &harness{
		mediator: mediator.New(resolver,
			mediator.WithWrapperCache(cache),
			mediator.WithObserver(observer)),
		resolver: resolver,
		observer: observer,
		cache:    cache,
		recorder: recorder,
	}
}
