package grpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
	"github.com/andrescamacho/mediator-go/pkg/services"
)

// ScopeFactory creates one dependency scope per remote dispatch
type ScopeFactory interface {
	CreateScope() *services.Scope
}

// DispatcherService implements DispatcherServer by decoding the envelope
// into a catalogued request and sending it through a scoped mediator
type DispatcherService struct {
	scopes    ScopeFactory
	catalog   *Catalog
	validator *config.Validator
	timeout   time.Duration
	errors    *ErrorMapper
}

// NewDispatcherService creates the service. A zero timeout leaves the
// caller's deadline in charge.
func NewDispatcherService(scopes ScopeFactory, catalog *Catalog, timeout time.Duration, errs *ErrorMapper) *DispatcherService {
	if errs == nil {
		errs = NewErrorMapper()
	}
	return &DispatcherService{
		scopes:    scopes,
		catalog:   catalog,
		validator: config.NewValidator(),
		timeout:   timeout,
		errors:    errs,
	}
}

func (s *DispatcherService) Dispatch(ctx context.Context, envelope *structpb.Struct) (*structpb.Struct, error) {
	entry, request, err := s.decode(envelope)
	if err != nil {
		return nil, s.errors.Status(err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	scope := s.scopes.CreateScope()
	defer scope.Close()

	m, err := services.Get[mediator.Mediator](ctx, scope)
	if err != nil {
		return nil, s.errors.Status(err)
	}

	result, err := m.Dispatch(ctx, request)
	if err != nil {
		return nil, s.errors.Status(err)
	}

	resultValue, err := toValue(result)
	if err != nil {
		return nil, s.errors.Status(err)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"type":   structpb.NewStringValue(entry.Name),
		"result": resultValue,
	}}, nil
}

func (s *DispatcherService) ListTypes(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	entries := s.catalog.Entries()
	types := make([]any, 0, len(entries))
	for _, e := range entries {
		types = append(types, map[string]any{
			"name": e.Name,
			"void": e.Void(),
		})
	}

	out, err := structpb.NewStruct(map[string]any{"types": types})
	if err != nil {
		return nil, s.errors.Status(err)
	}
	return out, nil
}

func (s *DispatcherService) decode(envelope *structpb.Struct) (CatalogEntry, any, error) {
	fields := envelope.GetFields()

	name := fields["type"].GetStringValue()
	if name == "" {
		return CatalogEntry{}, nil, fmt.Errorf("%w: missing request type", ErrInvalidPayload)
	}
	entry, err := s.catalog.Lookup(name)
	if err != nil {
		return CatalogEntry{}, nil, err
	}

	var payload []byte
	if raw, ok := fields["payload"]; ok {
		obj := raw.GetStructValue()
		if obj == nil {
			return CatalogEntry{}, nil, fmt.Errorf("%w: payload must be an object", ErrInvalidPayload)
		}
		if payload, err = protojson.Marshal(obj); err != nil {
			return CatalogEntry{}, nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}

	request, err := entry.Decode(payload)
	if err != nil {
		return CatalogEntry{}, nil, err
	}
	if err := s.validator.Validate(request); err != nil {
		return CatalogEntry{}, nil, err
	}
	return entry, request, nil
}

// toValue converts a handler result to a protobuf value through its JSON form
func toValue(result any) (*structpb.Value, error) {
	if result == nil {
		return structpb.NewNullValue(), nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return structpb.NewValue(generic)
}

var _ DispatcherServer = (*DispatcherService)(nil)
