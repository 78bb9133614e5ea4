package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// ErrorMapper converts dispatch errors into gRPC status errors
type ErrorMapper struct {
	rules []errorRule
}

type errorRule struct {
	target error
	code   codes.Code
}

// NewErrorMapper creates a mapper that knows the mediator and transport
// errors. Domain errors can be added with Map.
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{rules: []errorRule{
		{context.Canceled, codes.Canceled},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{mediator.ErrNilRequest, codes.InvalidArgument},
		{ErrInvalidPayload, codes.InvalidArgument},
		{ErrUnknownType, codes.NotFound},
		{mediator.ErrHandlerNotFound, codes.Unimplemented},
		{mediator.ErrConfiguration, codes.FailedPrecondition},
	}}
}

// Map reports errors matching target with code. Later rules are checked
// first.
func (m *ErrorMapper) Map(target error, code codes.Code) *ErrorMapper {
	m.rules = append(m.rules, errorRule{target: target, code: code})
	return m
}

// Status returns err as a gRPC status error, keeping the message
func (m *ErrorMapper) Status(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(m.Code(err), err.Error())
}

// Code returns the gRPC code for err
func (m *ErrorMapper) Code(err error) codes.Code {
	var validationErr *config.ValidationError
	if errors.As(err, &validationErr) {
		return codes.InvalidArgument
	}

	for i := len(m.rules) - 1; i >= 0; i-- {
		if errors.Is(err, m.rules[i].target) {
			return m.rules[i].code
		}
	}
	return codes.Internal
}
