package logging

import (
	"reflect"
	"time"

	"go.uber.org/zap"

	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// DispatchObserver logs mediator dispatch events. Failures are logged at
// warn level, everything else at debug.
type DispatchObserver struct {
	logger *zap.Logger
}

// NewDispatchObserver creates an observer writing to logger.
func NewDispatchObserver(logger *zap.Logger) *DispatchObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DispatchObserver{logger: logger.Named("dispatch")}
}

func (o *DispatchObserver) WrapperBuilt(requestType reflect.Type) {
	o.logger.Debug("dispatch wrapper built", zap.String("request", mediator.RequestName(requestType)))
}

func (o *DispatchObserver) HandlerResolved(contract reflect.Type) {
	o.logger.Debug("handler resolved", zap.Stringer("contract", contract))
}

func (o *DispatchObserver) DispatchCompleted(requestType reflect.Type, elapsed time.Duration, err error) {
	fields := []zap.Field{
		zap.String("request", mediator.RequestName(requestType)),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		o.logger.Warn("dispatch failed", append(fields, zap.Error(err))...)
		return
	}
	o.logger.Debug("dispatch completed", fields...)
}

var _ mediator.Observer = (*DispatchObserver)(nil)
