package logging

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

type lookup struct {
	mediator.Returns[string]
}

func TestNewLogger(t *testing.T) {
	cfg := config.LoggingConfig{
		Level:    "debug",
		Format:   "text",
		Output:   "file",
		FilePath: filepath.Join(t.TempDir(), "mediator.log"),
	}

	logger, err := NewLogger(cfg, "test")

	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "loud", Format: "json", Output: "stdout"}, "")

	assert.Error(t, err)
}

func TestLoggerFromContext(t *testing.T) {
	assert.NotNil(t, LoggerFromContext(context.Background()))

	logger := zap.NewExample()
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, LoggerFromContext(ctx))
}

func TestDispatchObserver(t *testing.T) {
	// Arrange
	core, logs := observer.New(zapcore.DebugLevel)
	obs := NewDispatchObserver(zap.New(core))
	requestType := reflect.TypeFor[lookup]()

	// Act
	obs.WrapperBuilt(requestType)
	obs.DispatchCompleted(requestType, time.Millisecond, nil)
	obs.DispatchCompleted(requestType, time.Millisecond, errors.New("boom"))

	// Assert
	require.Equal(t, 3, logs.Len())
	failed := logs.FilterMessage("dispatch failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.WarnLevel, failed[0].Level)
	assert.Equal(t, "lookup", failed[0].ContextMap()["request"])
	assert.Equal(t, 1, logs.FilterMessage("dispatch wrapper built").Len())
}
