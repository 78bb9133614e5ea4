package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
database:
  type: sqlite
  path: ":memory:"
daemon:
  address: localhost:7070
  rate_limit:
    requests: 5
logging:
  level: debug
`)

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.True(t, cfg.Database.InMemory())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.InDelta(t, 5.0, cfg.Daemon.RateLimit.Requests, 0.001)
	assert.Equal(t, 200, cfg.Daemon.RateLimit.Burst)
	assert.Equal(t, 10*time.Second, cfg.Daemon.DispatchTimeout)

	network, address := cfg.Daemon.Network()
	assert.Equal(t, "tcp", network)
	assert.Equal(t, "localhost:7070", address)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: info\n")
	t.Setenv("MED_LOGGING_LEVEL", "warn")
	t.Setenv("MED_CACHE_TTL", "30s")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/orders")
	t.Setenv("MED_DATABASE_TYPE", "postgres")

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "postgres://u:p@db:5432/orders", cfg.Database.DSN())
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: loud\n")

	_, err := config.LoadConfig(path)

	var validationErr *config.ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Len(t, validationErr.Violations, 1)
	assert.Equal(t, "logging.level", validationErr.Violations[0].Field)
	assert.Equal(t, "oneof", validationErr.Violations[0].Rule)
}

func TestLoadConfigOrDefault(t *testing.T) {
	cfg := config.LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "unix", func() string { n, _ := cfg.Daemon.Network(); return n }())
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, config.ValidateConfig(config.Default()))
	assert.Equal(t, "localhost:9090", config.Default().Metrics.Address())
}

func TestValidator_IgnoresNonStructs(t *testing.T) {
	v := config.NewValidator()

	assert.NoError(t, v.Validate(42))
	assert.NoError(t, v.Validate("x"))
}

func TestValidator_UsesJSONNames(t *testing.T) {
	type payload struct {
		OrderID int `json:"order_id" validate:"required"`
	}

	err := config.NewValidator().Validate(&payload{})

	var validationErr *config.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "order_id", validationErr.Violations[0].Field)
}

func TestUserConfig_SetAndLoad(t *testing.T) {
	// Arrange
	h := config.NewUserConfigHandlerAt(filepath.Join(t.TempDir(), "nested", "config.json"))

	// Act
	require.NoError(t, h.Set("server", "localhost:7070"))
	require.NoError(t, h.Set("timeout", "3s"))
	require.NoError(t, h.Set("output", "text"))
	cfg, err := h.Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "localhost:7070", cfg.Server)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "text", cfg.Output)
}

func TestUserConfig_Rejects(t *testing.T) {
	h := config.NewUserConfigHandlerAt(filepath.Join(t.TempDir(), "config.json"))

	assert.Error(t, h.Set("colour", "blue"))
	assert.Error(t, h.Set("timeout", "soon"))
	assert.Error(t, h.Set("output", "xml"))

	cfg, err := h.Load()
	require.NoError(t, err)
	assert.Equal(t, &config.UserConfig{}, cfg)
}
