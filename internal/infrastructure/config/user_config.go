package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// UserConfig holds CLI preferences stored in ~/.mediator/config.json.
// Only preferences live here, never credentials.
type UserConfig struct {
	// Daemon to dial when --server is not given, e.g. unix:///tmp/mediator-daemon.sock
	Server string `json:"server,omitempty" validate:"omitempty"`

	// Output format for responses: json or text
	Output string `json:"output,omitempty" validate:"omitempty,oneof=json text"`

	// Per-call timeout for remote dispatches
	Timeout time.Duration `json:"timeout,omitempty" validate:"omitempty,gt=0"`
}

// UserConfigKeys lists the keys accepted by UserConfigHandler.Set
var UserConfigKeys = []string{"output", "server", "timeout"}

// UserConfigHandler loads and saves user preferences
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a handler for ~/.mediator/config.json
func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewUserConfigHandlerAt(filepath.Join(homeDir, ".mediator", "config.json")), nil
}

// NewUserConfigHandlerAt creates a handler for the file at path
func NewUserConfigHandlerAt(path string) *UserConfigHandler {
	return &UserConfigHandler{configPath: path}
}

// Load reads the preferences, returning empty ones if the file is missing
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	data, err := os.ReadFile(h.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}
	return &cfg, nil
}

// Save validates and writes the preferences
func (h *UserConfigHandler) Save(cfg *UserConfig) error {
	if err := NewValidator().Validate(cfg); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(h.configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}
	if err := os.WriteFile(h.configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	return nil
}

// Set updates one preference. An empty value clears it.
func (h *UserConfigHandler) Set(key, value string) error {
	cfg, err := h.Load()
	if err != nil {
		return err
	}

	switch key {
	case "server":
		cfg.Server = value
	case "output":
		cfg.Output = value
	case "timeout":
		cfg.Timeout = 0
		if value != "" {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid timeout %q: %w", value, err)
			}
			cfg.Timeout = d
		}
	default:
		keys := append([]string(nil), UserConfigKeys...)
		sort.Strings(keys)
		return fmt.Errorf("unknown setting %q, expected one of %v", key, keys)
	}

	return h.Save(cfg)
}

// GetConfigPath returns the path to the user config file
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
