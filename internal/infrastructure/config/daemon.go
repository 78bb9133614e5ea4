package config

import "time"

// DaemonConfig holds dispatch daemon configuration
type DaemonConfig struct {
	// TCP address (host:port). When empty the daemon listens on SocketPath.
	Address string `mapstructure:"address" validate:"omitempty,hostname_port"`

	// Unix socket path for local clients
	SocketPath string `mapstructure:"socket_path" validate:"required_without=Address"`

	// PID file location
	PIDFile string `mapstructure:"pid_file" validate:"required"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`

	// Upper bound for a single remote dispatch
	DispatchTimeout time.Duration `mapstructure:"dispatch_timeout" validate:"required"`

	// Admission control for remote dispatches
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig holds token bucket settings
type RateLimitConfig struct {
	// Sustained requests per second
	Requests float64 `mapstructure:"requests" validate:"gt=0"`

	// Maximum burst size
	Burst int `mapstructure:"burst" validate:"min=1"`
}

// Network returns the listener network and address for the daemon.
func (c DaemonConfig) Network() (network, address string) {
	if c.Address != "" {
		return "tcp", c.Address
	}
	return "unix", c.SocketPath
}
