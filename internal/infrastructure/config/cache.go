package config

import "time"

// CacheConfig holds the Redis read-through cache configuration
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Full redis:// URL (takes precedence over Address)
	URL string `mapstructure:"url" validate:"omitempty,url"`

	Address  string `mapstructure:"address" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0,max=15"`

	// Time to live for cached entries
	TTL time.Duration `mapstructure:"ttl" validate:"required"`

	// Key prefix for all cached entries
	KeyPrefix string `mapstructure:"key_prefix"`
}
