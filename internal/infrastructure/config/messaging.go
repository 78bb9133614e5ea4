package config

// MessagingConfig holds NATS event publishing configuration
type MessagingConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// NATS server URL
	URL string `mapstructure:"url" validate:"required_if=Enabled true"`

	// Prefix for every published subject, e.g. "mediator" gives "mediator.order.created"
	SubjectPrefix string `mapstructure:"subject_prefix" validate:"required"`
}
