package emailservice

import (
	"time"

	"github.com/lattiq/emailservice/internal/providers"
)

// DefaultFromAddress is the sender identity used when none is configured.
// It must be verified with the provider before it can deliver.
const DefaultFromAddress = "no-reply@sistema.com.br"

// Config holds the complete service configuration.
type Config struct {
	// Provider contains provider-specific configuration.
	Provider ProviderConfig

	// Server contains HTTP server configuration.
	Server ServerConfig

	// Monitoring contains observability configuration.
	Monitoring MonitoringConfig
}

// ProviderConfig contains provider-specific settings.
type ProviderConfig struct {
	// Type specifies the email provider to use.
	Type ProviderType

	// Settings contains the provider's credentials and options.
	Settings ProviderSettings

	// From is the single sender identity used for every message.
	// It is never taken from the request.
	From Address

	// Timeout bounds a single provider call. Zero leaves it to the provider client.
	Timeout time.Duration
}

// ProviderType represents the type of email provider.
type ProviderType string

const (
	// ProviderAWSSES represents Amazon Simple Email Service.
	ProviderAWSSES ProviderType = "aws_ses"

	// ProviderSendGrid represents the SendGrid email service.
	ProviderSendGrid ProviderType = "sendgrid"

	// ProviderMailgun represents the Mailgun email service.
	ProviderMailgun ProviderType = "mailgun"

	// ProviderResend represents the Resend email service.
	ProviderResend ProviderType = "resend"

	// ProviderSMTP represents a generic SMTP server.
	ProviderSMTP ProviderType = "smtp"
)

// String returns the string representation of the provider type.
func (pt ProviderType) String() string {
	return string(pt)
}

// Valid checks if the provider type is supported.
func (pt ProviderType) Valid() bool {
	return providers.Supported(string(pt))
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Addr is the TCP address to listen on.
	Addr string

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration

	// ShutdownTimeout is how long in-flight requests get to finish on shutdown.
	ShutdownTimeout time.Duration
}

// MonitoringConfig contains observability configuration.
type MonitoringConfig struct {
	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig

	// Logging contains logging configuration.
	Logging LoggingConfig
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled indicates whether spans are recorded through the global tracer provider.
	Enabled bool

	// ServiceName is the instrumentation name used for the tracer.
	ServiceName string
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the logging level (debug, info, warn, error).
	Level string

	// Format is the log format (json, text).
	Format string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderConfig{
			Type:     ProviderAWSSES,
			Settings: ProviderSettings{},
			From:     Address{Email: DefaultFromAddress},
			Timeout:  30 * time.Second,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    45 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Monitoring: MonitoringConfig{
			Tracing: TracingConfig{
				Enabled:     true,
				ServiceName: "emailservice",
			},
			Logging: LoggingConfig{
				Level:  "info",
				Format: "json",
			},
		},
	}
}

// Validate checks if the configuration is valid and complete.
func (c *Config) Validate() error {
	if !c.Provider.Type.Valid() {
		return &ValidationError{
			Field:   "provider.type",
			Message: "invalid or unsupported provider type: " + string(c.Provider.Type),
		}
	}

	if !c.Provider.From.Valid() {
		return &ValidationError{
			Field:   "provider.from",
			Message: "invalid or missing sender address",
			Value:   c.Provider.From.Email,
		}
	}

	if c.Provider.Timeout < 0 {
		return &ValidationError{
			Field:   "provider.timeout",
			Message: "timeout must not be negative",
		}
	}

	switch c.Monitoring.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return &ValidationError{
			Field:   "monitoring.logging.level",
			Message: "level must be one of debug, info, warn, error",
			Value:   c.Monitoring.Logging.Level,
		}
	}

	switch c.Monitoring.Logging.Format {
	case "", "json", "text":
	default:
		return &ValidationError{
			Field:   "monitoring.logging.format",
			Message: "format must be json or text",
			Value:   c.Monitoring.Logging.Format,
		}
	}

	return nil
}
