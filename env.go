package emailservice

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envConfig mirrors the environment variables understood by LoadConfig.
type envConfig struct {
	Provider        string        `env:"EMAIL_PROVIDER" envDefault:"aws_ses"`
	FromEmail       string        `env:"EMAIL_FROM" envDefault:"no-reply@sistema.com.br"`
	FromName        string        `env:"EMAIL_FROM_NAME"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"30s"`

	AWS struct {
		AccessKeyID      string `env:"AWS_ACCESS_KEY_ID"`
		SecretAccessKey  string `env:"AWS_SECRET_ACCESS_KEY"`
		SessionToken     string `env:"AWS_SESSION_TOKEN"`
		Region           string `env:"AWS_REGION"`
		ConfigurationSet string `env:"SES_CONFIGURATION_SET"`
	}

	SendGrid struct {
		APIKey  string `env:"SENDGRID_API_KEY"`
		BaseURL string `env:"SENDGRID_BASE_URL"`
	}

	Mailgun struct {
		APIKey  string `env:"MAILGUN_API_KEY"`
		Domain  string `env:"MAILGUN_DOMAIN"`
		BaseURL string `env:"MAILGUN_BASE_URL"`
	}

	Resend struct {
		APIKey string `env:"RESEND_API_KEY"`
	}

	SMTP struct {
		Host          string `env:"SMTP_HOST"`
		Port          string `env:"SMTP_PORT" envDefault:"587"`
		Username      string `env:"SMTP_USERNAME"`
		Password      string `env:"SMTP_PASSWORD"`
		TLS           bool   `env:"SMTP_TLS"`
		TLSSkipVerify bool   `env:"SMTP_TLS_SKIP_VERIFY"`
	}

	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"45s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string `env:"LOG_FORMAT" envDefault:"json"`
	TracingEnabled bool   `env:"TRACING_ENABLED" envDefault:"true"`
}

// LoadConfig builds a Config from the process environment.
// Values from the given .env files (default ".env") fill in variables that are
// not already set; missing files are ignored.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	cfg := DefaultConfig()
	cfg.Provider.Type = ProviderType(ec.Provider)
	cfg.Provider.Settings = ec.providerSettings(cfg.Provider.Type)
	cfg.Provider.From = Address{Name: ec.FromName, Email: ec.FromEmail}
	cfg.Provider.Timeout = ec.ProviderTimeout
	cfg.Server = ServerConfig{
		Addr:            ec.HTTPAddr,
		ReadTimeout:     ec.ReadTimeout,
		WriteTimeout:    ec.WriteTimeout,
		ShutdownTimeout: ec.ShutdownTimeout,
	}
	cfg.Monitoring.Logging = LoggingConfig{Level: ec.LogLevel, Format: ec.LogFormat}
	cfg.Monitoring.Tracing.Enabled = ec.TracingEnabled

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	return cfg, nil
}

func (ec *envConfig) providerSettings(pt ProviderType) ProviderSettings {
	settings := ProviderSettings{}
	set := func(key, value string) {
		if value != "" {
			settings.Set(key, value)
		}
	}

	switch pt {
	case ProviderAWSSES:
		set("region", ec.AWS.Region)
		set("access_key", ec.AWS.AccessKeyID)
		set("secret_key", ec.AWS.SecretAccessKey)
		set("session_token", ec.AWS.SessionToken)
		set("configuration_set", ec.AWS.ConfigurationSet)
	case ProviderSendGrid:
		set("api_key", ec.SendGrid.APIKey)
		set("base_url", ec.SendGrid.BaseURL)
	case ProviderMailgun:
		set("api_key", ec.Mailgun.APIKey)
		set("domain", ec.Mailgun.Domain)
		set("base_url", ec.Mailgun.BaseURL)
	case ProviderResend:
		set("api_key", ec.Resend.APIKey)
	case ProviderSMTP:
		set("host", ec.SMTP.Host)
		set("port", ec.SMTP.Port)
		set("username", ec.SMTP.Username)
		set("password", ec.SMTP.Password)
		if ec.SMTP.TLS {
			settings.Set("tls", "true")
		}
		if ec.SMTP.TLSSkipVerify {
			settings.Set("tls_skip_verify", "true")
		}
	}

	return settings
}
