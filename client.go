package emailservice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/lattiq/emailservice/internal/providers"
)

// Client implements the Sender interface on top of a single provider.
// All methods are safe for concurrent use.
type Client struct {
	config   Config
	provider Provider
	tracer   trace.Tracer
	mu       sync.RWMutex
	closed   bool
}

// New creates a new client with the given configuration.
// The provider client is built once and reused for every send.
func New(config Config, opts ...Option) (*Client, error) {
	for _, opt := range opts {
		opt(&config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	provider, err := providers.New(config.Provider.Type.String(), config.Provider.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	return newClient(config, provider), nil
}

// NewWithProvider creates a client around an already constructed provider.
// The configured provider type is ignored.
func NewWithProvider(config Config, provider Provider, opts ...Option) (*Client, error) {
	for _, opt := range opts {
		opt(&config)
	}

	if provider == nil {
		return nil, fmt.Errorf("%w: provider is required", ErrInvalidConfiguration)
	}

	if !config.Provider.From.Valid() {
		return nil, &ValidationError{
			Field:   "provider.from",
			Message: "invalid or missing sender address",
			Value:   config.Provider.From.Email,
		}
	}

	return newClient(config, provider), nil
}

func newClient(config Config, provider Provider) *Client {
	var tracer trace.Tracer
	if config.Monitoring.Tracing.Enabled {
		name := config.Monitoring.Tracing.ServiceName
		if name == "" {
			name = "github.com/lattiq/emailservice"
		}
		tracer = otel.Tracer(name)
	} else {
		tracer = noop.NewTracerProvider().Tracer("")
	}

	return &Client{
		config:   config,
		provider: provider,
		tracer:   tracer,
	}
}

// Send sends one plain-text email from the configured sender to a single recipient.
func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	ctx, span := c.tracer.Start(ctx, "emailservice.Client.Send")
	defer span.End()

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		span.RecordError(ErrClientClosed)
		span.SetStatus(codes.Error, ErrClientClosed.Error())
		return ErrClientClosed
	}
	c.mu.RUnlock()

	email := &Email{
		From:     c.config.Provider.From,
		To:       []Address{{Email: to}},
		Subject:  subject,
		TextBody: body,
	}

	span.SetAttributes(
		attribute.String("emailservice.to", to),
		attribute.String("emailservice.from", email.From.Email),
		attribute.String("emailservice.provider", c.provider.Name()),
	)

	if err := email.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return err
	}

	if c.config.Provider.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Provider.Timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := c.provider.Send(ctx, email)
	span.SetAttributes(attribute.Int64("emailservice.provider.duration_ms", time.Since(start).Milliseconds()))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return NewSendError(c.provider.Name(), err)
	}

	if result != nil {
		span.SetAttributes(attribute.String("emailservice.message_id", result.MessageID))
	}
	span.SetStatus(codes.Ok, "email sent successfully")

	return nil
}

// ProviderName returns the name of the active provider.
func (c *Client) ProviderName() string {
	return c.provider.Name()
}

// Close closes the client. Sends after Close return ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	return nil
}
