package sendgrid

import (
	"context"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/lattiq/emailservice/internal/core"
)

// Name is the provider name reported in results and errors.
const Name = "sendgrid"

const sendPath = "/v3/mail/send"

// Provider implements the core.Provider interface for SendGrid.
type Provider struct {
	client *sendgrid.Client
	config core.ProviderSettings
}

// NewProvider creates a new SendGrid provider.
func NewProvider(settings core.ProviderSettings) (core.Provider, error) {
	apiKey := settings.Get("api_key")
	if apiKey == "" {
		return nil, core.NewValidationError("api_key", "SendGrid API key is required")
	}

	client := sendgrid.NewSendClient(apiKey)

	// Override host if provided (EU data residency, tests)
	if baseURL := settings.Get("base_url"); baseURL != "" {
		client.BaseURL = strings.TrimSuffix(baseURL, "/") + sendPath
	}

	return &Provider{
		client: client,
		config: settings,
	}, nil
}

// Send sends a single plain-text email using SendGrid.
func (p *Provider) Send(ctx context.Context, email *core.Email) (*core.SendResult, error) {
	if len(email.To) == 0 {
		return nil, core.NewValidationError("to", "at least one recipient is required")
	}

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(email.From.Name, email.From.Email))
	message.Subject = email.Subject

	personalization := mail.NewPersonalization()
	for _, recipient := range email.To {
		personalization.AddTos(mail.NewEmail(recipient.Name, recipient.Email))
	}
	message.AddPersonalizations(personalization)

	// No HTML part is ever attached
	message.AddContent(mail.NewContent("text/plain", email.TextBody))

	response, err := p.client.SendWithContext(ctx, message)
	if err != nil {
		return nil, core.WrapProviderError(Name, "send_error", err)
	}

	if response.StatusCode >= 400 {
		pe := core.NewProviderError(Name, "api_error", "SendGrid API error: "+response.Body)
		pe.StatusCode = response.StatusCode
		return nil, pe
	}

	messageID := "unknown"
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}

	return &core.SendResult{
		MessageID: messageID,
		Provider:  p.Name(),
		Timestamp: time.Now(),
	}, nil
}

// ValidateConfig validates the provider configuration.
func (p *Provider) ValidateConfig() error {
	if p.config.Get("api_key") == "" {
		return core.NewValidationError("api_key", "SendGrid API key is required")
	}
	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return Name
}
