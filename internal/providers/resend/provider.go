package resend

import (
	"context"
	"time"

	"github.com/resend/resend-go/v3"

	"github.com/lattiq/emailservice/internal/core"
)

// Name is the provider name reported in results and errors.
const Name = "resend"

// Provider implements core.Provider using the Resend API.
type Provider struct {
	client *resend.Client
	config core.ProviderSettings
}

// NewProvider creates a new Resend provider.
func NewProvider(settings core.ProviderSettings) (core.Provider, error) {
	apiKey := settings.Get("api_key")
	if apiKey == "" {
		return nil, core.NewValidationError("api_key", "Resend API key is required")
	}

	return &Provider{
		client: resend.NewClient(apiKey),
		config: settings,
	}, nil
}

// Send sends a single plain-text email using Resend.
func (p *Provider) Send(ctx context.Context, email *core.Email) (*core.SendResult, error) {
	resp, err := p.client.Emails.SendWithContext(ctx, buildRequest(email))
	if err != nil {
		return nil, core.WrapProviderError(Name, "send_error", err)
	}

	return &core.SendResult{
		MessageID: resp.Id,
		Provider:  p.Name(),
		Timestamp: time.Now(),
	}, nil
}

// ValidateConfig validates the provider configuration.
func (p *Provider) ValidateConfig() error {
	if p.config.Get("api_key") == "" {
		return core.NewValidationError("api_key", "Resend API key is required")
	}
	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return Name
}

func buildRequest(email *core.Email) *resend.SendEmailRequest {
	to := make([]string, len(email.To))
	for i, addr := range email.To {
		to[i] = addr.String()
	}

	return &resend.SendEmailRequest{
		From:    email.From.String(),
		To:      to,
		Subject: email.Subject,
		Text:    email.TextBody,
	}
}
