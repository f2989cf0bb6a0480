package providers

import (
	"fmt"

	"github.com/lattiq/emailservice/internal/core"
	"github.com/lattiq/emailservice/internal/providers/mailgun"
	"github.com/lattiq/emailservice/internal/providers/resend"
	"github.com/lattiq/emailservice/internal/providers/sendgrid"
	"github.com/lattiq/emailservice/internal/providers/ses"
	"github.com/lattiq/emailservice/internal/providers/smtp"
)

// Factory builds a provider from its settings.
type Factory func(settings core.ProviderSettings) (core.Provider, error)

var factories = map[string]Factory{
	ses.Name:      ses.NewProvider,
	sendgrid.Name: sendgrid.NewProvider,
	mailgun.Name:  mailgun.NewProvider,
	resend.Name:   resend.NewProvider,
	smtp.Name:     smtp.NewProvider,
}

// New creates the provider registered under kind.
func New(kind string, settings core.ProviderSettings) (core.Provider, error) {
	factory, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported provider type: %s", kind)
	}
	return factory(settings)
}

// Supported reports whether a provider is registered under kind.
func Supported(kind string) bool {
	_, ok := factories[kind]
	return ok
}
