package core

import (
	"context"
	"fmt"
	"mime"
	"net/mail"
	"strings"
	"time"
)

// Provider turns one Email into one call against a delivery backend.
// Failures reported by the backend come back as *ProviderError.
type Provider interface {
	Send(ctx context.Context, email *Email) (*SendResult, error)
	ValidateConfig() error
	Name() string
}

// ProviderSettings holds string settings keyed by name, e.g. "region" or "api_key".
type ProviderSettings map[string]string

func (ps ProviderSettings) Get(key string) string {
	return ps[key]
}

func (ps ProviderSettings) Set(key, value string) {
	ps[key] = value
}

// Address is a mailbox with an optional display name.
type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// String renders the RFC 5322 form. Non-ASCII display names are Q-encoded.
func (a Address) String() string {
	if a.Name != "" {
		return mime.QEncoding.Encode("UTF-8", a.Name) + " <" + a.Email + ">"
	}
	return a.Email
}

// Valid reports whether the address parses as a single mailbox.
func (a Address) Valid() bool {
	if strings.TrimSpace(a.Email) == "" {
		return false
	}
	parsed, err := mail.ParseAddress(a.String())
	return err == nil && parsed.Address == a.Email
}

// Email is a single plain-text message. It is built per call and never stored.
type Email struct {
	From     Address   `json:"from"`
	To       []Address `json:"to"`
	Subject  string    `json:"subject"`
	TextBody string    `json:"text_body"`
}

// Validate rejects messages no provider would accept.
func (e *Email) Validate() error {
	switch {
	case !e.From.Valid():
		return &ValidationError{Field: "from", Message: "sender address is missing or malformed", Value: e.From.Email}
	case len(e.To) == 0:
		return &ValidationError{Field: "to", Message: "recipient address is required"}
	}

	for _, rcpt := range e.To {
		if !rcpt.Valid() {
			return &ValidationError{Field: "to", Message: "recipient address is malformed", Value: rcpt.Email}
		}
	}

	switch {
	case strings.TrimSpace(e.Subject) == "":
		return &ValidationError{Field: "subject", Message: "subject is required"}
	case strings.TrimSpace(e.TextBody) == "":
		return &ValidationError{Field: "body", Message: "body is required"}
	}
	return nil
}

// Recipients returns the bare recipient addresses.
func (e *Email) Recipients() []string {
	out := make([]string, len(e.To))
	for i, to := range e.To {
		out[i] = to.Email
	}
	return out
}

// SendResult is what a provider reports after accepting a message.
type SendResult struct {
	MessageID string
	Provider  string
	Timestamp time.Time
}

// ValidationError names the input field that made a message unsendable.
type ValidationError struct {
	Field   string
	Message string
	Value   any // optional
}

func (e *ValidationError) Error() string {
	if e.Value == nil || e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid %s: %s (got %v)", e.Field, e.Message, e.Value)
}

// Is matches any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// ProviderError carries a backend failure translated to a stable shape.
// StatusCode is zero for non-HTTP transports.
type ProviderError struct {
	Provider   string
	Code       string
	Message    string
	StatusCode int
	Cause      error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Provider, e.Code)
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error { return e.Cause }

// Is matches another *ProviderError with the same provider and code.
func (e *ProviderError) Is(target error) bool {
	other, ok := target.(*ProviderError)
	return ok && e.Provider == other.Provider && e.Code == other.Code
}

func NewProviderError(provider, code, message string) *ProviderError {
	return &ProviderError{Provider: provider, Code: code, Message: message}
}

// WrapProviderError keeps cause reachable through errors.As and errors.Is.
func WrapProviderError(provider, code string, cause error) *ProviderError {
	return &ProviderError{Provider: provider, Code: code, Message: cause.Error(), Cause: cause}
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
