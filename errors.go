package emailservice

import (
	"errors"

	"github.com/lattiq/emailservice/internal/core"
)

// SendErrorMessage is the fixed message carried by every SendError.
const SendErrorMessage = "Erro enquanto enviava o email"

// Predefined sentinel errors for common cases.
var (
	// ErrSendFailed matches any *SendError via errors.Is.
	ErrSendFailed = errors.New(SendErrorMessage)

	// ErrInvalidConfiguration indicates invalid configuration.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrClientClosed indicates the client has been closed.
	ErrClientClosed = errors.New("client closed")
)

// Type aliases to re-export core types for the public API.
type (
	Provider         = core.Provider
	ProviderSettings = core.ProviderSettings
	Address          = core.Address
	Email            = core.Email
	SendResult       = core.SendResult
	ValidationError  = core.ValidationError
	ProviderError    = core.ProviderError
)

// Error constructor functions
var (
	NewValidationError = core.NewValidationError
	NewProviderError   = core.NewProviderError
)

// SendError is the single domain error returned when the provider call fails.
// Callers see the same message whatever went wrong; the provider failure is
// kept as Cause for diagnostics.
type SendError struct {
	// Provider is the name of the provider that was called.
	Provider string

	// Cause is the underlying provider error.
	Cause error
}

// Error implements the error interface.
func (e *SendError) Error() string {
	return SendErrorMessage
}

// Unwrap returns the underlying error.
func (e *SendError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is.
func (e *SendError) Is(target error) bool {
	if target == ErrSendFailed {
		return true
	}
	_, ok := target.(*SendError)
	return ok
}

// NewSendError wraps a provider failure into a SendError.
func NewSendError(provider string, cause error) *SendError {
	return &SendError{
		Provider: provider,
		Cause:    cause,
	}
}

// IsValidationError reports whether err is caused by invalid input.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
