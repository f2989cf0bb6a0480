package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEmail() *Email {
	return &Email{
		From:     Address{Email: "no-reply@example.com"},
		To:       []Address{{Email: "a@b.com"}},
		Subject:  "Hi",
		TextBody: "Hello",
	}
}

func TestEmail_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(e *Email)
		field  string
	}{
		{name: "valid", mutate: func(*Email) {}},
		{name: "missing sender", mutate: func(e *Email) { e.From = Address{} }, field: "from"},
		{name: "no recipients", mutate: func(e *Email) { e.To = nil }, field: "to"},
		{name: "malformed recipient", mutate: func(e *Email) { e.To = []Address{{Email: "not-an-address"}} }, field: "to"},
		{name: "blank subject", mutate: func(e *Email) { e.Subject = "   " }, field: "subject"},
		{name: "blank body", mutate: func(e *Email) { e.TextBody = "" }, field: "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			email := validEmail()
			tt.mutate(email)

			err := email.Validate()
			if tt.field == "" {
				require.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestAddress_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a@b.com", Address{Email: "a@b.com"}.String())
	assert.Equal(t, "Ana <a@b.com>", Address{Name: "Ana", Email: "a@b.com"}.String())
	assert.Equal(t, "=?UTF-8?q?Jo=C3=A3o?= <a@b.com>", Address{Name: "João", Email: "a@b.com"}.String())
}

func TestEmail_Recipients(t *testing.T) {
	t.Parallel()

	email := validEmail()
	email.To = append(email.To, Address{Name: "C", Email: "c@d.com"})

	assert.Equal(t, []string{"a@b.com", "c@d.com"}, email.Recipients())
}

func TestProviderError(t *testing.T) {
	t.Parallel()

	cause := errors.New("MessageRejected: Email address is not verified")
	err := WrapProviderError("aws_ses", "MessageRejected", cause)
	err.StatusCode = 400

	assert.Equal(t, "aws_ses: MessageRejected (HTTP 400): MessageRejected: Email address is not verified", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", err), &ProviderError{Provider: "aws_ses", Code: "MessageRejected"})
	assert.NotErrorIs(t, err, &ProviderError{Provider: "aws_ses", Code: "Throttling"})
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "invalid subject: subject is required", NewValidationError("subject", "subject is required").Error())

	err := &ValidationError{Field: "to", Message: "recipient address is malformed", Value: "x"}
	assert.Equal(t, "invalid to: recipient address is malformed (got x)", err.Error())
	assert.ErrorIs(t, err, &ValidationError{})
}

func TestProviderSettings(t *testing.T) {
	t.Parallel()

	s := ProviderSettings{}
	s.Set("region", "sa-east-1")
	assert.Equal(t, "sa-east-1", s.Get("region"))
	assert.Empty(t, s.Get("missing"))
}
