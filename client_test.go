package emailservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProvider is a mock implementation of the Provider interface.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Send(ctx context.Context, email *Email) (*SendResult, error) {
	args := m.Called(ctx, email)
	result, _ := args.Get(0).(*SendResult)
	return result, args.Error(1)
}

func (m *MockProvider) ValidateConfig() error {
	return nil
}

func (m *MockProvider) Name() string {
	return "mock"
}

func newTestClient(t *testing.T, p Provider, opts ...Option) *Client {
	t.Helper()

	client, err := NewWithProvider(DefaultConfig(), p, opts...)
	require.NoError(t, err)
	return client
}

func TestClient_Send_Success(t *testing.T) {
	t.Parallel()

	provider := &MockProvider{}
	provider.On("Send", mock.Anything, mock.MatchedBy(func(email *Email) bool {
		return email.From.Email == DefaultFromAddress &&
			len(email.To) == 1 &&
			email.To[0].Email == "a@b.com" &&
			email.Subject == "Hi" &&
			email.TextBody == "Hello"
	})).Return(&SendResult{MessageID: "id-1", Provider: "mock"}, nil)

	client := newTestClient(t, provider)

	err := client.Send(context.Background(), "a@b.com", "Hi", "Hello")
	require.NoError(t, err)
	provider.AssertExpectations(t)
}

func TestClient_Send_SenderIsFixed(t *testing.T) {
	t.Parallel()

	provider := &MockProvider{}
	var froms []string
	provider.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { froms = append(froms, args.Get(1).(*Email).From.Email) }).
		Return(&SendResult{}, nil)

	client := newTestClient(t, provider, WithFrom("sender@example.com", "Sistema"))

	for _, to := range []string{"a@b.com", "sender@evil.com", "c@d.org"} {
		require.NoError(t, client.Send(context.Background(), to, "Hi", "Hello"))
	}

	assert.Equal(t, []string{"sender@example.com", "sender@example.com", "sender@example.com"}, froms)
}

func TestClient_Send_ProviderFailure(t *testing.T) {
	t.Parallel()

	cause := NewProviderError("mock", "Throttling", "Maximum sending rate exceeded.")
	provider := &MockProvider{}
	provider.On("Send", mock.Anything, mock.Anything).Return(nil, cause)

	client := newTestClient(t, provider)

	err := client.Send(context.Background(), "a@b.com", "Hi", "Hello")
	require.Error(t, err)
	assert.EqualError(t, err, "Erro enquanto enviava o email")
	assert.ErrorIs(t, err, ErrSendFailed)

	var sendErr *SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, "mock", sendErr.Provider)

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Throttling", pe.Code)
}

func TestClient_Send_AnyProviderErrorBecomesSendError(t *testing.T) {
	t.Parallel()

	provider := &MockProvider{}
	provider.On("Send", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	client := newTestClient(t, provider)

	err := client.Send(context.Background(), "a@b.com", "Hi", "Hello")
	assert.ErrorIs(t, err, ErrSendFailed)
	assert.Equal(t, "boom", errors.Unwrap(err).Error())
}

func TestClient_Send_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, to, subject, body, field string
	}{
		{name: "empty recipient", to: "", subject: "Hi", body: "Hello", field: "to"},
		{name: "malformed recipient", to: "not-an-email", subject: "Hi", body: "Hello", field: "to"},
		{name: "empty subject", to: "a@b.com", subject: "", body: "Hello", field: "subject"},
		{name: "empty body", to: "a@b.com", subject: "Hi", body: " ", field: "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := &MockProvider{}
			client := newTestClient(t, provider)

			err := client.Send(context.Background(), tt.to, tt.subject, tt.body)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.NotErrorIs(t, err, ErrSendFailed)
			assert.True(t, IsValidationError(err))
			provider.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestClient_Send_AppliesTimeout(t *testing.T) {
	t.Parallel()

	provider := &MockProvider{}
	provider.On("Send", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= 2*time.Second
	}), mock.Anything).Return(&SendResult{}, nil)

	client := newTestClient(t, provider, WithTimeout(2*time.Second), WithoutTracing())

	require.NoError(t, client.Send(context.Background(), "a@b.com", "Hi", "Hello"))
	provider.AssertExpectations(t)
}

func TestClient_Send_NoTimeout(t *testing.T) {
	t.Parallel()

	provider := &MockProvider{}
	provider.On("Send", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return !ok
	}), mock.Anything).Return(&SendResult{}, nil)

	client := newTestClient(t, provider, WithTimeout(0))

	require.NoError(t, client.Send(context.Background(), "a@b.com", "Hi", "Hello"))
	provider.AssertExpectations(t)
}

func TestClient_Close(t *testing.T) {
	t.Parallel()

	provider := &MockProvider{}
	client := newTestClient(t, provider)

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	err := client.Send(context.Background(), "a@b.com", "Hi", "Hello")
	require.ErrorIs(t, err, ErrClientClosed)
	provider.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestNew(t *testing.T) {
	t.Parallel()

	client, err := New(DefaultConfig(), WithSendGrid("SG.test"))
	require.NoError(t, err)
	assert.Equal(t, "sendgrid", client.ProviderName())
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := New(DefaultConfig(), WithProvider("pigeon", nil))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "provider.type", verr.Field)
}

func TestNew_ProviderSettingsRejected(t *testing.T) {
	t.Parallel()

	_, err := New(DefaultConfig(), WithProvider(ProviderAWSSES, ProviderSettings{}))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "region", verr.Field)
}

func TestNewWithProvider_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewWithProvider(DefaultConfig(), nil)
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewWithProvider(DefaultConfig(), &MockProvider{}, WithFrom("", ""))
	assert.True(t, IsValidationError(err))
}
