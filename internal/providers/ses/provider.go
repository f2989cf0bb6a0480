package ses

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/smithy-go"

	"github.com/lattiq/emailservice/internal/core"
)

// Name is the provider name reported in results and errors.
const Name = "aws_ses"

// API is the subset of the SES client used by the provider.
type API interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Provider implements the core.Provider interface for AWS SES.
type Provider struct {
	client API
	config core.ProviderSettings
}

// NewProvider creates a new AWS SES provider.
// The client handle is long-lived and safe for concurrent use.
func NewProvider(settings core.ProviderSettings) (core.Provider, error) {
	region := settings.Get("region")
	if region == "" {
		return nil, core.NewValidationError("region", "AWS region is required")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}

	// Explicit credential pair takes precedence over the default chain
	if accessKey := settings.Get("access_key"); accessKey != "" {
		secretKey := settings.Get("secret_key")
		if secretKey == "" {
			return nil, core.NewValidationError("secret_key", "secret key is required when access key is provided")
		}
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, settings.Get("session_token")),
		))
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, core.WrapProviderError(Name, "config_error", err)
	}

	return NewProviderWithAPI(ses.NewFromConfig(cfg), settings), nil
}

// NewProviderWithAPI creates a provider around an existing SES client.
func NewProviderWithAPI(client API, settings core.ProviderSettings) *Provider {
	if settings == nil {
		settings = core.ProviderSettings{}
	}
	return &Provider{
		client: client,
		config: settings,
	}
}

// Send sends a single plain-text email using AWS SES.
func (p *Provider) Send(ctx context.Context, email *core.Email) (*core.SendResult, error) {
	input := BuildInput(email)

	if configSet := p.config.Get("configuration_set"); configSet != "" {
		input.ConfigurationSetName = aws.String(configSet)
	}

	output, err := p.client.SendEmail(ctx, input)
	if err != nil {
		return nil, translateError(err)
	}

	return &core.SendResult{
		MessageID: aws.ToString(output.MessageId),
		Provider:  p.Name(),
		Timestamp: time.Now(),
	}, nil
}

// BuildInput converts an email into an SES SendEmail request.
// Only the text body is ever set.
func BuildInput(email *core.Email) *ses.SendEmailInput {
	return &ses.SendEmailInput{
		Source: aws.String(email.From.String()),
		Destination: &types.Destination{
			ToAddresses: convertAddresses(email.To),
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(email.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(email.TextBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}
}

// ValidateConfig validates the provider configuration.
func (p *Provider) ValidateConfig() error {
	if p.config.Get("region") == "" {
		return core.NewValidationError("region", "AWS region is required")
	}
	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return Name
}

// translateError keeps the AWS error code and HTTP status when the SDK reports them.
// Authentication, throttling and sandbox rejections all surface here.
func translateError(err error) *core.ProviderError {
	pe := core.WrapProviderError(Name, "send_error", err)

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		pe.Code = apiErr.ErrorCode()
		if msg := apiErr.ErrorMessage(); msg != "" {
			pe.Message = msg
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		pe.StatusCode = respErr.HTTPStatusCode()
	}

	return pe
}

func convertAddresses(addresses []core.Address) []string {
	result := make([]string, len(addresses))
	for i, addr := range addresses {
		result[i] = addr.String()
	}
	return result
}
