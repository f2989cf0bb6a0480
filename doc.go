// Package emailservice sends a single plain-text email per call through a
// transactional email provider and reports failures as one domain error.
//
// The Client builds the provider client once from Config and reuses it for
// every send. The sender identity comes from configuration, never from the
// caller, and only a text body is ever sent.
//
// # Basic Usage
//
//	client, err := emailservice.New(emailservice.DefaultConfig(),
//		emailservice.WithAWSSESCredentials("sa-east-1", accessKey, secretKey),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Send(ctx, "user@example.com", "Hi", "Hello")
//	if errors.Is(err, emailservice.ErrSendFailed) {
//		// provider rejected or could not be reached
//	}
//
// # Supported Providers
//
//   - AWS SES (default)
//   - SendGrid
//   - Mailgun
//   - Resend
//   - Generic SMTP
//
// Exactly one provider is active per client; there is no retry and no failover.
// The HTTP surface lives in cmd/emailservice.
package emailservice
