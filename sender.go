package emailservice

import (
	"context"
)

// Sender delivers a single plain-text email to one recipient.
// Implementations must be safe for concurrent use.
type Sender interface {
	// Send delivers body to the recipient under the given subject.
	// Provider failures are returned as *SendError; invalid input as *ValidationError.
	Send(ctx context.Context, to, subject, body string) error
}

var _ Sender = (*Client)(nil)
