package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/lattiq/emailservice/internal/core"
)

// Name is the provider name reported in results and errors.
const Name = "smtp"

// Provider implements the core.Provider interface for SMTP.
type Provider struct {
	config core.ProviderSettings
}

// NewProvider creates a new SMTP provider.
func NewProvider(settings core.ProviderSettings) (core.Provider, error) {
	p := &Provider{config: settings}
	if err := p.ValidateConfig(); err != nil {
		return nil, err
	}
	return p, nil
}

// Send sends a single plain-text email over SMTP.
func (p *Provider) Send(ctx context.Context, email *core.Email) (*core.SendResult, error) {
	host := p.config.Get("host")
	now := time.Now()

	message, err := buildMessage(email, now)
	if err != nil {
		return nil, core.WrapProviderError(Name, "message_build_error", err)
	}

	if err := p.deliver(ctx, email.From.Email, email.Recipients(), message); err != nil {
		return nil, core.WrapProviderError(Name, "send_error", err)
	}

	// SMTP doesn't hand back an id, use the one we generated
	return &core.SendResult{
		MessageID: messageID(now, host),
		Provider:  p.Name(),
		Timestamp: now,
	}, nil
}

// ValidateConfig validates the provider configuration.
func (p *Provider) ValidateConfig() error {
	if p.config.Get("host") == "" {
		return core.NewValidationError("host", "SMTP host is required")
	}

	port := p.config.Get("port")
	if port == "" {
		return core.NewValidationError("port", "SMTP port is required")
	}

	if _, err := strconv.Atoi(port); err != nil {
		return core.NewValidationError("port", "invalid port number: "+port)
	}

	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return Name
}

// deliver runs one SMTP transaction. Implicit TLS is used when "tls" is set,
// otherwise STARTTLS is negotiated if the server offers it.
func (p *Provider) deliver(ctx context.Context, from string, to []string, msg []byte) error {
	host := p.config.Get("host")
	addr := net.JoinHostPort(host, p.config.Get("port"))

	tlsConfig := &tls.Config{
		ServerName:         host,
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: p.config.Get("tls_skip_verify") == "true", //nolint:gosec // opt-in for development relays
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	implicitTLS := p.config.Get("tls") == "true"
	if implicitTLS {
		conn = tls.Client(conn, tlsConfig)
	}

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer client.Close()

	if !implicitTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				return err
			}
		}
	}

	if username := p.config.Get("username"); username != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", username, p.config.Get("password"), host)
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}

// buildMessage builds a text/plain message in RFC 5322 format.
func buildMessage(email *core.Email, now time.Time) ([]byte, error) {
	var buf bytes.Buffer

	to := make([]string, len(email.To))
	for i, addr := range email.To {
		to[i] = addr.String()
	}

	buf.WriteString("From: " + email.From.String() + "\r\n")
	buf.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	buf.WriteString("Subject: " + mime.QEncoding.Encode("UTF-8", email.Subject) + "\r\n")
	buf.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(email.TextBody)); err != nil {
		return nil, err
	}
	if err := qp.Close(); err != nil {
		return nil, err
	}
	buf.WriteString("\r\n")

	return buf.Bytes(), nil
}

func messageID(now time.Time, host string) string {
	return fmt.Sprintf("%d@%s", now.UnixNano(), host)
}
