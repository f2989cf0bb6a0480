package smtp

import (
	"bufio"
	"context"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattiq/emailservice/internal/core"
)

type transaction struct {
	from string
	rcpt []string
	data string
}

// fakeServer accepts one SMTP session without STARTTLS or AUTH.
func fakeServer(t *testing.T, rejectRcpt bool) (string, <-chan transaction) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	done := make(chan transaction, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		tp := textproto.NewConn(conn)
		var tx transaction
		_ = tp.PrintfLine("220 localhost ESMTP")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			cmd := strings.ToUpper(line)
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				_ = tp.PrintfLine("250 localhost")
			case strings.HasPrefix(cmd, "MAIL FROM:"):
				tx.from = strings.Trim(line[len("MAIL FROM:"):], "<> ")
				_ = tp.PrintfLine("250 OK")
			case strings.HasPrefix(cmd, "RCPT TO:"):
				if rejectRcpt {
					_ = tp.PrintfLine("550 mailbox unavailable")
					continue
				}
				tx.rcpt = append(tx.rcpt, strings.Trim(line[len("RCPT TO:"):], "<> "))
				_ = tp.PrintfLine("250 OK")
			case cmd == "DATA":
				_ = tp.PrintfLine("354 go ahead")
				data, err := tp.ReadDotBytes()
				if err != nil {
					return
				}
				tx.data = string(data)
				_ = tp.PrintfLine("250 queued")
			case cmd == "QUIT":
				_ = tp.PrintfLine("221 bye")
				done <- tx
				return
			default:
				_ = tp.PrintfLine("502 not implemented")
			}
		}
	}()

	return ln.Addr().String(), done
}

func testEmail() *core.Email {
	return &core.Email{
		From:     core.Address{Email: "no-reply@example.com"},
		To:       []core.Address{{Email: "a@b.com"}},
		Subject:  "Olá",
		TextBody: "Hello",
	}
}

func newTestProvider(t *testing.T, addr string) core.Provider {
	t.Helper()

	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)

	p, err := NewProvider(core.ProviderSettings{"host": host, "port": port})
	require.NoError(t, err)
	return p
}

func TestProvider_Send(t *testing.T) {
	t.Parallel()

	addr, done := fakeServer(t, false)
	p := newTestProvider(t, addr)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := p.Send(ctx, testEmail())
	require.NoError(t, err)
	assert.Equal(t, Name, result.Provider)
	assert.NotEmpty(t, result.MessageID)

	tx := <-done
	assert.Equal(t, "no-reply@example.com", tx.from)
	assert.Equal(t, []string{"a@b.com"}, tx.rcpt)
	assert.Contains(t, tx.data, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, tx.data, "Subject: =?UTF-8?q?Ol=C3=A1?=")
	assert.NotContains(t, tx.data, "text/html")
	assert.Contains(t, tx.data, "Hello")
}

func TestProvider_Send_RecipientRejected(t *testing.T) {
	t.Parallel()

	addr, _ := fakeServer(t, true)
	p := newTestProvider(t, addr)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := p.Send(ctx, testEmail())

	var pe *core.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "send_error", pe.Code)
	assert.Contains(t, pe.Message, "550")
}

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	email := testEmail()
	email.Subject = "Hi"
	email.TextBody = "Preço: 10€"

	msg, err := buildMessage(email, now)
	require.NoError(t, err)

	r := textproto.NewReader(bufio.NewReader(strings.NewReader(string(msg))))
	header, err := r.ReadMIMEHeader()
	require.NoError(t, err)

	assert.Equal(t, "no-reply@example.com", header.Get("From"))
	assert.Equal(t, "a@b.com", header.Get("To"))
	assert.Equal(t, "Hi", header.Get("Subject"))
	assert.Equal(t, now.Format(time.RFC1123Z), header.Get("Date"))
	assert.Equal(t, "quoted-printable", header.Get("Content-Transfer-Encoding"))
	assert.Contains(t, string(msg), "Pre=C3=A7o: 10=E2=82=AC")
}

func TestNewProvider_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		settings core.ProviderSettings
		field    string
	}{
		{settings: core.ProviderSettings{"port": "25"}, field: "host"},
		{settings: core.ProviderSettings{"host": "localhost"}, field: "port"},
		{settings: core.ProviderSettings{"host": "localhost", "port": "smtp"}, field: "port"},
	}

	for i, tt := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			t.Parallel()

			_, err := NewProvider(tt.settings)
			var verr *core.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
