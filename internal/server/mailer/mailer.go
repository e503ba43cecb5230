// Package mailer sends the server's transactional mail (password resets).
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/smtp"
	"strings"
	"time"

	"github.com/dmitrijs2005/campushire/internal/logging"
	"github.com/emersion/go-message/mail"
)

// sendMail is a seam for tests.
var sendMail = smtp.SendMail

// SMTPMailer relays mail through an SMTP server without authentication,
// which is how the local relays it is meant for are set up.
type SMTPMailer struct {
	addr   string
	from   string
	logger logging.Logger
}

func NewSMTPMailer(addr, from string, logger logging.Logger) *SMTPMailer {
	return &SMTPMailer{addr: addr, from: from, logger: logger}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg, err := Compose(m.from, to, subject, body, time.Now())
	if err != nil {
		return err
	}
	if err := sendMail(m.addr, nil, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	m.logger.Info(ctx, "mail sent", "to", to, "subject", subject)
	return nil
}

// LogMailer writes mail to the log instead of sending it. It is used when
// no SMTP relay is configured.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.Info(ctx, "mail not sent, no smtp relay configured", "to", to, "subject", subject, "body", body)
	return nil
}

// Compose renders a plain-text RFC 5322 message. Body line endings are
// rewritten to CRLF.
func Compose(from, to, subject, body string, date time.Time) ([]byte, error) {
	fromAddr, err := mail.ParseAddress(from)
	if err != nil {
		return nil, fmt.Errorf("bad from address %q: %w", from, err)
	}
	toAddr, err := mail.ParseAddress(to)
	if err != nil {
		return nil, fmt.Errorf("bad to address %q: %w", to, err)
	}

	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{fromAddr})
	h.SetAddressList("To", []*mail.Address{toAddr})
	h.SetSubject(subject)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, toCRLF(body)); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toCRLF(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}
