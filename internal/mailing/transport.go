// Package mailing implements the outbound send pipeline: message
// transport, the sent-mail history store, and reusable templates.
package mailing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/ignite/outreach/internal/config"
)

// Message is one outbound email to a single recipient.
type Message struct {
	// FromAddress and FromPassword are the sender's Gmail address and
	// app password. The SES transport ignores FromPassword.
	FromAddress  string
	FromPassword string
	To           string
	Subject      string
	Body         string
}

// Transport delivers a single message. Implementations are safe for
// concurrent use.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// GmailTransport sends through Gmail's SMTP endpoint over implicit TLS,
// authenticating with the operator's address and app password.
type GmailTransport struct {
	addr    string
	timeout time.Duration
}

// NewGmailTransport creates a transport for the configured SMTP endpoint.
func NewGmailTransport(cfg config.MailConfig) *GmailTransport {
	return &GmailTransport{
		addr:    fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		timeout: cfg.Timeout(),
	}
}

// Send dials, authenticates, and delivers one message. A fresh
// connection per message keeps per-operator credentials isolated.
func (t *GmailTransport) Send(ctx context.Context, msg Message) error {
	raw, err := buildMIME(msg)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- t.deliver(msg, raw) }()

	timer := time.NewTimer(t.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("smtp send to %s timed out after %s", t.addr, t.timeout)
	}
}

func (t *GmailTransport) deliver(msg Message, raw []byte) error {
	c, err := smtp.DialTLS(t.addr, nil)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", t.addr, err)
	}
	defer c.Close()

	auth := sasl.NewPlainClient("", msg.FromAddress, msg.FromPassword)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := c.SendMail(msg.FromAddress, []string{msg.To}, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return c.Quit()
}

// buildMIME assembles the RFC 5322 message.
func buildMIME(msg Message) ([]byte, error) {
	var b bytes.Buffer

	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*mail.Address{{Address: msg.FromAddress}})
	h.SetAddressList("To", []*mail.Address{{Address: msg.To}})
	h.SetSubject(msg.Subject)
	h.Set("Content-Type", "text/plain; charset=utf-8")

	w, err := mail.CreateSingleInlineWriter(&b, h)
	if err != nil {
		return nil, fmt.Errorf("building message: %w", err)
	}
	if _, err := io.WriteString(w, msg.Body); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
