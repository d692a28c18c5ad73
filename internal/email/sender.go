// Package email sends order notifications built from gateway events.
package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/config"
	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth // nil for local dev (MailHog)
}

func NewSMTPSender(cfg config.NotifierConfig) *SMTPSender {
	s := &SMTPSender{
		addr: net.JoinHostPort(cfg.SMTPHost, cfg.SMTPPort),
		from: cfg.From,
	}
	if cfg.SMTPUser != "" {
		s.auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	return s
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{m.To}, buildRFC822(s.from, m)); err != nil {
		return fmt.Errorf("send mail to %s: %w", m.To, err)
	}
	return nil
}

func buildRFC822(from string, m Message) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", m.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", m.Subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: text/html; charset=UTF-8\r\n")
	fmt.Fprintf(&buf, "\r\n%s\r\n", m.HTML)
	return buf.Bytes()
}

// LogSender writes emails to the log. Useful for dev without SMTP.
type LogSender struct{ Logger *zap.Logger }

func (s LogSender) Send(_ context.Context, m Message) error {
	s.Logger.Info("[email] not sent, no SMTP host configured",
		zap.String("to", m.To),
		zap.String("subject", m.Subject),
		zap.Int("body_bytes", len(m.HTML)),
	)
	return nil
}

// PickSender uses SMTP when a host is configured, the log otherwise.
func PickSender(cfg config.NotifierConfig, logger *zap.Logger) Sender {
	if cfg.SMTPHost != "" {
		return NewSMTPSender(cfg)
	}
	return LogSender{Logger: logger}
}
