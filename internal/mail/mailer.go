package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/orcafacil/api/internal/config"
)

// Message is an outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers account lifecycle emails. Any error is a hard failure of
// the flow that triggered the send.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New selects an implementation from configuration: SMTP when a host is set,
// otherwise a log-only mailer for development.
func New(cfg config.MailConfig, logger *zap.Logger) Mailer {
	if cfg.Host == "" {
		logger.Warn("SMTP_HOST not set; outbound mail will only be logged")
		return &LogMailer{from: cfg.From, logger: logger}
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// Send delivers the message synchronously.
func (m *SMTPMailer) Send(_ context.Context, msg Message) error {
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&body, "To: %s\r\n", msg.To)
	fmt.Fprintf(&body, "Subject: %s\r\n", msg.Subject)
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{msg.To}, []byte(body.String())); err != nil {
		m.logger.Error("mail delivery failed",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err))
		return err
	}

	m.logger.Info("mail delivered",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

// LogMailer records the message instead of sending it. Used in development
// and in tests; the zero value is usable.
type LogMailer struct {
	from   string
	logger *zap.Logger

	// Sent collects delivered messages when non-nil; tests read it back.
	Sent []Message
}

// Send logs the message and records it.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.Sent = append(m.Sent, msg)
	if m.logger != nil {
		m.logger.Info("mail (log only)",
			zap.String("from", m.from),
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
	}
	return nil
}
