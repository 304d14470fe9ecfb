// Package mail implements the verification-email gateway over SMTP, with a
// log-only fallback for environments without a configured transport.
package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// SMTPSender delivers verification emails through a plain-auth SMTP relay.
type SMTPSender struct {
	host string
	port int
	user string
	pass string
	from string
}

// Config captures the SMTP transport settings.
type Config struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("mail: SMTP host is required")
	}
	if cfg.User == "" || cfg.Pass == "" {
		return nil, fmt.Errorf("mail: SMTP credentials are required")
	}
	return &SMTPSender{
		host: cfg.Host,
		port: cfg.Port,
		user: cfg.User,
		pass: cfg.Pass,
		from: cfg.From,
	}, nil
}

// SendVerification sends the account-verification email containing link.
func (s *SMTPSender) SendVerification(_ context.Context, to, link string) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.user, s.pass, s.host)

	body := fmt.Sprintf("<p>Please verify your account:</p><p><a href=%q>%s</a></p>", link, link)
	msg := []byte("From: " + s.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: Verify your account\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogSender writes verification links to the log instead of delivering mail.
// Used when no SMTP transport is configured.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendVerification(_ context.Context, to, link string) error {
	s.log.Info().Str("to", to).Str("link", link).Msg("verification email (log-only transport)")
	return nil
}
