// Package mailer delivers transactional email for SakayMap accounts.
package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// Sender delivers a verification code email to a single recipient.
type Sender interface {
	SendOTPEmail(ctx context.Context, email, username, code string) error
}

// SMTPConfig holds configuration for the SMTP sender.
type SMTPConfig struct {
	// Host is the SMTP server hostname.
	Host string

	// Port is the SMTP server port.
	// Default: 587
	Port int

	// Username and Password authenticate against the SMTP server.
	// When Username is empty, no authentication is attempted.
	Username string
	Password string

	// From is the sender address on outgoing mail.
	From string

	// Logger is the logger to use.
	Logger zerolog.Logger
}

// SMTPSender sends email over SMTP.
type SMTPSender struct {
	client *mail.Client
	from   string
	logger zerolog.Logger
}

// NewSMTPSender creates an SMTP sender.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}

	return &SMTPSender{
		client: client,
		from:   cfg.From,
		logger: cfg.Logger.With().Str("component", "mailer").Logger(),
	}, nil
}

// SendOTPEmail sends the verification code email.
func (s *SMTPSender) SendOTPEmail(ctx context.Context, email, username, code string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(email); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}
	msg.Subject("Your SakayMap verification code")
	msg.SetBodyString(mail.TypeTextPlain, otpBody(username, code))

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to send verification email")
		return fmt.Errorf("sending verification email: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("verification email sent")
	return nil
}

func otpBody(username, code string) string {
	return fmt.Sprintf(
		"Hi %s,\n\nYour SakayMap verification code is: %s\n\nThe code expires in one hour. If you did not create a SakayMap account, you can ignore this email.\n",
		username, code,
	)
}
