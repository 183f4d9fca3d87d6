// Package mailer sends transactional email over SMTP.
package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
	"stock-tracker.backend/internal/config"
	"stock-tracker.backend/pkg/logger"
)

// Mailer delivers verification codes and reset links.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string, ttl time.Duration) error
	SendPasswordReset(ctx context.Context, to, name, link string, ttl time.Duration) error
}

// New returns an SMTP mailer, or a logging mailer when no host is configured.
func New(cfg config.SMTPConfig) (Mailer, error) {
	if !cfg.Enabled() {
		return &LogMailer{}, nil
	}
	return NewSMTPMailer(cfg)
}

// SMTPMailer sends multipart (text + html) messages with go-mail.
type SMTPMailer struct {
	from string
	send func(ctx context.Context, msg *mail.Msg) error
}

func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(15 * time.Second),
	}
	if cfg.Secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return &SMTPMailer{
		from: cfg.From,
		send: func(ctx context.Context, msg *mail.Msg) error {
			return client.DialAndSendWithContext(ctx, msg)
		},
	}, nil
}

func (m *SMTPMailer) SendOTP(ctx context.Context, to, code string, ttl time.Duration) error {
	plain, html, err := render(otpTextTmpl, otpHTMLTmpl, otpData{Code: code, Minutes: minutes(ttl)})
	if err != nil {
		return err
	}
	return m.deliver(ctx, to, "Your Stock Tracker verification code", plain, html)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, link string, ttl time.Duration) error {
	if strings.TrimSpace(name) == "" {
		name = "there"
	}
	plain, html, err := render(resetTextTmpl, resetHTMLTmpl, resetData{Name: name, Link: link, Minutes: minutes(ttl)})
	if err != nil {
		return err
	}
	return m.deliver(ctx, to, "Reset your Stock Tracker password", plain, html)
}

func (m *SMTPMailer) deliver(ctx context.Context, to, subject, plain, html string) error {
	msg, err := buildMessage(m.from, to, subject, plain, html)
	if err != nil {
		return err
	}
	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	logger.Info(ctx, "Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func buildMessage(from, to, subject, plain, html string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, plain)
	msg.AddAlternativeString(mail.TypeTextHTML, html)
	return msg, nil
}

// LogMailer writes messages to the log. Used in development without SMTP.
type LogMailer struct{}

func (LogMailer) SendOTP(ctx context.Context, to, code string, ttl time.Duration) error {
	logger.Info(ctx, "OTP email (smtp disabled)",
		zap.String("to", to), zap.String("code", code), zap.Duration("ttl", ttl))
	return nil
}

func (LogMailer) SendPasswordReset(ctx context.Context, to, _ string, link string, ttl time.Duration) error {
	logger.Info(ctx, "Password reset email (smtp disabled)",
		zap.String("to", to), zap.String("link", link), zap.Duration("ttl", ttl))
	return nil
}

func minutes(d time.Duration) int {
	m := int(d / time.Minute)
	if m < 1 {
		return 1
	}
	return m
}
