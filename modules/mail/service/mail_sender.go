package service

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"outreach-api/core/config"
	"outreach-api/core/constants"
	"outreach-api/core/errors"
	"outreach-api/core/logger"
)

// MailSender delivers the approved outreach email.
type MailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type smtpSender struct {
	cfg config.SMTPConfig
}

func NewSMTPSender(cfg config.SMTPConfig) MailSender {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) SendEmail(ctx context.Context, to, subject, body string) error {
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.User == "" || s.cfg.Password == "" || s.from() == "" {
		return errors.NewAppError(errors.ErrInvalidConfig, "SMTP configuration missing", nil)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	conn, err := net.DialTimeout("tcp", addr, constants.DefaultTimeout)
	if err != nil {
		return errors.NewAppError(errors.ErrExternalService, "failed to connect to SMTP server", err)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return errors.NewAppError(errors.ErrExternalService, "SMTP handshake failed", err)
	}
	defer client.Close()

	if s.cfg.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return errors.NewAppError(errors.ErrExternalService, "SMTP STARTTLS failed", err)
		}
	}

	// app passwords are often pasted with spaces
	password := strings.ReplaceAll(s.cfg.Password, " ", "")
	auth := smtp.PlainAuth("", s.cfg.User, password, s.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return errors.NewAppError(errors.ErrExternalService, "SMTP authentication failed", err)
	}

	if err := client.Mail(s.from()); err != nil {
		return errors.NewAppError(errors.ErrExternalService, "SMTP MAIL FROM rejected", err)
	}
	if err := client.Rcpt(to); err != nil {
		return errors.NewAppError(errors.ErrExternalService, "SMTP RCPT TO rejected", err)
	}

	w, err := client.Data()
	if err != nil {
		return errors.NewAppError(errors.ErrExternalService, "SMTP DATA failed", err)
	}
	msg := s.buildMessage(to, subject, body)
	if _, err := w.Write([]byte(msg)); err != nil {
		return errors.NewAppError(errors.ErrExternalService, "failed to write SMTP message", err)
	}
	if err := w.Close(); err != nil {
		return errors.NewAppError(errors.ErrExternalService, "failed to finish SMTP message", err)
	}

	if err := client.Quit(); err != nil {
		logger.Warn("MailSender:SendEmail:QuitError", "error", err)
	}

	logger.Info("MailSender:SendEmail:Success", "to", to, "subject", subject)
	return nil
}

func (s *smtpSender) from() string {
	if s.cfg.From != "" {
		return s.cfg.From
	}
	return s.cfg.User
}

func (s *smtpSender) buildMessage(to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from())
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return b.String()
}
