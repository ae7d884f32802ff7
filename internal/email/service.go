package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/mediconnect/ehr-api/internal/config"
)

// Service notifies the care team inbox about account activity. Sending is
// best-effort; callers never fail a request over it.
type Service interface {
	SendSignupNotification(ctx context.Context, username, uid string) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

// NewSMTPService builds a gomail-backed sender. notifyTo is the inbox that
// receives signup notices.
func NewSMTPService(cfg config.SMTPConfig, notifyTo string) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		to:     notifyTo,
	}
}

func (s *smtpService) SendSignupNotification(_ context.Context, username, uid string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", "New patient registration")
	m.SetBody("text/plain", fmt.Sprintf("Patient %q registered with UID %s.", username, uid))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send signup notification: %w", err)
	}
	return nil
}

type noopService struct{}

// NewNoopService is used when SMTP is not configured.
func NewNoopService() Service {
	return noopService{}
}

func (noopService) SendSignupNotification(context.Context, string, string) error {
	return nil
}
