package email

import (
	"context"
	"fmt"

	"go-healthbot/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// SendGridNotifier sends plain text email through the SendGrid v3 API.
type SendGridNotifier struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	log       *logrus.Logger
}

// NewSendGridNotifier returns nil when no API key is configured.
func NewSendGridNotifier(cfg config.EmailConfig, log *logrus.Logger) *SendGridNotifier {
	if cfg.SendGridAPIKey == "" {
		return nil
	}
	return &SendGridNotifier{
		client:    sendgrid.NewSendClient(cfg.SendGridAPIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		log:       log,
	}
}

func (s *SendGridNotifier) Send(ctx context.Context, to, subject, body string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("sendgrid client not configured")
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	message := mail.NewSingleEmailPlainText(from, subject, mail.NewEmail("", to), body)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}

	s.log.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
		"status":  response.StatusCode,
	}).Info("Email sent via SendGrid")
	return nil
}

// LogNotifier only logs what would have been sent. Used when email is disabled.
type LogNotifier struct {
	log *logrus.Logger
}

func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(_ context.Context, to, subject, _ string) error {
	n.log.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("Email disabled, notification logged only")
	return nil
}
