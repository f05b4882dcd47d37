package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Notifier delivers one outbound message.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ErrNotifierDisabled is returned when no Notifier was configured.
var ErrNotifierDisabled = errors.New("notifier not configured")

// NotificationService wraps a Notifier with a per-attempt timeout and a
// bounded number of retries.
type NotificationService struct {
	notifier   Notifier
	log        *logrus.Logger
	timeout    time.Duration
	retries    int
	retryDelay time.Duration
}

func NewNotificationService(notifier Notifier, log *logrus.Logger, timeout time.Duration, retries int) *NotificationService {
	if retries < 0 {
		retries = 0
	}
	return &NotificationService{
		notifier:   notifier,
		log:        log,
		timeout:    timeout,
		retries:    retries,
		retryDelay: 250 * time.Millisecond,
	}
}

// Send tries up to retries+1 times. The last error is returned, wrapped.
func (s *NotificationService) Send(ctx context.Context, to, subject, body string) error {
	if s == nil || s.notifier == nil {
		return ErrNotifierDisabled
	}

	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("send %q to %s: %w", subject, to, ctx.Err())
			case <-time.After(s.retryDelay * time.Duration(attempt)):
			}
		}

		lastErr = s.attempt(ctx, to, subject, body)
		if lastErr == nil {
			return nil
		}
		s.log.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
			"attempt": attempt + 1,
		}).Warnf("Failed to send notification: %+v", lastErr)
	}

	return fmt.Errorf("send %q to %s: %w", subject, to, lastErr)
}

func (s *NotificationService) attempt(ctx context.Context, to, subject, body string) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.notifier.Send(ctx, to, subject, body)
}
