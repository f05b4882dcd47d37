package email

import (
	"context"
	"io"
	"testing"

	"go-healthbot/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewSendGridNotifier_NoKey(t *testing.T) {
	assert.Nil(t, NewSendGridNotifier(config.EmailConfig{}, logrus.New()))

	var n *SendGridNotifier
	assert.Error(t, n.Send(context.Background(), "a@x.com", "s", "b"))
}

func TestNewSendGridNotifier_WithKey(t *testing.T) {
	n := NewSendGridNotifier(config.EmailConfig{SendGridAPIKey: "SG.test", FromEmail: "bot@x.com", FromName: "HealthBot"}, logrus.New())
	if assert.NotNil(t, n) {
		assert.Equal(t, "bot@x.com", n.fromEmail)
		assert.Equal(t, "HealthBot", n.fromName)
	}
}

func TestLogNotifier_Send(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	assert.NoError(t, NewLogNotifier(log).Send(context.Background(), "a@x.com", "subject", "body"))
}
