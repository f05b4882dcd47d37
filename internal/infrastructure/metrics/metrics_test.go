package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if labels[pair.GetName()] != pair.GetValue() {
					continue metrics
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestChatMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)

	m.ObserveTurn("book", "advanced")
	m.ObserveTurn("book", "advanced")
	m.ObserveNotification("booking_confirmation", errors.New("boom"))
	m.ObserveAdvice("fallback")

	assert.Equal(t, 2.0, counterValue(t, reg, "healthbot_chat_turns_total", map[string]string{"flow": "book", "outcome": "advanced"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "healthbot_chat_notifications_total", map[string]string{"kind": "booking_confirmation", "status": "failed"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "healthbot_chat_health_advice_total", map[string]string{"source": "fallback"}))
}

func TestChatMetrics_NilSafe(t *testing.T) {
	var m *ChatMetrics
	assert.NotPanics(t, func() {
		m.ObserveTurn("none", "menu")
		m.ObserveNotification("x", nil)
		m.ObserveAdvice("generated")
	})
}
