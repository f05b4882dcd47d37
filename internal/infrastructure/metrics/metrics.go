package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters for chat turns and their side effects.
// A nil *ChatMetrics is valid and records nothing.
type ChatMetrics struct {
	turnsTotal         *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	adviceTotal        *prometheus.CounterVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healthbot",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Chat turns by the flow handling them and how they ended",
		}, []string{"flow", "outcome"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healthbot",
			Subsystem: "chat",
			Name:      "notifications_total",
			Help:      "Outbound email notifications by kind and status",
		}, []string{"kind", "status"}),
		adviceTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healthbot",
			Subsystem: "chat",
			Name:      "health_advice_total",
			Help:      "Health advice replies by source",
		}, []string{"source"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.notificationsTotal, m.adviceTotal)
	return m
}

func (m *ChatMetrics) ObserveTurn(flow, outcome string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(flow, outcome).Inc()
}

func (m *ChatMetrics) ObserveNotification(kind string, err error) {
	if m == nil {
		return
	}
	status := "sent"
	if err != nil {
		status = "failed"
	}
	m.notificationsTotal.WithLabelValues(kind, status).Inc()
}

func (m *ChatMetrics) ObserveAdvice(source string) {
	if m == nil {
		return
	}
	m.adviceTotal.WithLabelValues(source).Inc()
}
