// Package metrics содержит счётчики Prometheus сервиса GOODFOOD.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics содержит счётчики сервиса.
type Metrics struct {
	registry *prometheus.Registry

	AuthAttempts    *prometheus.CounterVec
	Navigations     *prometheus.CounterVec
	OrdersConfirmed *prometheus.CounterVec
	ActiveSessions  prometheus.GaugeFunc
}

// New регистрирует счётчики в собственном реестре. sessions возвращает число активных сессий.
func New(sessions func() int) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		AuthAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goodfood",
			Name:      "auth_attempts_total",
			Help:      "Login and registration attempts by mode and result.",
		}, []string{"mode", "result"}),
		Navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goodfood",
			Name:      "navigations_total",
			Help:      "Rendered pages after navigation.",
		}, []string{"page"}),
		OrdersConfirmed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goodfood",
			Name:      "orders_confirmed_total",
			Help:      "Confirmed orders by plan and payment method.",
		}, []string{"plan", "payment_method"}),
		ActiveSessions: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "goodfood",
			Name:      "active_sessions",
			Help:      "Sessions held in memory.",
		}, func() float64 {
			if sessions == nil {
				return 0
			}
			return float64(sessions())
		}),
	}

	reg.MustRegister(m.AuthAttempts, m.Navigations, m.OrdersConfirmed, m.ActiveSessions)
	return m
}

// Handler возвращает HTTP-обработчик для сбора метрик.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
