// Package metrics собирает метрики сервиса в prometheus.
// Все методы безопасно вызывать на nil-указателе: тогда метрики просто не пишутся.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "jobhunter"

// Metrics содержит метрики сервиса.
type Metrics struct {
	signups      *prometheus.CounterVec
	runDecisions *prometheus.CounterVec
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	breaker      *prometheus.GaugeVec
	reminders    prometheus.Counter
}

// New создаёт метрики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signups_total",
			Help:      "Signup attempts by result.",
		}, []string{"result"}),
		runDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "run_decisions_total",
			Help:      "Automation run decisions by result.",
		}, []string{"result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		breaker: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "storage_breaker_open",
			Help:      "1 when the storage circuit breaker is not closed.",
		}, []string{"name"}),
		reminders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trial_reminders_published_total",
			Help:      "Trial expiring notifications published.",
		}),
	}
	reg.MustRegister(m.signups, m.runDecisions, m.requests, m.duration, m.breaker, m.reminders)
	return m
}

// Signup учитывает попытку регистрации: created, conflict, invalid, error.
func (m *Metrics) Signup(result string) {
	if m == nil {
		return
	}
	m.signups.WithLabelValues(result).Inc()
}

// RunDecision учитывает решение по запуску: allowed, expired, not_found, error.
func (m *Metrics) RunDecision(result string) {
	if m == nil {
		return
	}
	m.runDecisions.WithLabelValues(result).Inc()
}

// HTTPRequest учитывает обработанный HTTP-запрос.
func (m *Metrics) HTTPRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// BreakerStateChanged отмечает состояние предохранителя хранилища.
func (m *Metrics) BreakerStateChanged(name, state string) {
	if m == nil {
		return
	}
	var v float64
	if state != "closed" {
		v = 1
	}
	m.breaker.WithLabelValues(name).Set(v)
}

// ReminderPublished учитывает отправленное в очередь напоминание.
func (m *Metrics) ReminderPublished() {
	if m == nil {
		return
	}
	m.reminders.Inc()
}
