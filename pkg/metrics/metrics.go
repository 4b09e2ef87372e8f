package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Booking attempt results
const (
	ResultBooked             = "booked"
	ResultDailyLimitExceeded = "daily_limit_exceeded"
	ResultSlotUnavailable    = "slot_unavailable"
	ResultRejected           = "rejected"
	ResultError              = "error"
)

// Metrics holds all application metrics
type Metrics struct {
	registry *prometheus.Registry

	BookingAttempts *prometheus.CounterVec
	Transitions     *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates the collectors on a private registry
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		BookingAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Name:      "booking_attempts_total",
			Help:      "Total number of appointment booking attempts by result",
		}, []string{"result"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Name:      "appointment_transitions_total",
			Help:      "Total number of applied appointment status and payment transitions",
		}, []string{"action"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(
		m.BookingAttempts,
		m.Transitions,
		m.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) ObserveBooking(result string) {
	m.BookingAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveTransition(action string) {
	m.Transitions.WithLabelValues(action).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
