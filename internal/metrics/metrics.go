package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kyp"

// Metrics holds the Prometheus collectors for the API.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	Registrations *prometheus.CounterVec
	Submissions   *prometheus.CounterVec
	Draws         prometheus.Counter
	TimerUpdates  *prometheus.CounterVec
}

// New creates the collectors on a private registry so tests can build as
// many instances as they need.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestCounter: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),
		Registrations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "User registrations by whether a referral code was supplied",
			},
			[]string{"referred"},
		),
		Submissions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "survey_submissions_total",
				Help:      "Survey submission attempts by outcome",
			},
			[]string{"result"},
		),
		Draws: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lucky_draws_total",
				Help:      "Lucky draws conducted",
			},
		),
		TimerUpdates: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "timer_updates_total",
				Help:      "Timer mutations by action",
			},
			[]string{"action"},
		),
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
