// Package metrics exposes Prometheus collectors for outbound API calls.
package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors updated by the HTTP client.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	NetworkErrors   *prometheus.CounterVec
	RateLimitWaits  prometheus.Counter
}

// New creates the collectors and registers them with reg. Collectors that
// are already registered, e.g. by another client sharing reg, are reused.
// Any other registration conflict, such as a collector with the same name
// but different labels, is returned as an error.
// A nil registerer creates unregistered collectors, which is handy in tests.
func New(reg prometheus.Registerer) (*Metrics, error) {
	requests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "noroff_social_client_requests_total",
		Help: "Total number of API requests by method and status code",
	}, []string{"method", "code"}))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "noroff_social_client_request_duration_seconds",
		Help:    "Latency of API requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"}))
	if err != nil {
		return nil, err
	}
	networkErrors, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "noroff_social_client_network_errors_total",
		Help: "Total number of requests that failed before a response was received",
	}, []string{"method"}))
	if err != nil {
		return nil, err
	}
	waits, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "noroff_social_client_rate_limit_deferrals_total",
		Help: "Times the server asked the client to slow down",
	}))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		Requests:        requests,
		RequestDuration: duration,
		NetworkErrors:   networkErrors,
		RateLimitWaits:  waits,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if reg == nil {
		return c, nil
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, fmt.Errorf("register metrics collector: %w", err)
	}
	return c, nil
}

// ObserveResponse records a completed request.
func (m *Metrics) ObserveResponse(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// ObserveNetworkError records a transport failure.
func (m *Metrics) ObserveNetworkError(method string, d time.Duration) {
	if m == nil {
		return
	}
	m.NetworkErrors.WithLabelValues(method).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// ObserveDeferral records a server-requested slowdown.
func (m *Metrics) ObserveDeferral() {
	if m == nil {
		return
	}
	m.RateLimitWaits.Inc()
}
