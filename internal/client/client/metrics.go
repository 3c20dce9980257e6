package client

import (
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors for API calls.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beefboard_client_requests_total",
			Help: "API calls made by the client, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "beefboard_client_request_duration_seconds",
			Help:    "API call latency in seconds, including response decoding.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Duration)
	}
	return m
}

func (m *Metrics) observe(op string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(op, Outcome(err)).Inc()
	m.Duration.WithLabelValues(op).Observe(d.Seconds())
}

// Outcome is the metric label for err: "ok" or the error kind in snake case.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	k := Kind(err)
	if errors.Is(k, ErrUnknown) {
		return "unknown"
	}
	return strings.ReplaceAll(k.Error(), " ", "_")
}
