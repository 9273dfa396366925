package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "llamaid"

// Outcome labels for AskRequests.
const (
	OutcomeOK = "ok"
)

// Collectors groups the relay's prometheus metrics on a private registry.
type Collectors struct {
	Registry        *prometheus.Registry
	AskRequests     *prometheus.CounterVec
	BackendDuration prometheus.Histogram
	Queued          prometheus.Gauge
	InFlight        prometheus.Gauge
}

func New() *Collectors {
	c := &Collectors{
		Registry: prometheus.NewRegistry(),
		AskRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ask_requests_total",
			Help:      "Ask requests by outcome.",
		}, []string{"outcome"}),
		BackendDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Latency of calls to the inference backend.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		}),
		Queued: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requests_queued",
			Help:      "Requests waiting for a backend slot.",
		}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requests_in_flight",
			Help:      "Requests currently waiting on the backend.",
		}),
	}
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.AskRequests,
		c.BackendDuration,
		c.Queued,
		c.InFlight,
	)
	return c
}

// ObserveAsk records one finished ask request. A nil receiver is a no-op.
func (c *Collectors) ObserveAsk(outcome string, backendTime time.Duration) {
	if c == nil {
		return
	}
	c.AskRequests.WithLabelValues(outcome).Inc()
	if backendTime > 0 {
		c.BackendDuration.Observe(backendTime.Seconds())
	}
}

// Handler serves the registry in the prometheus text format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{Registry: c.Registry})
}
