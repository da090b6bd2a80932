// Package metrics counts engagement checks and serves them in the Prometheus
// exposition format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"

	"igengage/pkg/engagement"
)

const namespace = "igengage"

var outcomes = []engagement.Outcome{
	engagement.OutcomeOK,
	engagement.OutcomeEmptyInput,
	engagement.OutcomeNotFound,
	engagement.OutcomeFetchError,
	engagement.OutcomeInternal,
}

// Collector implements engagement.Observer on a private registry
type Collector struct {
	registry *prometheus.Registry
	checks   *prometheus.CounterVec
	duration prometheus.Summary
	inFlight prometheus.Gauge
}

// NewCollector creates a Collector with every outcome pre-registered at zero
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Engagement checks by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Time spent on engagement checks.",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "checks_in_flight",
			Help:      "Engagement checks currently running.",
		}),
	}
	c.registry.MustRegister(c.checks, c.duration, c.inFlight)

	for _, o := range outcomes {
		c.checks.WithLabelValues(string(o))
	}
	return c
}

// CheckStarted marks one more check in flight
func (c *Collector) CheckStarted() {
	c.inFlight.Inc()
}

// CheckFinished records a completed check. Unknown outcomes count as internal.
func (c *Collector) CheckFinished(outcome engagement.Outcome, elapsed time.Duration) {
	c.inFlight.Dec()
	if !known(outcome) {
		outcome = engagement.OutcomeInternal
	}
	c.checks.WithLabelValues(string(outcome)).Inc()
	c.duration.Observe(elapsed.Seconds())
}

func known(outcome engagement.Outcome) bool {
	for _, o := range outcomes {
		if o == outcome {
			return true
		}
	}
	return false
}

// Checks returns how many checks ended with outcome
func (c *Collector) Checks(outcome engagement.Outcome) uint64 {
	if !known(outcome) {
		return 0
	}
	var m dto.Metric
	if err := c.checks.WithLabelValues(string(outcome)).Write(&m); err != nil {
		return 0
	}
	return uint64(m.GetCounter().GetValue())
}

// InFlight returns the number of checks currently running
func (c *Collector) InFlight() int64 {
	var m dto.Metric
	if err := c.inFlight.Write(&m); err != nil {
		return 0
	}
	return int64(m.GetGauge().GetValue())
}

// Gather snapshots the registry as metric families sorted by name
func (c *Collector) Gather() ([]*dto.MetricFamily, error) {
	return c.registry.Gather()
}

// Handler serves the registry for scraping
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
