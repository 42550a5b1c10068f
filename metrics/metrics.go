// Package metrics counts what happens during a rating session and writes
// the result in the node_exporter textfile format.
package metrics

import (
	"math"

	"imagerank/types"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names
const (
	MetricComparisonsTotal   = "imagerank_comparisons_total"
	MetricInvalidInputsTotal = "imagerank_invalid_inputs_total"
	MetricRatingChange       = "imagerank_rating_change"
	MetricPenalty            = "imagerank_penalty"
	MetricViableImages       = "imagerank_viable_images"
)

// Collector holds the session metrics and the registry they live in
type Collector struct {
	registry *prometheus.Registry

	comparisons  *prometheus.CounterVec
	invalid      prometheus.Counter
	ratingChange prometheus.Histogram
	penalty      prometheus.Histogram
	viable       prometheus.Gauge
}

// NewCollector creates the metrics and registers them with a fresh registry
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		comparisons: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricComparisonsTotal,
				Help: "Applied comparisons by result",
			},
			[]string{"result"},
		),
		invalid: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricInvalidInputsTotal,
			Help: "Judgment tokens that were rejected",
		}),
		ratingChange: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRatingChange,
			Help:    "Absolute rating change of each side of a comparison",
			Buckets: []float64{1, 2, 5, 10, 15, 20, 30, 40, 60},
		}),
		penalty: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricPenalty,
			Help:    "Play count penalty applied per comparison",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 7, 10},
		}),
		viable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricViableImages,
			Help: "Images at or above the cutoff",
		}),
	}
	c.registry.MustRegister(c.comparisons, c.invalid, c.ratingChange, c.penalty, c.viable)
	return c
}

// Gatherer exposes the registry
func (c *Collector) Gatherer() prometheus.Gatherer { return c.registry }

// ObserveMatch records one applied comparison
func (c *Collector) ObserveMatch(m types.MatchResult) error {
	c.comparisons.WithLabelValues(m.Result).Inc()
	c.ratingChange.Observe(math.Abs(m.LeftAfter.Rating - m.LeftBefore.Rating))
	c.ratingChange.Observe(math.Abs(m.RightAfter.Rating - m.RightBefore.Rating))
	c.penalty.Observe(m.Penalty)
	return nil
}

// ObserveInvalid counts a rejected token
func (c *Collector) ObserveInvalid(string) { c.invalid.Inc() }

// SetViable records how many images can still be selected
func (c *Collector) SetViable(n int) { c.viable.Set(float64(n)) }

// WriteFile writes all metrics to path atomically
func (c *Collector) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
