package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// compile-time interface check
var _ MetricFactory = (*PrometheusFactory)(nil)

// PrometheusFactory creates metrics registered on a Prometheus registerer.
type PrometheusFactory struct {
	registerer prometheus.Registerer
}

// NewPrometheusFactory creates a factory that registers metrics on reg.
// Pass prometheus.DefaultRegisterer to use the process-global registry.
func NewPrometheusFactory(reg prometheus.Registerer) *PrometheusFactory {
	return &PrometheusFactory{registerer: reg}
}

// Counter implements MetricFactory.
func (f *PrometheusFactory) Counter(name string) Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: name})
	f.registerer.MustRegister(c)
	return c
}

// Histogram implements MetricFactory.
func (f *PrometheusFactory) Histogram(name string) Histogram {
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    name,
		Buckets: prometheus.ExponentialBuckets(1, 10, 12),
	})
	f.registerer.MustRegister(h)
	return h
}

// Gauge implements MetricFactory.
func (f *PrometheusFactory) Gauge(name string) Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: name})
	f.registerer.MustRegister(g)
	return g
}
