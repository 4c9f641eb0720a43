// Package metrics holds the Prometheus instrumentation of the API.
package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Predictions *prometheus.CounterVec
	Errors      *prometheus.CounterVec
	Latency     prometheus.Histogram
}

// New builds and registers the metric set on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nutrimood",
				Name:      "predictions_total",
				Help:      "Predictions served, by predicted mood.",
			}, []string{"mood"}),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nutrimood",
				Name:      "errors_total",
				Help:      "Errors surfaced to callers, by stage.",
			}, []string{"stage"}),
		Latency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "nutrimood",
				Name:      "inference_seconds",
				Help:      "Forward-pass latency.",
				Buckets:   prometheus.DefBuckets,
			}),
	}
	reg.MustRegister(m.Predictions, m.Errors, m.Latency)
	return m
}
