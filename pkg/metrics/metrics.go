// Package metrics exposes Prometheus collectors for conversions, provider
// calls and the rate cache.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quickcurrency"

// Metrics holds the collectors registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Conversions      *prometheus.CounterVec
	ProviderCalls    *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
	CacheLookups     *prometheus.CounterVec
	ParseResults     *prometheus.CounterVec
}

// New creates and registers the collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Conversions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Conversions by outcome and source",
			},
			[]string{"outcome", "source"},
		),
		ProviderCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_calls_total",
				Help:      "Rate provider calls by provider and status",
			},
			[]string{"provider", "status"},
		),
		ProviderDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_call_duration_seconds",
				Help:      "Rate provider call latency",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2, 5, 8},
			},
			[]string{"provider"},
		),
		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Rate cache lookups by result",
			},
			[]string{"result"},
		),
		ParseResults: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parse_results_total",
				Help:      "Parser outcomes by matching rule",
			},
			[]string{"rule"},
		),
	}
}

// RecordProviderCall records one provider attempt.
func (m *Metrics) RecordProviderCall(provider string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ProviderCalls.WithLabelValues(provider, status).Inc()
	m.ProviderDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// RecordCacheLookup counts a hit or a miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.CacheLookups.WithLabelValues("miss").Inc()
}

// RecordConversion counts a finished conversion.
func (m *Metrics) RecordConversion(ok bool, source string) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
		source = "none"
	}
	m.Conversions.WithLabelValues(outcome, source).Inc()
}

// RecordParse counts a parse outcome; an empty rule means no match.
func (m *Metrics) RecordParse(rule string) {
	if m == nil {
		return
	}
	if rule == "" {
		rule = "none"
	}
	m.ParseResults.WithLabelValues(rule).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
