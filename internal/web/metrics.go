package web

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics owns a private registry so several servers can live in one process.
type metrics struct {
	registry *prometheus.Registry
	renders  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chessreport",
			Name:      "section_renders_total",
			Help:      "Report sections rendered, by section and output.",
		}, []string{"section", "output"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chessreport",
			Name:      "render_duration_seconds",
			Help:      "Time spent building a response, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	m.registry.MustRegister(
		m.renders,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observe(route string) func() {
	timer := prometheus.NewTimer(m.duration.WithLabelValues(route))
	return func() { timer.ObserveDuration() }
}
