package monitoring

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"imospy/domain/event"
)

// Metrics turns pipeline events into Prometheus series.
type Metrics struct {
	registry *prometheus.Registry

	Events         *prometheus.CounterVec
	ContentStored  *prometheus.CounterVec
	ScrapeDuration *prometheus.HistogramVec
	AdsAnalyzed    prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imospy",
			Name:      "events_total",
			Help:      "Pipeline events by name and platform.",
		}, []string{"name", "platform"}),
		ContentStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imospy",
			Name:      "content_stored_total",
			Help:      "Content rows upserted by scrapes.",
		}, []string{"platform"}),
		ScrapeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "imospy",
			Name:      "scrape_duration_seconds",
			Help:      "Duration of completed account scrapes.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"platform"}),
		AdsAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "imospy",
			Name:      "ads_analyzed_total",
			Help:      "Ads whose details were ranked by the analyzer.",
		}),
	}
	reg.MustRegister(m.Events, m.ContentStored, m.ScrapeDuration, m.AdsAnalyzed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

func (m *Metrics) Emit(_ context.Context, evt event.Event) {
	m.Events.WithLabelValues(evt.Name, evt.Platform).Inc()
	switch evt.Name {
	case event.ScrapeCompleted:
		if n, ok := number(evt.Fields["stored_count"]); ok {
			m.ContentStored.WithLabelValues(evt.Platform).Add(n)
		}
		if ms, ok := number(evt.Fields["duration_ms"]); ok {
			m.ScrapeDuration.WithLabelValues(evt.Platform).Observe(ms / 1000)
		}
	case event.AdsAnalyzed:
		if n, ok := number(evt.Fields["ad_count"]); ok {
			m.AdsAnalyzed.Add(n)
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
