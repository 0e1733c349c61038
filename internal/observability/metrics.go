package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// report analysis pipeline.
type Metrics struct {
	AnalysesTotal      prometheus.Counter
	AnalyzerRecoveries prometheus.Counter
	AnalysisDuration   prometheus.Histogram

	// Provider metrics.
	ProviderRequests  *prometheus.CounterVec // labels: provider={summary,classification,weather,geo}, source={live,fallback}
	ProviderFallbacks *prometheus.CounterVec // labels: provider
	GeocodeCache      *prometheus.CounterVec // labels: result={hit,miss}

	// Background queue metrics.
	QueueDepth     prometheus.Gauge
	QueueRejected  prometheus.Counter
	WorkersRunning prometheus.Gauge

	// Alert metrics.
	AlertsCreated   *prometheus.CounterVec // labels: disaster_type
	AlertsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AnalysesTotal,
		m.AnalyzerRecoveries,
		m.AnalysisDuration,
		m.ProviderRequests,
		m.ProviderFallbacks,
		m.GeocodeCache,
		m.QueueDepth,
		m.QueueRejected,
		m.WorkersRunning,
		m.AlertsCreated,
		m.AlertsPublished,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AnalysesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_alerts",
			Name:      "analyses_total",
			Help:      "Total report analyses executed.",
		}),
		AnalyzerRecoveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_alerts",
			Name:      "analyzer_recoveries_total",
			Help:      "Analyses that hit the orchestrator's last-resort safety net.",
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "disaster_alerts",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a complete fan-out, score, and assembly cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_alerts",
			Name:      "provider_requests_total",
			Help:      "Provider invocations by role and result source.",
		}, []string{"provider", "source"}),
		ProviderFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_alerts",
			Name:      "provider_fallbacks_total",
			Help:      "Live provider failures that fell through to the fallback variant.",
		}, []string{"provider"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_alerts",
			Name:      "geocode_cache_total",
			Help:      "Geocode cache lookups by result.",
		}, []string{"result"}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disaster_alerts",
			Name:      "analysis_queue_depth",
			Help:      "Jobs currently waiting in the analysis queue.",
		}),
		QueueRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_alerts",
			Name:      "analysis_queue_rejected_total",
			Help:      "Enqueue attempts rejected because the queue was full.",
		}),
		WorkersRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disaster_alerts",
			Name:      "analysis_workers_running",
			Help:      "Number of active analysis workers.",
		}),
		AlertsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_alerts",
			Name:      "alerts_created_total",
			Help:      "Alerts created from completed analyses, by disaster type.",
		}, []string{"disaster_type"}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_alerts",
			Name:      "alerts_published_total",
			Help:      "Alerts published to the alert topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "disaster_alerts",
			Name:      "alert_publish_errors_total",
			Help:      "Failed attempts to publish an alert.",
		}),
	}
}
