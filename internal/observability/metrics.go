// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Scan metrics
	ScansTotal        *prometheus.CounterVec
	ScanDuration      prometheus.Histogram
	PostsScanned      *prometheus.CounterVec
	ParseRejections   *prometheus.CounterVec
	SourceFetchErrors *prometheus.CounterVec

	// Launch metrics
	LaunchesTotal  *prometheus.CounterVec
	DeployLatency  *prometheus.HistogramVec
	DuplicatePosts *prometheus.CounterVec

	// Market metrics
	TelemetryRefreshes *prometheus.CounterVec

	// Live feed metrics
	FeedClients prometheus.Gauge

	// Health metrics
	LastSuccessfulScan prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered with reg.
// A nil reg uses the default registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "molenker"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ScansTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "runs_total",
			Help:      "Total number of scan runs by status",
		}, []string{"status"}),
		ScanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Scan run duration in seconds",
			Buckets:   []float64{0.5, 1, 5, 10, 30, 60, 120, 300},
		}),
		PostsScanned: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "posts_scanned_total",
			Help:      "Total number of posts examined by source",
		}, []string{"source"}),
		ParseRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "parse_rejections_total",
			Help:      "Total number of posts that did not parse as launch requests",
		}, []string{"source"}),
		SourceFetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "social",
			Name:      "fetch_errors_total",
			Help:      "Total number of failed fetches from a social source",
		}, []string{"source"}),

		LaunchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "launch",
			Name:      "launches_total",
			Help:      "Total number of finalized launches by source and status",
		}, []string{"source", "status"}),
		DeployLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "deploy",
			Name:      "latency_seconds",
			Help:      "Deploy gateway call latency in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}, []string{"outcome"}),
		DuplicatePosts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "launch",
			Name:      "duplicate_posts_total",
			Help:      "Total number of posts skipped because they were already processed",
		}, []string{"source"}),

		TelemetryRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "refreshes_total",
			Help:      "Total number of telemetry refreshes by status",
		}, []string{"status"}),

		FeedClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "livefeed",
			Name:      "clients",
			Help:      "Number of connected live feed clients",
		}),

		LastSuccessfulScan: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_scan_timestamp",
			Help:      "Unix timestamp of last successful scan",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordScan records a finished scan run.
func RecordScan(status string, duration time.Duration) {
	DefaultMetrics.ScansTotal.WithLabelValues(status).Inc()
	DefaultMetrics.ScanDuration.Observe(duration.Seconds())
	if status == "success" {
		DefaultMetrics.LastSuccessfulScan.SetToCurrentTime()
	}
}

// RecordPostScanned increments the posts scanned counter.
func RecordPostScanned(source string) {
	DefaultMetrics.PostsScanned.WithLabelValues(source).Inc()
}

// RecordParseRejection increments the parse rejection counter.
func RecordParseRejection(source string) {
	DefaultMetrics.ParseRejections.WithLabelValues(source).Inc()
}

// RecordDuplicatePost increments the duplicate post counter.
func RecordDuplicatePost(source string) {
	DefaultMetrics.DuplicatePosts.WithLabelValues(source).Inc()
}

// RecordSourceFetchError increments the fetch error counter.
func RecordSourceFetchError(source string) {
	DefaultMetrics.SourceFetchErrors.WithLabelValues(source).Inc()
}

// RecordLaunch increments the finalized launch counter.
func RecordLaunch(source, status string) {
	DefaultMetrics.LaunchesTotal.WithLabelValues(source, status).Inc()
}

// RecordDeployLatency records a deploy gateway call.
func RecordDeployLatency(outcome string, d time.Duration) {
	DefaultMetrics.DeployLatency.WithLabelValues(outcome).Observe(d.Seconds())
}

// RecordTelemetryRefresh increments the telemetry refresh counter.
func RecordTelemetryRefresh(status string) {
	DefaultMetrics.TelemetryRefreshes.WithLabelValues(status).Inc()
}

// SetFeedClients sets the live feed client gauge.
func SetFeedClients(n int) {
	DefaultMetrics.FeedClients.Set(float64(n))
}
