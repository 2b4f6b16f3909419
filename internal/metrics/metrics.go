package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ReportsGenerated counts report requests by kind and result
	ReportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_reports_generated_total",
		Help: "Total report exports by kind and result",
	}, []string{"kind", "result"})

	// RenderDuration tracks PDF rendering latency
	RenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "library_report_render_duration_seconds",
		Help:    "PDF render duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
	}, []string{"kind"})

	// AggregationFailures counts snapshots that fell back to zero values
	AggregationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_aggregation_store_failures_total",
		Help: "Aggregations that hit a store error and returned zero values",
	}, []string{"view"})

	// JobRuns counts scheduled job executions by job and result
	JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_job_runs_total",
		Help: "Scheduled job runs by job name and result",
	}, []string{"job", "result"})

	// HTTPRequests tracks API latency by route name and status class
	HTTPRequests = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "library_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "code"})
)

// Result labels
const (
	ResultOK      = "ok"
	ResultNoData  = "no_data"
	ResultInvalid = "invalid_filter"
	ResultError   = "error"
)

// ObserveRender records how long rendering a report kind took
func ObserveRender(kind string, start time.Time) {
	RenderDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
