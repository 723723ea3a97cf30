package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	analysesTotal      *prometheus.CounterVec
	analysisDuration   prometheus.Histogram
	purchasesRecorded  *prometheus.CounterVec
	pointsSkipped      *prometheus.CounterVec
	providerFetches    *prometheus.CounterVec
	insightCompletions *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),

		analysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dripline_analyses_total",
				Help: "Total number of strategy analyses",
			},
			[]string{"status"},
		),

		analysisDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dripline_analysis_duration_seconds",
				Help:    "Analysis duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		purchasesRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dripline_purchases_recorded_total",
				Help: "Total number of simulated purchases recorded",
			},
			[]string{"strategy"},
		),

		pointsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dripline_points_skipped_total",
				Help: "Total number of points skipped during simulation",
			},
			[]string{"strategy"},
		),

		providerFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dripline_provider_fetches_total",
				Help: "Total number of price history fetches",
			},
			[]string{"source", "status"},
		),

		insightCompletions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dripline_insight_completions_total",
				Help: "Total number of insight completions",
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)
	reg.MustRegister(r.analysesTotal)
	reg.MustRegister(r.analysisDuration)
	reg.MustRegister(r.purchasesRecorded)
	reg.MustRegister(r.pointsSkipped)
	reg.MustRegister(r.providerFetches)
	reg.MustRegister(r.insightCompletions)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordAnalysis records a completed analysis.
func (r *Registry) RecordAnalysis(status string, duration float64) {
	r.analysesTotal.WithLabelValues(status).Inc()
	r.analysisDuration.Observe(duration)
}

// RecordPurchases adds simulated purchases for a strategy.
func (r *Registry) RecordPurchases(strategy string, count int) {
	r.purchasesRecorded.WithLabelValues(strategy).Add(float64(count))
}

// RecordSkips adds skipped points for a strategy.
func (r *Registry) RecordSkips(strategy string, count int) {
	r.pointsSkipped.WithLabelValues(strategy).Add(float64(count))
}

// RecordProviderFetch records a price history fetch.
func (r *Registry) RecordProviderFetch(source, status string) {
	r.providerFetches.WithLabelValues(source, status).Inc()
}

// RecordInsight records an insight completion attempt.
func (r *Registry) RecordInsight(status string) {
	r.insightCompletions.WithLabelValues(status).Inc()
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
