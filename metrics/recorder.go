package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements services.Metrics using Prometheus.
type Recorder struct {
	loads        *prometheus.CounterVec
	dropped      *prometheus.CounterVec
	stageLatency *prometheus.HistogramVec
	sessions     prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registers the pipeline collectors on reg. A nil reg falls back to the
// default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		loads: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propmap_loads_total",
				Help: "Uploads processed by the pipeline, by result",
			},
			[]string{"result"},
		),
		dropped: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propmap_rows_dropped_total",
				Help: "Rows removed during cleaning, by reason",
			},
			[]string{"reason"},
		),
		stageLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "propmap_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"stage"},
		),
		sessions: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "propmap_active_sessions",
				Help: "Dashboard sessions currently held in memory",
			},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method", "class"},
		),
	}
}

// ObserveStage records how long a pipeline stage took.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.stageLatency.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordLoad counts one upload with its outcome.
func (r *Recorder) RecordLoad(result string) {
	r.loads.WithLabelValues(result).Inc()
}

// RecordDropped adds n dropped rows for reason.
func (r *Recorder) RecordDropped(reason string, n int) {
	if n <= 0 {
		return
	}
	r.dropped.WithLabelValues(reason).Add(float64(n))
}

// SetSessions publishes the current session count.
func (r *Recorder) SetSessions(n int) {
	r.sessions.Set(float64(n))
}

// ObserveRequest records one HTTP request. route should be the templated
// path to keep label cardinality low.
func (r *Recorder) ObserveRequest(route, method string, status int, d time.Duration) {
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method, statusClass(status)).Observe(d.Seconds())
}

func statusClass(code int) string {
	switch {
	case code >= 100 && code < 200:
		return "1xx"
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
