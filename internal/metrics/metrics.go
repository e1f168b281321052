// Package metrics holds the Prometheus instruments of the portal.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Pipeline Metrics
	PipelineRunsTotal     *prometheus.CounterVec
	PipelineStageDuration *prometheus.HistogramVec
	DatasetRows           prometheus.Gauge

	// Model Metrics
	ModelAccuracy    *prometheus.GaugeVec
	PredictionsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	factory := promauto.With(r.registry)

	r.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	r.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	r.PipelineRunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_pipeline_runs_total",
			Help: "Total number of load/encode/train pipeline runs",
		},
		[]string{"source", "status"},
	)
	r.PipelineStageDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_pipeline_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"},
	)
	r.DatasetRows = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_dataset_rows",
			Help: "Number of rows in the most recently loaded dataset",
		},
	)

	r.ModelAccuracy = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portal_model_accuracy",
			Help: "Held-out accuracy of the most recently trained classifiers",
		},
		[]string{"model"},
	)
	r.PredictionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_predictions_total",
			Help: "Total number of scenario predictions",
		},
		[]string{"status"},
	)

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordPipelineRun counts a finished pipeline run.
func (r *Registry) RecordPipelineRun(source string, err error) {
	r.PipelineRunsTotal.WithLabelValues(source, status(err)).Inc()
}

// ObserveStage records how long a pipeline stage took.
func (r *Registry) ObserveStage(stage string, duration time.Duration) {
	r.PipelineStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordPrediction counts a scenario prediction.
func (r *Registry) RecordPrediction(err error) {
	r.PredictionsTotal.WithLabelValues(status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
