package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// StageDuration observes each pipeline stage in seconds.
	// Labels: stage (chunk/asr/diarize/compress/align/summarize/persist)
	StageDuration *prometheus.HistogramVec

	// ChunksTotal counts units sent to the ASR backend.
	// Labels: backend, status (success/error)
	ChunksTotal *prometheus.CounterVec

	// CollaboratorErrorsTotal counts failed external calls.
	// Labels: collaborator
	CollaboratorErrorsTotal *prometheus.CounterVec

	// DataQualityWarningsTotal counts recoverable input anomalies.
	// Labels: kind (malformed_diarization/unaligned_segment/inverted_segment)
	DataQualityWarningsTotal *prometheus.CounterVec

	// RunsTotal counts transcribe and summarize invocations.
	// Labels: operation, status (success/error)
	RunsTotal *prometheus.CounterVec
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "speechnote_stage_duration_seconds",
				Help:    "Pipeline stage duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 900},
			},
			[]string{"stage"},
		),
		ChunksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "speechnote_asr_units_total",
				Help: "Total number of audio units transcribed by backend",
			},
			[]string{"backend", "status"},
		),
		CollaboratorErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "speechnote_collaborator_errors_total",
				Help: "Total number of failed external service calls",
			},
			[]string{"collaborator"},
		),
		DataQualityWarningsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "speechnote_data_quality_warnings_total",
				Help: "Total number of recoverable input anomalies by kind",
			},
			[]string{"kind"},
		),
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "speechnote_runs_total",
				Help: "Total number of pipeline invocations by operation and status",
			},
			[]string{"operation", "status"},
		),
	}
}

func (m *Metrics) RecordStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) RecordUnit(backend string, success bool) {
	if m == nil {
		return
	}
	m.ChunksTotal.WithLabelValues(backend, status(success)).Inc()
}

func (m *Metrics) RecordCollaboratorError(collaborator string) {
	if m == nil {
		return
	}
	m.CollaboratorErrorsTotal.WithLabelValues(collaborator).Inc()
}

func (m *Metrics) RecordDataQuality(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.DataQualityWarningsTotal.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) RecordRun(operation string, success bool) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(operation, status(success)).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile dumps the registry for the node_exporter textfile collector.
// One-shot CLI runs use it since nothing scrapes them.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
