package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitegen"

// PrometheusRecorder implements Recorder with a private registry.
type PrometheusRecorder struct {
	registry      *prom.Registry
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	records       *prom.CounterVec
	pagesWritten  prom.Gauge
	buildOutcome  *prom.CounterVec
}

// NewPrometheusRecorder creates and registers the build metrics.
func NewPrometheusRecorder() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prom.NewRegistry(),
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		records: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Content records processed by result",
		}, []string{"result"}),
		pagesWritten: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "pages_written",
			Help:      "Documents written by the last build",
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Builds by final state",
		}, []string{"outcome"}),
	}
	r.registry.MustRegister(r.stageDuration, r.buildDuration, r.records, r.pagesWritten, r.buildOutcome)
	return r
}

func (r *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (r *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	r.buildDuration.Observe(d.Seconds())
}

func (r *PrometheusRecorder) IncRecord(result string) {
	r.records.WithLabelValues(result).Inc()
}

func (r *PrometheusRecorder) SetPagesWritten(n int) {
	r.pagesWritten.Set(float64(n))
}

func (r *PrometheusRecorder) IncBuildOutcome(outcome string) {
	r.buildOutcome.WithLabelValues(outcome).Inc()
}

// Registry exposes the underlying registry (for tests and custom exporters).
func (r *PrometheusRecorder) Registry() *prom.Registry {
	return r.registry
}

// WriteTextfile writes all metrics in the text exposition format,
// atomically replacing path.
func (r *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, r.registry)
}

var _ Recorder = (*PrometheusRecorder)(nil)
