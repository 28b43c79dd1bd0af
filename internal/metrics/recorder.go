// Package metrics records build observations. The Prometheus implementation
// is written to a node_exporter textfile after each build.
package metrics

import "time"

// Record outcomes used as counter labels.
const (
	RecordOK      = "ok"
	RecordFailed  = "failed"
	RecordSkipped = "skipped"
)

// Build outcomes used as counter labels.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeAborted   = "aborted"
)

// Recorder defines observability hooks for the build pipeline.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncRecord(result string)
	SetPagesWritten(n int)
	IncBuildOutcome(outcome string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncRecord(string)                           {}
func (NoopRecorder) SetPagesWritten(int)                        {}
func (NoopRecorder) IncBuildOutcome(string)                     {}

var _ Recorder = NoopRecorder{}
