package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_Counters(t *testing.T) {
	t.Parallel()

	r := NewPrometheusRecorder()
	r.IncRecord(RecordOK)
	r.IncRecord(RecordOK)
	r.IncRecord(RecordFailed)
	r.IncBuildOutcome(OutcomeFailed)
	r.SetPagesWritten(7)

	require.Equal(t, 2.0, testutil.ToFloat64(r.records.WithLabelValues(RecordOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(r.records.WithLabelValues(RecordFailed)))
	require.Equal(t, 1.0, testutil.ToFloat64(r.buildOutcome.WithLabelValues(OutcomeFailed)))
	require.Equal(t, 7.0, testutil.ToFloat64(r.pagesWritten))
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	t.Parallel()

	r := NewPrometheusRecorder()
	r.ObserveStageDuration("transform", 20*time.Millisecond)
	r.ObserveBuildDuration(time.Second)

	path := filepath.Join(t.TempDir(), "sitegen.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "sitegen_stage_duration_seconds")
	require.Contains(t, string(data), `stage="transform"`)
	require.Contains(t, string(data), "sitegen_build_duration_seconds_count 1")
}

func TestNoopRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("x", time.Second)
	r.IncRecord(RecordSkipped)
	r.SetPagesWritten(1)
}
