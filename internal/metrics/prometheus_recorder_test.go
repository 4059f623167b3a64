package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("parse", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("parse", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.AddPagesRendered(3)
	pr.AddAssetsCopied(2)
	pr.SetDocumentWorkers(4)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 7)

	assert.InDelta(t, 3, testutil.ToFloat64(pr.pagesRendered), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(pr.assetsCopied), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(pr.documentWorkers), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.stageResults.WithLabelValues("parse", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.buildOutcome.WithLabelValues("success")), 0)
}

func TestPrometheusRecorder_NilRegistry(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	require.NotNil(t, pr.Registry())
	pr.AddPagesRendered(1)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.pagesRendered), 0)
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("x", time.Second)
		pr.IncBuildOutcome(BuildOutcomeFailed)
		pr.AddAssetsCopied(1)
	})
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.AddPagesRendered(5)
	pr.IncBuildOutcome(BuildOutcomeSuccess)

	path := filepath.Join(t.TempDir(), "ralog.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ralog_pages_rendered_total 5")
	assert.Contains(t, string(data), `ralog_build_outcomes_total{outcome="success"} 1`)
}

func TestWriteTextfile_BadDirectory(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	err := pr.WriteTextfile(filepath.Join(t.TempDir(), "missing", "ralog.prom"))
	assert.Error(t, err)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() {
		r.ObserveStageDuration("parse", time.Second)
		r.ObserveBuildDuration(time.Second)
		r.IncStageResult("parse", ResultFatal)
		r.IncBuildOutcome(BuildOutcomeCanceled)
		r.AddPagesRendered(1)
		r.AddAssetsCopied(1)
		r.SetDocumentWorkers(1)
	})
}
