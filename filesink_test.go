package marker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalhq/marker/config"
)

func sampleReport(runID string) *Report {
	outcomes := []Outcome{
		successOutcome("rec-01", *fixedVerdict()),
		{RecordID: "rec-02", FailureReason: "empty response", CompletedAt: time.Now()},
	}
	rc := config.RunnerConfig{Policy: config.BatchPolicy, BatchSize: 5}
	return BuildReport(runID, outcomes, Summarize(outcomes), rc, time.Now(), time.Now())
}

func TestFileSinkWritesBothDocuments(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir)

	require.NoError(t, sink.WriteReport(context.Background(), sampleReport("run-1")))

	var report Report
	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "run-1", report.RunID)
	assert.Len(t, report.Outcomes, 2)
	require.NotNil(t, report.Summary)
	assert.Equal(t, 1, report.Summary.Succeeded)

	data, err = os.ReadFile(filepath.Join(dir, "summary.json"))
	require.NoError(t, err)
	var summary summaryDocument
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, 2, summary.Counts.Total)
	assert.Contains(t, string(data), `"completeness": 8.00`)
}

func TestFileSinkOverwritesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir)

	require.NoError(t, sink.WriteReport(context.Background(), sampleReport("run-1")))
	require.NoError(t, sink.WriteReport(context.Background(), sampleReport("run-2")))

	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	var report Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "run-2", report.RunID, "a later run fully replaces the files")
}

func TestFileSinkCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	sink := NewFileSink(dir)

	require.NoError(t, sink.WriteReport(context.Background(), sampleReport("run-1")))
	_, err := os.Stat(filepath.Join(dir, "summary.json"))
	assert.NoError(t, err)
}
