package marker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalhq/marker/config"
)

func TestBuildReportCounts(t *testing.T) {
	outcomes := []Outcome{
		successOutcome("a", *fixedVerdict()),
		successOutcome("b", *fixedVerdict()),
		{RecordID: "c", FailureReason: "malformed response"},
	}
	rc := config.RunnerConfig{Policy: config.BatchPolicy, BatchSize: 5}

	report := BuildReport("run-1", outcomes, Summarize(outcomes), rc, time.Now(), time.Now())

	require.NotNil(t, report)
	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, config.BatchPolicy, report.Policy)
	assert.Equal(t, 5, report.BatchSize)
	assert.Equal(t, Counts{Total: 3, Succeeded: 2, Failed: 1}, report.Counts)
}

func TestBuildReportWindowPolicySize(t *testing.T) {
	rc := config.RunnerConfig{
		Policy:      config.WindowPolicy,
		BatchSize:   5,
		WindowLimit: 8,
	}
	report := BuildReport("run-1", nil, nil, rc, time.Now(), time.Now())
	assert.Equal(t, 8, report.BatchSize)
	assert.Nil(t, report.Summary)
}
