package marker

import (
	"time"

	"github.com/evalhq/marker/config"
)

// Counts summarizes outcome totals independently of Summary, so a run
// with zero evaluable outcomes still reports how it went.
type Counts struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Report is the final persisted structure of a run: every outcome, the
// aggregate summary (nil when nothing was evaluable) and run metadata.
type Report struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	StartedAt   time.Time        `json:"started_at"`
	Policy      config.RunPolicy `json:"policy"`
	BatchSize   int              `json:"batch_size"`
	Counts      Counts           `json:"counts"`
	Summary     *Summary         `json:"summary"`
	Outcomes    []Outcome        `json:"outcomes"`
}

// BuildReport shapes the persisted report. Pure transformation, no I/O.
func BuildReport(
	runID string,
	outcomes []Outcome,
	summary *Summary,
	rc config.RunnerConfig,
	startedAt, generatedAt time.Time,
) *Report {
	counts := Counts{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Success {
			counts.Succeeded++
		} else {
			counts.Failed++
		}
	}

	size := rc.BatchSize
	if rc.Policy == config.WindowPolicy {
		size = rc.WindowLimit
	}

	return &Report{
		RunID:       runID,
		GeneratedAt: generatedAt,
		StartedAt:   startedAt,
		Policy:      rc.Policy,
		BatchSize:   size,
		Counts:      counts,
		Summary:     summary,
		Outcomes:    outcomes,
	}
}
