package marker

import "context"

// RecordSource supplies the full record collection for a run. The runner
// always fetches and keeps the entire collection in memory before
// partitioning; there is no cursoring.
type RecordSource interface {
	FetchAll(ctx context.Context) ([]Record, error)
}

// Scorer wraps one outbound call to the scoring provider. Implementations
// perform exactly one call per invocation and return a typed failure
// instead of panicking; retry policy belongs to the orchestration layer.
type Scorer interface {
	Score(ctx context.Context, question, answer, category string) (*Verdict, error)
}

// ResultSink persists a finished report. Write failures are logged by the
// runner and never abort the run.
type ResultSink interface {
	WriteReport(ctx context.Context, report *Report) error
}

// Progress is one per-record progress observation.
type Progress struct {
	RecordID string
	Index    int // zero-based position within the run
	Total    int
	Err      error
}

// ProgressFunc receives progress observations as records complete.
type ProgressFunc func(Progress)
