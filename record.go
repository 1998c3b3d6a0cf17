package marker

import (
	"strconv"
	"time"
)

// Record is one question/answer unit to be scored. Records are read from
// the source wholesale and never mutated.
type Record struct {
	ID       string `json:"id"       ch:"id"`
	Question string `json:"question" ch:"question"`
	Answer   string `json:"answer"   ch:"answer"`
	Category string `json:"category" ch:"category"`
	Language string `json:"language" ch:"language"`
}

// Verdict is the structured output of one scoring call: four sub-scores
// on a nominal 1-10 scale, a derived overall score and two free-text
// explanation fields.
type Verdict struct {
	Completeness           float64 `json:"completeness"`
	Accuracy               float64 `json:"accuracy"`
	Clarity                float64 `json:"clarity"`
	Usefulness             float64 `json:"usefulness"`
	OverallScore           float64 `json:"overall_score"`
	Reasoning              string  `json:"reasoning"`
	ImprovementSuggestions string  `json:"improvement_suggestions"`
}

// Outcome is the result of processing one record. Exactly one Outcome
// exists per input record; a failed scoring call yields an Outcome with a
// nil Verdict and a failure description instead of aborting the run.
type Outcome struct {
	RecordID      string    `json:"record_id"`
	Question      string    `json:"question"`
	Answer        string    `json:"answer"`
	Category      string    `json:"category,omitempty"`
	Verdict       *Verdict  `json:"verdict"`
	Success       bool      `json:"success"`
	FailureReason string    `json:"failure_reason,omitempty"`
	CompletedAt   time.Time `json:"completed_at"`

	// err keeps the original processing error for orchestration decisions
	// (circuit breaker state checks); it is never serialized.
	err error
}

// Batch is an ordered, contiguous slice of the record sequence.
type Batch []Record

// Mean is a two-decimal mean score. It marshals as a fixed two-decimal
// JSON number so that 8 renders as 8.00.
type Mean float64

func (m Mean) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(m), 'f', 2, 64)), nil
}

// Summary aggregates all evaluable outcomes of a run. A nil *Summary
// means the run produced no evaluable outcome at all, which is distinct
// from a summary of all-zero scores.
type Summary struct {
	Total     int `json:"total_records"`
	Succeeded int `json:"successful_evaluations"`
	Failed    int `json:"failed_evaluations"`

	MeanCompleteness Mean `json:"completeness"`
	MeanAccuracy     Mean `json:"accuracy"`
	MeanClarity      Mean `json:"clarity"`
	MeanUsefulness   Mean `json:"usefulness"`
	MeanOverall      Mean `json:"overall_score"`
}
