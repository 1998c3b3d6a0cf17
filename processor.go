package marker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Processor applies the scorer to one record and absorbs every failure
// into the returned Outcome. This is the isolation boundary that keeps
// one bad record from aborting its batch.
type Processor struct {
	scorer  Scorer
	observe ProgressFunc
}

func NewProcessor(scorer Scorer, observe ProgressFunc) *Processor {
	if observe == nil {
		observe = logProgress
	}
	return &Processor{scorer: scorer, observe: observe}
}

// Process scores one record. It always returns an Outcome and never
// panics past its own boundary.
func (p *Processor) Process(ctx context.Context, rec Record, index, total int) Outcome {
	verdict, err := p.scorer.Score(ctx, rec.Question, rec.Answer, rec.Category)

	outcome := Outcome{
		RecordID:    rec.ID,
		Question:    rec.Question,
		Answer:      rec.Answer,
		Category:    rec.Category,
		CompletedAt: time.Now(),
	}
	if err != nil {
		outcome.FailureReason = err.Error()
		outcome.err = err
	} else {
		outcome.Verdict = verdict
		outcome.Success = true
	}

	p.observe(Progress{
		RecordID: rec.ID,
		Index:    index,
		Total:    total,
		Err:      err,
	})
	return outcome
}

func logProgress(pr Progress) {
	if pr.Err != nil {
		zap.S().Warnw(
			"record scoring failed",
			"record_id", pr.RecordID,
			"position", pr.Index+1,
			"total", pr.Total,
			"error", pr.Err,
		)
		return
	}
	zap.S().Infow(
		"record scored",
		"record_id", pr.RecordID,
		"position", pr.Index+1,
		"total", pr.Total,
	)
}
