package marker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type runState string

const (
	stateIdle     runState = "idle"
	stateFetching runState = "fetching"
	stateRunning  runState = "running"
	statePacing   runState = "pacing"
	stateDone     runState = "done"
)

func (r *Runner) setState(s runState) {
	if r.state == s {
		return
	}
	zap.S().Debugw("run state transition", "from", r.state, "to", s)
	r.state = s
}

// runGroups drives the record sequence group by group: every member of a
// group is processed concurrently, the group is a synchronization barrier,
// and a pacing delay separates consecutive groups. Group size is the only
// admission control: at most size scoring calls are in flight at once.
func (r *Runner) runGroups(
	ctx context.Context,
	records []Record,
	size int,
	pace time.Duration,
) []Outcome {
	batches := PartitionRecords(records, size)
	outcomes := make([]Outcome, 0, len(records))
	offset := 0

	for i, batch := range batches {
		if ctx.Err() != nil {
			zap.S().Warnw(
				"run cancelled, failing the remaining records",
				"remaining", len(records)-offset,
			)
			return append(outcomes, failBatch(
				Batch(records[offset:]),
				fmt.Sprintf("run cancelled: %v", ctx.Err()),
			)...)
		}

		r.setState(stateRunning)
		got := r.runBatch(ctx, batch, offset, len(records))
		outcomes = append(outcomes, got...)
		offset += len(batch)

		r.pauseIfBreakerOpen(ctx, got)

		if i < len(batches)-1 {
			r.setState(statePacing)
			if err := r.sleep.Sleep(ctx, pace); err != nil {
				continue // cancellation is handled at the top of the loop
			}
		}
	}
	return outcomes
}

// runBatch processes every member of one batch concurrently and waits for
// all of them. A recovered panic is the batch-level failure boundary: the
// whole batch resolves to synthesized failure outcomes sharing one
// description, and the run moves on to the next batch.
func (r *Runner) runBatch(
	ctx context.Context,
	batch Batch,
	offset, total int,
) []Outcome {
	results := make(chan Outcome, len(batch))
	panics := make(chan string, len(batch))

	var wg sync.WaitGroup
	for i := range batch {
		rec := batch[i]
		index := offset + i
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					panics <- fmt.Sprintf("%v", p)
				}
			}()
			results <- r.proc.Process(ctx, rec, index, total)
		}()
	}
	wg.Wait()
	close(results)
	close(panics)

	if reason, unexpected := <-panics; unexpected {
		zap.S().Errorw(
			"batch execution failed, synthesizing failure outcomes for the whole batch",
			"batch_len", len(batch),
			"reason", reason,
		)
		return failBatch(batch, fmt.Sprintf("batch execution failure: %s", reason))
	}

	// Receive order is completion order within the batch.
	outcomes := make([]Outcome, 0, len(batch))
	for o := range results {
		outcomes = append(outcomes, o)
	}
	return outcomes
}

// pauseIfBreakerOpen suspends the run for the breaker timeout when the
// last group tripped the circuit breaker, instead of hammering the
// provider with calls that would fail fast anyway.
func (r *Runner) pauseIfBreakerOpen(ctx context.Context, outcomes []Outcome) {
	for _, o := range outcomes {
		if BreakerOpen(o.err) {
			zap.S().Warnw(
				"run is paused after too many failed scoring calls",
				"pause", r.cfg.Runner.CircuitBreaker.Timeout,
			)
			_ = r.sleep.Sleep(ctx, r.cfg.Runner.CircuitBreaker.Timeout)
			return
		}
	}
}

func failBatch(batch Batch, reason string) []Outcome {
	now := time.Now()
	outcomes := make([]Outcome, len(batch))
	for i, rec := range batch {
		outcomes[i] = Outcome{
			RecordID:      rec.ID,
			Question:      rec.Question,
			Answer:        rec.Answer,
			Category:      rec.Category,
			FailureReason: reason,
			CompletedAt:   now,
		}
	}
	return outcomes
}
