package marker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evalhq/marker/config"
)

// Runner drives one scoring run: fetch the whole record collection,
// process it group by group through the scorer, aggregate the outcomes
// and hand the report to every sink. A run is at-most-once and not
// resumable; only an unreachable source aborts it.
type Runner struct {
	cfg   *config.Config
	src   RecordSource
	proc  *Processor
	sinks []ResultSink
	sleep Sleeper
	state runState
}

func New(cfg *config.Config, observe ProgressFunc) (*Runner, error) {
	sinks, err := initSinks(cfg.Writer.Sinks)
	if err != nil {
		return nil, fmt.Errorf("initializing sinks: %w", err)
	}

	source, err := initSource(cfg.Source)
	if err != nil {
		return nil, err
	}

	scorer := NewVerdictScorer(cfg.Scorer, cfg.Runner.CircuitBreaker)

	return &Runner{
		cfg:   cfg,
		src:   source,
		proc:  NewProcessor(scorer, observe),
		sinks: sinks,
		sleep: wallClock{},
		state: stateIdle,
	}, nil
}

// Run executes the whole scoring run and returns the finished report.
// An error here means no report was produced at all.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	startedAt := time.Now()
	r.initTables(ctx)

	r.setState(stateFetching)
	records, err := r.src.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching records: %w", err)
	}
	zap.S().Infow(
		"fetched the record collection",
		"count", len(records),
		"policy", r.cfg.Runner.Policy,
	)

	var outcomes []Outcome
	if len(records) > 0 {
		switch r.cfg.Runner.Policy {
		case config.WindowPolicy:
			outcomes = r.runGroups(
				ctx,
				records,
				r.cfg.Runner.WindowLimit,
				r.cfg.Runner.WindowDelay,
			)
		default:
			outcomes = r.runGroups(
				ctx,
				records,
				r.cfg.Runner.BatchSize,
				r.cfg.Runner.BatchDelay,
			)
		}
	}

	summary := Summarize(outcomes)
	report := BuildReport(
		uuid.NewString(),
		outcomes,
		summary,
		r.cfg.Runner,
		startedAt,
		time.Now(),
	)
	r.setState(stateDone)

	r.writeReport(ctx, report)

	zap.S().Infow(
		"run finished",
		"run_id", report.RunID,
		"total", report.Counts.Total,
		"succeeded", report.Counts.Succeeded,
		"failed", report.Counts.Failed,
		"elapsed", time.Since(startedAt),
	)
	return report, nil
}

// tableInitializer is implemented by sinks that own database tables.
type tableInitializer interface {
	InitTables(ctx context.Context) error
}

func (r *Runner) initTables(ctx context.Context) {
	var errs []error
	for _, sink := range r.sinks {
		if init, ok := sink.(tableInitializer); ok {
			errs = append(errs, init.InitTables(ctx))
		}
	}
	if err := errors.Join(errs...); err != nil {
		zap.S().Warnw("one or more table creation scripts have failed", "error", err)
	}
}

// writeReport is best-effort: a sink failure is logged and never aborts
// the run, the report is still returned to the caller.
func (r *Runner) writeReport(ctx context.Context, report *Report) {
	for _, sink := range r.sinks {
		if err := sink.WriteReport(ctx, report); err != nil {
			zap.S().Errorw("writing report to sink", "error", err)
		}
	}
}

func initSource(cfg config.SourceConfig) (RecordSource, error) {
	source, version, err := NewClickhouseSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing clickhouse source: %w", err)
	}
	zap.S().Infow(
		"created a new clickhouse source client",
		"version", fmt.Sprintf("%v", version.Version),
	)
	return source, nil
}

func initSinks(cfgs []config.SinkConfig) ([]ResultSink, error) {
	var sinks []ResultSink
	var errs []error
	for _, cfg := range cfgs {
		switch cfg.Backend {
		case config.BackendClickhouse:
			sink, version, err := NewClickhouseSink(cfg)
			if err != nil {
				errs = append(errs, fmt.Errorf("initializing %s sink: %w", cfg.Backend, err))
				continue
			}
			zap.S().Infow(
				"created a new clickhouse sink client",
				"version", fmt.Sprintf("%v", version.Version),
			)
			sinks = append(sinks, sink)
		case config.BackendFile:
			sinks = append(sinks, NewFileSink(cfg.Dir))
		default:
			errs = append(errs, fmt.Errorf("unknown sink backend %q", cfg.Backend))
		}
	}
	return sinks, errors.Join(errs...)
}
