package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/evalhq/marker"
	"github.com/evalhq/marker/config"
	"github.com/evalhq/marker/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger is not configured yet at this point.
		fmt.Fprintf(os.Stderr, "loading configuration: %v\n", err)
		os.Exit(1)
	}
	log.Init(cfg.Log)

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancel()

	runner, err := marker.New(cfg, nil)
	if err != nil {
		zap.S().Fatalw("initializing the runner", "error", err)
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			zap.S().Infow(
				"shutting down gracefully, Ctrl+C to force",
				"grace_period", cfg.Shutdown.GracePeriod,
			)
			select {
			case <-time.After(cfg.Shutdown.GracePeriod):
				zap.S().Error("shutdown grace period reached, forcefully shutting down")
				os.Exit(1)
			case <-done:
			}
		case <-done:
		}
	}()

	report, err := runner.Run(ctx)
	close(done)
	if err != nil {
		// No report was produced at all; this is the only non-zero path.
		zap.S().Fatalw("run failed before producing a report", "error", err)
	}

	zap.S().Infow(
		"scoring run completed",
		"run_id", report.RunID,
		"total", report.Counts.Total,
		"succeeded", report.Counts.Succeeded,
		"failed", report.Counts.Failed,
	)
}
