package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/evalhq/marker"
	"github.com/evalhq/marker/config"
	"github.com/evalhq/marker/internal/tui"
	"github.com/evalhq/marker/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	// Keep zap off the terminal the TUI owns.
	if cfg.Log.OutputPath == "" {
		cfg.Log.OutputPath = "marker.log"
	}
	log.Init(cfg.Log)

	events := make(chan tea.Msg, 256)
	observe := func(pr marker.Progress) {
		select {
		case events <- tui.ProgressMsg(pr):
		default: // the UI is gone or behind, drop the observation
		}
	}

	runner, err := marker.New(cfg, observe)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		report, err := runner.Run(ctx)
		events <- tui.DoneMsg{Report: report, Err: err}
	}()

	p := tea.NewProgram(tui.NewRunModel(events), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	// The user may have quit mid-run; let the runner finish its report
	// within the configured grace period.
	cancel()
	select {
	case <-done:
	case <-time.After(cfg.Shutdown.GracePeriod):
		zap.S().Error("shutdown grace period reached, forcefully shutting down")
		os.Exit(1)
	}

	if m, ok := finalModel.(tui.RunModel); ok {
		fmt.Print(m.View())
	}
}
