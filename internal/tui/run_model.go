package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/evalhq/marker"
)

// ProgressMsg carries one per-record progress observation into the UI.
type ProgressMsg marker.Progress

// DoneMsg signals that the run finished, with or without a report.
type DoneMsg struct {
	Report *marker.Report
	Err    error
}

// RunModel renders a live view of one scoring run.
type RunModel struct {
	spinner spinner.Model
	events  <-chan tea.Msg

	total    int
	done     int
	failed   int
	lastID   string
	report   *marker.Report
	err      error
	finished bool
}

func NewRunModel(events <-chan tea.Msg) RunModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return RunModel{spinner: sp, events: events}
}

func waitForEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func (m RunModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func (m RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	case ProgressMsg:
		m.total = msg.Total
		m.done++
		m.lastID = msg.RecordID
		if msg.Err != nil {
			m.failed++
		}
		return m, waitForEvent(m.events)
	case DoneMsg:
		m.finished = true
		m.report = msg.Report
		m.err = msg.Err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m RunModel) View() string {
	var s strings.Builder
	s.WriteString(Styles.Title.Render("marker — scoring run") + "\n\n")

	switch {
	case m.err != nil:
		s.WriteString(Styles.Error.Render(m.err.Error()) + "\n")
	case m.finished && m.report != nil:
		s.WriteString(Styles.Success.Render("run completed") + "\n\n")
		s.WriteString(fmt.Sprintf(
			"  run id:    %s\n  total:     %d\n  succeeded: %d\n  failed:    %d\n",
			m.report.RunID,
			m.report.Counts.Total,
			m.report.Counts.Succeeded,
			m.report.Counts.Failed,
		))
	default:
		s.WriteString(fmt.Sprintf(
			"  %s scoring records  %d/%d",
			m.spinner.View(),
			m.done,
			m.total,
		))
		if m.failed > 0 {
			s.WriteString(Styles.Error.Render(fmt.Sprintf("  (%d failed)", m.failed)))
		}
		s.WriteString("\n")
		if m.lastID != "" {
			s.WriteString(Styles.Muted.Render("  last record: "+m.lastID) + "\n")
		}
	}

	s.WriteString("\n  q / Ctrl+C — quit\n")
	return s.String()
}
