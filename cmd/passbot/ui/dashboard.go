// Package ui renders the live generation dashboard. It is a pure
// consumer of engine telemetry snapshots: the engine pushes
// ProgressMsg values through the bubbletea program and never depends
// on any renderer.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"passbot/internal/checkpoint"
	"passbot/internal/engine"
)

// ProgressMsg carries one engine telemetry snapshot.
type ProgressMsg engine.Progress

// DoneMsg signals that the run finished or was interrupted.
type DoneMsg struct {
	Result *engine.Result
	Err    error
}

type tickMsg time.Time

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("78")).
			Padding(0, 2)
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	stopStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

// Dashboard is the live-progress model.
type Dashboard struct {
	cancel   context.CancelFunc
	output   string
	total    int64
	bar      progress.Model
	start    time.Time
	last     engine.Progress
	stopping bool
	done     *DoneMsg
	width    int
}

// NewDashboard builds the dashboard. cancel stops the generation run;
// it is invoked when the operator presses q or Ctrl+C.
func NewDashboard(cancel context.CancelFunc, output string, total int64) Dashboard {
	return Dashboard{
		cancel: cancel,
		output: output,
		total:  total,
		bar:    progress.New(progress.WithDefaultGradient()),
		start:  time.Now(),
	}
}

func (d Dashboard) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (d Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			// First press requests a safe stop; repeats are no-ops.
			d.stopping = true
			d.cancel()
			return d, nil
		}
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.bar.Width = msg.Width - 12
		if d.bar.Width > 60 {
			d.bar.Width = 60
		}
		return d, nil
	case ProgressMsg:
		d.last = engine.Progress(msg)
		return d, nil
	case DoneMsg:
		done := msg
		d.done = &done
		return d, tea.Quit
	case tickMsg:
		return d, tick()
	}
	return d, nil
}

func (d Dashboard) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("passbot — live generation"))
	b.WriteString("\n\n")

	// The bar tracks the overall cursor (Completed spans prior runs),
	// so a resumed run picks up where it stopped; the rate is this
	// session's own throughput.
	percent := 0.0
	if d.total > 0 {
		percent = float64(d.last.Completed) / float64(d.total)
		if percent > 1 {
			percent = 1
		}
	}
	b.WriteString(d.bar.ViewAs(percent))
	b.WriteString(fmt.Sprintf("  %d / %d\n\n", d.last.Completed, d.total))

	elapsed := time.Since(d.start)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(d.last.Considered) / elapsed.Seconds()
	}
	eta := "calculating..."
	if rate > 0 && d.total > d.last.Completed {
		remaining := float64(d.total-d.last.Completed) / rate
		eta = (time.Duration(remaining) * time.Second).String()
	}

	phase := "starting..."
	if d.last.Phase > 0 {
		phase = fmt.Sprintf("Phase %d/%d: %s", d.last.Phase, d.last.TotalPhases, d.last.PhaseLabel)
	}

	rows := []struct {
		label, value string
	}{
		{"Phase", phase},
		{"Accepted", fmt.Sprintf("%d", d.last.Accepted)},
		{"Filtered", fmt.Sprintf("%d", d.last.Filtered)},
		{"Rate", fmt.Sprintf("%.0f/sec", rate)},
		{"Elapsed", elapsed.Round(time.Second).String()},
		{"ETA", eta},
		{"Current", truncate(d.last.Current, 40)},
		{"Output", d.output},
	}
	var stats strings.Builder
	for _, row := range rows {
		stats.WriteString(labelStyle.Render(row.label))
		stats.WriteString(valueStyle.Render(row.value))
		stats.WriteString("\n")
	}
	b.WriteString(boxStyle.Render(strings.TrimRight(stats.String(), "\n")))
	b.WriteString("\n\n")

	switch {
	case d.done != nil && d.done.Result != nil && d.done.Result.State == checkpoint.StateInterrupted:
		b.WriteString(stopStyle.Render("Stopped. Checkpoint saved — rerun to resume."))
	case d.stopping:
		b.WriteString(stopStyle.Render("Stopping safely: flushing sink, writing checkpoint..."))
	default:
		b.WriteString(hintStyle.Render("press q or Ctrl+C to stop safely"))
	}
	b.WriteString("\n")

	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
