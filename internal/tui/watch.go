package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbcli/deploy-skills/internal/orchestrate"
)

// RedeployStartedMsg signals that a deployment run has begun.
type RedeployStartedMsg struct{}

// RedeployDoneMsg carries the outcome of a deployment run.
type RedeployDoneMsg struct {
	Summary *orchestrate.Summary
	Err     error
	At      time.Time
}

// watchModel shows the watched source and the result of the latest run.
type watchModel struct {
	// root is the skills source being watched.
	root string

	// runs counts completed deployments.
	runs int

	// running is true between a started and a done message.
	running bool

	// last is the latest completed summary (nil before the first run).
	last *orchestrate.Summary

	// lastErr is the error of the latest run, if any.
	lastErr error

	// lastAt is when the latest run finished.
	lastAt time.Time

	spinner spinner.Model
	width   int
}

func newWatchModel(root string) watchModel {
	return watchModel{root: root, spinner: newSpinner(), width: 60}
}

func (m watchModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case RedeployStartedMsg:
		m.running = true
	case RedeployDoneMsg:
		m.running = false
		m.runs++
		m.last = msg.Summary
		m.lastErr = msg.Err
		m.lastAt = msg.At
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("dbcli-deploy watch"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(m.root))
	b.WriteString("\n")
	b.WriteString(separator(min(m.width, 72)))
	b.WriteString("\n")

	switch {
	case m.running:
		fmt.Fprintf(&b, "%s Deploying...\n", m.spinner.View())
	case m.runs == 0:
		b.WriteString(dimStyle.Render("Waiting for the first deployment") + "\n")
	default:
		fmt.Fprintf(&b, "%s\n", dimStyle.Render(fmt.Sprintf("%d run(s), last at %s", m.runs, m.lastAt.Format("15:04:05"))))
	}

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("✗ "+m.lastErr.Error()) + "\n")
	}
	if m.last != nil {
		for _, t := range m.last.Targets {
			b.WriteString(sectionStyle.Render(t.Target) + "\n")
			for _, s := range t.Shapes {
				line := fmt.Sprintf("  %-10s %s", s.Shape, statusStyle(s.Status).Render(s.Status.String()))
				if s.Reason != "" {
					line += dimStyle.Render("  " + s.Reason)
				}
				if s.Error != "" {
					line += errorStyle.Render("  " + s.Error)
				}
				b.WriteString(line + "\n")
			}
			if t.Rules != nil && !t.Rules.Missing {
				b.WriteString(dimStyle.Render(fmt.Sprintf("  rules: %d written, %d skipped, %d failed",
					t.Rules.Written, t.Rules.Skipped, t.Rules.Failed)) + "\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

// WatchMonitor drives the watch model from deployment callbacks.
type WatchMonitor struct {
	program *tea.Program
}

// NewWatchMonitor creates a monitor for root that stops when ctx ends.
func NewWatchMonitor(ctx context.Context, root string) *WatchMonitor {
	return &WatchMonitor{program: tea.NewProgram(newWatchModel(root), tea.WithContext(ctx))}
}

// Started reports that a run began. Safe to call from any goroutine.
func (w *WatchMonitor) Started() {
	w.program.Send(RedeployStartedMsg{})
}

// Finished reports the outcome of a run. Safe to call from any goroutine.
func (w *WatchMonitor) Finished(summary *orchestrate.Summary, err error) {
	w.program.Send(RedeployDoneMsg{Summary: summary, Err: err, At: time.Now()})
}

// Run blocks until the user quits or the context ends. Cancellation is
// not an error.
func (w *WatchMonitor) Run() error {
	_, err := w.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
