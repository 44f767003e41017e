// Package tui provides the Bubble Tea terminal UI for framesrc scans and the
// Lip Gloss styling shared by the command-line output.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lukemcguire/framesrc/result"
	"github.com/lukemcguire/framesrc/scanner"
)

// Runner runs a scan to completion.
type Runner interface {
	Run(ctx context.Context) (*result.Result, error)
}

// Model is the Bubble Tea model for the scan TUI.
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	runner     Runner
	spinner    spinner.Model
	progressCh <-chan scanner.Event

	pages    int
	sources  int
	failed   int
	current  string
	quitting bool
	done     bool
	result   *result.Result
	err      error
	width    int
}

// NewModel creates a TUI model wired to runner and its progress channel.
func NewModel(ctx context.Context, cancel context.CancelFunc, runner Runner, progressCh <-chan scanner.Event) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		ctx:        ctx,
		cancel:     cancel,
		runner:     runner,
		spinner:    spin,
		progressCh: progressCh,
	}
}

// Init starts the spinner, the scan and the progress listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startScan(), waitForProgress(m.progressCh))
}

func (m Model) startScan() tea.Cmd {
	return func() tea.Msg {
		res, err := m.runner.Run(m.ctx)
		if err != nil {
			err = fmt.Errorf("scan: %w", err)
		}
		return ScanDoneMsg{Result: res, Err: err}
	}
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case ScanProgressMsg:
		m.pages = msg.Pages
		m.sources = msg.Sources
		m.failed = msg.Failed
		m.current = msg.URL
		return m, waitForProgress(m.progressCh)

	case ScanDoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.done && m.result != nil {
		return RenderSummary(m.result)
	}
	if m.done && m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.quitting {
		return dimStyle.Render("Canceling...") + "\n"
	}

	current := m.current
	if runes := []rune(current); m.width > 4 && len(runes) > m.width-4 {
		current = string(runes[:m.width-5]) + "…"
	}
	return fmt.Sprintf("%s Scanning... pages %d, sources %d, failed %d\n%s\n",
		m.spinner.View(), m.pages, m.sources, m.failed,
		dimStyle.Render("  "+current))
}

// HasPageErrors reports whether any page failed.
func (m Model) HasPageErrors() bool {
	return m.result != nil && len(m.result.Errors) > 0
}

// GetResult returns the scan result for output formatting.
func (m Model) GetResult() *result.Result {
	return m.result
}

// Err returns the error the scan ended with, if any.
func (m Model) Err() error {
	return m.err
}
