package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lukemcguire/framesrc/result"
	"github.com/lukemcguire/framesrc/scanner"
)

// ScanProgressMsg reports progress for a single scanned page.
type ScanProgressMsg struct {
	Pages   int
	Sources int
	Failed  int
	URL     string
}

// ScanDoneMsg signals the scan has completed.
type ScanDoneMsg struct {
	Result *result.Result
	Err    error
}

// waitForProgress returns a tea.Cmd that reads one event from the progress
// channel. A closed channel yields nil; the result arrives from startScan.
func waitForProgress(ch <-chan scanner.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return nil
		}
		return ScanProgressMsg{
			Pages:   evt.Pages,
			Sources: evt.Sources,
			Failed:  evt.Failed,
			URL:     evt.URL,
		}
	}
}
