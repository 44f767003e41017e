package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lukemcguire/framesrc/frame"
	"github.com/lukemcguire/framesrc/result"
	"github.com/lukemcguire/framesrc/scanner"
	"github.com/lukemcguire/framesrc/sourceutil"
)

// stubRunner returns a fixed result.
type stubRunner struct {
	res *result.Result
	err error
}

func (s stubRunner) Run(context.Context) (*result.Result, error) {
	return s.res, s.err
}

func sampleResult() *result.Result {
	return &result.Result{
		Sources: []result.SourceReport{
			{Source: "https://example.com/app.js", Short: "app.js", Host: "example.com", Class: result.ClassContent, FoundOn: "https://example.com/"},
			{Source: "https://cdn.example.net/lib.js", Short: "lib.js", Host: "cdn.example.net", Class: result.ClassContent, ThirdParty: true, FoundOn: "https://example.com/"},
			{Source: "data:text/javascript,go()", Short: "data:go()", Class: result.ClassData, FoundOn: "https://example.com/about"},
		},
		Errors: []result.PageError{
			{URL: "https://example.com/gone", StatusCode: 404, ErrorCategory: result.Category4xx},
			{URL: "https://example.com/slow", Error: "context deadline exceeded", ErrorCategory: result.CategoryTimeout},
		},
		Stats: result.ScanStats{PagesScanned: 4, SourcesFound: 3, PageErrors: 2, Duration: 3 * time.Second},
	}
}

func TestNewModel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	progressCh := make(chan scanner.Event, 10)
	runner := stubRunner{}

	model := NewModel(ctx, cancel, runner, progressCh)

	if model.ctx != ctx {
		t.Error("expected ctx to be stored in model")
	}
	if model.cancel == nil {
		t.Error("expected cancel to be stored in model")
	}
	if model.progressCh != progressCh {
		t.Error("expected progressCh to be stored in model")
	}
	if model.pages != 0 || model.sources != 0 {
		t.Error("expected initial counters to be zero")
	}
	if model.done {
		t.Error("expected done to be false initially")
	}
}

func TestHasPageErrors(t *testing.T) {
	tests := []struct {
		name   string
		result *result.Result
		want   bool
	}{
		{name: "nil result", result: nil, want: false},
		{name: "no errors", result: &result.Result{}, want: false},
		{name: "has errors", result: sampleResult(), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := Model{result: tt.result}
			if got := model.HasPageErrors(); got != tt.want {
				t.Errorf("HasPageErrors() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStartScan(t *testing.T) {
	res := sampleResult()
	model := Model{ctx: context.Background(), runner: stubRunner{res: res}}

	msg := model.startScan()()
	done, ok := msg.(ScanDoneMsg)
	if !ok {
		t.Fatalf("startScan() produced %T, want ScanDoneMsg", msg)
	}
	if done.Result != res || done.Err != nil {
		t.Errorf("ScanDoneMsg = %+v", done)
	}

	model.runner = stubRunner{err: errors.New("no pages to scan")}
	done = model.startScan()().(ScanDoneMsg)
	if done.Err == nil || !strings.Contains(done.Err.Error(), "scan: no pages") {
		t.Errorf("expected wrapped error, got %v", done.Err)
	}
}

func TestWaitForProgress(t *testing.T) {
	ch := make(chan scanner.Event, 1)
	ch <- scanner.Event{URL: "https://example.com/", Pages: 1, Sources: 4, Failed: 0}

	msg := waitForProgress(ch)()
	progress, ok := msg.(ScanProgressMsg)
	if !ok {
		t.Fatalf("waitForProgress() produced %T", msg)
	}
	if progress.Pages != 1 || progress.Sources != 4 || progress.URL != "https://example.com/" {
		t.Errorf("unexpected progress %+v", progress)
	}

	close(ch)
	if msg := waitForProgress(ch)(); msg != nil {
		t.Errorf("closed channel produced %v, want nil", msg)
	}
}

func TestRenderSummary_NilResult(t *testing.T) {
	if output := RenderSummary(nil); output == "" {
		t.Error("expected non-empty output for nil result")
	}
}

func TestRenderSummary_NoSources(t *testing.T) {
	res := &result.Result{Stats: result.ScanStats{PagesScanned: 2, Duration: time.Second}}
	output := RenderSummary(res)
	if !strings.Contains(output, "No script sources found") {
		t.Errorf("expected empty message, got: %s", output)
	}
	if !strings.Contains(output, "2 pages") {
		t.Errorf("expected page count, got: %s", output)
	}
}

func TestRenderSummary_GroupsByClass(t *testing.T) {
	output := RenderSummary(sampleResult())

	for _, want := range []string{
		"Content Scripts (2)",
		"Data URIs (1)",
		"app.js",
		"cdn.example.net",
		"3rd",
		"data:go()",
		"Client Errors (4xx) (1)",
		"Timeouts (1)",
		"404",
		"context deadline exceeded",
		"Found 3 sources on 4 pages, 2 pages failed",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}

	if strings.Index(output, "Content Scripts") > strings.Index(output, "Data URIs") {
		t.Error("expected content scripts before data URIs")
	}
}

func TestRenderFrame(t *testing.T) {
	loc := sourceutil.NewLocator()
	link := frame.Describe(loc, frame.Frame{
		FunctionDisplayName: "render",
		Source:              "https://example.com/js/app.js",
		Line:                10,
		Column:              4,
	}, frame.Options{ShowFunctionName: true, ShowHost: true})

	output := RenderFrame(link)
	for _, want := range []string{"render", "app.js", "10", "4", "example.com"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in %q", want, output)
		}
	}

	opaque := RenderFrame(frame.Describe(loc, frame.Frame{Source: "self-hosted", Line: 3}, frame.Options{}))
	if !strings.Contains(opaque, "self-hosted") {
		t.Errorf("expected source name in %q", opaque)
	}
}

func TestUpdate_ScanProgressMsg(t *testing.T) {
	model := Model{progressCh: make(chan scanner.Event, 10)}

	updatedModel, cmd := model.Update(ScanProgressMsg{Pages: 5, Sources: 12, Failed: 1, URL: "https://example.com/page"})
	updated := updatedModel.(Model)

	if updated.pages != 5 || updated.sources != 12 || updated.failed != 1 {
		t.Errorf("unexpected counters: %+v", updated)
	}
	if updated.current != "https://example.com/page" {
		t.Errorf("expected current URL to be set, got %s", updated.current)
	}
	if cmd == nil {
		t.Error("expected non-nil cmd to re-subscribe to progress channel")
	}
}

func TestUpdate_ScanDoneMsg(t *testing.T) {
	res := sampleResult()
	updatedModel, cmd := Model{}.Update(ScanDoneMsg{Result: res})
	updated := updatedModel.(Model)

	if !updated.done {
		t.Error("expected done=true after ScanDoneMsg")
	}
	if updated.GetResult() != res {
		t.Error("expected result to be stored")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestUpdate_QuitCancels(t *testing.T) {
	canceled := false
	model := Model{cancel: func() { canceled = true }}

	updatedModel, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	updated := updatedModel.(Model)

	if !canceled {
		t.Error("expected q to cancel the scan")
	}
	if !updated.quitting || cmd == nil {
		t.Error("expected quitting with a quit command")
	}
	if !strings.Contains(updated.View(), "Canceling") {
		t.Errorf("unexpected view %q", updated.View())
	}
}

func TestUpdate_SpinnerTickMsg(t *testing.T) {
	updatedModel, _ := Model{}.Update(spinner.TickMsg{})
	_ = updatedModel.(Model)
}

func TestUpdate_WindowSizeMsg(t *testing.T) {
	updatedModel, _ := Model{}.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if updated := updatedModel.(Model); updated.width != 120 {
		t.Errorf("expected width=120, got %d", updated.width)
	}
}

func TestView_InProgress(t *testing.T) {
	model := Model{pages: 3, sources: 7, current: "https://example.com/checking", width: 20}
	output := model.View()
	if !strings.Contains(output, "Scanning") {
		t.Errorf("expected 'Scanning' in progress view, got: %s", output)
	}
	if !strings.Contains(output, "sources 7") {
		t.Errorf("expected source count in view, got: %s", output)
	}
	if !strings.Contains(output, "…") {
		t.Errorf("expected long URL to be truncated, got: %s", output)
	}
}

func TestView_DoneWithError(t *testing.T) {
	model := Model{done: true, err: context.Canceled}
	if output := model.View(); !strings.Contains(output, "Error") {
		t.Errorf("expected error message in done view, got: %s", output)
	}
	if model.Err() != context.Canceled {
		t.Errorf("Err() = %v", model.Err())
	}
}
