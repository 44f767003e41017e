package result

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestPrintResults_NoSources(t *testing.T) {
	var buf bytes.Buffer
	r := &Result{
		Stats: ScanStats{PagesScanned: 3, Duration: time.Second},
	}

	PrintResults(&buf, r)

	want := "No script sources found!\nScanned 3 pages, found 0 sources, 0 pages failed\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintResults_WithSourcesAndErrors(t *testing.T) {
	var buf bytes.Buffer
	r := &Result{
		Sources: sampleReports(),
		Errors: []PageError{
			{URL: "http://example.com/dead", StatusCode: 404},
			{URL: "http://example.com/fail", Error: "connection refused"},
		},
		Stats: ScanStats{PagesScanned: 3, SourcesFound: 2, PageErrors: 2},
	}

	PrintResults(&buf, r)
	got := buf.String()

	for _, want := range []string{
		"Sources:",
		"Name: app.js",
		"Long: https://example.com/app.js",
		"Host: example.com",
		"Name: data:alert(1)",
		"Found on: https://example.com/",
		"Failed pages:",
		"http://example.com/dead: status 404",
		"http://example.com/fail: connection refused",
		"Scanned 3 pages, found 2 sources, 2 pages failed",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrintReports(t *testing.T) {
	var buf bytes.Buffer
	PrintReports(&buf, sampleReports())

	want := "app.js  example.com  (content)  https://example.com/app.js\n" +
		"data:alert(1)  (data)  data:text/javascript,alert(1)\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
