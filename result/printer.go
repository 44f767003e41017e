package result

import (
	"fmt"
	"io"
)

// PrintReports writes one line per source: short name, host and long name.
func PrintReports(w io.Writer, reports []SourceReport) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	for _, r := range reports {
		writef("%s", r.Short)
		if r.Host != "" {
			writef("  %s", r.Host)
		}
		writef("  (%s)  %s\n", r.Class, r.Long)
	}
}

// PrintResults writes scan results and a summary to w.
func PrintResults(w io.Writer, res *Result) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	if len(res.Sources) == 0 {
		writef("No script sources found!\n")
	} else {
		writef("Sources:\n")
		for i, src := range res.Sources {
			writef("  Name: %s\n", src.Short)
			writef("  Long: %s\n", src.Long)
			if src.Host != "" {
				writef("  Host: %s\n", src.Host)
			}
			writef("  Found on: %s\n", src.FoundOn)
			if i < len(res.Sources)-1 {
				writef("\n")
			}
		}
	}

	if len(res.Errors) > 0 {
		writef("\nFailed pages:\n")
		for _, pe := range res.Errors {
			if pe.Error != "" {
				writef("  %s: %s\n", pe.URL, pe.Error)
			} else {
				writef("  %s: status %d\n", pe.URL, pe.StatusCode)
			}
		}
	}

	writef("Scanned %d pages, found %d sources, %d pages failed\n",
		res.Stats.PagesScanned, res.Stats.SourcesFound, res.Stats.PageErrors)
}
