package result

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// WriteJSON writes the source reports as a formatted JSON array.
// Uses a flat array (no metadata wrapper) so the output pipes into jq.
func WriteJSON(w io.Writer, reports []SourceReport) error {
	if reports == nil {
		reports = []SourceReport{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// csvHeader is the column order of WriteCSV.
var csvHeader = []string{"source", "short", "long", "host", "class", "linkable", "third_party", "found_on"}

// WriteCSV writes the source reports as CSV with a header row, which is
// present even when there are no reports.
func WriteCSV(w io.Writer, reports []SourceReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range reports {
		record := []string{
			r.Source,
			r.Short,
			r.Long,
			r.Host,
			string(r.Class),
			strconv.FormatBool(r.Linkable),
			strconv.FormatBool(r.ThirdParty),
			r.FoundOn,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record for %s: %w", r.Source, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}

// WriteErrorsJSON writes page errors as a JSON array.
func WriteErrorsJSON(w io.Writer, pageErrors []PageError) error {
	if pageErrors == nil {
		pageErrors = []PageError{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(pageErrors); err != nil {
		return fmt.Errorf("write json errors: %w", err)
	}
	return nil
}
