package result

import "time"

// SourceReport describes one script source and the names it is displayed with.
type SourceReport struct {
	Source   string      `json:"source"`
	Short    string      `json:"short"`
	Long     string      `json:"long"`
	Host     string      `json:"host,omitempty"`
	Class    SourceClass `json:"class"`
	Linkable bool        `json:"linkable"`

	// ThirdParty is set when the source is served from another site than
	// the page it was found on.
	ThirdParty bool   `json:"third_party"`
	FoundOn    string `json:"found_on,omitempty"`
}

// PageError records a page that could not be scanned.
type PageError struct {
	URL           string        `json:"url"`
	StatusCode    int           `json:"status_code,omitempty"` // 0 if unreachable
	Error         string        `json:"error,omitempty"`
	ErrorCategory ErrorCategory `json:"error_type"`
}

// ScanStats contains aggregate statistics for a scan.
type ScanStats struct {
	PagesScanned int           // Pages fetched and parsed
	SourcesFound int           // Distinct sources reported
	PageErrors   int           // Pages that failed
	Duration     time.Duration // Total time taken
}

// Result is the complete output of a scan.
type Result struct {
	Sources []SourceReport // Every distinct source discovered
	Errors  []PageError    // Pages that could not be scanned
	Stats   ScanStats      // Aggregate statistics
}
