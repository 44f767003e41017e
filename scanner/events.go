package scanner

import "github.com/lukemcguire/framesrc/result"

// Event reports progress for a single scanned page.
type Event struct {
	URL           string
	StatusCode    int
	Error         string
	ErrorCategory result.ErrorCategory
	NewSources    int // Sources first seen on this page
	Pages         int // Pages processed so far
	Sources       int // Distinct sources so far
	Failed        int // Pages failed so far
}
