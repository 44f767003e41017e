package result

import (
	"context"
	"errors"
	"net"
	"strings"
)

// ErrorCategory classifies why a page could not be scanned.
type ErrorCategory string

const (
	CategoryTimeout           ErrorCategory = "timeout"
	CategoryDNSFailure        ErrorCategory = "dns_failure"
	CategoryConnectionRefused ErrorCategory = "connection_refused"
	Category4xx               ErrorCategory = "4xx"
	Category5xx               ErrorCategory = "5xx"
	CategoryDisallowed        ErrorCategory = "robots_disallowed"
	CategoryNotHTML           ErrorCategory = "not_html"
	CategoryCanceled          ErrorCategory = "canceled"
	CategoryUnknown           ErrorCategory = "unknown"
)

var (
	// ErrDisallowed is returned for pages excluded by robots.txt.
	ErrDisallowed = errors.New("disallowed by robots.txt")
	// ErrNotHTML is returned for pages whose content type is not a document.
	ErrNotHTML = errors.New("response is not an HTML document")
)

// ClassifyError determines the error category from the error and HTTP status
// code of a page fetch.
func ClassifyError(err error, statusCode int) ErrorCategory {
	if statusCode >= 400 && statusCode <= 499 {
		return Category4xx
	}
	if statusCode >= 500 {
		return Category5xx
	}

	if err == nil {
		return CategoryUnknown
	}

	switch {
	case errors.Is(err, ErrDisallowed):
		return CategoryDisallowed
	case errors.Is(err, ErrNotHTML):
		return CategoryNotHTML
	case errors.Is(err, context.DeadlineExceeded):
		return CategoryTimeout
	case errors.Is(err, context.Canceled):
		return CategoryCanceled
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CategoryDNSFailure
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" && strings.Contains(opErr.Error(), "connection refused") {
			return CategoryConnectionRefused
		}
		if opErr.Timeout() {
			return CategoryTimeout
		}
	}

	return CategoryUnknown
}

// FormatCategory returns a human-readable label for an error category.
func FormatCategory(cat ErrorCategory) string {
	switch cat {
	case CategoryTimeout:
		return "Timeouts"
	case CategoryDNSFailure:
		return "DNS Failures"
	case CategoryConnectionRefused:
		return "Connection Refused"
	case Category4xx:
		return "Client Errors (4xx)"
	case Category5xx:
		return "Server Errors (5xx)"
	case CategoryDisallowed:
		return "Disallowed by robots.txt"
	case CategoryNotHTML:
		return "Not HTML"
	case CategoryCanceled:
		return "Canceled"
	default:
		return "Other Errors"
	}
}
