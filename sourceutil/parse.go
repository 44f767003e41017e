package sourceutil

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrNotURL is returned by parseLocation for text that does not name a
// hierarchical URL, such as "self-hosted", "(eval)" or "about:blank".
var ErrNotURL = errors.New("not a URL")

// ParsedURL is the structural form of a source location. Values are shared
// through the locator cache and must be treated as read-only.
type ParsedURL struct {
	Scheme   string // Lowercased scheme without the colon
	Hostname string // Host name without port; empty for chrome schemes
	Port     string // Explicit non-default port, or empty
	Host     string // Hostname, or hostname:port; empty for chrome schemes
	Pathname string // Escaped path, "/" when the URL has none
	FileName string // Last path segment, "/" when the path ends in a slash
	Hash     string // "#fragment", or empty
	Search   string // "?query", or empty
	Href     string // Canonical serialization including hash and search
}

// defaultPorts maps schemes to the port implied when none is given.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
	"ftp":   "21",
}

// parseLocation parses location without consulting any cache.
func parseLocation(location string) (*ParsedURL, error) {
	if location == "" {
		return nil, fmt.Errorf("parse %q: %w", location, ErrNotURL)
	}

	parsed, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", location, err)
	}
	if parsed.Scheme == "" {
		return nil, fmt.Errorf("parse %q: missing scheme: %w", location, ErrNotURL)
	}

	// Hierarchical part: the URL itself, or the URL wrapped by an opaque
	// scheme such as jar: or view-source:.
	inner := parsed
	if parsed.Opaque != "" {
		inner, err = url.Parse(parsed.Opaque)
		if err != nil || inner.Scheme == "" || inner.Opaque != "" {
			return nil, fmt.Errorf("parse %q: opaque scheme %q: %w", location, parsed.Scheme, ErrNotURL)
		}
	}
	if inner.Host == "" && !strings.HasPrefix(inner.Path, "/") {
		return nil, fmt.Errorf("parse %q: no authority or absolute path: %w", location, ErrNotURL)
	}

	canonical := canonicalize(parsed)
	result := &ParsedURL{
		Scheme: canonical.Scheme,
		Href:   canonical.String(),
	}
	if parsed.Fragment != "" {
		result.Hash = "#" + parsed.EscapedFragment()
	}
	if parsed.RawQuery != "" {
		result.Search = "?" + parsed.RawQuery
	}

	result.Pathname = inner.EscapedPath()
	if entry := strings.Index(result.Pathname, "!/"); entry >= 0 && parsed.Opaque != "" {
		result.Pathname = result.Pathname[entry+1:]
	}
	if result.Pathname == "" {
		result.Pathname = "/"
	}
	result.FileName = fileName(result.Pathname)

	if IsChromeScheme(location) {
		return result, nil
	}

	result.Hostname = strings.ToLower(inner.Hostname())
	if port := inner.Port(); port != "" && port != defaultPorts[strings.ToLower(inner.Scheme)] {
		result.Port = port
		result.Host = net.JoinHostPort(result.Hostname, port)
	} else {
		result.Host = result.Hostname
	}
	return result, nil
}

// fileName returns the last segment of pathname, or "/" when that segment
// is empty.
func fileName(pathname string) string {
	name := pathname[strings.LastIndexByte(pathname, '/')+1:]
	if name == "" {
		return "/"
	}
	return name
}
