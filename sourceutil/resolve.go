package sourceutil

import (
	"fmt"
	"net/url"
	"strings"
)

// IsSameSite reports whether sourceURL is served from pageHost or one of its
// subdomains (cdn.example.com matches example.com). Sources that are not
// URLs, or have no host, never match.
func IsSameSite(sourceURL string, pageHost string) bool {
	parsed, err := url.Parse(sourceURL)
	if err != nil || parsed.Host == "" {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	pageHost = strings.ToLower(pageHost)

	return host == pageHost || strings.HasSuffix(host, "."+pageHost)
}

// ResolveReference resolves a possibly-relative ref, such as a script src
// attribute, against the page URL base.
func ResolveReference(base string, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base URL %q: %w", base, err)
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse ref URL %q: %w", ref, err)
	}

	return baseURL.ResolveReference(refURL).String(), nil
}
