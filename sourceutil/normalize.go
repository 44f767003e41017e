package sourceutil

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Normalize takes a raw page URL and returns the form used to deduplicate
// fetches. Normalization includes:
// - Lowercasing the scheme and host
// - Dropping the scheme's default port
// - Stripping fragments (#section)
// - Stripping trailing slashes (except for root path "/")
// - Preserving query parameters
//
// Returns an error if the input is empty or has no scheme and host.
func Normalize(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errors.New("cannot normalize empty URL")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("normalize URL %q: %w", rawURL, err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.New("URL must have both scheme and host")
	}

	canonical := canonicalize(parsed)
	canonical.Fragment = ""
	canonical.RawFragment = ""

	if canonical.Path != "/" && strings.HasSuffix(canonical.Path, "/") {
		canonical.Path = strings.TrimSuffix(canonical.Path, "/")
		canonical.RawPath = ""
	}

	return canonical.String(), nil
}

// canonicalize returns a copy of u with a lowercase scheme and host, the
// default port removed and an empty path replaced by "/" when a host is
// present. Opaque URLs only have their scheme lowercased.
func canonicalize(u *url.URL) *url.URL {
	out := *u
	out.Scheme = strings.ToLower(u.Scheme)
	if out.Opaque != "" {
		return &out
	}

	if u.Host != "" {
		host := strings.ToLower(u.Hostname())
		if port := u.Port(); port != "" && port != defaultPorts[out.Scheme] {
			out.Host = net.JoinHostPort(host, port)
		} else if strings.Contains(host, ":") {
			out.Host = "[" + host + "]"
		} else {
			out.Host = host
		}
		if out.Path == "" {
			out.Path = "/"
			out.RawPath = ""
		}
	}
	return &out
}
