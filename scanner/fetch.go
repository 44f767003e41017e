package scanner

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/lukemcguire/framesrc/result"
)

// defaultMaxBodyBytes caps how much of a page is tokenized.
const defaultMaxBodyBytes = 10 << 20

// pageResult is the outcome of fetching one page.
type pageResult struct {
	URL        string
	StatusCode int
	Sources    []string
	Err        error
}

// fetchPage GETs pageURL and extracts the script sources it references.
// Responses with a status of 400 or above set StatusCode and Err; responses
// that are not HTML documents fail with result.ErrNotHTML.
func fetchPage(ctx context.Context, client *http.Client, pageURL string, cfg Config) (res pageResult) {
	res.URL = pageURL

	reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		res.Err = fmt.Errorf("create request: %w", err)
		return
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		res.Err = err
		return
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && res.Err == nil {
			res.Err = fmt.Errorf("close response body: %w", closeErr)
		}
	}()

	res.StatusCode = resp.StatusCode
	if resp.StatusCode >= 400 {
		res.Err = fmt.Errorf("GET %s: %s", pageURL, resp.Status)
		return
	}

	if !isHTMLContentType(resp.Header.Get("Content-Type")) {
		res.Err = fmt.Errorf("%s: %w", resp.Header.Get("Content-Type"), result.ErrNotHTML)
		return
	}

	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}

	sources, err := ExtractScripts(io.LimitReader(resp.Body, maxBytes), resp.Request.URL)
	res.Sources = sources
	if err != nil {
		res.Err = fmt.Errorf("extract scripts from %s: %w", pageURL, err)
	}
	return
}

// isHTMLContentType reports whether a Content-Type header names an HTML
// document. A missing header is treated as HTML.
func isHTMLContentType(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return true
	}
	return false
}
