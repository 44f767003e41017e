package scanner

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ExtractScripts parses HTML from body and returns the sources of external
// scripts: <script src> and <link rel="modulepreload"> targets, plus
// <link rel="preload" as="script">. Relative references are resolved against
// baseURL, or against the document's <base href> when one precedes them.
// Sources of every scheme are kept; duplicates within a page are dropped.
func ExtractScripts(body io.Reader, baseURL *url.URL) ([]string, error) {
	if baseURL == nil {
		baseURL = &url.URL{}
	}
	tokenizer := html.NewTokenizer(body)
	seen := make(map[string]bool)
	sources := []string{}
	base := baseURL

	add := func(ref string) {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			return
		}
		resolved := ref
		// Unparseable src values are still script sources; they are kept
		// verbatim and show up as opaque identifiers.
		if refURL, err := url.Parse(ref); err == nil {
			resolved = base.ResolveReference(refURL).String()
		}
		if !seen[resolved] {
			seen[resolved] = true
			sources = append(sources, resolved)
		}
	}

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return sources, fmt.Errorf("tokenize html: %w", err)
			}
			return sources, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "base":
				if href, ok := attr(token, "href"); ok {
					if hrefURL, err := url.Parse(href); err == nil {
						base = baseURL.ResolveReference(hrefURL)
					}
				}
			case "script":
				if src, ok := attr(token, "src"); ok {
					add(src)
				}
			case "link":
				if isScriptLink(token) {
					href, _ := attr(token, "href")
					add(href)
				}
			}
		}
	}
}

// isScriptLink reports whether a <link> token preloads a script.
func isScriptLink(token html.Token) bool {
	rel, _ := attr(token, "rel")
	for _, r := range strings.Fields(strings.ToLower(rel)) {
		switch r {
		case "modulepreload":
			return true
		case "preload":
			as, _ := attr(token, "as")
			if strings.EqualFold(as, "script") {
				return true
			}
		}
	}
	return false
}

func attr(token html.Token, key string) (string, bool) {
	for _, a := range token.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
