package scanner

import (
	"net/url"
	"strings"
	"testing"
)

func TestExtractScripts(t *testing.T) {
	baseURL, _ := url.Parse("https://example.com/app/index.html")

	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "absolute and relative src",
			html: `<script src="https://cdn.example.com/a.js"></script><script src="b.js"></script><script src="/c.js"></script>`,
			want: []string{"https://cdn.example.com/a.js", "https://example.com/app/b.js", "https://example.com/c.js"},
		},
		{
			name: "inline scripts ignored",
			html: `<script>var x = 1;</script><script src=""></script>`,
			want: []string{},
		},
		{
			name: "duplicates dropped",
			html: `<script src="a.js"></script><script src="./a.js"></script>`,
			want: []string{"https://example.com/app/a.js"},
		},
		{
			name: "non-http schemes kept",
			html: `<script src="data:text/javascript,1"></script><script src="chrome://global/content/x.js"></script>`,
			want: []string{"data:text/javascript,1", "chrome://global/content/x.js"},
		},
		{
			name: "module preload",
			html: `<link rel="modulepreload" href="chunk.mjs"><link rel="stylesheet" href="s.css">`,
			want: []string{"https://example.com/app/chunk.mjs"},
		},
		{
			name: "preload as script only",
			html: `<link rel="preload" as="script" href="p.js"><link rel="preload" as="font" href="f.woff2">`,
			want: []string{"https://example.com/app/p.js"},
		},
		{
			name: "base href",
			html: `<head><base href="https://static.example.net/v2/"></head><script src="main.js"></script>`,
			want: []string{"https://static.example.net/v2/main.js"},
		},
		{
			name: "self-closing and whitespace",
			html: `<script src="  x.js  " />`,
			want: []string{"https://example.com/app/x.js"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractScripts(strings.NewReader(tt.html), baseURL)
			if err != nil {
				t.Fatalf("ExtractScripts() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractScripts() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("source[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtractScriptsNilBase(t *testing.T) {
	got, err := ExtractScripts(strings.NewReader(`<script src="https://a.com/x.js"></script>`), nil)
	if err != nil {
		t.Fatalf("ExtractScripts() error: %v", err)
	}
	if len(got) != 1 || got[0] != "https://a.com/x.js" {
		t.Errorf("ExtractScripts() = %v", got)
	}
}

func TestIsHTMLContentType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		want        bool
	}{
		{"HTML", "text/html", true},
		{"HTML with charset", "text/html; charset=utf-8", true},
		{"XHTML", "application/xhtml+xml", true},
		{"missing", "", true},
		{"PDF", "application/pdf", false},
		{"PNG", "image/png", false},
		{"JavaScript", "text/javascript", false},
		{"JSON", "application/json", false},
		{"malformed", "text/html; =", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isHTMLContentType(tt.contentType); got != tt.want {
				t.Errorf("isHTMLContentType(%q) = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}
