package sourceutil

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestGetSourceNames(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   SourceNames
	}{
		{
			name:   "empty source uses placeholder",
			source: "",
			want:   SourceNames{Short: UnknownSource, Long: UnknownSource},
		},
		{
			name:   "hash and query stripped",
			source: "http://page.com/test.js#go?q=query",
			want:   SourceNames{Short: "test.js", Long: "http://page.com/test.js", Host: "page.com"},
		},
		{
			name:   "query then hash stripped",
			source: "https://cdn.example.com/lib/app.min.js?v=3#L10",
			want:   SourceNames{Short: "app.min.js", Long: "https://cdn.example.com/lib/app.min.js", Host: "cdn.example.com"},
		},
		{
			name:   "trailing slash uses directory name",
			source: "http://foo.com/bar/",
			want:   SourceNames{Short: "bar", Long: "http://foo.com/bar/", Host: "foo.com"},
		},
		{
			name:   "root keeps slash",
			source: "http://foo.com",
			want:   SourceNames{Short: "/", Long: "http://foo.com/", Host: "foo.com"},
		},
		{
			name:   "non default port kept in host",
			source: "https://example.com:8443/js/app.js",
			want:   SourceNames{Short: "app.js", Long: "https://example.com:8443/js/app.js", Host: "example.com:8443"},
		},
		{
			name:   "default port and case normalized",
			source: "http://Example.COM:80/A.js",
			want:   SourceNames{Short: "A.js", Long: "http://example.com/A.js", Host: "example.com"},
		},
		{
			name:   "ipv6 host",
			source: "http://[::1]:8080/a.js",
			want:   SourceNames{Short: "a.js", Long: "http://[::1]:8080/a.js", Host: "[::1]:8080"},
		},
		{
			name:   "data uri",
			source: "data:text/javascript,alert(1)",
			want:   SourceNames{Short: "data:alert(1)", Long: "data:text/javascript,alert(1)"},
		},
		{
			name:   "data uri without comma is malformed",
			source: "data:foo",
			want:   SourceNames{Short: "data:foo", Long: "data:foo"},
		},
		{
			name:   "scratchpad",
			source: "Scratchpad/1",
			want:   SourceNames{Short: "Scratchpad/1", Long: "Scratchpad/1"},
		},
		{
			name:   "self-hosted",
			source: "self-hosted",
			want:   SourceNames{Short: "self-hosted", Long: "self-hosted"},
		},
		{
			name:   "eval",
			source: "(eval)",
			want:   SourceNames{Short: "(eval)", Long: "(eval)"},
		},
		{
			name:   "chrome scheme has no host",
			source: "chrome://devtools/content/x.js",
			want:   SourceNames{Short: "x.js", Long: "chrome://devtools/content/x.js"},
		},
		{
			name:   "resource directory",
			source: "resource://gre/modules/",
			want:   SourceNames{Short: "modules", Long: "resource://gre/modules/"},
		},
		{
			name:   "jar entry",
			source: "jar:file:///usr/lib/omni.ja!/modules/Services.jsm",
			want:   SourceNames{Short: "Services.jsm", Long: "jar:file:///usr/lib/omni.ja!/modules/Services.jsm"},
		},
		{
			name:   "file url has no host",
			source: "file:///home/user/app.js",
			want:   SourceNames{Short: "app.js", Long: "file:///home/user/app.js"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := NewLocator()
			assert.Equal(t, tt.want, loc.GetSourceNames(tt.source))
		})
	}
}

func TestGetSourceNamesTruncation(t *testing.T) {
	loc := NewLocator()

	t.Run("data payload", func(t *testing.T) {
		source := "data:text/plain," + strings.Repeat("a", 200)
		names := loc.GetSourceNames(source)
		assert.Len(t, names.Short, maxShortLength)
		assert.True(t, strings.HasPrefix(names.Short, "data:aaa"))
		assert.Equal(t, source, names.Long)
	})

	t.Run("malformed source", func(t *testing.T) {
		source := strings.Repeat("x", 150)
		names := loc.GetSourceNames(source)
		assert.Equal(t, strings.Repeat("x", maxShortLength), names.Short)
		assert.Equal(t, source, names.Long)
	})

	t.Run("counts runes", func(t *testing.T) {
		source := strings.Repeat("é", 150)
		names := loc.GetSourceNames(source)
		assert.Equal(t, maxShortLength, utf8.RuneCountInString(names.Short))
		assert.True(t, utf8.ValidString(names.Short))
	})
}

func TestGetSourceNamesIdempotent(t *testing.T) {
	sources := []string{
		"",
		"http://page.com/test.js#go?q=query",
		"data:text/javascript,alert(1)",
		"Scratchpad/1",
		"self-hosted",
		"chrome://devtools/content/x.js",
	}

	loc := NewLocator()
	for _, source := range sources {
		first := loc.GetSourceNames(source)
		second := loc.GetSourceNames(source)
		assert.Equal(t, first, second, "source %q", source)
		assert.Equal(t, first, NewLocator().GetSourceNames(source), "fresh locator for %q", source)
	}
}

func TestGetSourceNamesChromeNeverHasHost(t *testing.T) {
	for _, source := range []string{
		"chrome://browser/content/browser.js",
		"resource://devtools/shared/x.js",
		"resource://gre:8080/modules/x.js",
		"jar:file:///a/omni.ja!/x.js",
	} {
		names := NewLocator().GetSourceNames(source)
		assert.False(t, names.HasHost(), "source %q", source)
		assert.NotEmpty(t, names.Short)
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	names := GetSourceNames("https://example.com/a.js")
	assert.Equal(t, "a.js", names.Short)

	_, ok := ParseURL("https://example.com/a.js")
	assert.True(t, ok)
	assert.GreaterOrEqual(t, Default().Stats().NamesEntries, int64(1))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		n        int
		expected string
	}{
		{"", 3, ""},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"héllo", 2, "hé"},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.n); got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.expected)
		}
	}
}
