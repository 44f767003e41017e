package sourceutil

import (
	"strings"
	"unicode/utf8"
)

// UnknownSource is shown when a source has no usable name at all.
const UnknownSource = "(unknown)"

// maxShortLength caps short names and fallback long names, in runes.
const maxShortLength = 100

// SourceNames holds the display names of a source.
//
//	"http://page.com/test.js#go?q=query"
//	  Short: "test.js"
//	  Long:  "http://page.com/test.js"
//	  Host:  "page.com"
type SourceNames struct {
	Short string `json:"short"`
	Long  string `json:"long"`
	Host  string `json:"host,omitempty"`
}

// HasHost reports whether the source has a network host.
func (n SourceNames) HasHost() bool {
	return n.Host != ""
}

func (l *Locator) resolveNames(source string) SourceNames {
	// The short name of a data URI is "data:" plus the payload, without the
	// MIME type and charset. Without a comma it is handled like any other text.
	if IsDataScheme(source) {
		if comma := strings.IndexByte(source, ','); comma >= 0 {
			return SourceNames{
				Short: truncate("data:"+source[comma+1:], maxShortLength),
				Long:  source,
			}
		}
	}

	if IsScratchpadScheme(source) {
		return SourceNames{Short: source, Long: source}
	}

	var names SourceNames
	parsed, ok := l.ParseURL(source)
	if !ok {
		names.Long = source
		names.Short = truncate(source, maxShortLength)
	} else {
		names.Host = parsed.Host

		names.Long = parsed.Href
		if parsed.Hash != "" {
			names.Long = strings.Replace(names.Long, parsed.Hash, "", 1)
		}
		if parsed.Search != "" {
			names.Long = strings.Replace(names.Long, parsed.Search, "", 1)
		}

		// "http://foo.com/bar/" is shown as "bar" rather than "/".
		names.Short = parsed.FileName
		if names.Short == "/" && parsed.Pathname != "/" {
			if dir, ok := l.ParseURL(strings.TrimSuffix(names.Long, "/")); ok {
				names.Short = dir.FileName
			}
		}
	}

	if names.Short == "" {
		if names.Long == "" {
			names.Long = UnknownSource
		}
		names.Short = truncate(names.Long, maxShortLength)
	}
	return names
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
