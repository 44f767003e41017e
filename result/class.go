package result

import (
	"github.com/lukemcguire/framesrc/sourceutil"
)

// SourceClass is the scheme classification of a source identifier.
type SourceClass string

const (
	ClassContent    SourceClass = "content"
	ClassChrome     SourceClass = "chrome"
	ClassData       SourceClass = "data"
	ClassScratchpad SourceClass = "scratchpad"
	ClassOther      SourceClass = "other"
	ClassOpaque     SourceClass = "opaque"
)

// ClassOrder is the display order of classes, most to least common on the web.
var ClassOrder = []SourceClass{
	ClassContent,
	ClassData,
	ClassChrome,
	ClassScratchpad,
	ClassOther,
	ClassOpaque,
}

// Classify returns the class of source. Sources that are none of the known
// schemes are ClassOther when they parse as a URL and ClassOpaque otherwise.
func Classify(loc *sourceutil.Locator, source string) SourceClass {
	switch {
	case sourceutil.IsContentScheme(source):
		return ClassContent
	case sourceutil.IsChromeScheme(source):
		return ClassChrome
	case sourceutil.IsDataScheme(source):
		return ClassData
	case sourceutil.IsScratchpadScheme(source):
		return ClassScratchpad
	}
	if _, ok := loc.ParseURL(source); ok {
		return ClassOther
	}
	return ClassOpaque
}

// FormatClass returns a human-readable label for a source class.
func FormatClass(class SourceClass) string {
	switch class {
	case ClassContent:
		return "Content Scripts"
	case ClassChrome:
		return "Privileged (chrome) Scripts"
	case ClassData:
		return "Data URIs"
	case ClassScratchpad:
		return "Scratchpad"
	case ClassOther:
		return "Other URLs"
	default:
		return "Internal / Unparseable"
	}
}

// NewSourceReport resolves source through loc and classifies it. foundOn is
// the page it was referenced from, or empty.
func NewSourceReport(loc *sourceutil.Locator, source, foundOn string) SourceReport {
	names := loc.GetSourceNames(source)
	_, linkable := loc.ParseURL(source)

	report := SourceReport{
		Source:   source,
		Short:    names.Short,
		Long:     names.Long,
		Host:     names.Host,
		Class:    Classify(loc, source),
		Linkable: linkable,
		FoundOn:  foundOn,
	}
	if foundOn != "" && names.HasHost() {
		if page, ok := loc.ParseURL(foundOn); ok && page.Hostname != "" {
			report.ThirdParty = !sourceutil.IsSameSite(source, page.Hostname)
		}
	}
	return report
}
