// Package frame builds the label shown for a single stack frame: function
// name, source file, line, column and host, as derived by sourceutil.
package frame

import (
	"strconv"
	"strings"

	"github.com/lukemcguire/framesrc/sourceutil"
)

// Frame is one entry of a stack trace.
type Frame struct {
	FunctionDisplayName string `json:"functionDisplayName,omitempty"`
	Source              string `json:"source"`
	Line                int    `json:"line,omitempty"`
	Column              int    `json:"column,omitempty"`
}

// Options controls which optional parts of a Link are shown.
type Options struct {
	ShowFunctionName bool
	ShowHost         bool
}

// SegmentKind identifies a part of a rendered Link.
type SegmentKind string

const (
	SegmentFunctionName SegmentKind = "function-display-name"
	SegmentFileName     SegmentKind = "filename"
	SegmentColon        SegmentKind = "colon"
	SegmentLine         SegmentKind = "line"
	SegmentColumn       SegmentKind = "column"
	SegmentHost         SegmentKind = "host"
)

// Segment is a piece of text in a Link.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Link is the display model of a frame.
type Link struct {
	FunctionName string
	Short        string
	Long         string
	Host         string
	Line         int
	Column       int

	// Linkable is true when the source parses as a URL. "self-hosted" and
	// "(unknown)" are not linkable and never show line or column.
	Linkable bool

	ShowFunctionName bool
	ShowHost         bool
}

// Describe builds the Link for f, resolving its source through loc.
func Describe(loc *sourceutil.Locator, f Frame, opts Options) Link {
	names := loc.GetSourceNames(f.Source)
	_, linkable := loc.ParseURL(f.Source)

	return Link{
		FunctionName:     f.FunctionDisplayName,
		Short:            names.Short,
		Long:             names.Long,
		Host:             names.Host,
		Line:             f.Line,
		Column:           f.Column,
		Linkable:         linkable,
		ShowFunctionName: opts.ShowFunctionName,
		ShowHost:         opts.ShowHost,
	}
}

// hasLine reports whether line (and possibly column) are displayed. Zero is
// never a meaningful line number.
func (l Link) hasLine() bool {
	return l.Linkable && l.Line > 0
}

// Tooltip returns the long name followed by ":line[:column]" when known.
func (l Link) Tooltip() string {
	tooltip := l.Long
	if l.hasLine() {
		tooltip += ":" + strconv.Itoa(l.Line)
		if l.Column > 0 {
			tooltip += ":" + strconv.Itoa(l.Column)
		}
	}
	return tooltip
}

// ViewSourceTitle is the title of the clickable file name.
func (l Link) ViewSourceTitle() string {
	return "View source in Debugger → " + l.Tooltip()
}

// Segments returns the parts of the label in display order.
func (l Link) Segments() []Segment {
	var segments []Segment

	if l.ShowFunctionName && l.FunctionName != "" {
		segments = append(segments, Segment{Kind: SegmentFunctionName, Text: l.FunctionName})
	}

	segments = append(segments, Segment{Kind: SegmentFileName, Text: l.Short})

	if l.hasLine() {
		segments = append(segments,
			Segment{Kind: SegmentColon, Text: ":"},
			Segment{Kind: SegmentLine, Text: strconv.Itoa(l.Line)},
		)
		if l.Column > 0 {
			segments = append(segments,
				Segment{Kind: SegmentColon, Text: ":"},
				Segment{Kind: SegmentColumn, Text: strconv.Itoa(l.Column)},
			)
		}
	}

	if l.ShowHost && l.Host != "" {
		segments = append(segments, Segment{Kind: SegmentHost, Text: l.Host})
	}

	return segments
}

// String renders the label as plain text, e.g. "init app.js:10:4 example.com".
func (l Link) String() string {
	return Render(l, func(_ SegmentKind, text string) string { return text })
}

// Render joins the segments of l, passing each through style. The function
// name and host are separated from the location by a space.
func Render(l Link, style func(kind SegmentKind, text string) string) string {
	var b strings.Builder
	for _, seg := range l.Segments() {
		if (seg.Kind == SegmentFileName && b.Len() > 0) || seg.Kind == SegmentHost {
			b.WriteByte(' ')
		}
		b.WriteString(style(seg.Kind, seg.Text))
	}
	return b.String()
}
