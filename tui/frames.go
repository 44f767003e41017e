package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lukemcguire/framesrc/frame"
)

var segmentStyles = map[frame.SegmentKind]lipgloss.Style{
	frame.SegmentFunctionName: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	frame.SegmentFileName:     lipgloss.NewStyle().Bold(true),
	frame.SegmentColon:        lipgloss.NewStyle().Faint(true),
	frame.SegmentLine:         lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	frame.SegmentColumn:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	frame.SegmentHost:         hostStyle,
}

var unlinkableStyle = lipgloss.NewStyle().Faint(true)

// RenderFrame styles a frame label for the terminal. Frames whose source is
// not a URL are dimmed the way an unlinkable frame is greyed out.
func RenderFrame(link frame.Link) string {
	return frame.Render(link, func(kind frame.SegmentKind, text string) string {
		if !link.Linkable && kind == frame.SegmentFileName {
			return unlinkableStyle.Render(text)
		}
		if style, ok := segmentStyles[kind]; ok {
			return style.Render(text)
		}
		return text
	})
}
