package frame

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseStack reads a JavaScript stack trace and returns its frames. Both the
// SpiderMonkey form ("name@source:line:column") and the V8 form
// ("at name (source:line:column)") are accepted; other lines are skipped.
func ParseStack(r io.Reader) ([]Frame, error) {
	var frames []Frame

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if f, ok := ParseLine(scanner.Text()); ok {
			frames = append(frames, f)
		}
	}
	if err := scanner.Err(); err != nil {
		return frames, fmt.Errorf("read stack: %w", err)
	}
	return frames, nil
}

// ParseLine parses a single stack trace line.
func ParseLine(line string) (Frame, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Frame{}, false
	}

	if rest, ok := strings.CutPrefix(line, "at "); ok {
		return parseV8(rest)
	}

	name, location, ok := strings.Cut(line, "@")
	if !ok || location == "" {
		return Frame{}, false
	}
	f := splitLocation(location)
	f.FunctionDisplayName = name
	return f, true
}

func parseV8(rest string) (Frame, bool) {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return Frame{}, false
	}

	if strings.HasSuffix(rest, ")") {
		if open := strings.LastIndex(rest, " ("); open >= 0 {
			f := splitLocation(rest[open+2 : len(rest)-1])
			f.FunctionDisplayName = rest[:open]
			return f, true
		}
	}
	return splitLocation(rest), true
}

// splitLocation separates "source:line:column" into its parts. Missing
// numbers are left as zero.
func splitLocation(location string) Frame {
	source, last, ok := cutTrailingNumber(location)
	if !ok {
		return Frame{Source: location}
	}
	source2, line, ok := cutTrailingNumber(source)
	if !ok {
		return Frame{Source: source, Line: last}
	}
	return Frame{Source: source2, Line: line, Column: last}
}

func cutTrailingNumber(s string) (string, int, bool) {
	colon := strings.LastIndexByte(s, ':')
	if colon < 0 || colon == len(s)-1 {
		return s, 0, false
	}
	n, err := strconv.Atoi(s[colon+1:])
	if err != nil || n < 0 {
		return s, 0, false
	}
	return s[:colon], n, true
}
