package sourceutil

// The predicates below run once per stack frame while profiles are processed,
// so they compare bytes in place instead of slicing or matching patterns.

// byteAt returns the byte at index i, or -1 when i is out of range.
func byteAt(s string, i int) int {
	if i < 0 || i >= len(s) {
		return -1
	}
	return int(s[i])
}

// hasPrefixAt reports whether prefix occurs in s starting at offset i.
func hasPrefixAt(s string, i int, prefix string) bool {
	for j := 0; j < len(prefix); j++ {
		if byteAt(s, i+j) != int(prefix[j]) {
			return false
		}
	}
	return true
}

// isColonSlashSlash reports whether "://" starts at offset i.
func isColonSlashSlash(s string, i int) bool {
	return byteAt(s, i) == ':' &&
		byteAt(s, i+1) == '/' &&
		byteAt(s, i+2) == '/'
}

// IsContentScheme reports whether location starts with http://, https://,
// file:// or app://.
func IsContentScheme(location string) bool {
	return IsContentSchemeAt(location, 0)
}

// IsContentSchemeAt is IsContentScheme starting at offset i.
func IsContentSchemeAt(location string, i int) bool {
	switch byteAt(location, i) {
	case 'h':
		if !hasPrefixAt(location, i+1, "ttp") {
			return false
		}
		i += 4
		if byteAt(location, i) == 's' {
			i++
		}
		return isColonSlashSlash(location, i)
	case 'f':
		return hasPrefixAt(location, i+1, "ile") && isColonSlashSlash(location, i+4)
	case 'a':
		return hasPrefixAt(location, i+1, "pp") && isColonSlashSlash(location, i+3)
	default:
		return false
	}
}

// IsChromeScheme reports whether location starts with chrome://, resource://
// or jar:file://. These address browser-internal resources and never carry a
// network host.
func IsChromeScheme(location string) bool {
	return IsChromeSchemeAt(location, 0)
}

// IsChromeSchemeAt is IsChromeScheme starting at offset i.
func IsChromeSchemeAt(location string, i int) bool {
	switch byteAt(location, i) {
	case 'c':
		return hasPrefixAt(location, i+1, "hrome") && isColonSlashSlash(location, i+6)
	case 'r':
		return hasPrefixAt(location, i+1, "esource") && isColonSlashSlash(location, i+8)
	case 'j':
		return hasPrefixAt(location, i+1, "ar:file") && isColonSlashSlash(location, i+8)
	default:
		return false
	}
}

// IsDataScheme reports whether location starts with "data:".
func IsDataScheme(location string) bool {
	return IsDataSchemeAt(location, 0)
}

// IsDataSchemeAt is IsDataScheme starting at offset i.
func IsDataSchemeAt(location string, i int) bool {
	return hasPrefixAt(location, i, "data:")
}

// IsScratchpadScheme reports whether location starts with "Scratchpad/",
// like "Scratchpad/1".
func IsScratchpadScheme(location string) bool {
	return IsScratchpadSchemeAt(location, 0)
}

// IsScratchpadSchemeAt is IsScratchpadScheme starting at offset i.
func IsScratchpadSchemeAt(location string, i int) bool {
	return hasPrefixAt(location, i, "Scratchpad/")
}
