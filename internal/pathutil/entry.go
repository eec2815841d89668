// Package pathutil provides helpers for interpreting archive entry paths.
package pathutil

import "strings"

// TopSegment returns the first path segment of an archive entry name.
// Leading and trailing slashes are ignored. The second return value is
// false when the name has no usable segment.
func TopSegment(name string) (string, bool) {
	trimmed := strings.Trim(name, "/")
	if trimmed == "" {
		return "", false
	}
	segment, _, _ := strings.Cut(trimmed, "/")
	if segment == "" {
		return "", false
	}
	return segment, true
}

// BaseName returns the final path segment of an archive entry name.
func BaseName(name string) string {
	trimmed := strings.TrimRight(name, "/")
	if idx := strings.LastIndexByte(trimmed, '/'); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

// Ext returns the lower-cased extension of an entry name, including the
// leading dot, or "" when the base name has none.
func Ext(name string) string {
	base := BaseName(name)
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 {
		return ""
	}
	return strings.ToLower(base[idx:])
}

// IsDir reports whether an entry name is a directory marker.
func IsDir(name string) bool {
	return strings.HasSuffix(name, "/")
}

// IsIgnored reports whether an entry should be skipped during bundle
// grouping: anything under a __MACOSX directory and dot-prefixed file
// names (AppleDouble "._" resource forks included).
func IsIgnored(name string) bool {
	if strings.HasPrefix(name, "__MACOSX") {
		return true
	}
	return strings.HasPrefix(BaseName(name), ".")
}
