// Package ansi converts ANSI SGR escape sequences in captured log and
// error text into styled segments the rendering layer can map to CSS
// classes. Only the style codes test runners actually emit are
// supported; anything else is ignored.
package ansi

import "strings"

// Style is one supported SGR text style.
type Style int

const (
	Bold Style = iota
	Dim
	FgRed
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
)

// CSSClass returns the stylesheet class for a style.
func (s Style) CSSClass() string {
	switch s {
	case Bold:
		return "ansi-bold"
	case Dim:
		return "ansi-dim"
	case FgRed:
		return "ansi-red"
	case FgGreen:
		return "ansi-green"
	case FgYellow:
		return "ansi-yellow"
	case FgBlue:
		return "ansi-blue"
	case FgMagenta:
		return "ansi-magenta"
	case FgCyan:
		return "ansi-cyan"
	default:
		return ""
	}
}

// Segment is a run of text sharing one set of active styles.
type Segment struct {
	Text   string
	Styles []Style
}

// CSSClasses returns the space-joined stylesheet classes for the
// segment's active styles.
func (s Segment) CSSClasses() string {
	classes := make([]string, 0, len(s.Styles))
	for _, style := range s.Styles {
		classes = append(classes, style.CSSClass())
	}
	return strings.Join(classes, " ")
}

// Parse splits input into styled segments. Both real escape sequences
// (ESC [ ... m) and the bare bracket form some tools log ([31m) are
// recognized; test runner output routinely contains the latter.
func Parse(input string) []Segment {
	var segments []Segment
	var text strings.Builder
	var active []Style

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch != '\x1b' && ch != '[' {
			text.WriteRune(ch)
			continue
		}

		// Consume the '[' of an ESC [ introducer.
		if ch == '\x1b' && i+1 < len(runes) && runes[i+1] == '[' {
			i++
		}

		// Collect the parameter bytes up to the 'm' terminator.
		var code strings.Builder
		for i+1 < len(runes) {
			next := runes[i+1]
			if next >= '0' && next <= '9' {
				code.WriteRune(next)
				i++
			} else if next == ';' {
				code.WriteRune(';')
				i++
			} else if next == 'm' {
				i++
				break
			} else {
				break
			}
		}

		if text.Len() > 0 {
			segments = append(segments, Segment{Text: text.String(), Styles: cloneStyles(active)})
			text.Reset()
		}

		for _, part := range strings.Split(code.String(), ";") {
			if part == "" {
				continue
			}
			active = applyCode(active, part)
		}
	}

	if text.Len() > 0 {
		segments = append(segments, Segment{Text: text.String(), Styles: cloneStyles(active)})
	}

	return segments
}

func applyCode(active []Style, code string) []Style {
	switch code {
	case "0":
		return nil
	case "1":
		return append(active, Bold)
	case "2":
		return append(active, Dim)
	case "22":
		return removeStyles(active, Bold, Dim)
	case "31":
		return append(active, FgRed)
	case "32":
		return append(active, FgGreen)
	case "33":
		return append(active, FgYellow)
	case "34":
		return append(active, FgBlue)
	case "35":
		return append(active, FgMagenta)
	case "36":
		return append(active, FgCyan)
	case "39":
		return removeStyles(active, FgRed, FgGreen, FgYellow, FgBlue, FgMagenta, FgCyan)
	default:
		// Unsupported codes are ignored.
		return active
	}
}

func removeStyles(active []Style, remove ...Style) []Style {
	var kept []Style
	for _, style := range active {
		drop := false
		for _, r := range remove {
			if style == r {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, style)
		}
	}
	return kept
}

func cloneStyles(styles []Style) []Style {
	if len(styles) == 0 {
		return nil
	}
	out := make([]Style, len(styles))
	copy(out, styles)
	return out
}
