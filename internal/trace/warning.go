package trace

import "fmt"

// Warning records a non-fatal condition that was recovered during a
// load. The core never logs; warnings travel back to the caller beside
// the successfully built model.
type Warning struct {
	// Stage names the processing stage that produced the warning, e.g.
	// "trace", "network", or "testcase".
	Stage string

	// Line is the 1-based line number for line-scoped warnings, 0
	// otherwise.
	Line int

	Message string
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s line %d: %s", w.Stage, w.Line, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
