// Package trace defines the reconstructed trace model and the engine
// that rebuilds it from line-delimited event streams.
package trace

// Model is the root aggregate for a loaded trace archive. Contexts keep
// archive discovery order; the slice is never sorted.
type Model struct {
	Contexts []*Context `json:"contexts"`
}

// NewModel returns an empty trace model.
func NewModel() *Model {
	return &Model{Contexts: []*Context{}}
}

// Context is one recorded browser-automation session.
//
// StartTime and EndTime are monotonic milliseconds derived from the
// contained actions (and the context-options origin when present).
// Actions are sorted ascending by start time after reconstruction;
// downstream consumers rely on that ordering.
type Context struct {
	StartTime         float64      `json:"startTime"`
	EndTime           float64      `json:"endTime"`
	BrowserName       string       `json:"browserName"`
	Platform          string       `json:"platform,omitempty"`
	PlaywrightVersion string       `json:"playwrightVersion,omitempty"`
	WallTime          float64      `json:"wallTime"`
	Title             string       `json:"title,omitempty"`
	Pages             []*Page      `json:"pages"`
	Actions           []*Action    `json:"actions"`
	Resources         []Resource   `json:"resources,omitempty"`
	Errors            []ErrorEvent `json:"errors,omitempty"`

	// Events retains every successfully decoded source event in arrival
	// order for traceability. Not part of the wire representation.
	Events []Event `json:"-"`
}

// Action is one intercepted API call, reconstructed from a before event
// and (usually) its matching after event.
type Action struct {
	ActionType string  `json:"type"`
	CallID     string  `json:"callId"`
	StartTime  float64 `json:"startTime"`

	// EndTime is nil until the matching after event arrives. A pending
	// action is real state, not absence.
	EndTime *float64 `json:"endTime,omitempty"`

	Title    string           `json:"title,omitempty"`
	Class    string           `json:"class,omitempty"`
	Method   string           `json:"method,omitempty"`
	Params   map[string]any   `json:"params"`
	PageID   string           `json:"pageId,omitempty"`
	ParentID string           `json:"parentId,omitempty"`
	Error    *SerializedError `json:"error,omitempty"`
	Log      []LogEntry       `json:"log,omitempty"`
}

// Completed reports whether the action's after event has been applied.
func (a *Action) Completed() bool {
	return a.EndTime != nil
}

// Failed reports whether the action carries a terminal error.
func (a *Action) Failed() bool {
	return a.Error != nil
}

// Duration returns the action duration in milliseconds. The second
// return value is false while the action is still pending.
func (a *Action) Duration() (float64, bool) {
	if a.EndTime == nil {
		return 0, false
	}
	return *a.EndTime - a.StartTime, true
}

// DisplayName returns the most specific human label available for the
// action: method, then class, then the raw event type.
func (a *Action) DisplayName() string {
	if a.Method != "" {
		return a.Method
	}
	if a.Class != "" {
		return a.Class
	}
	return a.ActionType
}

// Page is one browser tab within a context, created lazily on the first
// screencast frame that references its identifier.
type Page struct {
	PageID           string            `json:"pageId"`
	ScreencastFrames []ScreencastFrame `json:"screencastFrames"`
}

// ScreencastFrame describes one captured frame of a page.
type ScreencastFrame struct {
	SHA1              string   `json:"sha1"`
	Timestamp         float64  `json:"timestamp"`
	Width             int      `json:"width"`
	Height            int      `json:"height"`
	FrameSwapWallTime *float64 `json:"frameSwapWallTime,omitempty"`
}

// LogEntry is one timestamped log line attached to an action.
type LogEntry struct {
	Time    float64 `json:"time"`
	Message string  `json:"message"`
}

// SerializedError is a captured failure with optional stack text.
type SerializedError struct {
	Message string `json:"message,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// ErrorEvent is an uncaught context-level failure.
type ErrorEvent struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// Resource references a captured network resource body by content hash.
// Resource payloads under resources/ are not deeply parsed by the core.
type Resource struct {
	URL         string `json:"url"`
	ContentType string `json:"contentType,omitempty"`
	SHA1        string `json:"sha1,omitempty"`
}
