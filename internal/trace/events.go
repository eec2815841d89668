package trace

import (
	"encoding/json"
	"fmt"
)

// EventKind identifies one variant of the trace event union.
type EventKind string

const (
	KindContextOptions  EventKind = "context-options"
	KindBefore          EventKind = "before"
	KindAfter           EventKind = "after"
	KindInput           EventKind = "input"
	KindScreencastFrame EventKind = "screencast-frame"

	// KindUnknown covers every record type the decoder does not
	// understand. Unknown events decode successfully and are inert.
	KindUnknown EventKind = "unknown"
)

// Event is one decoded trace record. The union is closed: the five
// recognized kinds plus UnknownEvent.
type Event interface {
	Kind() EventKind
}

// ContextOptionsEvent carries session metadata recorded at context
// creation.
type ContextOptionsEvent struct {
	Version           int     `json:"version"`
	BrowserName       string  `json:"browserName"`
	Platform          string  `json:"platform,omitempty"`
	PlaywrightVersion string  `json:"playwrightVersion,omitempty"`
	WallTime          float64 `json:"wallTime"`
	MonotonicTime     float64 `json:"monotonicTime"`
	Title             string  `json:"title,omitempty"`
}

func (*ContextOptionsEvent) Kind() EventKind { return KindContextOptions }

// BeforeEvent opens an action. CallID is the correlation identifier the
// eventual after event is matched on.
type BeforeEvent struct {
	CallID    string         `json:"callId"`
	StartTime float64        `json:"startTime"`
	Title     string         `json:"title,omitempty"`
	Class     string         `json:"class"`
	Method    string         `json:"method"`
	Params    map[string]any `json:"params,omitempty"`
	PageID    string         `json:"pageId,omitempty"`
	ParentID  string         `json:"parentId,omitempty"`
}

func (*BeforeEvent) Kind() EventKind { return KindBefore }

// AfterEvent completes the action opened by the before event with the
// same CallID.
type AfterEvent struct {
	CallID  string           `json:"callId"`
	EndTime float64          `json:"endTime"`
	Error   *SerializedError `json:"error,omitempty"`
	Result  json.RawMessage  `json:"result,omitempty"`
}

func (*AfterEvent) Kind() EventKind { return KindAfter }

// InputEvent is an input snapshot reference. It drives no state
// transitions; it is retained for traceability only.
type InputEvent struct {
	CallID        string `json:"callId"`
	InputSnapshot string `json:"inputSnapshot,omitempty"`
}

func (*InputEvent) Kind() EventKind { return KindInput }

// ScreencastFrameEvent announces one captured frame for a page.
type ScreencastFrameEvent struct {
	PageID    string  `json:"pageId"`
	SHA1      string  `json:"sha1"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Timestamp float64 `json:"timestamp"`
}

func (*ScreencastFrameEvent) Kind() EventKind { return KindScreencastFrame }

// UnknownEvent is the inert fallback for record types outside the
// recognized set. The raw line is preserved.
type UnknownEvent struct {
	Type string
	Raw  json.RawMessage
}

func (*UnknownEvent) Kind() EventKind { return KindUnknown }

// DecodeEvent decodes one line of a trace stream. The record type is
// dispatched on the "type" discriminator field; unrecognized types
// decode to an UnknownEvent rather than failing, so new recorder
// versions stay loadable.
func DecodeEvent(line []byte) (Event, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(line, &probe); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	switch EventKind(probe.Type) {
	case KindContextOptions:
		event := &ContextOptionsEvent{}
		if err := json.Unmarshal(line, event); err != nil {
			return nil, fmt.Errorf("decode context-options event: %w", err)
		}
		return event, nil
	case KindBefore:
		event := &BeforeEvent{}
		if err := json.Unmarshal(line, event); err != nil {
			return nil, fmt.Errorf("decode before event: %w", err)
		}
		if event.Params == nil {
			event.Params = map[string]any{}
		}
		return event, nil
	case KindAfter:
		event := &AfterEvent{}
		if err := json.Unmarshal(line, event); err != nil {
			return nil, fmt.Errorf("decode after event: %w", err)
		}
		return event, nil
	case KindInput:
		event := &InputEvent{}
		if err := json.Unmarshal(line, event); err != nil {
			return nil, fmt.Errorf("decode input event: %w", err)
		}
		return event, nil
	case KindScreencastFrame:
		event := &ScreencastFrameEvent{}
		if err := json.Unmarshal(line, event); err != nil {
			return nil, fmt.Errorf("decode screencast-frame event: %w", err)
		}
		return event, nil
	default:
		raw := make(json.RawMessage, len(line))
		copy(raw, line)
		return &UnknownEvent{Type: probe.Type, Raw: raw}, nil
	}
}
