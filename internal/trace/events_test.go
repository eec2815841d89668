package trace

import (
	"testing"
)

func TestDecodeEventKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want EventKind
	}{
		{
			name: "context options",
			line: `{"type":"context-options","version":3,"browserName":"chromium","platform":"linux","wallTime":1700000000000,"monotonicTime":12.5,"title":"suite"}`,
			want: KindContextOptions,
		},
		{
			name: "before",
			line: `{"type":"before","callId":"c1","startTime":100,"class":"Page","method":"goto","params":{"url":"https://x"}}`,
			want: KindBefore,
		},
		{
			name: "after",
			line: `{"type":"after","callId":"c1","endTime":150}`,
			want: KindAfter,
		},
		{
			name: "input",
			line: `{"type":"input","callId":"c1","inputSnapshot":"snap"}`,
			want: KindInput,
		},
		{
			name: "screencast frame",
			line: `{"type":"screencast-frame","pageId":"p1","sha1":"abc","width":800,"height":600,"timestamp":42}`,
			want: KindScreencastFrame,
		},
		{
			name: "unrecognized type is inert",
			line: `{"type":"frame-snapshot","snapshot":{"html":"<div/>"}}`,
			want: KindUnknown,
		},
		{
			name: "missing type field is inert",
			line: `{"callId":"c9"}`,
			want: KindUnknown,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			event, err := DecodeEvent([]byte(tt.line))
			if err != nil {
				t.Fatalf("DecodeEvent() error: %v", err)
			}
			if event.Kind() != tt.want {
				t.Fatalf("Kind() = %q, want %q", event.Kind(), tt.want)
			}
		})
	}
}

func TestDecodeEventFields(t *testing.T) {
	t.Parallel()

	event, err := DecodeEvent([]byte(`{"type":"before","callId":"c1","startTime":100,"class":"Frame","method":"goto","params":{"url":"https://x"},"pageId":"p1","parentId":"c0"}`))
	if err != nil {
		t.Fatalf("DecodeEvent() error: %v", err)
	}
	before, ok := event.(*BeforeEvent)
	if !ok {
		t.Fatalf("event type = %T, want *BeforeEvent", event)
	}
	if before.CallID != "c1" || before.StartTime != 100 {
		t.Fatalf("before = %+v", before)
	}
	if before.Class != "Frame" || before.Method != "goto" {
		t.Fatalf("class/method = %q/%q", before.Class, before.Method)
	}
	if before.PageID != "p1" || before.ParentID != "c0" {
		t.Fatalf("pageId/parentId = %q/%q", before.PageID, before.ParentID)
	}
	if url, ok := before.Params["url"]; !ok || url != "https://x" {
		t.Fatalf("params = %v", before.Params)
	}
}

func TestDecodeEventDefaultsParams(t *testing.T) {
	t.Parallel()

	event, err := DecodeEvent([]byte(`{"type":"before","callId":"c1","startTime":1,"class":"Page","method":"close"}`))
	if err != nil {
		t.Fatalf("DecodeEvent() error: %v", err)
	}
	before := event.(*BeforeEvent)
	if before.Params == nil {
		t.Fatal("Params = nil, want empty map")
	}
	if len(before.Params) != 0 {
		t.Fatalf("Params = %v, want empty", before.Params)
	}
}

func TestDecodeEventUnknownKeepsRawLine(t *testing.T) {
	t.Parallel()

	line := `{"type":"resource-snapshot","snapshot":{"url":"https://x"}}`
	event, err := DecodeEvent([]byte(line))
	if err != nil {
		t.Fatalf("DecodeEvent() error: %v", err)
	}
	unknown := event.(*UnknownEvent)
	if unknown.Type != "resource-snapshot" {
		t.Fatalf("Type = %q", unknown.Type)
	}
	if string(unknown.Raw) != line {
		t.Fatalf("Raw = %s", unknown.Raw)
	}
}

func TestDecodeEventInvalidJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
	}{
		{name: "truncated object", line: `{not json`},
		{name: "bare scalar", line: `42`},
		{name: "wrong field type", line: `{"type":"after","callId":"c1","endTime":"soon"}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := DecodeEvent([]byte(tt.line)); err == nil {
				t.Fatalf("DecodeEvent(%q) expected error", tt.line)
			}
		})
	}
}
