package loader

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type zipEntry struct {
	name string
	data []byte
}

func buildZip(t *testing.T, entries []zipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entry := range entries {
		w, err := zw.Create(entry.name)
		if err != nil {
			t.Fatalf("create %q: %v", entry.name, err)
		}
		if _, err := w.Write(entry.data); err != nil {
			t.Fatalf("write %q: %v", entry.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const traceLine = `{"type":"before","callId":"c1","startTime":100,"class":"Page","method":"goto","params":{"url":"https://x"}}` + "\n" +
	`{"type":"after","callId":"c1","endTime":150}`

func singleTraceZip(t *testing.T) []byte {
	t.Helper()
	return buildZip(t, []zipEntry{{name: "0.trace", data: []byte(traceLine)}})
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []string
		want    Kind
	}{
		{
			name:    "report bundle",
			entries: []string{"index.html", "data/abc.zip", "data/def.zip"},
			want:    KindReportBundle,
		},
		{
			name:    "report bundle wins over trace entries",
			entries: []string{"0.trace", "data/abc.zip"},
			want:    KindReportBundle,
		},
		{
			name:    "single trace",
			entries: []string{"0.trace", "0.network", "resources/deadbeef"},
			want:    KindSingleTrace,
		},
		{
			name:    "test case bundle",
			entries: []string{"test-1/shot.png", "test-2/report.md"},
			want:    KindTestCaseBundle,
		},
		{
			name:    "metadata only is unrecognized",
			entries: []string{"__MACOSX/test-1/shot.png", ".DS_Store", "test-1/"},
			want:    KindUnrecognized,
		},
		{
			name:    "empty archive",
			entries: nil,
			want:    KindUnrecognized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Classify(tt.entries); got != tt.want {
				t.Fatalf("Classify(%v) = %v, want %v", tt.entries, got, tt.want)
			}
		})
	}
}

func TestLoadSingleTrace(t *testing.T) {
	t.Parallel()

	result, err := Load(singleTraceZip(t))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if result.Kind != KindSingleTrace {
		t.Fatalf("Kind = %v, want %v", result.Kind, KindSingleTrace)
	}
	if len(result.Trace.Contexts) != 1 {
		t.Fatalf("contexts = %d, want 1", len(result.Trace.Contexts))
	}
	ctx := result.Trace.Contexts[0]
	if len(ctx.Actions) != 1 || ctx.Actions[0].Method != "goto" {
		t.Fatalf("actions = %+v", ctx.Actions)
	}
}

func TestLoadSingleTraceMultipleOrdinals(t *testing.T) {
	t.Parallel()

	second := `{"type":"before","callId":"x","startTime":1,"class":"Page","method":"click"}`
	data := buildZip(t, []zipEntry{
		{name: "0.trace", data: []byte(traceLine)},
		{name: "0.network", data: []byte(`{"type":"resource-snapshot","snapshot":{}}`)},
		{name: "1.trace", data: []byte(second)},
		{name: "resources/deadbeef", data: []byte{0x01}},
	})

	model, _, err := LoadTrace(data)
	if err != nil {
		t.Fatalf("LoadTrace() error: %v", err)
	}
	if len(model.Contexts) != 2 {
		t.Fatalf("contexts = %d, want 2 (one per ordinal)", len(model.Contexts))
	}
	// Contexts keep entry order and each trace file maps to its own
	// context.
	if model.Contexts[0].Actions[0].Method != "goto" {
		t.Fatalf("contexts[0] method = %q", model.Contexts[0].Actions[0].Method)
	}
	if model.Contexts[1].Actions[0].Method != "click" {
		t.Fatalf("contexts[1] method = %q", model.Contexts[1].Actions[0].Method)
	}
	// The network stream rides along as retained events.
	if len(model.Contexts[0].Events) != 3 {
		t.Fatalf("contexts[0] events = %d, want 3", len(model.Contexts[0].Events))
	}
}

func TestLoadReportBundle(t *testing.T) {
	t.Parallel()

	inner := singleTraceZip(t)
	outer := buildZip(t, []zipEntry{
		{name: "index.html", data: []byte("<html/>")},
		{name: "data/a.zip", data: inner},
		{name: "data/b.zip", data: inner},
	})

	result, err := Load(outer)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if result.Kind != KindReportBundle {
		t.Fatalf("Kind = %v, want %v", result.Kind, KindReportBundle)
	}
	if len(result.Trace.Contexts) != 2 {
		t.Fatalf("contexts = %d, want 2 (concatenated across nested archives)", len(result.Trace.Contexts))
	}
}

func TestLoadReportBundleNestedFailureIsFatal(t *testing.T) {
	t.Parallel()

	outer := buildZip(t, []zipEntry{
		{name: "data/good.zip", data: singleTraceZip(t)},
		{name: "data/bad.zip", data: []byte("not a zip")},
	})

	if _, err := Load(outer); err == nil {
		t.Fatal("Load() succeeded, want failure for corrupt nested archive")
	}
}

func TestLoadReportBundleDepthGuard(t *testing.T) {
	t.Parallel()

	// A bundle inside a bundle. MaxDepth 2 admits one bundle level, so
	// the nested bundle trips the guard.
	level1 := buildZip(t, []zipEntry{{name: "data/trace.zip", data: singleTraceZip(t)}})
	level2 := buildZip(t, []zipEntry{{name: "data/report.zip", data: level1}})

	if _, _, err := LoadTraceWithOptions(level1, Options{MaxDepth: 2}); err != nil {
		t.Fatalf("depth-1 bundle failed: %v", err)
	}

	_, _, err := LoadTraceWithOptions(level2, Options{MaxDepth: 2})
	if !errors.Is(err, ErrArchiveTooDeep) {
		t.Fatalf("error = %v, want ErrArchiveTooDeep", err)
	}
}

func TestLoadUnrecognized(t *testing.T) {
	t.Parallel()

	// Only ignorable entries: directory markers, macOS metadata, and dot
	// files never form a test-case group.
	data := buildZip(t, []zipEntry{
		{name: "results/", data: nil},
		{name: "__MACOSX/results/._shot.png", data: []byte("junk")},
		{name: ".DS_Store", data: []byte("junk")},
	})
	if _, err := Load(data); !errors.Is(err, ErrNoRecognizedFormat) {
		t.Fatalf("Load() error = %v, want ErrNoRecognizedFormat", err)
	}
}

func TestLoadTraceRejectsTestCaseBundle(t *testing.T) {
	t.Parallel()

	data := buildZip(t, []zipEntry{{name: "test-1/shot.png", data: []byte{0x89}}})
	if _, _, err := LoadTrace(data); !errors.Is(err, ErrMissingTraceEntry) {
		t.Fatalf("LoadTrace() error = %v, want ErrMissingTraceEntry", err)
	}
}

func TestLoadTestCaseBundle(t *testing.T) {
	t.Parallel()

	data := buildZip(t, []zipEntry{
		{name: "login-test-failed/error-context.md", data: []byte("# Timeout waiting for selector\n")},
		{name: "login-test-failed/shot.png", data: []byte{0x89, 0x50}},
	})

	result, err := Load(data)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if result.Kind != KindTestCaseBundle {
		t.Fatalf("Kind = %v, want %v", result.Kind, KindTestCaseBundle)
	}
	if len(result.TestCases.TestCases) != 1 {
		t.Fatalf("test cases = %d, want 1", len(result.TestCases.TestCases))
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	t.Parallel()

	data := singleTraceZip(t)

	first, _, err := LoadTrace(data)
	if err != nil {
		t.Fatalf("first LoadTrace() error: %v", err)
	}
	second, _, err := LoadTrace(data)
	if err != nil {
		t.Fatalf("second LoadTrace() error: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated loads diverged (-first +second):\n%s", diff)
	}
}

func TestClassifyLoadError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ErrorClassUnknown},
		{name: "format", err: ErrNoRecognizedFormat, want: ErrorClassFormat},
		{name: "missing", err: ErrMissingTraceEntry, want: ErrorClassMissing},
		{name: "depth wrapped", err: fmt.Errorf("nested archive %q: %w", "data/a.zip", ErrArchiveTooDeep), want: ErrorClassDepth},
		{name: "read fallback", err: errors.New("read entry \"0.trace\": unexpected EOF"), want: ErrorClassRead},
		{name: "checksum fallback", err: errors.New("zip: checksum error"), want: ErrorClassRead},
		{name: "unknown", err: errors.New("boom"), want: ErrorClassUnknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ClassifyLoadError(tt.err); got != tt.want {
				t.Fatalf("ClassifyLoadError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassifyLoadErrorNotArchive(t *testing.T) {
	t.Parallel()

	_, err := Load([]byte("plainly not a zip"))
	if got := ClassifyLoadError(err); got != ErrorClassArchive {
		t.Fatalf("ClassifyLoadError() = %q, want %q", got, ErrorClassArchive)
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want string
	}{
		{KindSingleTrace, "single-trace"},
		{KindReportBundle, "report-bundle"},
		{KindTestCaseBundle, "test-case-bundle"},
		{KindUnrecognized, "unrecognized"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Fatalf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
