package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
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

func TestOpenRejectsNonZip(t *testing.T) {
	t.Parallel()

	_, err := Open([]byte("not a zip file"))
	if !errors.Is(err, ErrNotArchive) {
		t.Fatalf("Open() error = %v, want ErrNotArchive", err)
	}
}

func TestEntriesKeepContainerOrder(t *testing.T) {
	t.Parallel()

	data := buildZip(t, []zipEntry{
		{name: "b.trace", data: []byte("b")},
		{name: "a.trace", data: []byte("a")},
		{name: "resources/deadbeef", data: []byte{0x01}},
	})

	r, err := Open(data)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	want := []string{"b.trace", "a.trace", "resources/deadbeef"}
	got := r.Entries()
	if len(got) != len(want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Entries()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
}

func TestReadTextAndBytes(t *testing.T) {
	t.Parallel()

	data := buildZip(t, []zipEntry{
		{name: "0.trace", data: []byte(`{"type":"before"}`)},
		{name: "resources/img", data: []byte{0xDE, 0xAD}},
	})

	r, err := Open(data)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	text, err := r.ReadText("0.trace")
	if err != nil {
		t.Fatalf("ReadText() error: %v", err)
	}
	if text != `{"type":"before"}` {
		t.Fatalf("ReadText() = %q", text)
	}

	raw, err := r.ReadBytes("resources/img")
	if err != nil {
		t.Fatalf("ReadBytes() error: %v", err)
	}
	if !bytes.Equal(raw, []byte{0xDE, 0xAD}) {
		t.Fatalf("ReadBytes() = %v", raw)
	}

	if !r.Has("0.trace") {
		t.Fatal("Has(0.trace) = false, want true")
	}
	if r.Has("1.trace") {
		t.Fatal("Has(1.trace) = true, want false")
	}
}

func TestReadMissingEntry(t *testing.T) {
	t.Parallel()

	r, err := Open(buildZip(t, []zipEntry{{name: "only.txt", data: []byte("x")}}))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	if _, err := r.ReadBytes("missing.txt"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("ReadBytes(missing) error = %v, want ErrEntryNotFound", err)
	}
	if _, err := r.ReadText("missing.txt"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("ReadText(missing) error = %v, want ErrEntryNotFound", err)
	}
}

func TestRepeatedReadsAndNestedReopen(t *testing.T) {
	t.Parallel()

	inner := buildZip(t, []zipEntry{{name: "0.trace", data: []byte("{}")}})
	outer := buildZip(t, []zipEntry{{name: "data/nested.zip", data: inner}})

	r, err := Open(outer)
	if err != nil {
		t.Fatalf("Open(outer) error: %v", err)
	}

	// The reader is stateless: the same entry reads identically twice.
	first, err := r.ReadBytes("data/nested.zip")
	if err != nil {
		t.Fatalf("first ReadBytes() error: %v", err)
	}
	second, err := r.ReadBytes("data/nested.zip")
	if err != nil {
		t.Fatalf("second ReadBytes() error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("repeated reads returned different bytes")
	}

	// A nested slice opens as an independent archive.
	nested, err := Open(first)
	if err != nil {
		t.Fatalf("Open(nested) error: %v", err)
	}
	if !nested.Has("0.trace") {
		t.Fatal("nested archive missing 0.trace")
	}
}
