// Package archive provides read-only access to in-memory ZIP containers.
//
// A Reader is a thin, stateless view over a byte buffer: entries can be
// read any number of times, and a nested archive extracted from one
// Reader can be opened as an independent Reader over its own slice.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrNotArchive reports that a byte buffer is not a well-formed ZIP
// container.
var ErrNotArchive = errors.New("not a zip archive")

// ErrEntryNotFound reports that a named entry does not exist in the
// archive.
var ErrEntryNotFound = errors.New("entry not found in archive")

// Reader exposes the entries of an in-memory ZIP container.
type Reader struct {
	entries []string
	byName  map[string]*zip.File
}

// Open parses data as a ZIP container. It fails with ErrNotArchive when
// the buffer cannot be parsed.
func Open(data []byte) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotArchive, err)
	}

	r := &Reader{
		entries: make([]string, 0, len(zr.File)),
		byName:  make(map[string]*zip.File, len(zr.File)),
	}
	for _, file := range zr.File {
		r.entries = append(r.entries, file.Name)
		// First entry wins on duplicate names, mirroring by-name lookup
		// order in the container.
		if _, ok := r.byName[file.Name]; !ok {
			r.byName[file.Name] = file
		}
	}
	return r, nil
}

// Entries returns all entry names, including directory markers, in
// container order.
func (r *Reader) Entries() []string {
	out := make([]string, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of entries in the archive.
func (r *Reader) Len() int {
	return len(r.entries)
}

// Has reports whether a named entry exists.
func (r *Reader) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// ReadBytes returns the decompressed content of a named entry.
func (r *Reader) ReadBytes(name string) ([]byte, error) {
	file, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEntryNotFound, name)
	}
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %q: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read entry %q: %w", name, err)
	}
	return data, nil
}

// ReadText returns the content of a named entry as a string.
func (r *Reader) ReadText(name string) (string, error) {
	data, err := r.ReadBytes(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
