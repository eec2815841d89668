package loader

import (
	"errors"
	"strings"

	"github.com/traceloupe/traceloupe/internal/archive"
)

// Sentinel errors for structural load failures. Structural failures are
// fatal for the whole load; recoverable conditions are reported as
// warnings instead.
var (
	// ErrNoRecognizedFormat reports an archive that matches none of the
	// known layouts.
	ErrNoRecognizedFormat = errors.New("archive matches no recognized trace format")

	// ErrMissingTraceEntry reports a trace archive with no .trace
	// entries.
	ErrMissingTraceEntry = errors.New("no .trace entry found in archive")

	// ErrArchiveTooDeep reports report-bundle nesting beyond the
	// configured maximum depth.
	ErrArchiveTooDeep = errors.New("nested archives exceed maximum depth")
)

// Error class constants for load failure classification.
const (
	ErrorClassArchive = "archive"
	ErrorClassFormat  = "format"
	ErrorClassMissing = "missing"
	ErrorClassDepth   = "depth"
	ErrorClassRead    = "read"
	ErrorClassUnknown = "unknown"
)

// ClassifyLoadError maps a load failure to one of the defined error
// classes so the presentation layer can pick a message without matching
// on Go error types.
func ClassifyLoadError(err error) string {
	if err == nil {
		return ErrorClassUnknown
	}

	switch {
	case errors.Is(err, archive.ErrNotArchive):
		return ErrorClassArchive
	case errors.Is(err, ErrNoRecognizedFormat):
		return ErrorClassFormat
	case errors.Is(err, ErrMissingTraceEntry), errors.Is(err, archive.ErrEntryNotFound):
		return ErrorClassMissing
	case errors.Is(err, ErrArchiveTooDeep):
		return ErrorClassDepth
	}

	// String-based fallback for wrapped decompression errors where type
	// information is lost.
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "read entry") || strings.Contains(msg, "open entry") ||
		strings.Contains(msg, "checksum") || strings.Contains(msg, "flate") {
		return ErrorClassRead
	}

	return ErrorClassUnknown
}
