// Package testcase loads archives organized as one folder per test
// case, each folder holding mixed artifacts: a markdown failure report,
// screenshots, a video recording, and a nested trace archive.
package testcase

import (
	"encoding/base64"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/traceloupe/traceloupe/internal/archive"
	"github.com/traceloupe/traceloupe/internal/pathutil"
	"github.com/traceloupe/traceloupe/internal/trace"
)

// Status is the derived outcome of a test case.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusPending Status = "pending"
)

// Collection is the result of loading a test-case bundle. Test cases
// are ordered by identifier; the bundle layout carries no ordering of
// its own.
type Collection struct {
	TestCases []TestCase `json:"testCases"`
}

// TestCase is one folder's worth of captured artifacts.
type TestCase struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Status       Status       `json:"status"`
	Markdown     string       `json:"markdown,omitempty"`
	Screenshots  []Attachment `json:"screenshots,omitempty"`
	Video        *Attachment  `json:"video,omitempty"`
	Trace        *Attachment  `json:"trace,omitempty"`
	DurationMS   *float64     `json:"durationMs,omitempty"`
	ErrorMessage string       `json:"errorMessage,omitempty"`
}

// Attachment is a self-contained artifact payload encoded as a base64
// data URL so the rendering layer needs no further file access.
type Attachment struct {
	Name      string `json:"name"`
	MIMEType  string `json:"mimeType"`
	DataURL   string `json:"dataUrl"`
	SizeBytes int    `json:"sizeBytes"`
}

var titleCaser = cases.Title(language.Und)

// Load opens data as a ZIP container and loads it as a test-case
// bundle. An archive with zero usable folders yields an empty
// collection, not an error.
func Load(data []byte) (*Collection, []trace.Warning, error) {
	ar, err := archive.Open(data)
	if err != nil {
		return nil, nil, err
	}
	return LoadArchive(ar)
}

// LoadArchive loads an already-opened archive as a test-case bundle. A
// failure reading any file inside a folder drops only that folder's
// test case; other folders still load.
func LoadArchive(ar *archive.Reader) (*Collection, []trace.Warning, error) {
	folders := groupByFolder(ar.Entries())

	names := make([]string, 0, len(folders))
	for name := range folders {
		names = append(names, name)
	}
	sort.Strings(names)

	collection := &Collection{TestCases: []TestCase{}}
	var warnings []trace.Warning

	for _, folder := range names {
		tc, err := buildTestCase(ar, folder, folders[folder])
		if err != nil {
			warnings = append(warnings, trace.Warning{
				Stage:   "testcase",
				Message: "skipping folder " + folder + ": " + err.Error(),
			})
			continue
		}
		collection.TestCases = append(collection.TestCases, tc)
	}

	return collection, warnings, nil
}

// groupByFolder maps each usable entry to its top-level path segment.
// Directory markers, __MACOSX metadata, and dot-prefixed files are
// ignored.
func groupByFolder(entries []string) map[string][]string {
	folders := make(map[string][]string)
	for _, name := range entries {
		if pathutil.IsDir(name) || pathutil.IsIgnored(name) {
			continue
		}
		segment, ok := pathutil.TopSegment(name)
		if !ok {
			continue
		}
		folders[segment] = append(folders[segment], name)
	}
	return folders
}

func buildTestCase(ar *archive.Reader, folder string, files []string) (TestCase, error) {
	tc := TestCase{
		ID:   folder,
		Name: FormatName(folder),
	}

	for _, file := range files {
		switch ext := pathutil.Ext(file); ext {
		case ".md":
			// First markdown report wins.
			if tc.Markdown != "" {
				continue
			}
			body, err := ar.ReadText(file)
			if err != nil {
				return TestCase{}, err
			}
			tc.Markdown = body
		case ".png", ".jpg", ".jpeg":
			attachment, err := loadAttachment(ar, file)
			if err != nil {
				return TestCase{}, err
			}
			tc.Screenshots = append(tc.Screenshots, attachment)
		case ".webm", ".mp4":
			attachment, err := loadAttachment(ar, file)
			if err != nil {
				return TestCase{}, err
			}
			tc.Video = &attachment
		case ".zip":
			// A nested trace archive travels as an opaque attachment;
			// it is not recursively parsed at this stage.
			if !strings.Contains(strings.ToLower(pathutil.BaseName(file)), "trace") {
				continue
			}
			attachment, err := loadAttachment(ar, file)
			if err != nil {
				return TestCase{}, err
			}
			tc.Trace = &attachment
		}
	}

	tc.Status = deriveStatus(folder, tc.Markdown)
	if tc.Status == StatusFailed {
		tc.ErrorMessage = firstNonBlankLine(tc.Markdown)
	}

	return tc, nil
}

func loadAttachment(ar *archive.Reader, name string) (Attachment, error) {
	data, err := ar.ReadBytes(name)
	if err != nil {
		return Attachment{}, err
	}

	mimeType := MIMEType(name)
	return Attachment{
		Name:      pathutil.BaseName(name),
		MIMEType:  mimeType,
		DataURL:   "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
		SizeBytes: len(data),
	}, nil
}

// deriveStatus applies the bundle status heuristic: a folder whose name
// mentions failure, or that carries a markdown report, is failed.
func deriveStatus(folder, markdown string) Status {
	lowered := strings.ToLower(folder)
	if strings.Contains(lowered, "fail") || strings.Contains(lowered, "error") || markdown != "" {
		return StatusFailed
	}
	return StatusPassed
}

// MIMEType derives a content type from a file name's extension.
func MIMEType(name string) string {
	switch pathutil.Ext(name) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webm":
		return "video/webm"
	case ".mp4":
		return "video/mp4"
	case ".zip":
		return "application/zip"
	default:
		return "application/octet-stream"
	}
}

// FormatName turns a folder name into a display name: dashes and
// underscores become spaces and each word is capitalized.
func FormatName(folder string) string {
	spaced := strings.NewReplacer("-", " ", "_", " ").Replace(folder)
	return titleCaser.String(strings.Join(strings.Fields(spaced), " "))
}

func firstNonBlankLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
