// Package loader classifies trace archives and dispatches them to the
// reconstruction engine or the test-case bundle loader.
//
// Three archive layouts are recognized: a single trace archive
// (<ordinal>.trace entries with optional <ordinal>.network siblings), a
// report bundle (nested trace archives under data/*.zip), and a
// test-case bundle (one folder per test holding mixed artifacts).
package loader

import (
	"fmt"
	"strings"

	"github.com/traceloupe/traceloupe/internal/archive"
	"github.com/traceloupe/traceloupe/internal/pathutil"
	"github.com/traceloupe/traceloupe/internal/testcase"
	"github.com/traceloupe/traceloupe/internal/trace"
)

// Kind is the classified layout of an archive.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindSingleTrace
	KindReportBundle
	KindTestCaseBundle
)

func (k Kind) String() string {
	switch k {
	case KindSingleTrace:
		return "single-trace"
	case KindReportBundle:
		return "report-bundle"
	case KindTestCaseBundle:
		return "test-case-bundle"
	default:
		return "unrecognized"
	}
}

// DefaultMaxDepth bounds report-bundle recursion. Well-formed bundles
// nest exactly once; the guard only exists to terminate pathological
// self-referential archives.
const DefaultMaxDepth = 4

// Options tune a load.
type Options struct {
	// MaxDepth is the maximum report-bundle nesting depth. Zero means
	// DefaultMaxDepth.
	MaxDepth int
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Result is the outcome of a unified load: the classified kind plus the
// model it produced.
type Result struct {
	Kind      Kind
	Trace     *trace.Model
	TestCases *testcase.Collection
	Warnings  []trace.Warning
}

// Classify inspects an archive's entry names and decides its layout.
// Checks run in order with first match winning: nested report archives,
// then trace entries, then test-case folder grouping.
func Classify(entries []string) Kind {
	for _, name := range entries {
		if isNestedReportArchive(name) {
			return KindReportBundle
		}
	}
	for _, name := range entries {
		if strings.HasSuffix(name, ".trace") {
			return KindSingleTrace
		}
	}
	if countBundleGroups(entries) > 0 {
		return KindTestCaseBundle
	}
	return KindUnrecognized
}

// Load opens data as an archive, classifies it, and dispatches to the
// matching loader. Structural failures are returned as errors; the
// recoverable conditions described in the package loaders come back as
// warnings on the Result.
func Load(data []byte) (*Result, error) {
	return LoadWithOptions(data, Options{})
}

// LoadWithOptions is Load with explicit options.
func LoadWithOptions(data []byte, opts Options) (*Result, error) {
	ar, err := archive.Open(data)
	if err != nil {
		return nil, err
	}

	switch kind := Classify(ar.Entries()); kind {
	case KindReportBundle, KindSingleTrace:
		model, warnings, err := loadTrace(ar, opts, 0)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: kind, Trace: model, Warnings: warnings}, nil
	case KindTestCaseBundle:
		collection, warnings, err := testcase.LoadArchive(ar)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: kind, TestCases: collection, Warnings: warnings}, nil
	default:
		return nil, ErrNoRecognizedFormat
	}
}

// LoadTrace loads data as a trace archive (single trace or report
// bundle). An archive that classifies as a test-case bundle or nothing
// at all fails with ErrMissingTraceEntry / ErrNoRecognizedFormat.
func LoadTrace(data []byte) (*trace.Model, []trace.Warning, error) {
	return LoadTraceWithOptions(data, Options{})
}

// LoadTraceWithOptions is LoadTrace with explicit options.
func LoadTraceWithOptions(data []byte, opts Options) (*trace.Model, []trace.Warning, error) {
	ar, err := archive.Open(data)
	if err != nil {
		return nil, nil, err
	}
	return loadTrace(ar, opts, 0)
}

func loadTrace(ar *archive.Reader, opts Options, depth int) (*trace.Model, []trace.Warning, error) {
	switch Classify(ar.Entries()) {
	case KindReportBundle:
		return loadReportBundle(ar, opts, depth)
	case KindSingleTrace:
		return loadSingleTrace(ar)
	default:
		return nil, nil, ErrMissingTraceEntry
	}
}

// loadReportBundle recursively loads every nested archive under data/
// and concatenates the resulting contexts in entry-encounter order. A
// nested archive that fails to load fails the whole bundle; report
// bundles have no per-entry tolerance.
func loadReportBundle(ar *archive.Reader, opts Options, depth int) (*trace.Model, []trace.Warning, error) {
	if depth+1 >= opts.maxDepth() {
		return nil, nil, fmt.Errorf("%w (max %d)", ErrArchiveTooDeep, opts.maxDepth())
	}

	model := trace.NewModel()
	var warnings []trace.Warning

	for _, name := range ar.Entries() {
		if !isNestedReportArchive(name) {
			continue
		}
		nested, err := ar.ReadBytes(name)
		if err != nil {
			return nil, nil, err
		}
		nestedAr, err := archive.Open(nested)
		if err != nil {
			return nil, nil, fmt.Errorf("nested archive %q: %w", name, err)
		}
		nestedModel, nestedWarnings, err := loadTrace(nestedAr, opts, depth+1)
		if err != nil {
			return nil, nil, fmt.Errorf("nested archive %q: %w", name, err)
		}
		model.Contexts = append(model.Contexts, nestedModel.Contexts...)
		warnings = append(warnings, nestedWarnings...)
	}

	return model, warnings, nil
}

// loadSingleTrace produces one context per <ordinal>.trace entry, in
// discovery order, pairing each with its optional <ordinal>.network
// sibling.
func loadSingleTrace(ar *archive.Reader) (*trace.Model, []trace.Warning, error) {
	var ordinals []string
	for _, name := range ar.Entries() {
		if strings.HasSuffix(name, ".trace") {
			ordinals = append(ordinals, strings.TrimSuffix(name, ".trace"))
		}
	}
	if len(ordinals) == 0 {
		return nil, nil, ErrMissingTraceEntry
	}

	model := trace.NewModel()
	var warnings []trace.Warning

	for _, ordinal := range ordinals {
		traceText, err := ar.ReadText(ordinal + ".trace")
		if err != nil {
			return nil, nil, err
		}

		networkText := ""
		if networkName := ordinal + ".network"; ar.Has(networkName) {
			networkText, err = ar.ReadText(networkName)
			if err != nil {
				return nil, nil, err
			}
		}

		ctx, ctxWarnings := trace.Reconstruct(traceText, networkText)
		model.Contexts = append(model.Contexts, ctx)
		warnings = append(warnings, ctxWarnings...)
	}

	return model, warnings, nil
}

func isNestedReportArchive(name string) bool {
	return strings.HasPrefix(name, "data/") && strings.HasSuffix(name, ".zip")
}

func countBundleGroups(entries []string) int {
	groups := make(map[string]struct{})
	for _, name := range entries {
		if pathutil.IsDir(name) || pathutil.IsIgnored(name) {
			continue
		}
		if segment, ok := pathutil.TopSegment(name); ok {
			groups[segment] = struct{}{}
		}
	}
	return len(groups)
}
