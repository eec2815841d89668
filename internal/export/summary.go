// Package export formats a loaded trace model for consumers outside
// the core: a markdown report and aggregate summaries. Everything here
// reads the model; nothing mutates it.
package export

import "github.com/traceloupe/traceloupe/internal/trace"

// ContextSummary aggregates one context's outcome counts.
type ContextSummary struct {
	Actions         int
	FailedActions   int
	PendingActions  int
	Pages           int
	Frames          int
	Errors          int
	DurationSeconds float64
}

// Summarize computes the aggregate counts for one context.
func Summarize(ctx *trace.Context) ContextSummary {
	s := ContextSummary{
		Actions: len(ctx.Actions),
		Pages:   len(ctx.Pages),
		Errors:  len(ctx.Errors),
	}
	for _, action := range ctx.Actions {
		if action.Failed() {
			s.FailedActions++
		}
		if !action.Completed() {
			s.PendingActions++
		}
	}
	for _, page := range ctx.Pages {
		s.Frames += len(page.ScreencastFrames)
	}
	if ctx.EndTime > ctx.StartTime {
		s.DurationSeconds = (ctx.EndTime - ctx.StartTime) / 1000.0
	}
	return s
}

// ModelSummary aggregates counts across all contexts of a model.
type ModelSummary struct {
	Contexts      int
	Actions       int
	FailedActions int
	Pages         int
	Frames        int
}

// SummarizeModel computes model-wide aggregate counts.
func SummarizeModel(model *trace.Model) ModelSummary {
	s := ModelSummary{Contexts: len(model.Contexts)}
	for _, ctx := range model.Contexts {
		cs := Summarize(ctx)
		s.Actions += cs.Actions
		s.FailedActions += cs.FailedActions
		s.Pages += cs.Pages
		s.Frames += cs.Frames
	}
	return s
}
