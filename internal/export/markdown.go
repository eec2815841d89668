package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/traceloupe/traceloupe/internal/trace"
)

// Options control markdown export.
type Options struct {
	// ErrorsOnly limits the action listing to actions that failed.
	ErrorsOnly bool
}

// Markdown renders a trace model as a markdown report suitable for
// pasting into an issue or feeding to a review tool.
func Markdown(model *trace.Model, opts Options) string {
	var b strings.Builder

	b.WriteString("# Playwright Trace Report\n\n")

	for idx, ctx := range model.Contexts {
		if len(model.Contexts) > 1 {
			fmt.Fprintf(&b, "## Context %d\n\n", idx+1)
		}
		writeContext(&b, ctx, opts)
		if idx < len(model.Contexts)-1 {
			b.WriteString("\n---\n\n")
		}
	}

	return b.String()
}

func writeContext(b *strings.Builder, ctx *trace.Context, opts Options) {
	b.WriteString("## Test Information\n\n")

	if ctx.Title != "" {
		fmt.Fprintf(b, "- **Title**: %s\n", ctx.Title)
	}
	fmt.Fprintf(b, "- **Browser**: %s\n", ctx.BrowserName)
	if ctx.Platform != "" {
		fmt.Fprintf(b, "- **Platform**: %s\n", ctx.Platform)
	}
	if ctx.PlaywrightVersion != "" {
		fmt.Fprintf(b, "- **Playwright Version**: %s\n", ctx.PlaywrightVersion)
	}

	started := time.UnixMilli(int64(ctx.WallTime)).UTC()
	fmt.Fprintf(b, "- **Start Time**: %s\n", started.Format("2006-01-02 15:04:05 UTC"))

	summary := Summarize(ctx)
	fmt.Fprintf(b, "- **Duration**: %.2fs\n\n", summary.DurationSeconds)

	actions := ctx.Actions
	if opts.ErrorsOnly {
		actions = failedActions(ctx.Actions)
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(b, "- **Total Actions**: %d\n", summary.Actions)
	fmt.Fprintf(b, "- **Failed Actions**: %d\n", summary.FailedActions)
	if summary.Errors > 0 {
		fmt.Fprintf(b, "- **Context Errors**: %d\n", summary.Errors)
	}

	if opts.ErrorsOnly && summary.FailedActions == 0 && summary.Errors == 0 {
		b.WriteString("\n*No errors found in this trace.*\n\n")
		return
	}

	b.WriteString("\n")

	if len(actions) > 0 {
		b.WriteString("## Actions\n\n")
		for idx, action := range actions {
			writeAction(b, action, idx+1)
		}
	}

	if len(ctx.Errors) > 0 {
		b.WriteString("## Context Errors\n\n")
		for idx, errEvent := range ctx.Errors {
			fmt.Fprintf(b, "### Error %d\n\n", idx+1)
			b.WriteString("```\n")
			b.WriteString(errEvent.Message)
			b.WriteString("\n")
			if errEvent.Stack != "" {
				b.WriteString("\nStack trace:\n")
				b.WriteString(errEvent.Stack)
				b.WriteString("\n")
			}
			b.WriteString("```\n\n")
		}
	}
}

func writeAction(b *strings.Builder, action *trace.Action, index int) {
	status := ""
	if action.Failed() {
		status = " ⚠️ FAILED"
	}
	fmt.Fprintf(b, "### %d. %s%s\n\n", index, action.DisplayName(), status)

	if duration, ok := action.Duration(); ok {
		fmt.Fprintf(b, "**Duration**: %.0fms  \n", duration)
	}
	fmt.Fprintf(b, "**Start**: %.0fms  \n", action.StartTime)
	if action.Title != "" {
		fmt.Fprintf(b, "**Action**: %s  \n", action.Title)
	}
	b.WriteString("\n")

	if len(action.Params) > 0 {
		b.WriteString("**Parameters**:\n\n")
		b.WriteString("```json\n")
		if pretty, err := json.MarshalIndent(action.Params, "", "  "); err == nil {
			b.Write(pretty)
		} else {
			fmt.Fprintf(b, "%v", action.Params)
		}
		b.WriteString("\n```\n\n")
	}

	if action.Error != nil {
		b.WriteString("**Error**:\n\n")
		b.WriteString("```\n")
		if action.Error.Message != "" {
			b.WriteString(action.Error.Message)
			b.WriteString("\n")
		}
		if action.Error.Stack != "" {
			b.WriteString("\nStack trace:\n")
			b.WriteString(action.Error.Stack)
			b.WriteString("\n")
		}
		b.WriteString("```\n\n")
	}

	if len(action.Log) > 0 {
		b.WriteString("**Logs**:\n\n")
		for _, entry := range action.Log {
			fmt.Fprintf(b, "- %.0fms: %s\n", entry.Time, entry.Message)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
}

func failedActions(actions []*trace.Action) []*trace.Action {
	var failed []*trace.Action
	for _, action := range actions {
		if action.Failed() {
			failed = append(failed, action)
		}
	}
	return failed
}
