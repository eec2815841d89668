package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/traceloupe/traceloupe/internal/export"
	"github.com/traceloupe/traceloupe/internal/loader"
	"github.com/traceloupe/traceloupe/internal/trace"
)

func runInspect(args []string, out io.Writer, errOut io.Writer) int {
	flagSet := flag.NewFlagSet("inspect", flag.ContinueOnError)
	flagSet.SetOutput(errOut)
	configPath := flagSet.String("config", defaultConfigPath, "Path to config file")
	if err := flagSet.Parse(args); err != nil {
		return 2
	}
	if flagSet.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: traceloupe inspect [flags] <archive.zip>")
		return 2
	}

	cfg, err := loadValidatedConfig(*configPath)
	if err != nil {
		fmt.Fprintf(errOut, "failed to load config: %v\n", err)
		return 1
	}
	logger := newLogger(cfg, errOut)

	archivePath := flagSet.Arg(0)
	data, err := os.ReadFile(archivePath)
	if err != nil {
		fmt.Fprintf(errOut, "failed to read %s: %v\n", archivePath, err)
		return 1
	}

	result, err := loader.LoadWithOptions(data, loader.Options{MaxDepth: cfg.Archive.MaxDepth})
	if err != nil {
		logger.Error("load failed",
			"archive", archivePath,
			"class", loader.ClassifyLoadError(err),
			"error", err,
		)
		fmt.Fprintf(errOut, "failed to load %s: %v\n", archivePath, err)
		return 1
	}
	logWarnings(logger, result.Warnings)

	fmt.Fprintf(out, "format: %s\n\n", result.Kind)

	switch {
	case result.Trace != nil:
		printTraceSummary(out, result.Trace)
	case result.TestCases != nil:
		printTestCaseTable(out, result.TestCases)
	}

	return 0
}

func printTraceSummary(out io.Writer, model *trace.Model) {
	headers := []string{"#", "Browser", "Title", "Actions", "Failed", "Pages", "Frames", "Duration"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}

	rows := make([][]string, 0, len(model.Contexts))
	for idx, ctx := range model.Contexts {
		summary := export.Summarize(ctx)
		rows = append(rows, []string{
			strconv.Itoa(idx + 1),
			ctx.BrowserName,
			ctx.Title,
			strconv.Itoa(summary.Actions),
			strconv.Itoa(summary.FailedActions),
			strconv.Itoa(summary.Pages),
			strconv.Itoa(summary.Frames),
			fmt.Sprintf("%.2fs", summary.DurationSeconds),
		})
	}

	fmt.Fprintln(out, renderTable(headers, rows, aligns))

	total := export.SummarizeModel(model)
	fmt.Fprintf(out, "\n%d context(s), %d action(s), %d failed\n", total.Contexts, total.Actions, total.FailedActions)
}
