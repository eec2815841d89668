package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/traceloupe/traceloupe/internal/export"
	"github.com/traceloupe/traceloupe/internal/loader"
)

func runExport(args []string, out io.Writer, errOut io.Writer) int {
	flagSet := flag.NewFlagSet("export", flag.ContinueOnError)
	flagSet.SetOutput(errOut)
	configPath := flagSet.String("config", defaultConfigPath, "Path to config file")
	errorsOnly := flagSet.Bool("errors-only", false, "Only export actions that failed")
	outputPath := flagSet.String("o", "", "Write the report to a file instead of stdout")
	if err := flagSet.Parse(args); err != nil {
		return 2
	}
	if flagSet.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: traceloupe export [flags] <archive.zip>")
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

	model, warnings, err := loader.LoadTraceWithOptions(data, loader.Options{MaxDepth: cfg.Archive.MaxDepth})
	if err != nil {
		logger.Error("load failed",
			"archive", archivePath,
			"class", loader.ClassifyLoadError(err),
			"error", err,
		)
		fmt.Fprintf(errOut, "failed to load %s: %v\n", archivePath, err)
		return 1
	}
	logWarnings(logger, warnings)

	opts := export.Options{ErrorsOnly: cfg.Export.ErrorsOnly || *errorsOnly}
	markdown := export.Markdown(model, opts)

	if *outputPath != "" {
		if err := os.WriteFile(*outputPath, []byte(markdown), 0o644); err != nil {
			fmt.Fprintf(errOut, "failed to write %s: %v\n", *outputPath, err)
			return 1
		}
		logger.Info("report written", "path", *outputPath, "bytes", len(markdown))
		return 0
	}

	fmt.Fprint(out, markdown)
	return 0
}
