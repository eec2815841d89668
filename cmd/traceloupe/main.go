// Command traceloupe inspects browser-automation trace archives and
// test-case bundles from the command line: load an archive, print a
// summary, or export a markdown report. The loading core never touches
// the filesystem; this command reads the bytes and hands them over.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/traceloupe/traceloupe/internal/config"
	"github.com/traceloupe/traceloupe/internal/trace"
	"github.com/traceloupe/traceloupe/internal/version"
)

const defaultConfigPath = "traceloupe.yaml"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "version", "--version", "-v":
		fmt.Println(version.String())
		return 0
	case "inspect":
		return runInspect(args[1:], os.Stdout, os.Stderr)
	case "export":
		return runExport(args[1:], os.Stdout, os.Stderr)
	case "testcases":
		return runTestCases(args[1:], os.Stdout, os.Stderr)
	case "help", "--help", "-h":
		printUsage(os.Stdout)
		return 0
	default:
		printUsage(os.Stderr)
		return 2
	}
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "usage: traceloupe <command> [flags] <archive.zip>")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "commands:")
	fmt.Fprintln(out, "  inspect    load an archive and print a summary")
	fmt.Fprintln(out, "  export     render a trace archive as markdown")
	fmt.Fprintln(out, "  testcases  list the test cases in a bundle")
	fmt.Fprintln(out, "  version    print version information")
}

func loadValidatedConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config, out io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(cfg.Log.Level)) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(strings.TrimSpace(cfg.Log.Format)) == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

func logWarnings(logger *slog.Logger, warnings []trace.Warning) {
	for _, warning := range warnings {
		logger.Warn("recovered during load",
			"stage", warning.Stage,
			"line", warning.Line,
			"detail", warning.Message,
		)
	}
}
