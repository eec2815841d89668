package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/traceloupe/traceloupe/internal/testcase"
)

func runTestCases(args []string, out io.Writer, errOut io.Writer) int {
	flagSet := flag.NewFlagSet("testcases", flag.ContinueOnError)
	flagSet.SetOutput(errOut)
	configPath := flagSet.String("config", defaultConfigPath, "Path to config file")
	if err := flagSet.Parse(args); err != nil {
		return 2
	}
	if flagSet.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: traceloupe testcases [flags] <bundle.zip>")
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

	collection, warnings, err := testcase.Load(data)
	if err != nil {
		fmt.Fprintf(errOut, "failed to load %s: %v\n", archivePath, err)
		return 1
	}
	logWarnings(logger, warnings)

	printTestCaseTable(out, collection)
	return 0
}

func printTestCaseTable(out io.Writer, collection *testcase.Collection) {
	headers := []string{"ID", "Name", "Status", "Shots", "Video", "Trace", "Error"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft}

	rows := make([][]string, 0, len(collection.TestCases))
	for _, tc := range collection.TestCases {
		rows = append(rows, []string{
			tc.ID,
			tc.Name,
			string(tc.Status),
			strconv.Itoa(len(tc.Screenshots)),
			yesNo(tc.Video != nil),
			yesNo(tc.Trace != nil),
			tc.ErrorMessage,
		})
	}

	fmt.Fprintln(out, renderTable(headers, rows, aligns))
	fmt.Fprintf(out, "\n%d test case(s)\n", len(collection.TestCases))
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
