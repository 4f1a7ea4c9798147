package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sambeau/monkey/pkg/monkey/format"
	"github.com/sambeau/monkey/pkg/monkey/monkey"
)

const fmtUsage = `monkey fmt - format Monkey source files

Usage:
  monkey fmt [options] <file>...

Options:
  -w    Write result to source file instead of stdout
  -d    Display diffs instead of rewriting files
  -l    List files whose formatting differs from monkey fmt's

Examples:
  monkey fmt script.mk           Print formatted output to stdout
  monkey fmt -w script.mk        Format file in place
  monkey fmt -l *.mk             List files that need formatting
  monkey fmt -d script.mk        Show what would change
`

// runFmt handles the 'monkey fmt' subcommand
func runFmt(args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	fmtFlags := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fmtFlags.SetOutput(io.Discard)
	writeFlag := fmtFlags.Bool("w", false, "Write result to source file instead of stdout")
	diffFlag := fmtFlags.Bool("d", false, "Display diffs instead of rewriting files")
	listFlag := fmtFlags.Bool("l", false, "List files whose formatting differs from monkey fmt's")

	if err := fmtFlags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			io.WriteString(stdout, fmtUsage)
			return nil
		}
		io.WriteString(stderr, fmtUsage)
		return err
	}

	files := fmtFlags.Args()
	if len(files) == 0 {
		fmt.Fprintln(stderr, "Error: no files specified")
		io.WriteString(stderr, fmtUsage)
		return exitError{2}
	}

	diag := newReporter(stderr, getenv("NO_COLOR") == "")
	failed := false
	for _, filename := range files {
		if err := formatFile(filename, *writeFlag, *diffFlag, *listFlag, stdout, diag); err != nil {
			diag.errorf("formatting %s: %v", filename, err)
			failed = true
		}
	}
	if failed {
		return exitError{1}
	}
	return nil
}

// formatFile formats a single Monkey file
func formatFile(filename string, write, diff, list bool, stdout io.Writer, diag *reporter) error {
	source, err := monkey.ReadSource(filename)
	if err != nil {
		return err
	}

	formatted, err := format.Source(source)
	if err != nil {
		diag.report(err, source)
		return errors.New("parse errors")
	}

	changed := formatted != source

	switch {
	case list:
		if changed {
			fmt.Fprintln(stdout, filename)
		}
	case diff:
		if changed {
			showDiff(stdout, filename, source, formatted)
		}
	case write:
		if changed {
			if err := os.WriteFile(filename, []byte(formatted), 0644); err != nil {
				return fmt.Errorf("writing file: %w", err)
			}
		}
	default:
		io.WriteString(stdout, formatted)
	}
	return nil
}

// showDiff displays a simple line-by-line diff between original and formatted content
func showDiff(w io.Writer, filename, original, formatted string) {
	fmt.Fprintf(w, "diff %s\n", filename)

	origLines := strings.Split(original, "\n")
	fmtLines := strings.Split(formatted, "\n")

	for i := range max(len(fmtLines), len(origLines)) {
		origLine := ""
		fmtLine := ""
		if i < len(origLines) {
			origLine = origLines[i]
		}
		if i < len(fmtLines) {
			fmtLine = fmtLines[i]
		}

		if origLine != fmtLine {
			if origLine != "" {
				fmt.Fprintf(w, "-%d: %s\n", i+1, origLine)
			}
			if fmtLine != "" {
				fmt.Fprintf(w, "+%d: %s\n", i+1, fmtLine)
			}
		}
	}
}
