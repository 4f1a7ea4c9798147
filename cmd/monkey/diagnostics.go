package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	perrors "github.com/sambeau/monkey/pkg/monkey/errors"
)

const (
	ansiBoldRed = "\x1b[1;31m"
	ansiCyan    = "\x1b[36m"
	ansiReset   = "\x1b[0m"
)

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// reporter writes diagnostics, coloured only on terminals.
type reporter struct {
	w     io.Writer
	color bool
}

func newReporter(w io.Writer, allowColor bool) *reporter {
	return &reporter{w: w, color: allowColor && isTerminal(w)}
}

func (r *reporter) paint(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + ansiReset
}

// report prints err followed by the offending source line and a caret.
func (r *reporter) report(err error, source string) {
	var merr *perrors.MonkeyError
	if !errors.As(err, &merr) {
		r.errorf("%v", err)
		return
	}

	header, rest, found := strings.Cut(merr.PrettyString(), "\n")
	fmt.Fprint(r.w, r.paint(ansiBoldRed, header))
	if found {
		fmt.Fprint(r.w, "\n"+rest)
	}
	fmt.Fprintln(r.w)

	r.printSourceContext(source, merr.Line, merr.Column)
}

func (r *reporter) errorf(format string, args ...any) {
	fmt.Fprintf(r.w, r.paint(ansiBoldRed, "Error:")+" "+format+"\n", args...)
}

// printSourceContext prints the source line and error pointer
func (r *reporter) printSourceContext(source string, lineNum, colNum int) {
	lines := strings.Split(source, "\n")
	if lineNum <= 0 || lineNum > len(lines) {
		return
	}

	sourceLine := strings.TrimRight(lines[lineNum-1], "\r")

	// Columns are counted in bytes; tabs display as 8 columns
	trimCount := 0
	for i := 0; i < len(sourceLine); i++ {
		if sourceLine[i] == '\t' {
			trimCount += 8
		} else if sourceLine[i] == ' ' {
			trimCount++
		} else {
			break
		}
	}

	fmt.Fprintf(r.w, "    %s\n", strings.TrimLeft(sourceLine, " \t"))

	if colNum > 0 {
		visualCol := 0
		for i := 0; i < colNum-1 && i < len(sourceLine); i++ {
			if sourceLine[i] == '\t' {
				visualCol += 8
			} else {
				visualCol++
			}
		}

		adjustedCol := max(visualCol-trimCount, 0)
		pointer := strings.Repeat(" ", adjustedCol) + r.paint(ansiCyan, "^")
		fmt.Fprintf(r.w, "    %s\n", pointer)
	}
}
