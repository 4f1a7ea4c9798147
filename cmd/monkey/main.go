package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sambeau/monkey/config"
	"github.com/sambeau/monkey/pkg/monkey/monkey"
	"github.com/sambeau/monkey/pkg/monkey/repl"
)

// Version is set at compile time via -ldflags
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv)
	if err == nil {
		return
	}
	var exit exitError
	if errors.As(err, &exit) {
		os.Exit(exit.code)
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// exitError ends the process with code after diagnostics were already
// written.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) error {
	if len(args) > 0 && args[0] == "fmt" {
		return runFmt(args[1:], stdout, stderr, getenv)
	}

	flags := flag.NewFlagSet("monkey", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		showHelp    = flags.Bool("help", false, "Show help")
		showVersion = flags.Bool("version", false, "Show version")
		evalCode    = flags.String("eval", "", "Evaluate code string")
		printResult = flags.Bool("print", false, "Print the value of the last statement")
		checkOnly   = flags.Bool("check", false, "Check syntax without executing")
		watchMode   = flags.Bool("watch", false, "Re-run the script when it changes")
		configPath  = flags.String("config", "", "Path to config file")
		noColor     = flags.Bool("no-color", false, "Disable coloured diagnostics")
	)
	flags.BoolVar(showHelp, "h", false, "Alias for --help")
	flags.BoolVar(showVersion, "V", false, "Alias for --version")
	flags.StringVar(evalCode, "e", "", "Alias for --eval")
	flags.BoolVar(printResult, "p", false, "Alias for --print")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printHelp(stdout)
			return nil
		}
		printHelp(stderr)
		return err
	}

	if *showHelp {
		printHelp(stdout)
		return nil
	}
	if *showVersion {
		fmt.Fprintf(stdout, "monkey version %s\n", Version)
		return nil
	}

	cfg, err := config.Load(*configPath, getenv)
	if err != nil {
		return err
	}

	diag := newReporter(stderr, !*noColor && getenv("NO_COLOR") == "")
	opts := interpreterOptions(cfg, monkey.WriterLogger(stdout))
	files := flags.Args()

	switch {
	case *evalCode != "":
		return evalInline(*evalCode, opts, stdout, diag)

	case *checkOnly:
		if len(files) == 0 {
			fmt.Fprintln(stderr, "Error: --check requires at least one file")
			return exitError{2}
		}
		return checkFiles(files, opts, stdout, diag)

	case *watchMode:
		if len(files) != 1 {
			fmt.Fprintln(stderr, "Error: --watch requires exactly one file")
			return exitError{2}
		}
		return watchFile(ctx, files[0], cfg.Watch.Debounce, opts, *printResult, stdout, stderr, diag)

	case len(files) > 0:
		return executeFile(files[0], opts, *printResult, stdout, diag)

	default:
		replCfg := repl.Config{
			Prompt:             cfg.REPL.Prompt,
			ContinuationPrompt: cfg.REPL.ContinuationPrompt,
			HistoryFile:        cfg.REPL.HistoryFile,
			Banner:             cfg.REPL.Banner,
			Version:            Version,
			Options:            opts,
		}
		if isTerminal(stdin) && isTerminal(stdout) {
			repl.Start(stdout, replCfg)
			return nil
		}
		replCfg.Banner = false
		repl.Run(repl.NewScannerReader(stdin, nil), stdout, replCfg)
		return nil
	}
}

func interpreterOptions(cfg *config.Config, logger monkey.Logger) []monkey.Option {
	return []monkey.Option{
		monkey.WithLogger(logger),
		monkey.WithMaxCallDepth(cfg.Limits.MaxCallDepth),
		monkey.WithMaxNesting(cfg.Limits.MaxNesting),
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, `monkey - Monkey language interpreter version %s

Usage:
  monkey [options] [file]
  monkey -e "code"
  monkey --check <file>...
  monkey --watch <file>
  monkey fmt [options] <file>...

Commands:
  fmt                   Format Monkey source files

Options:
  -h, --help            Show this help message
  -V, --version         Show version information
  -e, --eval <code>     Evaluate code string and print the result
  -p, --print           Print the value of the last statement of a file
  --check               Check syntax without executing (can specify multiple files)
  --watch               Run a file and re-run it whenever it changes
  --config <path>       Use this config file instead of monkey.yaml
  --no-color            Disable coloured error output (also NO_COLOR=1)

Examples:
  monkey                      Start interactive REPL
  monkey script.mk            Execute a Monkey script
  monkey -e "1 + 2"           Evaluate inline code (outputs: 3)
  monkey --check *.mk         Check multiple files
  monkey fmt -w script.mk     Format a file in place
`, Version)
}

// evalInline evaluates code given with -e and prints its value
func evalInline(code string, opts []monkey.Option, stdout io.Writer, diag *reporter) error {
	result, err := monkey.Eval(code, append(opts, monkey.WithFilename("<eval>"))...)
	if err != nil {
		diag.report(err, code)
		return exitError{1}
	}
	fmt.Fprintln(stdout, result.String())
	return nil
}

// checkFiles checks the syntax of one or more files without executing them
func checkFiles(files []string, opts []monkey.Option, stdout io.Writer, diag *reporter) error {
	hasErrors := false

	for _, filename := range files {
		source, err := monkey.ReadSource(filename)
		if err != nil {
			diag.errorf("%v", err)
			return exitError{2}
		}

		if _, err := monkey.Check(source, append(opts, monkey.WithFilename(filename))...); err != nil {
			diag.report(err, source)
			hasErrors = true
			continue
		}
		fmt.Fprintf(stdout, "%s: ok\n", filename)
	}

	if hasErrors {
		return exitError{1}
	}
	return nil
}

// executeFile reads and executes a Monkey source file
func executeFile(filename string, opts []monkey.Option, printResult bool, stdout io.Writer, diag *reporter) error {
	source, err := monkey.ReadSource(filename)
	if err != nil {
		diag.errorf("%v", err)
		return exitError{1}
	}

	result, err := monkey.Eval(source, append(opts, monkey.WithFilename(filename))...)
	if err != nil {
		diag.report(err, source)
		return exitError{1}
	}

	if printResult {
		fmt.Fprintln(stdout, result.String())
	}
	return nil
}
