// Package repl implements the interactive Monkey front end.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/peterh/liner"
	"github.com/sambeau/monkey/pkg/monkey/evaluator"
	perrors "github.com/sambeau/monkey/pkg/monkey/errors"
	"github.com/sambeau/monkey/pkg/monkey/lexer"
	"github.com/sambeau/monkey/pkg/monkey/monkey"
)

const PROMPT = ">> "
const CONTINUATION_PROMPT = ".. "

const MONKEY_FACE = `            __,__
   .--.  .-"     "-.  .--.
  / .. \/  .-. .-.  \/ .. \
 | |  '|  /   Y   \  |'  | |
 | \   \  \ 0 | 0 /  /   / |
  \ '- ,\.-"""""""-./, -' /
   ''-' /_   ^ ^   _\ '-''
       |  \._   _./  |
       \   \ '~' /   /
        '._ '-=-' _.'
           '-----'
`

// Config controls the REPL's appearance and the interpreter it drives.
type Config struct {
	Prompt             string
	ContinuationPrompt string
	HistoryFile        string // empty disables history
	Banner             bool
	Version            string
	Options            []monkey.Option
}

func (c Config) prompts() (string, string) {
	prompt, cont := c.Prompt, c.ContinuationPrompt
	if prompt == "" {
		prompt = PROMPT
	}
	if cont == "" {
		cont = CONTINUATION_PROMPT
	}
	return prompt, cont
}

// LineReader supplies input lines. *liner.State satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// Start runs the REPL on the terminal with line editing, history, and tab
// completion. It returns when the user exits.
func Start(out io.Writer, cfg Config) {
	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)

	session := monkey.NewSession(cfg.Options...)
	line.SetCompleter(func(input string) []string {
		return filterCompletions(input, session.Identifiers())
	})

	if cfg.HistoryFile != "" {
		if f, err := os.Open(cfg.HistoryFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(cfg.HistoryFile); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	run(line, out, session, cfg)
}

// Run drives a session from r until it is exhausted or the user exits.
func Run(r LineReader, out io.Writer, cfg Config) {
	run(r, out, monkey.NewSession(cfg.Options...), cfg)
}

func run(r LineReader, out io.Writer, session *monkey.Session, cfg Config) {
	// puts output shares the REPL's writer
	session.SetLogger(monkey.WriterLogger(out))

	if cfg.Banner {
		io.WriteString(out, MONKEY_FACE)
		if cfg.Version != "" {
			fmt.Fprintln(out, "Monkey", cfg.Version)
		}
		fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit, ':help' for commands")
	}

	prompt, contPrompt := cfg.prompts()
	var inputBuffer strings.Builder

	for {
		currentPrompt := prompt
		if inputBuffer.Len() > 0 {
			currentPrompt = contPrompt
		}
		input, err := r.Prompt(currentPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				// Ctrl+C - clear any buffered input and return to main prompt
				if inputBuffer.Len() > 0 {
					fmt.Fprintln(out, "^C (cleared)")
				} else {
					fmt.Fprintln(out, "^C")
				}
				inputBuffer.Reset()
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			return
		}

		trimmed := strings.TrimSpace(input)
		if inputBuffer.Len() == 0 {
			if trimmed == "exit" || trimmed == "quit" {
				return
			}
			if strings.HasPrefix(trimmed, ":") {
				handleReplCommand(trimmed, session, out)
				continue
			}
			if trimmed == "" {
				continue
			}
		}

		if inputBuffer.Len() > 0 {
			inputBuffer.WriteString("\n")
		}
		inputBuffer.WriteString(input)

		fullInput := inputBuffer.String()
		if needsMoreInput(fullInput) {
			continue
		}
		inputBuffer.Reset()
		r.AppendHistory(fullInput)

		result, err := session.Eval(fullInput)
		if err != nil {
			printError(out, err)
			continue
		}
		fmt.Fprintln(out, result.String())
	}
}

// handleReplCommand handles REPL meta-commands that start with ':'
func handleReplCommand(cmd string, session *monkey.Session, out io.Writer) {
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(out, "REPL Commands:")
		fmt.Fprintln(out, "  :help, :h, :?   Show this help")
		fmt.Fprintln(out, "  :env            Show variables in scope")
		fmt.Fprintln(out, "  :clear          Clear all variables")
		fmt.Fprintln(out, "  exit, quit      Exit the REPL")

	case ":env":
		printEnvironment(session, out)

	case ":clear":
		session.Reset()
		session.SetLogger(monkey.WriterLogger(out))
		fmt.Fprintln(out, "Environment cleared")

	default:
		fmt.Fprintf(out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

// printEnvironment lists the bound names with their types and values
func printEnvironment(session *monkey.Session, out io.Writer) {
	names := session.Identifiers()
	if len(names) == 0 {
		fmt.Fprintln(out, "(no variables)")
		return
	}

	for _, name := range names {
		obj, _ := session.Get(name)
		value := obj.Inspect()

		// For multi-line values, indent continuation lines by 2 spaces
		if strings.Contains(value, "\n") {
			value = strings.ReplaceAll(value, "\n", "\n  ")
		} else {
			value = truncate(value, 60)
		}

		fmt.Fprintf(out, "  %s: %s = %s\n", name, obj.Type(), value)
	}
}

// truncate shortens s to at most limit runes, ending in "...".
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}

func printError(out io.Writer, err error) {
	var merr *perrors.MonkeyError
	if errors.As(err, &merr) {
		io.WriteString(out, merr.PrettyString())
		io.WriteString(out, "\n")
		return
	}
	fmt.Fprintf(out, "Error: %v\n", err)
}

// completionWords returns keywords, builtins and the given names, sorted
// and without duplicates.
func completionWords(names []string) []string {
	words := append(lexer.Keywords(), evaluator.BuiltinNames()...)
	words = append(words, names...)
	slices.Sort(words)
	return slices.Compact(words)
}

// filterCompletions completes the last word of line. Each candidate is the
// whole line with that word replaced.
func filterCompletions(line string, names []string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	start := len(line)
	for start > 0 && isWordByte(line[start-1]) {
		start--
	}
	head, lastWord := line[:start], line[start:]
	if lastWord == "" {
		return nil
	}

	var matches []string
	for _, word := range completionWords(names) {
		if strings.HasPrefix(word, lastWord) && word != lastWord {
			matches = append(matches, head+word)
		}
	}
	return matches
}

func isWordByte(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ('0' <= ch && ch <= '9')
}

// needsMoreInput checks if the input has unclosed braces, brackets,
// parentheses or an unterminated string.
func needsMoreInput(input string) bool {
	depth := 0
	inString := false

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		}
	}

	return inString || depth > 0
}

// ScannerReader adapts a plain reader for non-interactive input.
type ScannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewScannerReader reads lines from in, echoing prompts to out when out is
// not nil.
func NewScannerReader(in io.Reader, out io.Writer) *ScannerReader {
	return &ScannerReader{scanner: bufio.NewScanner(in), out: out}
}

func (s *ScannerReader) Prompt(prompt string) (string, error) {
	if s.out != nil {
		io.WriteString(s.out, prompt)
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *ScannerReader) AppendHistory(string) {}
