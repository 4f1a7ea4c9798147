package monkey

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sambeau/monkey/pkg/monkey/evaluator"
)

// Logger receives everything a program prints with puts.
type Logger = evaluator.Logger

// StdoutLogger prints to standard output. It is the default for Eval and
// NewSession.
func StdoutLogger() Logger {
	return evaluator.DefaultLogger
}

// WriterLogger prints to w. Concurrent sessions sharing one WriterLogger
// never interleave within a line.
func WriterLogger(w io.Writer) Logger {
	if w == os.Stdout {
		return evaluator.DefaultLogger
	}
	return evaluator.NewWriterLogger(w)
}

// NullLogger discards output.
func NullLogger() Logger {
	return evaluator.NewWriterLogger(io.Discard)
}

// BufferedLogger keeps a program's output in memory, for hosts that show
// it somewhere other than a terminal. It is safe for concurrent use.
type BufferedLogger struct {
	mu  sync.Mutex
	out strings.Builder
}

func NewBufferedLogger() *BufferedLogger {
	return &BufferedLogger{}
}

func (l *BufferedLogger) Log(values ...any)     { l.write(values, "") }
func (l *BufferedLogger) LogLine(values ...any) { l.write(values, "\n") }

func (l *BufferedLogger) write(values []any, end string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.WriteString(evaluator.FormatValues(values))
	l.out.WriteString(end)
}

// String is the output so far, including an unterminated last line.
func (l *BufferedLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.String()
}

// Lines returns the completed lines, without their newlines.
func (l *BufferedLogger) Lines() []string {
	s := l.String()
	end := strings.LastIndexByte(s, '\n')
	if end < 0 {
		return nil
	}
	return strings.Split(s[:end], "\n")
}

func (l *BufferedLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Reset()
}
