package evaluator

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
)

// DefaultMaxCallDepth bounds nested function calls before evaluation fails
// with STATE-0002 instead of exhausting the Go stack.
const DefaultMaxCallDepth = 10000

// Logger receives program output from puts.
type Logger interface {
	Log(values ...any)
	LogLine(values ...any)
}

// writerLogger serializes puts output onto one writer, so scopes evaluated
// from different goroutines never interleave within a line.
type writerLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterLogger returns a Logger writing space-separated values to w.
func NewWriterLogger(w io.Writer) Logger {
	return &writerLogger{w: w}
}

func (l *writerLogger) Log(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.w, FormatValues(values))
}

func (l *writerLogger) LogLine(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.w, FormatValues(values)+"\n")
}

// FormatValues joins values with single spaces, as puts prints them.
func FormatValues(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}

// DefaultLogger writes to stdout.
var DefaultLogger = NewWriterLogger(os.Stdout)

// callTracker counts active function calls. One tracker is shared by a root
// environment and every scope created beneath it.
type callTracker struct {
	depth int
	limit int
}

// Environment is one scope in the chain of name bindings.
type Environment struct {
	store    map[string]Object
	outer    *Environment
	calls    *callTracker
	Filename string // reported in error positions
	Logger   Logger // output for puts
}

// NewEnvironment creates a root environment
func NewEnvironment() *Environment {
	return &Environment{
		store:  make(map[string]Object),
		calls:  &callTracker{limit: DefaultMaxCallDepth},
		Logger: DefaultLogger,
	}
}

// NewEnclosedEnvironment creates a child scope of outer. The child shares
// outer's logger, filename and call depth accounting.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	if outer != nil {
		env.calls = outer.calls
		env.Filename = outer.Filename
		env.Logger = outer.Logger
	}
	return env
}

// SetMaxCallDepth changes the call depth limit for this environment and all
// scopes sharing its accounting. Values below 1 are ignored.
func (e *Environment) SetMaxCallDepth(n int) {
	if n > 0 {
		e.calls.limit = n
	}
}

// MaxCallDepth returns the current call depth limit.
func (e *Environment) MaxCallDepth() int {
	return e.calls.limit
}

// Get looks name up in this scope and then in each enclosing scope.
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.outer {
		if obj, ok := env.store[name]; ok {
			return obj, true
		}
	}
	return nil, false
}

// Set binds name in this scope, shadowing any outer binding.
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val
	return val
}

// Assign overwrites an existing binding in whichever scope owns it. It
// reports false, and changes nothing, when name is bound nowhere in the chain.
func (e *Environment) Assign(name string, val Object) bool {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.store[name]; ok {
			env.store[name] = val
			return true
		}
	}
	return false
}

// Identifiers returns every name bound in this scope or an enclosing one,
// sorted and without duplicates.
func (e *Environment) Identifiers() []string {
	seen := make(map[string]bool)
	for env := e; env != nil; env = env.outer {
		for name := range env.store {
			seen[name] = true
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// enterCall records a function call, returning false when the limit would be
// exceeded.
func (e *Environment) enterCall() bool {
	if e.calls.depth >= e.calls.limit {
		return false
	}
	e.calls.depth++
	return true
}

func (e *Environment) exitCall() {
	e.calls.depth--
}
