// Package monkey provides a public API for embedding the Monkey interpreter.
//
//	result, err := monkey.Eval(`let add = fn(a, b) { a + b }; add(1, 2)`)
//	if err != nil {
//		// err is a *errors.MonkeyError with code, position and hints
//	}
//	fmt.Println(result) // 3
package monkey

import (
	"errors"

	"github.com/sambeau/monkey/pkg/monkey/ast"
	"github.com/sambeau/monkey/pkg/monkey/evaluator"
	perrors "github.com/sambeau/monkey/pkg/monkey/errors"
	"github.com/sambeau/monkey/pkg/monkey/lexer"
	"github.com/sambeau/monkey/pkg/monkey/parser"
)

// Option configures evaluation
type Option func(*settings)

type settings struct {
	logger       Logger
	filename     string
	maxCallDepth int
	maxNesting   int
}

func defaultSettings() settings {
	return settings{
		logger:       evaluator.DefaultLogger,
		maxCallDepth: evaluator.DefaultMaxCallDepth,
		maxNesting:   parser.DefaultMaxNesting,
	}
}

// WithLogger sends puts output to l
func WithLogger(l Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFilename sets the file name reported in error positions
func WithFilename(name string) Option {
	return func(s *settings) {
		s.filename = name
	}
}

// WithMaxCallDepth bounds nested function calls. Non-positive values are ignored.
func WithMaxCallDepth(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxCallDepth = n
		}
	}
}

// WithMaxNesting bounds expression nesting in the parser. Non-positive values are ignored.
func WithMaxNesting(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxNesting = n
		}
	}
}

// Result holds the outcome of a successful evaluation
type Result struct {
	Value   evaluator.Object
	Program *ast.Program
}

// String renders the value the way the REPL prints it
func (r *Result) String() string {
	if r == nil || r.Value == nil {
		return "null"
	}
	return r.Value.Inspect()
}

// IsNull reports whether the program produced null
func (r *Result) IsNull() bool {
	return r == nil || r.Value == nil || r.Value == evaluator.NULL
}

// Eval parses and evaluates src in a fresh environment.
func Eval(src string, opts ...Option) (*Result, error) {
	return NewSession(opts...).Eval(src)
}

// EvalFile reads path with ReadSource and evaluates it. The path is used as
// the filename in errors unless WithFilename overrides it.
func EvalFile(path string, opts ...Option) (*Result, error) {
	src, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return Eval(src, append([]Option{WithFilename(path)}, opts...)...)
}

// Check parses src without evaluating it.
func Check(src string, opts ...Option) (*ast.Program, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return parse(src, s)
}

func parse(src string, s settings) (*ast.Program, error) {
	program, err := parser.New(lexer.New(src), parser.WithMaxNesting(s.maxNesting)).ParseProgram()
	if err != nil {
		var merr *perrors.MonkeyError
		if s.filename != "" && errors.As(err, &merr) {
			return nil, merr.WithFile(s.filename)
		}
		return nil, err
	}
	return program, nil
}

// Session evaluates successive programs against one root environment, so a
// name bound by one call is visible to the next. A Session is not safe for
// concurrent use.
type Session struct {
	settings settings
	env      *evaluator.Environment
}

// NewSession creates a session with an empty root environment
func NewSession(opts ...Option) *Session {
	s := &Session{settings: defaultSettings()}
	for _, opt := range opts {
		opt(&s.settings)
	}
	s.Reset()
	return s
}

// Eval parses and evaluates src in the session's root environment. Bindings
// made before a runtime error are kept.
func (s *Session) Eval(src string) (*Result, error) {
	program, err := parse(src, s.settings)
	if err != nil {
		return nil, err
	}
	return s.EvalProgram(program)
}

// EvalProgram evaluates an already parsed program.
func (s *Session) EvalProgram(program *ast.Program) (*Result, error) {
	obj := evaluator.Eval(program, s.env)
	if errObj, ok := obj.(*evaluator.Error); ok {
		return nil, errObj.ToMonkeyError()
	}
	return &Result{Value: obj, Program: program}, nil
}

// Set binds name in the root environment
func (s *Session) Set(name string, val evaluator.Object) {
	s.env.Set(name, val)
}

// Get looks up name in the root environment
func (s *Session) Get(name string) (evaluator.Object, bool) {
	return s.env.Get(name)
}

// Identifiers returns the bound names, sorted
func (s *Session) Identifiers() []string {
	return s.env.Identifiers()
}

// SetLogger redirects puts output for subsequent evaluations
func (s *Session) SetLogger(l Logger) {
	if l != nil {
		s.settings.logger = l
		s.env.Logger = l
	}
}

// Reset discards every binding
func (s *Session) Reset() {
	env := evaluator.NewEnvironment()
	env.Logger = s.settings.logger
	env.Filename = s.settings.filename
	env.SetMaxCallDepth(s.settings.maxCallDepth)
	s.env = env
}
