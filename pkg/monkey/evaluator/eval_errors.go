// eval_errors.go - Error creation helpers for the evaluator
//
// Every helper renders its message through the error catalog so evaluation
// errors carry the same class, code and hints as the Go errors hosts see.

package evaluator

import (
	perrors "github.com/sambeau/monkey/pkg/monkey/errors"
	"github.com/sambeau/monkey/pkg/monkey/lexer"
)

// newStructuredError creates a catalog error without a position. Builtins use
// it; the call site adds the position afterwards.
func newStructuredError(code string, data map[string]any) *Error {
	perr := perrors.New(code, data)
	return &Error{
		Class:   perr.Class,
		Code:    perr.Code,
		Message: perr.Message,
		Hints:   perr.Hints,
		Data:    perr.Data,
	}
}

// newErrorAt creates a catalog error positioned at tok.
func newErrorAt(code string, tok lexer.Token, env *Environment, data map[string]any) *Error {
	err := newStructuredError(code, data)
	return positionError(err, tok, env)
}

// positionError fills in a missing position and file.
func positionError(err *Error, tok lexer.Token, env *Environment) *Error {
	if err.Line == 0 {
		err.Line = tok.Line
		err.Column = tok.Column
	}
	if err.File == "" && env != nil {
		err.File = env.Filename
	}
	return err
}

func newArityError(function string, got, want int) *Error {
	return newStructuredError("ARITY-0001", map[string]any{
		"Function": function,
		"Got":      got,
		"Want":     want,
	})
}

func newArgumentTypeError(function, expected string, got Object) *Error {
	return newStructuredError("TYPE-0003", map[string]any{
		"Function": function,
		"Expected": expected,
		"Got":      string(got.Type()),
	})
}

// newUndefinedIdentifierError suggests the nearest bound name or builtin.
func newUndefinedIdentifierError(tok lexer.Token, name string, env *Environment) *Error {
	candidates := append(env.Identifiers(), BuiltinNames()...)
	perr := perrors.NewUndefinedIdentifier(name, candidates)
	return positionError(&Error{
		Class:   perr.Class,
		Code:    perr.Code,
		Message: perr.Message,
		Hints:   perr.Hints,
		Data:    perr.Data,
	}, tok, env)
}
