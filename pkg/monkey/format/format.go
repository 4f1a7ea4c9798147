package format

import (
	"github.com/sambeau/monkey/pkg/monkey/lexer"
	"github.com/sambeau/monkey/pkg/monkey/parser"
)

// Source parses src and returns it in canonical layout with a trailing
// newline. A program that fails to parse is returned unchanged together
// with the parse error.
func Source(src string, opts ...parser.Option) (string, error) {
	program, err := parser.New(lexer.New(src), opts...).ParseProgram()
	if err != nil {
		return src, err
	}
	out := FormatProgram(program)
	if out == "" {
		return "", nil
	}
	return out + "\n", nil
}
