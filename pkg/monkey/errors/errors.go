// Package errors provides the structured error type shared by the Monkey
// parser and evaluator.
//
// Every failure the interpreter can report is a *MonkeyError carrying a class,
// a stable code from ErrorCatalog, a rendered message, optional hints and the
// source position it was raised at. Hosts can switch on Class or Code instead
// of matching message text.
package errors

import (
	"fmt"
	"slices"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and display.
type ErrorClass string

const (
	ClassParse     ErrorClass = "parse"     // Syntax errors
	ClassType      ErrorClass = "type"      // Operand or argument of the wrong type
	ClassArity     ErrorClass = "arity"     // Wrong argument count to a builtin
	ClassUndefined ErrorClass = "undefined" // Unbound names
	ClassIndex     ErrorClass = "index"     // Out of bounds
	ClassOperator  ErrorClass = "operator"  // Invalid arithmetic
	ClassCall      ErrorClass = "call"      // Calling something that is not a function
	ClassLoop      ErrorClass = "loop"      // forEach misuse
	ClassState     ErrorClass = "state"     // Structural limits
)

// MonkeyError represents any error from parsing or evaluation.
type MonkeyError struct {
	Class   ErrorClass
	Code    string
	Message string
	Hints   []string
	Line    int // 1-based, 0 if unknown
	Column  int // 1-based, 0 if unknown
	File    string
	Data    map[string]any
}

// Error implements the error interface.
func (e *MonkeyError) Error() string {
	return e.String()
}

// String returns "file: line L, column C: message" followed by indented hints.
func (e *MonkeyError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, "line %d, column %d: ", e.Line, e.Column)
	}
	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line rendering for terminals.
func (e *MonkeyError) PrettyString() string {
	var sb strings.Builder

	if e.IsParseError() {
		sb.WriteString("Parse error")
	} else {
		sb.WriteString("Runtime error")
	}

	switch {
	case e.File != "":
		sb.WriteString(":\n  in: ")
		sb.WriteString(e.File)
		if e.Line > 0 {
			fmt.Fprintf(&sb, "\n  at: line %d, column %d", e.Line, e.Column)
		}
		sb.WriteString("\n  ")
	case e.Line > 0:
		fmt.Fprintf(&sb, ": line %d, column %d\n  ", e.Line, e.Column)
	default:
		sb.WriteString(":\n  ")
	}

	sb.WriteString(e.Message)

	for i, hint := range e.Hints {
		if i == 0 {
			sb.WriteString("\n  Use: ")
		} else {
			sb.WriteString("\n   or: ")
		}
		sb.WriteString(hint)
	}

	return sb.String()
}

// WithFile returns a copy of the error with the file path set.
func (e *MonkeyError) WithFile(file string) *MonkeyError {
	c := *e
	c.File = file
	return &c
}

// IsParseError reports whether parsing failed.
func (e *MonkeyError) IsParseError() bool {
	return e.Class == ClassParse
}

// IsRuntimeError reports whether evaluation failed.
func (e *MonkeyError) IsRuntimeError() bool {
	return e.Class != ClassParse
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass
	Template string   // text/template over the error's Data
	Hints    []string // hint templates, dropped when they render empty
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// Parse errors
	"PARSE-0001": {
		Class:    ClassParse,
		Template: "expected {{.Expected}}, got '{{.Got}}'",
	},
	"PARSE-0002": {
		Class:    ClassParse,
		Template: "unexpected '{{.Token}}'",
	},
	"PARSE-0003": {
		Class:    ClassParse,
		Template: "could not parse {{printf \"%q\" .Literal}} as integer",
		Hints:    []string{"integers must fit in 64 bits"},
	},
	"PARSE-0004": {
		Class:    ClassParse,
		Template: "cannot call {{.Expr}}",
		Hints:    []string{"only names, function literals, calls and index expressions can be called"},
	},
	"PARSE-0005": {
		Class:    ClassParse,
		Template: "code nested too deeply (limit {{.Limit}})",
	},

	// Undefined names
	"UNDEF-0001": {
		Class:    ClassUndefined,
		Template: "identifier not found: {{.Name}}",
	},
	"UNDEF-0002": {
		Class:    ClassUndefined,
		Template: "cannot reassign undefined variable: {{.Name}}",
		Hints:    []string{"let {{.Name}} = ..."},
	},

	// Type errors
	"TYPE-0001": {
		Class:    ClassType,
		Template: "unknown operator: {{.Operator}}{{.Right}}",
	},
	"TYPE-0002": {
		Class:    ClassType,
		Template: "{{if .Mismatch}}type mismatch{{else}}unknown operator{{end}}: {{.Left}} {{.Operator}} {{.Right}}",
	},
	"TYPE-0003": {
		Class:    ClassType,
		Template: "argument to `{{.Function}}` must be {{.Expected}}, got {{.Got}}",
	},
	"TYPE-0004": {
		Class:    ClassType,
		Template: "unusable as object key: {{.Got}}",
		Hints:    []string{"object keys must be strings, integers or booleans"},
	},

	// Arity errors
	"ARITY-0001": {
		Class:    ClassArity,
		Template: "wrong number of arguments to `{{.Function}}`. got={{.Got}}, want={{.Want}}",
	},

	// Call errors
	"CALL-0001": {
		Class:    ClassCall,
		Template: "not a function: {{.Got}}",
	},

	// Index errors
	"INDEX-0001": {
		Class:    ClassIndex,
		Template: "index {{.Index}} out of range (length {{.Length}})",
	},
	"INDEX-0002": {
		Class:    ClassIndex,
		Template: "index operator not supported: {{.Left}}[{{.Right}}]",
		Hints:    []string{"arrays are indexed with integers, objects with strings, integers or booleans"},
	},

	// Loop errors
	"LOOP-0001": {
		Class:    ClassLoop,
		Template: "forEach expects an array, got {{.Got}}",
	},

	// Operator errors
	"OP-0001": {
		Class:    ClassOperator,
		Template: "division by zero",
	},

	// State errors
	"STATE-0001": {
		Class:    ClassState,
		Template: "empty block",
		Hints:    []string{"a block must contain at least one statement"},
	},
	"STATE-0002": {
		Class:    ClassState,
		Template: "maximum call depth exceeded ({{.Limit}})",
	},
}

// New creates a MonkeyError from the catalog. An unknown code yields a
// generic error whose message is data["message"] or the code itself.
func New(code string, data map[string]any) *MonkeyError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if m, ok := data["message"].(string); ok {
			msg = m
		}
		return &MonkeyError{Class: ClassType, Code: code, Message: msg, Data: data}
	}

	var hints []string
	for _, h := range def.Hints {
		if rendered := renderTemplate(h, data); rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &MonkeyError{
		Class:   def.Class,
		Code:    code,
		Message: renderTemplate(def.Template, data),
		Hints:   hints,
		Data:    data,
	}
}

// NewWithPosition creates a catalog error at the given position.
func NewWithPosition(code string, line, column int, data map[string]any) *MonkeyError {
	err := New(code, data)
	err.Line = line
	err.Column = column
	return err
}

func renderTemplate(tmplStr string, data map[string]any) string {
	tmpl, err := template.New("").Option("missingkey=zero").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return tmplStr
	}
	return strings.ReplaceAll(sb.String(), "<no value>", "")
}

// levenshteinDistance computes the edit distance between two strings,
// comparing runes and keeping only two rows of the matrix.
func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// suggestionThreshold is the largest edit distance still worth suggesting.
func suggestionThreshold(input string) int {
	switch n := len([]rune(input)); {
	case n >= 7:
		return 3
	case n >= 4:
		return 2
	default:
		return 1
	}
}

// FindClosestMatch returns the candidate nearest to input, or "" when nothing
// is close enough. Exact matches are never suggested. Comparison ignores case.
func FindClosestMatch(input string, candidates []string) string {
	matches := FindTopMatches(input, candidates, 1)
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// FindTopMatches returns up to n candidates within the suggestion threshold,
// nearest first. Ties keep candidate order.
func FindTopMatches(input string, candidates []string, n int) []string {
	if input == "" || len(candidates) == 0 || n <= 0 {
		return nil
	}

	type match struct {
		value    string
		distance int
	}

	threshold := suggestionThreshold(input)
	lower := strings.ToLower(input)

	var matches []match
	for _, c := range candidates {
		d := levenshteinDistance(lower, strings.ToLower(c))
		if d > 0 && d <= threshold {
			matches = append(matches, match{c, d})
		}
	}

	slices.SortStableFunc(matches, func(a, b match) int { return a.distance - b.distance })

	var result []string
	for i := 0; i < len(matches) && i < n; i++ {
		result = append(result, matches[i].value)
	}
	return result
}

// NewUndefinedIdentifier creates an "identifier not found" error with a
// "did you mean" hint when a visible name is close.
func NewUndefinedIdentifier(name string, available []string) *MonkeyError {
	err := New("UNDEF-0001", map[string]any{"Name": name})
	if suggestion := FindClosestMatch(name, available); suggestion != "" {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}
	return err
}
