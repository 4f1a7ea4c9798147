package evaluator

import (
	"strconv"
	"strings"

	"github.com/sambeau/monkey/pkg/monkey/ast"
	perrors "github.com/sambeau/monkey/pkg/monkey/errors"
)

// ObjectType represents the type of objects in our language
type ObjectType string

const (
	INTEGER_OBJ      = "INTEGER"
	BOOLEAN_OBJ      = "BOOLEAN"
	STRING_OBJ       = "STRING"
	NULL_OBJ         = "NULL"
	RETURN_VALUE_OBJ = "RETURN_VALUE"
	ERROR_OBJ        = "ERROR"
	FUNCTION_OBJ     = "FUNCTION"
	BUILTIN_OBJ      = "BUILTIN"
	ARRAY_OBJ        = "ARRAY"
	HASH_OBJ         = "HASH"
)

// Object represents all values in our language
type Object interface {
	Type() ObjectType
	Inspect() string
}

var (
	NULL  = &Null{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

// Integer represents integer values
type Integer struct {
	Value int64
}

func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) Type() ObjectType { return INTEGER_OBJ }

// Boolean represents boolean values
type Boolean struct {
	Value bool
}

func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }
func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }

// String represents string values. Inspect quotes the text.
type String struct {
	Value string
}

func (s *String) Inspect() string  { return `"` + s.Value + `"` }
func (s *String) Type() ObjectType { return STRING_OBJ }

// Null represents null values
type Null struct{}

func (n *Null) Inspect() string  { return "null" }
func (n *Null) Type() ObjectType { return NULL_OBJ }

// ReturnValue wraps the operand of a return statement while it unwinds to the
// nearest call or program boundary. It never escapes Eval.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// Error is a fatal evaluation error travelling up through Eval.
type Error struct {
	Message string
	Line    int
	Column  int
	Class   perrors.ErrorClass
	Code    string
	Hints   []string
	File    string
	Data    map[string]any
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	if e.Line > 0 {
		return "line " + strconv.Itoa(e.Line) + ", column " + strconv.Itoa(e.Column) + ": " + e.Message
	}
	return "ERROR: " + e.Message
}

// ToMonkeyError converts the error value into the Go error handed to hosts.
func (e *Error) ToMonkeyError() *perrors.MonkeyError {
	class := e.Class
	if class == "" {
		class = perrors.ClassType
	}
	return &perrors.MonkeyError{
		Class:   class,
		Code:    e.Code,
		Message: e.Message,
		Hints:   e.Hints,
		Line:    e.Line,
		Column:  e.Column,
		File:    e.File,
		Data:    e.Data,
	}
}

// Function is a closure: a function literal plus the environment it was
// defined in.
type Function struct {
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	return "fn(" + ast.JoinParameters(f.Parameters) + "){\n" + f.Body.String() + "\n}"
}

// BuiltinFunction is the native implementation behind a builtin. env is the
// calling environment, used for output.
type BuiltinFunction func(env *Environment, args ...Object) Object

// Builtin represents built-in function objects
type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin function" }

// Array represents array objects
type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	elements := make([]string, 0, len(a.Elements))
	for _, e := range a.Elements {
		elements = append(elements, e.Inspect())
	}
	return "[" + strings.Join(elements, ", ") + "]"
}

// HashPair keeps the original key next to its value so the key can be
// rendered and iterated.
type HashPair struct {
	Key   Object
	Value Object
}

// Hash is the runtime value of an object literal. Entries are keyed by
// HashKey, so keys whose hashes collide replace each other. Iteration follows
// the order in which each hash key was first written.
type Hash struct {
	Pairs map[HashKey]HashPair
	order []HashKey
}

// NewHash returns an empty hash.
func NewHash() *Hash {
	return &Hash{Pairs: make(map[HashKey]HashPair)}
}

// Set stores value under key. A colliding or repeated key replaces the
// existing entry in place.
func (h *Hash) Set(key Hashable, value Object) {
	hk := key.HashKey()
	if _, ok := h.Pairs[hk]; !ok {
		h.order = append(h.order, hk)
	}
	h.Pairs[hk] = HashPair{Key: key, Value: value}
}

// Get returns the value stored under key.
func (h *Hash) Get(key Hashable) (Object, bool) {
	pair, ok := h.Pairs[key.HashKey()]
	if !ok {
		return nil, false
	}
	return pair.Value, true
}

// Len returns the number of entries.
func (h *Hash) Len() int { return len(h.Pairs) }

// Entries returns the pairs in insertion order.
func (h *Hash) Entries() []HashPair {
	entries := make([]HashPair, 0, len(h.order))
	for _, hk := range h.order {
		entries = append(entries, h.Pairs[hk])
	}
	return entries
}

func (h *Hash) Type() ObjectType { return HASH_OBJ }
func (h *Hash) Inspect() string {
	pairs := make([]string, 0, len(h.order))
	for _, pair := range h.Entries() {
		pairs = append(pairs, pair.Key.Inspect()+": "+pair.Value.Inspect())
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
