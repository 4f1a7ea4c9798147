package evaluator

import (
	"maps"
	"slices"
	"unicode/utf8"
)

// builtins is the fixed registry of native functions. It is filled once at
// package initialisation and only read afterwards.
var builtins = map[string]*Builtin{
	"len":   {Name: "len", Fn: builtinLen},
	"first": {Name: "first", Fn: builtinFirst},
	"last":  {Name: "last", Fn: builtinLast},
	"rest":  {Name: "rest", Fn: builtinRest},
	"push":  {Name: "push", Fn: builtinPush},
	"puts":  {Name: "puts", Fn: builtinPuts},
}

// LookupBuiltin returns the builtin registered under name.
func LookupBuiltin(name string) (*Builtin, bool) {
	b, ok := builtins[name]
	return b, ok
}

// BuiltinNames returns the names of all builtins, sorted.
func BuiltinNames() []string {
	return slices.Sorted(maps.Keys(builtins))
}

func builtinLen(env *Environment, args ...Object) Object {
	if len(args) != 1 {
		return newArityError("len", len(args), 1)
	}

	switch arg := args[0].(type) {
	case *String:
		return &Integer{Value: int64(utf8.RuneCountInString(arg.Value))}
	case *Array:
		return &Integer{Value: int64(len(arg.Elements))}
	default:
		return newArgumentTypeError("len", "a string or an array", args[0])
	}
}

func builtinFirst(env *Environment, args ...Object) Object {
	arr, err := arrayArgument("first", args)
	if err != nil {
		return err
	}
	if len(arr.Elements) == 0 {
		return NULL
	}
	return arr.Elements[0]
}

func builtinLast(env *Environment, args ...Object) Object {
	arr, err := arrayArgument("last", args)
	if err != nil {
		return err
	}
	if len(arr.Elements) == 0 {
		return NULL
	}
	return arr.Elements[len(arr.Elements)-1]
}

func builtinRest(env *Environment, args ...Object) Object {
	arr, err := arrayArgument("rest", args)
	if err != nil {
		return err
	}
	if len(arr.Elements) == 0 {
		return NULL
	}
	return &Array{Elements: slices.Clone(arr.Elements[1:])}
}

// builtinPush returns a new array; the argument is left untouched.
func builtinPush(env *Environment, args ...Object) Object {
	if len(args) != 2 {
		return newArityError("push", len(args), 2)
	}
	arr, ok := args[0].(*Array)
	if !ok {
		return newArgumentTypeError("push", "an array", args[0])
	}

	elements := make([]Object, len(arr.Elements), len(arr.Elements)+1)
	copy(elements, arr.Elements)
	return &Array{Elements: append(elements, args[1])}
}

// builtinPuts writes one line per argument.
func builtinPuts(env *Environment, args ...Object) Object {
	logger := DefaultLogger
	if env != nil && env.Logger != nil {
		logger = env.Logger
	}
	for _, arg := range args {
		logger.LogLine(arg.Inspect())
	}
	return NULL
}

func arrayArgument(name string, args []Object) (*Array, *Error) {
	if len(args) != 1 {
		return nil, newArityError(name, len(args), 1)
	}
	arr, ok := args[0].(*Array)
	if !ok {
		return nil, newArgumentTypeError(name, "an array", args[0])
	}
	return arr, nil
}
