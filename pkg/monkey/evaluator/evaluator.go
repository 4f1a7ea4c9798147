// Package evaluator walks the syntax tree produced by the parser and computes
// its value. Evaluation state is the current Environment; errors and pending
// returns travel upward as ordinary Object values.
package evaluator

import (
	"fmt"

	"github.com/sambeau/monkey/pkg/monkey/ast"
	"github.com/sambeau/monkey/pkg/monkey/lexer"
)

// Eval evaluates node in env. The result of a program is never a
// *ReturnValue; it may be an *Error.
func Eval(node ast.Node, env *Environment) Object {
	switch node := node.(type) {

	// Statements
	case *ast.Program:
		return evalProgram(node, env)

	case *ast.ExpressionStatement:
		return Eval(node.Expression, env)

	case *ast.BlockStatement:
		return evalBlockStatement(node, env)

	case *ast.LetStatement:
		val := Eval(node.Value, env)
		if unwinds(val) {
			return val
		}
		return env.Set(node.Name.Value, val)

	case *ast.ReassignStatement:
		val := Eval(node.Value, env)
		if unwinds(val) {
			return val
		}
		if !env.Assign(node.Name.Value, val) {
			return newErrorAt("UNDEF-0002", node.Token, env, map[string]any{"Name": node.Name.Value})
		}
		return val

	case *ast.ReturnStatement:
		val := Eval(node.ReturnValue, env)
		if unwinds(val) {
			return val
		}
		return &ReturnValue{Value: val}

	case *ast.ForEachStatement:
		return evalForEachStatement(node, env)

	// Expressions
	case *ast.IntegerLiteral:
		return &Integer{Value: node.Value}

	case *ast.StringLiteral:
		return &String{Value: node.Value}

	case *ast.Boolean:
		return nativeBoolToBooleanObject(node.Value)

	case *ast.Identifier:
		return evalIdentifier(node, env)

	case *ast.PrefixExpression:
		right := Eval(node.Right, env)
		if unwinds(right) {
			return right
		}
		return evalPrefixExpression(node, right, env)

	case *ast.InfixExpression:
		left := Eval(node.Left, env)
		if unwinds(left) {
			return left
		}
		right := Eval(node.Right, env)
		if unwinds(right) {
			return right
		}
		return evalInfixExpression(node, left, right, env)

	case *ast.IfExpression:
		return evalIfExpression(node, env)

	case *ast.FunctionLiteral:
		return &Function{Parameters: node.Parameters, Body: node.Body, Env: env}

	case *ast.CallExpression:
		function := Eval(node.Function, env)
		if unwinds(function) {
			return function
		}
		args := evalExpressions(node.Arguments, env)
		if len(args) == 1 && unwinds(args[0]) {
			return args[0]
		}
		return applyFunction(node.Token, function, args, env)

	case *ast.ArrayLiteral:
		elements := evalExpressions(node.Elements, env)
		if len(elements) == 1 && unwinds(elements[0]) {
			return elements[0]
		}
		return &Array{Elements: elements}

	case *ast.ObjectLiteral:
		return evalObjectLiteral(node, env)

	case *ast.IndexExpression:
		left := Eval(node.Left, env)
		if unwinds(left) {
			return left
		}
		index := Eval(node.Index, env)
		if unwinds(index) {
			return index
		}
		return evalIndexExpression(node, left, index, env)
	}

	panic(fmt.Sprintf("evaluator: unhandled node type %T", node))
}

// evalProgram runs the top-level statements. A return anywhere ends the
// program with the returned value.
func evalProgram(program *ast.Program, env *Environment) Object {
	var result Object = NULL

	for _, statement := range program.Statements {
		result = Eval(statement, env)

		switch result := result.(type) {
		case *ReturnValue:
			return result.Value
		case *Error:
			return result
		}
	}

	return result
}

// evalBlockStatement passes a *ReturnValue up unchanged so the enclosing call
// or program can unwrap it.
func evalBlockStatement(block *ast.BlockStatement, env *Environment) Object {
	if len(block.Statements) == 0 {
		return newErrorAt("STATE-0001", block.Token, env, nil)
	}

	var result Object
	for _, statement := range block.Statements {
		result = Eval(statement, env)
		if unwinds(result) {
			return result
		}
	}

	return result
}

// evalForEachStatement runs the body once per element in a fresh child scope
// with 'it' bound to the element. A return stops the loop.
func evalForEachStatement(node *ast.ForEachStatement, env *Environment) Object {
	iterable := Eval(node.Array, env)
	if unwinds(iterable) {
		return iterable
	}

	arr, ok := iterable.(*Array)
	if !ok {
		return newErrorAt("LOOP-0001", node.Token, env, map[string]any{"Got": string(iterable.Type())})
	}

	var result Object = NULL
	for _, element := range arr.Elements {
		loopEnv := NewEnclosedEnvironment(env)
		loopEnv.Set("it", element)

		result = Eval(node.Body, loopEnv)
		if unwinds(result) {
			return result
		}
	}

	return result
}

func evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	if builtin, ok := LookupBuiltin(node.Value); ok {
		return builtin
	}
	return newUndefinedIdentifierError(node.Token, node.Value, env)
}

func evalPrefixExpression(node *ast.PrefixExpression, right Object, env *Environment) Object {
	switch node.Operator {
	case "!":
		return evalBangOperatorExpression(right)
	case "-":
		integer, ok := right.(*Integer)
		if !ok {
			break
		}
		return &Integer{Value: -integer.Value}
	}
	return newErrorAt("TYPE-0001", node.Token, env, map[string]any{
		"Operator": node.Operator,
		"Right":    string(right.Type()),
	})
}

// evalBangOperatorExpression negates truthiness: !null is true and any other
// non-boolean is false.
func evalBangOperatorExpression(right Object) Object {
	switch right {
	case TRUE:
		return FALSE
	case FALSE:
		return TRUE
	case NULL:
		return TRUE
	default:
		return FALSE
	}
}

func evalInfixExpression(node *ast.InfixExpression, left, right Object, env *Environment) Object {
	switch {
	case node.Operator == "==":
		return nativeBoolToBooleanObject(objectsEqual(left, right))
	case node.Operator == "!=":
		return nativeBoolToBooleanObject(!objectsEqual(left, right))
	case left.Type() == INTEGER_OBJ && right.Type() == INTEGER_OBJ:
		return evalIntegerInfixExpression(node, left.(*Integer).Value, right.(*Integer).Value, env)
	case left.Type() == STRING_OBJ && right.Type() == STRING_OBJ && node.Operator == "+":
		return &String{Value: left.(*String).Value + right.(*String).Value}
	}
	return newInfixTypeError(node, left, right, env)
}

// evalIntegerInfixExpression uses 64-bit two's complement arithmetic: + - *
// wrap on overflow and / truncates toward zero.
func evalIntegerInfixExpression(node *ast.InfixExpression, leftVal, rightVal int64, env *Environment) Object {
	switch node.Operator {
	case "+":
		return &Integer{Value: leftVal + rightVal}
	case "-":
		return &Integer{Value: leftVal - rightVal}
	case "*":
		return &Integer{Value: leftVal * rightVal}
	case "/":
		if rightVal == 0 {
			return newErrorAt("OP-0001", node.Token, env, nil)
		}
		return &Integer{Value: leftVal / rightVal}
	case "<":
		return nativeBoolToBooleanObject(leftVal < rightVal)
	case ">":
		return nativeBoolToBooleanObject(leftVal > rightVal)
	}
	return newErrorAt("TYPE-0002", node.Token, env, map[string]any{
		"Left":     INTEGER_OBJ,
		"Operator": node.Operator,
		"Right":    INTEGER_OBJ,
	})
}

func newInfixTypeError(node *ast.InfixExpression, left, right Object, env *Environment) *Error {
	return newErrorAt("TYPE-0002", node.Token, env, map[string]any{
		"Left":     string(left.Type()),
		"Operator": node.Operator,
		"Right":    string(right.Type()),
		"Mismatch": left.Type() != right.Type(),
	})
}

// objectsEqual is structural equality over null, booleans, integers, strings
// and arrays. Functions, builtins and objects are never equal to anything.
func objectsEqual(left, right Object) bool {
	switch l := left.(type) {
	case *Null:
		_, ok := right.(*Null)
		return ok
	case *Boolean:
		r, ok := right.(*Boolean)
		return ok && l.Value == r.Value
	case *Integer:
		r, ok := right.(*Integer)
		return ok && l.Value == r.Value
	case *String:
		r, ok := right.(*String)
		return ok && l.Value == r.Value
	case *Array:
		r, ok := right.(*Array)
		if !ok || len(l.Elements) != len(r.Elements) {
			return false
		}
		for i := range l.Elements {
			if !objectsEqual(l.Elements[i], r.Elements[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func evalIfExpression(ie *ast.IfExpression, env *Environment) Object {
	condition := Eval(ie.Condition, env)
	if unwinds(condition) {
		return condition
	}

	if isTruthy(condition) {
		return Eval(ie.Consequence, env)
	} else if ie.Alternative != nil {
		return Eval(ie.Alternative, env)
	}
	return NULL
}

// isTruthy: everything except null and false, including 0 and "".
func isTruthy(obj Object) bool {
	switch obj {
	case NULL:
		return false
	case FALSE:
		return false
	default:
		return true
	}
}

// evalExpressions evaluates left to right. On the first error or pending
// return it yields a one-element slice holding just that value.
func evalExpressions(exps []ast.Expression, env *Environment) []Object {
	result := make([]Object, 0, len(exps))

	for _, e := range exps {
		evaluated := Eval(e, env)
		if unwinds(evaluated) {
			return []Object{evaluated}
		}
		result = append(result, evaluated)
	}

	return result
}

func applyFunction(tok lexer.Token, fn Object, args []Object, env *Environment) Object {
	switch fn := fn.(type) {

	case *Function:
		if !env.enterCall() {
			return newErrorAt("STATE-0002", tok, env, map[string]any{"Limit": env.MaxCallDepth()})
		}
		defer env.exitCall()

		extendedEnv := extendFunctionEnv(fn, args)
		evaluated := Eval(fn.Body, extendedEnv)
		return unwrapReturnValue(evaluated)

	case *Builtin:
		result := fn.Fn(env, args...)
		if err, ok := result.(*Error); ok {
			return positionError(err, tok, env)
		}
		return result
	}

	return newErrorAt("CALL-0001", tok, env, map[string]any{"Got": string(fn.Type())})
}

// extendFunctionEnv binds parameters in a child of the closure's environment.
// Parameters without a matching argument stay unbound; extra arguments are
// ignored.
func extendFunctionEnv(fn *Function, args []Object) *Environment {
	env := NewEnclosedEnvironment(fn.Env)

	for i, param := range fn.Parameters {
		if i >= len(args) {
			break
		}
		env.Set(param.Value, args[i])
	}

	return env
}

func unwrapReturnValue(obj Object) Object {
	if returnValue, ok := obj.(*ReturnValue); ok {
		return returnValue.Value
	}
	return obj
}

// evalObjectLiteral evaluates pairs in source order. A key whose hash matches
// an earlier key replaces that entry.
func evalObjectLiteral(node *ast.ObjectLiteral, env *Environment) Object {
	hash := NewHash()

	for _, pair := range node.Pairs {
		key := Eval(pair.Key, env)
		if unwinds(key) {
			return key
		}

		hashKey, ok := asHashable(key)
		if !ok {
			return newErrorAt("TYPE-0004", node.Token, env, map[string]any{"Got": string(key.Type())})
		}

		value := Eval(pair.Value, env)
		if unwinds(value) {
			return value
		}

		hash.Set(hashKey, value)
	}

	return hash
}

func evalIndexExpression(node *ast.IndexExpression, left, index Object, env *Environment) Object {
	switch {
	case left.Type() == ARRAY_OBJ && index.Type() == INTEGER_OBJ:
		return evalArrayIndexExpression(node, left.(*Array), index.(*Integer).Value, env)
	case left.Type() == HASH_OBJ:
		return evalHashIndexExpression(node, left.(*Hash), index, env)
	}
	return newErrorAt("INDEX-0002", node.Token, env, map[string]any{
		"Left":  string(left.Type()),
		"Right": string(index.Type()),
	})
}

// evalArrayIndexExpression fails outside [0, len); negative indexes do not
// wrap.
func evalArrayIndexExpression(node *ast.IndexExpression, array *Array, idx int64, env *Environment) Object {
	if idx < 0 || idx >= int64(len(array.Elements)) {
		return newErrorAt("INDEX-0001", node.Token, env, map[string]any{
			"Index":  idx,
			"Length": len(array.Elements),
		})
	}
	return array.Elements[idx]
}

// evalHashIndexExpression yields null for an absent key.
func evalHashIndexExpression(node *ast.IndexExpression, hash *Hash, index Object, env *Environment) Object {
	key, ok := asHashable(index)
	if !ok {
		return newErrorAt("TYPE-0004", node.Token, env, map[string]any{"Got": string(index.Type())})
	}

	value, ok := hash.Get(key)
	if !ok {
		return NULL
	}
	return value
}

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// unwinds reports whether obj must be handed straight up: an error or a
// pending return.
func unwinds(obj Object) bool {
	if obj == nil {
		return false
	}
	rt := obj.Type()
	return rt == ERROR_OBJ || rt == RETURN_VALUE_OBJ
}
