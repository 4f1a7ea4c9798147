package format

import (
	"strings"

	"github.com/sambeau/monkey/pkg/monkey/ast"
	"github.com/sambeau/monkey/pkg/monkey/parser"
)

// atomic ranks above every operator, so literals, names, if and fn never
// need parentheses.
const atomic = parser.CALL + 1

var infixPrecedence = map[string]int{
	"==": parser.EQUALS,
	"!=": parser.EQUALS,
	"<":  parser.LESSGREATER,
	">":  parser.LESSGREATER,
	"+":  parser.SUM,
	"-":  parser.SUM,
	"*":  parser.PRODUCT,
	"/":  parser.PRODUCT,
}

// FormatNode formats any AST node into Monkey source.
func FormatNode(node ast.Node) string {
	if node == nil {
		return ""
	}
	p := NewPrinter()
	switch node := node.(type) {
	case *ast.Program:
		p.formatProgram(node)
	case ast.Statement:
		p.formatStatement(node, nil)
	case ast.Expression:
		p.formatExpression(node, parser.LOWEST)
	}
	return p.String()
}

// FormatProgram formats an entire program, one statement per line and
// without a trailing newline.
func FormatProgram(prog *ast.Program) string {
	if prog == nil || len(prog.Statements) == 0 {
		return ""
	}
	p := NewPrinter()
	p.formatProgram(prog)
	return p.String()
}

// formatProgram separates function definitions from their neighbours with a
// blank line.
func (p *Printer) formatProgram(prog *ast.Program) {
	for i, stmt := range prog.Statements {
		if i > 0 {
			p.newline()
			if isFunctionDefinition(stmt) || isFunctionDefinition(prog.Statements[i-1]) {
				for range BlankLinesAroundDefs {
					p.newline()
				}
			}
		}
		p.formatStatement(stmt, nextStatement(prog.Statements, i))
	}
}

func isFunctionDefinition(stmt ast.Statement) bool {
	ls, ok := stmt.(*ast.LetStatement)
	if !ok {
		return false
	}
	_, ok = ls.Value.(*ast.FunctionLiteral)
	return ok
}

func nextStatement(stmts []ast.Statement, i int) ast.Statement {
	if i+1 < len(stmts) {
		return stmts[i+1]
	}
	return nil
}

// formatStatement formats one statement. next is the statement that follows
// in the same sequence, or nil.
func (p *Printer) formatStatement(stmt ast.Statement, next ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		p.write("let " + s.Name.Value + " = ")
		p.formatExpression(s.Value, parser.LOWEST)
		p.write(";")

	case *ast.ReassignStatement:
		p.write(s.Name.Value + " = ")
		p.formatExpression(s.Value, parser.LOWEST)
		p.write(";")

	case *ast.ReturnStatement:
		p.write("return ")
		p.formatExpression(s.ReturnValue, parser.LOWEST)
		p.write(";")

	case *ast.ExpressionStatement:
		p.formatExpression(s.Expression, parser.LOWEST)
		if needsSemicolon(s, next) {
			p.write(";")
		}

	case *ast.ForEachStatement:
		p.write("forEach ")
		p.formatExpression(s.Array, parser.LOWEST)
		p.write(" ")
		p.formatBlockStatement(s.Body)

	case *ast.BlockStatement:
		p.formatBlockStatement(s)
	}
}

// needsSemicolon: an expression statement ending in a block drops its ';'
// unless the next statement would otherwise continue the expression.
func needsSemicolon(es *ast.ExpressionStatement, next ast.Statement) bool {
	if !endsInBlock(es.Expression) {
		return true
	}
	if next == nil {
		return false
	}
	following := FormatNode(next)
	return strings.HasPrefix(following, "(") ||
		strings.HasPrefix(following, "[") ||
		strings.HasPrefix(following, "-")
}

func endsInBlock(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.IfExpression, *ast.FunctionLiteral:
		return true
	}
	return false
}

// formatBlockStatement writes '{ expr }' for a lone simple expression that
// fits, and one indented statement per line otherwise.
func (p *Printer) formatBlockStatement(bs *ast.BlockStatement) {
	if bs == nil || len(bs.Statements) == 0 {
		p.write("{}")
		return
	}

	if len(bs.Statements) == 1 {
		if es, ok := bs.Statements[0].(*ast.ExpressionStatement); ok && !containsControlFlow(es.Expression) {
			inline := "{ " + inlineString(es.Expression) + " }"
			if p.fitsOnLine(inline, MaxLineWidth) {
				p.write(inline)
				return
			}
		}
	}

	p.write("{")
	p.newline()
	p.indentInc()

	for i, stmt := range bs.Statements {
		p.writeIndent()
		p.formatStatement(stmt, nextStatement(bs.Statements, i))
		p.newline()
	}

	p.indentDec()
	p.writeIndent()
	p.write("}")
}

// formatExpression writes expr, parenthesized when it binds more loosely
// than the surrounding context requires.
func (p *Printer) formatExpression(expr ast.Expression, context int) {
	if expr == nil {
		return
	}
	if precedenceOf(expr) < context {
		p.write("(")
		defer p.write(")")
	}

	switch e := expr.(type) {
	case *ast.Identifier:
		p.write(e.Value)
	case *ast.IntegerLiteral:
		p.write(e.Token.Literal)
	case *ast.StringLiteral:
		p.write(`"` + e.Value + `"`)
	case *ast.Boolean:
		p.write(e.String())
	case *ast.PrefixExpression:
		p.write(e.Operator)
		p.formatExpression(e.Right, parser.PREFIX)
	case *ast.InfixExpression:
		prec := infixPrecedence[e.Operator]
		p.formatExpression(e.Left, prec)
		p.write(" " + e.Operator + " ")
		p.formatExpression(e.Right, prec+1)
	case *ast.ArrayLiteral:
		p.write("[")
		p.formatList(e.Elements)
		p.write("]")
	case *ast.ObjectLiteral:
		p.formatObjectLiteral(e)
	case *ast.FunctionLiteral:
		p.write("fn(" + ast.JoinParameters(e.Parameters) + ") ")
		p.formatBlockStatement(e.Body)
	case *ast.IfExpression:
		p.formatIfExpression(e)
	case *ast.CallExpression:
		p.formatExpression(e.Function, parser.CALL)
		p.write("(")
		p.formatList(e.Arguments)
		p.write(")")
	case *ast.IndexExpression:
		p.formatExpression(e.Left, parser.CALL)
		p.write("[")
		p.formatExpression(e.Index, parser.LOWEST)
		p.write("]")
	}
}

func (p *Printer) formatList(exprs []ast.Expression) {
	for i, e := range exprs {
		if i > 0 {
			p.write(", ")
		}
		p.formatExpression(e, parser.LOWEST)
	}
}

// formatObjectLiteral keeps objects inline: {k: v, ...}
func (p *Printer) formatObjectLiteral(ol *ast.ObjectLiteral) {
	p.write("{")
	for i, pair := range ol.Pairs {
		if i > 0 {
			p.write(", ")
		}
		p.formatExpression(pair.Key, parser.LOWEST)
		p.write(": ")
		p.formatExpression(pair.Value, parser.LOWEST)
	}
	p.write("}")
}

// formatIfExpression puts else on the closing-brace line.
func (p *Printer) formatIfExpression(ie *ast.IfExpression) {
	p.write("if (")
	p.formatExpression(ie.Condition, parser.LOWEST)
	p.write(") ")
	p.formatBlockStatement(ie.Consequence)

	if ie.Alternative != nil {
		p.write(" else ")
		p.formatBlockStatement(ie.Alternative)
	}
}

func precedenceOf(expr ast.Expression) int {
	switch e := expr.(type) {
	case *ast.InfixExpression:
		return infixPrecedence[e.Operator]
	case *ast.PrefixExpression:
		return parser.PREFIX
	case *ast.CallExpression, *ast.IndexExpression:
		return parser.CALL
	}
	return atomic
}

// inlineString renders expr on a fresh printer.
func inlineString(expr ast.Expression) string {
	p := NewPrinter()
	p.formatExpression(expr, parser.LOWEST)
	return p.String()
}

// containsControlFlow checks if an expression is an if.
// These expressions deserve their own lines for readability
func containsControlFlow(expr ast.Expression) bool {
	_, ok := expr.(*ast.IfExpression)
	return ok
}
