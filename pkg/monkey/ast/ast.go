// Package ast defines the syntax tree produced by the parser. Every node can
// render itself back to source-like text through String; that rendering is a
// pure function of the tree and is what function values show when printed.
package ast

import (
	"strings"

	"github.com/sambeau/monkey/pkg/monkey/lexer"
)

// Node represents any node in the AST
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement represents statement nodes
type Statement interface {
	Node
	statementNode()
}

// Expression represents expression nodes
type Expression interface {
	Node
	expressionNode()
}

// Program represents the root node of every AST
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out strings.Builder
	for _, s := range p.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}

// LetStatement binds a name in the current scope: 'let x = 5;'
type LetStatement struct {
	Token lexer.Token // the lexer.LET token
	Name  *Identifier
	Value Expression
}

func (ls *LetStatement) statementNode()       {}
func (ls *LetStatement) TokenLiteral() string { return ls.Token.Literal }
func (ls *LetStatement) String() string {
	return "let " + ls.Name.String() + " = " + nodeString(ls.Value) + ";"
}

// ReassignStatement overwrites an existing binding: 'x = 6;'
type ReassignStatement struct {
	Token lexer.Token // the identifier token
	Name  *Identifier
	Value Expression
}

func (rs *ReassignStatement) statementNode()       {}
func (rs *ReassignStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReassignStatement) String() string {
	return rs.Name.String() + " = " + nodeString(rs.Value) + ";"
}

// ReturnStatement represents 'return <expr>;'
type ReturnStatement struct {
	Token       lexer.Token // the 'return' token
	ReturnValue Expression
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) String() string {
	return "return " + nodeString(rs.ReturnValue) + ";"
}

// ExpressionStatement wraps an expression used in statement position
type ExpressionStatement struct {
	Token      lexer.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	return nodeString(es.Expression)
}

// BlockStatement is a braced statement sequence. It renders without braces.
type BlockStatement struct {
	Token      lexer.Token // the { token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) String() string {
	var out strings.Builder
	for _, s := range bs.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}

// ForEachStatement runs Body once per element of Array, with 'it' bound to
// the element.
type ForEachStatement struct {
	Token lexer.Token // the 'forEach' token
	Array Expression
	Body  *BlockStatement
}

func (fs *ForEachStatement) statementNode()       {}
func (fs *ForEachStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForEachStatement) String() string {
	return "forEach " + nodeString(fs.Array) + " { " + fs.Body.String() + " }"
}

// Identifier represents identifiers
type Identifier struct {
	Token lexer.Token // the lexer.IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// IntegerLiteral represents integer literals
type IntegerLiteral struct {
	Token lexer.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }

// StringLiteral represents string literals
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return `"` + sl.Value + `"` }

// Boolean represents boolean literals
type Boolean struct {
	Token lexer.Token
	Value bool
}

func (b *Boolean) expressionNode()      {}
func (b *Boolean) TokenLiteral() string { return b.Token.Literal }
func (b *Boolean) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// ArrayLiteral represents array literals like [1, 2, 3]
type ArrayLiteral struct {
	Token    lexer.Token // the '[' token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) String() string {
	return "[" + joinExpressions(al.Elements) + "]"
}

// ObjectPair is one 'key: value' entry of an object literal. Keys are
// arbitrary expressions.
type ObjectPair struct {
	Key   Expression
	Value Expression
}

// ObjectLiteral represents {key: value, ...}. Pairs keep source order.
type ObjectLiteral struct {
	Token lexer.Token // the '{' token
	Pairs []ObjectPair
}

func (ol *ObjectLiteral) expressionNode()      {}
func (ol *ObjectLiteral) TokenLiteral() string { return ol.Token.Literal }
func (ol *ObjectLiteral) String() string {
	pairs := make([]string, 0, len(ol.Pairs))
	for _, pair := range ol.Pairs {
		pairs = append(pairs, nodeString(pair.Key)+": "+nodeString(pair.Value))
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

// FunctionLiteral represents fn(params) { body }
type FunctionLiteral struct {
	Token      lexer.Token // the 'fn' token
	Parameters []*Identifier
	Body       *BlockStatement
}

func (fl *FunctionLiteral) expressionNode()      {}
func (fl *FunctionLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FunctionLiteral) String() string {
	return "fn(" + JoinParameters(fl.Parameters) + ") " + fl.Body.String()
}

// JoinParameters renders a parameter list as "a, b, c".
func JoinParameters(params []*Identifier) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.String()
	}
	return strings.Join(names, ", ")
}

// PrefixExpression represents !x and -x
type PrefixExpression struct {
	Token    lexer.Token // the prefix token, e.g. !
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + nodeString(pe.Right) + ")"
}

// InfixExpression represents binary operations
type InfixExpression struct {
	Token    lexer.Token // the operator token, e.g. +
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	return "(" + nodeString(ie.Left) + " " + ie.Operator + " " + nodeString(ie.Right) + ")"
}

// IfExpression represents if (cond) { ... } else { ... }
type IfExpression struct {
	Token       lexer.Token // the 'if' token
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement
}

func (ie *IfExpression) expressionNode()      {}
func (ie *IfExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IfExpression) String() string {
	var out strings.Builder
	out.WriteString("if (")
	out.WriteString(nodeString(ie.Condition))
	out.WriteString(") ")
	out.WriteString(ie.Consequence.String())
	if ie.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(ie.Alternative.String())
	}
	return out.String()
}

// CallExpression represents f(a, b)
type CallExpression struct {
	Token     lexer.Token // the '(' token
	Function  Expression  // Identifier, FunctionLiteral, CallExpression or IndexExpression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	return nodeString(ce.Function) + "(" + joinExpressions(ce.Arguments) + ")"
}

// IndexExpression represents left[index]
type IndexExpression struct {
	Token lexer.Token // the '[' token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) String() string {
	return nodeString(ie.Left) + "[" + nodeString(ie.Index) + "]"
}

func joinExpressions(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = nodeString(e)
	}
	return strings.Join(parts, ", ")
}

// nodeString renders a possibly nil child as empty text.
func nodeString(n Node) string {
	if n == nil {
		return ""
	}
	return n.String()
}
