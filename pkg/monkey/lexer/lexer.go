package lexer

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"unicode/utf8"
)

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Identifiers and literals
	IDENT  // add, foobar, x, y, ...
	INT    // 1343456
	STRING // "foobar"

	// Operators
	ASSIGN   // =
	PLUS     // +
	MINUS    // -
	BANG     // !
	ASTERISK // *
	SLASH    // /
	LT       // <
	GT       // >
	EQ       // ==
	NOT_EQ   // !=

	// Delimiters
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]

	// Keywords
	FUNCTION // "fn"
	LET      // "let"
	TRUE     // "true"
	FALSE    // "false"
	IF       // "if"
	ELSE     // "else"
	RETURN   // "return"
	FOREACH  // "forEach"
)

var tokenNames = [...]string{
	ILLEGAL:   "ILLEGAL",
	EOF:       "EOF",
	IDENT:     "IDENT",
	INT:       "INT",
	STRING:    "STRING",
	ASSIGN:    "=",
	PLUS:      "+",
	MINUS:     "-",
	BANG:      "!",
	ASTERISK:  "*",
	SLASH:     "/",
	LT:        "<",
	GT:        ">",
	EQ:        "==",
	NOT_EQ:    "!=",
	COMMA:     ",",
	SEMICOLON: ";",
	COLON:     ":",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	FUNCTION:  "FUNCTION",
	LET:       "LET",
	TRUE:      "TRUE",
	FALSE:     "FALSE",
	IF:        "IF",
	ELSE:      "ELSE",
	RETURN:    "RETURN",
	FOREACH:   "FOREACH",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if tt >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// IsOperator reports whether tokens of this type carry an operator symbol.
func (tt TokenType) IsOperator() bool {
	switch tt {
	case PLUS, MINUS, ASTERISK, SLASH, LT, GT, EQ, NOT_EQ, BANG:
		return true
	}
	return false
}

// Token represents a single token. Operator is only set for the arithmetic,
// comparison and equality tokens and for BANG.
type Token struct {
	Type     TokenType
	Literal  string
	Operator string
	Line     int
	Column   int
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %s, Line: %d, Column: %d}",
		t.Type.String(), t.Literal, t.Line, t.Column)
}

var keywords = map[string]TokenType{
	"fn":      FUNCTION,
	"let":     LET,
	"true":    TRUE,
	"false":   FALSE,
	"if":      IF,
	"else":    ELSE,
	"return":  RETURN,
	"forEach": FOREACH,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns the reserved words of the language, sorted.
func Keywords() []string {
	return slices.Sorted(maps.Keys(keywords))
}

// Lexer is a forward-only cursor over the source text. It cannot be rewound.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination, 0 past the end
	line         int
	column       int
	done         bool // EOF has been handed out
}

// New creates a new lexer instance
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition > len(l.input) {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.column++

	if l.readPosition == len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition++
		return
	}

	l.ch = l.input[l.readPosition]
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// NextToken scans the input and returns the next token. Exactly one EOF token
// is produced; after that ok is false and the returned token is EOF again.
func (l *Lexer) NextToken() (tok Token, ok bool) {
	if l.done {
		return Token{Type: EOF, Line: l.line, Column: l.column}, false
	}

	l.skipWhitespace()

	line, col := l.line, l.column

	if l.atEnd() {
		l.done = true
		return Token{Type: EOF, Line: line, Column: col}, true
	}

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = operatorToken(EQ, "==", line, col)
		} else {
			tok = newToken(ASSIGN, l.ch, line, col)
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = operatorToken(NOT_EQ, "!=", line, col)
		} else {
			tok = operatorToken(BANG, "!", line, col)
		}
	case '+':
		tok = operatorToken(PLUS, "+", line, col)
	case '-':
		tok = operatorToken(MINUS, "-", line, col)
	case '*':
		tok = operatorToken(ASTERISK, "*", line, col)
	case '/':
		tok = operatorToken(SLASH, "/", line, col)
	case '<':
		tok = operatorToken(LT, "<", line, col)
	case '>':
		tok = operatorToken(GT, ">", line, col)
	case ';':
		tok = newToken(SEMICOLON, l.ch, line, col)
	case ':':
		tok = newToken(COLON, l.ch, line, col)
	case ',':
		tok = newToken(COMMA, l.ch, line, col)
	case '(':
		tok = newToken(LPAREN, l.ch, line, col)
	case ')':
		tok = newToken(RPAREN, l.ch, line, col)
	case '{':
		tok = newToken(LBRACE, l.ch, line, col)
	case '}':
		tok = newToken(RBRACE, l.ch, line, col)
	case '[':
		tok = newToken(LBRACKET, l.ch, line, col)
	case ']':
		tok = newToken(RBRACKET, l.ch, line, col)
	case '"':
		tok = Token{Type: STRING, Literal: l.readString(), Line: line, Column: col}
	default:
		if isLetter(l.ch) {
			ident := l.readIdentifier()
			return Token{Type: LookupIdent(ident), Literal: ident, Line: line, Column: col}, true
		}
		if isDigit(l.ch) {
			return Token{Type: INT, Literal: l.readNumber(), Line: line, Column: col}, true
		}
		// Report the whole character, not just its first byte.
		_, size := utf8.DecodeRuneInString(l.input[l.position:])
		start := l.position
		for i := 1; i < size; i++ {
			l.readChar()
		}
		tok = Token{Type: ILLEGAL, Literal: l.input[start : start+size], Line: line, Column: col}
	}

	l.readChar()
	return tok, true
}

// Tokens returns the remaining tokens, ending with EOF.
func (l *Lexer) Tokens() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok, ok := l.NextToken()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

func newToken(tokenType TokenType, ch byte, line, column int) Token {
	return Token{Type: tokenType, Literal: string(ch), Line: line, Column: column}
}

func operatorToken(tokenType TokenType, op string, line, column int) Token {
	return Token{Type: tokenType, Literal: op, Operator: op, Line: line, Column: column}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readString returns the body between the quotes. An unterminated string runs
// to the end of the input.
func (l *Lexer) readString() string {
	position := l.position + 1
	for {
		l.readChar()
		if l.ch == '"' || l.atEnd() {
			break
		}
	}
	return l.input[position:l.position]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
