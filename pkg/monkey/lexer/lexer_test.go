package lexer

import (
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `let five = 5;
let ten = 10;

let add = fn(x, y) {
  x + y;
};

let result = add(five, ten);
!-/*5;
5 < 10 > 5;

if (5 < 10) {
	return true;
} else {
	return false;
}

10 == 10;
10 != 9;
"foobar"
"foo bar"
[1, 2];
{"foo": "bar"}
forEach arr { sum = sum + it; }
`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{LET, "let"},
		{IDENT, "five"},
		{ASSIGN, "="},
		{INT, "5"},
		{SEMICOLON, ";"},
		{LET, "let"},
		{IDENT, "ten"},
		{ASSIGN, "="},
		{INT, "10"},
		{SEMICOLON, ";"},
		{LET, "let"},
		{IDENT, "add"},
		{ASSIGN, "="},
		{FUNCTION, "fn"},
		{LPAREN, "("},
		{IDENT, "x"},
		{COMMA, ","},
		{IDENT, "y"},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{IDENT, "x"},
		{PLUS, "+"},
		{IDENT, "y"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{SEMICOLON, ";"},
		{LET, "let"},
		{IDENT, "result"},
		{ASSIGN, "="},
		{IDENT, "add"},
		{LPAREN, "("},
		{IDENT, "five"},
		{COMMA, ","},
		{IDENT, "ten"},
		{RPAREN, ")"},
		{SEMICOLON, ";"},
		{BANG, "!"},
		{MINUS, "-"},
		{SLASH, "/"},
		{ASTERISK, "*"},
		{INT, "5"},
		{SEMICOLON, ";"},
		{INT, "5"},
		{LT, "<"},
		{INT, "10"},
		{GT, ">"},
		{INT, "5"},
		{SEMICOLON, ";"},
		{IF, "if"},
		{LPAREN, "("},
		{INT, "5"},
		{LT, "<"},
		{INT, "10"},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{RETURN, "return"},
		{TRUE, "true"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{ELSE, "else"},
		{LBRACE, "{"},
		{RETURN, "return"},
		{FALSE, "false"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{INT, "10"},
		{EQ, "=="},
		{INT, "10"},
		{SEMICOLON, ";"},
		{INT, "10"},
		{NOT_EQ, "!="},
		{INT, "9"},
		{SEMICOLON, ";"},
		{STRING, "foobar"},
		{STRING, "foo bar"},
		{LBRACKET, "["},
		{INT, "1"},
		{COMMA, ","},
		{INT, "2"},
		{RBRACKET, "]"},
		{SEMICOLON, ";"},
		{LBRACE, "{"},
		{STRING, "foo"},
		{COLON, ":"},
		{STRING, "bar"},
		{RBRACE, "}"},
		{FOREACH, "forEach"},
		{IDENT, "arr"},
		{LBRACE, "{"},
		{IDENT, "sum"},
		{ASSIGN, "="},
		{IDENT, "sum"},
		{PLUS, "+"},
		{IDENT, "it"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok, ok := l.NextToken()
		if !ok {
			t.Fatalf("tests[%d] - lexer exhausted early", i)
		}

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestEOFIsProducedOnce(t *testing.T) {
	l := New("x")

	if tok, ok := l.NextToken(); !ok || tok.Type != IDENT {
		t.Fatalf("expected IDENT, got %s (ok=%v)", tok.Type, ok)
	}
	if tok, ok := l.NextToken(); !ok || tok.Type != EOF {
		t.Fatalf("expected EOF, got %s (ok=%v)", tok.Type, ok)
	}
	for i := 0; i < 3; i++ {
		if _, ok := l.NextToken(); ok {
			t.Fatalf("call %d after EOF: expected exhaustion", i)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	var got []TokenType
	for tok := range New("   \n\t ").Tokens() {
		got = append(got, tok.Type)
	}
	if len(got) != 1 || got[0] != EOF {
		t.Fatalf("expected a single EOF, got %v", got)
	}
}

func TestOperatorPayload(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"+", "+"},
		{"-", "-"},
		{"*", "*"},
		{"/", "/"},
		{"<", "<"},
		{">", ">"},
		{"==", "=="},
		{"!=", "!="},
		{"!", "!"},
		{"=", ""},
		{";", ""},
		{"x", ""},
	}

	for _, tt := range tests {
		tok, _ := New(tt.input).NextToken()
		if tok.Operator != tt.expected {
			t.Errorf("input %q: expected operator %q, got %q", tt.input, tt.expected, tok.Operator)
		}
		if tok.Type.IsOperator() != (tt.expected != "") {
			t.Errorf("input %q: IsOperator()=%v disagrees with payload", tt.input, tok.Type.IsOperator())
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"hello world`)

	tok, _ := l.NextToken()
	if tok.Type != STRING || tok.Literal != "hello world" {
		t.Fatalf("expected STRING %q, got %s %q", "hello world", tok.Type, tok.Literal)
	}
	tok, _ = l.NextToken()
	if tok.Type != EOF {
		t.Fatalf("expected EOF after unterminated string, got %s", tok.Type)
	}
}

func TestIllegalCharacters(t *testing.T) {
	tests := []struct {
		input   string
		literal string
	}{
		{"@", "@"},
		{"#", "#"},
		{"_", "_"},
		{"π", "π"},
		{"&", "&"},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok, _ := l.NextToken()
		if tok.Type != ILLEGAL {
			t.Errorf("input %q: expected ILLEGAL, got %s", tt.input, tok.Type)
			continue
		}
		if tok.Literal != tt.literal {
			t.Errorf("input %q: expected literal %q, got %q", tt.input, tt.literal, tok.Literal)
		}
		if tok, _ := l.NextToken(); tok.Type != EOF {
			t.Errorf("input %q: expected EOF after illegal token, got %s", tt.input, tok.Type)
		}
	}
}

func TestIdentifiersAreLettersOnly(t *testing.T) {
	var got []Token
	for tok := range New("abc12 forEachx").Tokens() {
		got = append(got, tok)
	}

	want := []struct {
		typ     TokenType
		literal string
	}{
		{IDENT, "abc"},
		{INT, "12"},
		{IDENT, "forEachx"},
		{EOF, ""},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i].Type != w.typ || got[i].Literal != w.literal {
			t.Errorf("tokens[%d]: expected %s %q, got %s %q", i, w.typ, w.literal, got[i].Type, got[i].Literal)
		}
	}
}

func TestPositions(t *testing.T) {
	input := "let x = 1;\n  x + \"ab\""

	tests := []struct {
		typ    TokenType
		line   int
		column int
	}{
		{LET, 1, 1},
		{IDENT, 1, 5},
		{ASSIGN, 1, 7},
		{INT, 1, 9},
		{SEMICOLON, 1, 10},
		{IDENT, 2, 3},
		{PLUS, 2, 5},
		{STRING, 2, 7},
		{EOF, 2, 11},
	}

	l := New(input)
	for i, tt := range tests {
		tok, _ := l.NextToken()
		if tok.Type != tt.typ {
			t.Fatalf("tests[%d] - expected %s, got %s", i, tt.typ, tok.Type)
		}
		if tok.Line != tt.line || tok.Column != tt.column {
			t.Errorf("tests[%d] - %s at %d:%d, expected %d:%d", i, tok.Type, tok.Line, tok.Column, tt.line, tt.column)
		}
	}
}

func TestLookupIdent(t *testing.T) {
	for _, kw := range Keywords() {
		if LookupIdent(kw) == IDENT {
			t.Errorf("keyword %q looked up as IDENT", kw)
		}
	}
	if LookupIdent("foreach") != IDENT {
		t.Errorf("keywords are case sensitive: foreach should be IDENT")
	}
}
