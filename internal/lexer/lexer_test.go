package lexer

import "testing"

func TestNextToken(t *testing.T) {
	input := `fn add(x: Int, y: Int) -> Int {
  let z = x;
  z
}

enum Option {
  Some(value: Int),
  None(),
}

if true { 1 } else { 0 }

match pair {
  Option_Some(x) => x,
  Option_None() => 0,
}

proj(pair, 0)
|x| x
() // comment trailing a unit literal
`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{FN, "fn"}, {IDENT, "add"}, {LPAREN, "("}, {IDENT, "x"}, {COLON, ":"}, {IDENT, "Int"},
		{COMMA, ","}, {IDENT, "y"}, {COLON, ":"}, {IDENT, "Int"}, {RPAREN, ")"},
		{ARROW, "->"}, {IDENT, "Int"}, {LBRACE, "{"},
		{LET, "let"}, {IDENT, "z"}, {ASSIGN, "="}, {IDENT, "x"}, {SEMICOLON, ";"},
		{IDENT, "z"}, {RBRACE, "}"},

		{ENUM, "enum"}, {IDENT, "Option"}, {LBRACE, "{"},
		{IDENT, "Some"}, {LPAREN, "("}, {IDENT, "value"}, {COLON, ":"}, {IDENT, "Int"}, {RPAREN, ")"}, {COMMA, ","},
		{IDENT, "None"}, {UNIT, "()"}, {COMMA, ","},
		{RBRACE, "}"},

		{IF, "if"}, {TRUE, "true"}, {LBRACE, "{"}, {INT, "1"}, {RBRACE, "}"},
		{ELSE, "else"}, {LBRACE, "{"}, {INT, "0"}, {RBRACE, "}"},

		{MATCH, "match"}, {IDENT, "pair"}, {LBRACE, "{"},
		{IDENT, "Option_Some"}, {LPAREN, "("}, {IDENT, "x"}, {RPAREN, ")"}, {FARROW, "=>"}, {IDENT, "x"}, {COMMA, ","},
		{IDENT, "Option_None"}, {UNIT, "()"}, {FARROW, "=>"}, {INT, "0"}, {COMMA, ","},
		{RBRACE, "}"},

		{PROJ, "proj"}, {LPAREN, "("}, {IDENT, "pair"}, {COMMA, ","}, {INT, "0"}, {RPAREN, ")"},
		{PIPE, "|"}, {IDENT, "x"}, {PIPE, "|"}, {IDENT, "x"},
		{UNIT, "()"},
		{EOF, ""},
	}

	l := New([]byte(input), "test.ax")
	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("test[%d]: unexpected error: %v", i, err)
		}
		if tok.Type != tt.expectedType {
			t.Fatalf("test[%d]: type wrong. expected=%s, got=%s (%q)", i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("test[%d]: literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNextTokenLeadingZeroIsInvalid(t *testing.T) {
	l := New([]byte("let x = 007"), "test.ax")
	for {
		tok, err := l.NextToken()
		if err != nil {
			lexErr, ok := err.(*Error)
			if !ok || lexErr.Kind != "InvalidLiteral" {
				t.Fatalf("expected InvalidLiteral error, got %v", err)
			}
			return
		}
		if tok.Type == EOF {
			t.Fatal("expected InvalidLiteral error before EOF")
		}
	}
}

func TestNextTokenZeroIsValid(t *testing.T) {
	l := New([]byte("0"), "test.ax")
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != INT || tok.Literal != "0" {
		t.Fatalf("expected INT 0, got %s %q", tok.Type, tok.Literal)
	}
}

func TestNextTokenSpanTracking(t *testing.T) {
	l := New([]byte("fn\nf"), "test.ax")
	first, _ := l.NextToken()
	if first.Line != 1 || first.Column != 1 {
		t.Fatalf("expected first token at 1:1, got %d:%d", first.Line, first.Column)
	}
	second, _ := l.NextToken()
	if second.Line != 2 {
		t.Fatalf("expected second token on line 2, got line %d", second.Line)
	}
}

func TestNormalizeStripsBOMAndNFC(t *testing.T) {
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte("fn f() -> Int { 0 }")...)
	out := Normalize(withBOM)
	if string(out) != "fn f() -> Int { 0 }" {
		t.Fatalf("BOM not stripped: %q", out)
	}
	decomposed := []byte("cafe\xcc\x81") // "e" followed by U+0301 COMBINING ACUTE ACCENT
	if got := string(Normalize(decomposed)); got != "caf\xc3\xa9" {
		t.Fatalf("expected NFC-composed %q, got %q", "caf\xc3\xa9", got)
	}
}
