package token

import (
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		tokenType TokenType
		lexeme    string
		line      int
		want      Token
	}{
		{
			name:      "Create ASSIGN token",
			tokenType: ASSIGN,
			lexeme:    "=",
			line:      1,
			want:      Token{TokenType: ASSIGN, Lexeme: "=", Line: 1},
		},
		{
			name:      "Create IDENTIFIER token",
			tokenType: IDENTIFIER,
			lexeme:    "myVar",
			line:      3,
			want:      Token{TokenType: IDENTIFIER, Lexeme: "myVar", Line: 3},
		},
		{
			name:      "Create NUMBER token",
			tokenType: NUMBER,
			lexeme:    "42",
			line:      1,
			want:      Token{TokenType: NUMBER, Lexeme: "42", Line: 1},
		},
		{
			name:      "Create MULT token",
			tokenType: MULT,
			lexeme:    "*",
			line:      2,
			want:      Token{TokenType: MULT, Lexeme: "*", Line: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.tokenType, tt.lexeme, tt.line)
			if got != tt.want {
				t.Errorf("New() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewError(t *testing.T) {
	got := NewError("Unterminated string.", 5)
	want := Token{TokenType: ERROR, Lexeme: "Unterminated string.", Line: 5}
	if got != want {
		t.Errorf("NewError() = %v, want %v", got, want)
	}
}

func TestKeyWordsLookup(t *testing.T) {
	cases := map[string]TokenType{
		"and": AND, "class": CLASS, "else": ELSE, "false": FALSE,
		"for": FOR, "fun": FUNC, "if": IF, "nil": NIL, "or": OR,
		"print": PRINT, "return": RETURN, "super": SUPER, "this": THIS,
		"true": TRUE, "var": VAR, "while": WHILE,
	}
	for lexeme, want := range cases {
		got, ok := KeyWords[lexeme]
		if !ok {
			t.Errorf("KeyWords[%q] missing", lexeme)
			continue
		}
		if got != want {
			t.Errorf("KeyWords[%q] = %v, want %v", lexeme, got, want)
		}
	}

	if _, ok := KeyWords["notAKeyword"]; ok {
		t.Errorf("KeyWords contained unexpected entry")
	}
}
