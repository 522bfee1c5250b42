// Package scanner turns Lox source text into a lazily produced stream of
// tokens. Unlike the teacher's original lexer (which eagerly scanned the
// whole input into a slice before parsing began), this scanner is
// pull-driven: the compiler calls ScanToken one token at a time, which
// keeps the compiler and scanner in lock-step the way a single-pass,
// no-AST compiler needs.
package scanner

import (
	"golox/token"
)

// Scanner walks source text byte by byte, tracking the start of the token
// currently being matched, its read cursor, and the current source line.
type Scanner struct {
	source  string
	start   int
	current int
	line    int
}

// New creates a Scanner positioned at the beginning of source.
func New(source string) *Scanner {
	return &Scanner{source: source, line: 1}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

// advance consumes and returns the current character.
func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

// match consumes the current character if it equals expected.
func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) makeToken(t token.TokenType) token.Token {
	return token.New(t, s.source[s.start:s.current], s.line)
}

func (s *Scanner) errorToken(message string) token.Token {
	return token.NewError(message, s.line)
}

// skipWhitespace consumes spaces, tabs, carriage returns, newlines, and
// "//"-to-end-of-line comments between tokens.
func (s *Scanner) skipWhitespace() {
	for {
		c := s.peek()
		switch c {
		case ' ', '\r', '\t':
			s.advance()
		case '\n':
			s.line++
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.isAtEnd() {
					s.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

// identifierType looks the whole scanned lexeme up in token.KeyWords to
// decide between a keyword token and a plain identifier. It does no
// character-by-character dispatch on the lexeme.
func (s *Scanner) identifierType() token.TokenType {
	text := s.source[s.start:s.current]
	if t, ok := token.KeyWords[text]; ok {
		return t
	}
	return token.IDENTIFIER
}

func (s *Scanner) identifier() token.Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	return s.makeToken(s.identifierType())
}

func (s *Scanner) number() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // consume the '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	return s.makeToken(token.NUMBER)
}

func (s *Scanner) string() token.Token {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.isAtEnd() {
		return s.errorToken("Unterminated string.")
	}
	s.advance() // the closing quote
	return s.makeToken(token.STRING)
}

// ScanToken produces the next token in the stream, or an EOF token once
// the source is exhausted. Scan errors (unterminated string, unexpected
// character) are surfaced as ERROR tokens rather than a Go error, so the
// compiler's ordinary advance/consume loop handles them uniformly.
func (s *Scanner) ScanToken() token.Token {
	s.skipWhitespace()
	s.start = s.current

	if s.isAtEnd() {
		return s.makeToken(token.EOF)
	}

	c := s.advance()

	if isAlpha(c) {
		return s.identifier()
	}
	if isDigit(c) {
		return s.number()
	}

	switch c {
	case '(':
		return s.makeToken(token.LPA)
	case ')':
		return s.makeToken(token.RPA)
	case '{':
		return s.makeToken(token.LCUR)
	case '}':
		return s.makeToken(token.RCUR)
	case ';':
		return s.makeToken(token.SEMICOLON)
	case ',':
		return s.makeToken(token.COMMA)
	case '.':
		return s.makeToken(token.DOT)
	case '-':
		return s.makeToken(token.SUB)
	case '+':
		return s.makeToken(token.ADD)
	case '/':
		return s.makeToken(token.DIV)
	case '*':
		return s.makeToken(token.MULT)
	case '!':
		if s.match('=') {
			return s.makeToken(token.NOT_EQUAL)
		}
		return s.makeToken(token.BANG)
	case '=':
		if s.match('=') {
			return s.makeToken(token.EQUAL_EQUAL)
		}
		return s.makeToken(token.ASSIGN)
	case '<':
		if s.match('=') {
			return s.makeToken(token.LESS_EQUAL)
		}
		return s.makeToken(token.LESS)
	case '>':
		if s.match('=') {
			return s.makeToken(token.LARGER_EQUAL)
		}
		return s.makeToken(token.LARGER)
	case '"':
		return s.string()
	}

	return s.errorToken("Unexpected character.")
}
