// Package lexer tokenizes marker-expression source text into a stream of
// marker/token.Token values, using a hand-rolled rune scanner in the same
// style as the teacher's query-filter lexer (no regexp for the structural
// grammar; dlclark/regexp2 is reserved for literal grammars inside the
// version/marker value domains, not for tokenizing the expression shape
// itself).
package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Tangerg/resolve/marker/token"
)

// Lexer scans one marker expression into tokens on demand.
type Lexer struct {
	src   []rune
	pos   int
	start int
}

// New constructs a Lexer over the given source text.
func New(src string) *Lexer {
	return &Lexer{src: []rune(src)}
}

// Next scans and returns the next token, or an EOF token once the input is
// exhausted. A lexical error is reported as a token.ERROR token whose Text
// carries a human-readable description.
func (l *Lexer) Next() token.Token {
	l.skipSpace()
	l.start = l.pos

	if l.atEOF() {
		return l.emit(token.EOF)
	}

	r := l.peek()
	switch {
	case r == '(':
		l.advance()
		return l.emit(token.LPAREN)
	case r == ')':
		l.advance()
		return l.emit(token.RPAREN)
	case r == '\'' || r == '"':
		return l.scanString(r)
	case r == '=':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return l.emit(token.EQ)
		}
		return l.errorf("unexpected '=' (did you mean '=='?)")
	case r == '!':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return l.emit(token.NE)
		}
		return l.errorf("unexpected '!' (did you mean '!='?)")
	case r == '<':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return l.emit(token.LE)
		}
		return l.emit(token.LT)
	case r == '>':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return l.emit(token.GE)
		}
		return l.emit(token.GT)
	case token.IsIdentifierStart(r):
		return l.scanIdentOrKeyword()
	default:
		l.advance()
		return l.errorf("unexpected character %q", r)
	}
}

func (l *Lexer) scanString(quote rune) token.Token {
	l.advance() // opening quote
	for {
		if l.atEOF() {
			return l.errorf("unterminated string literal")
		}
		if l.peek() == quote {
			l.advance()
			return l.emit(token.STRING)
		}
		l.advance()
	}
}

func (l *Lexer) scanIdentOrKeyword() token.Token {
	for !l.atEOF() && token.IsIdentifierChar(l.peek()) {
		l.advance()
	}
	text := string(l.src[l.start:l.pos])
	return l.emit(token.KindOf(text))
}

func (l *Lexer) skipSpace() {
	for !l.atEOF() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) peek() rune {
	if l.atEOF() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) advance() {
	l.pos++
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) emit(k token.Kind) token.Token {
	return token.Token{Kind: k, Text: string(l.src[l.start:l.pos]), Pos: l.start}
}

func (l *Lexer) errorf(format string, args ...any) token.Token {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(format, args...))
	return token.Token{Kind: token.ERROR, Text: b.String(), Pos: l.start}
}
