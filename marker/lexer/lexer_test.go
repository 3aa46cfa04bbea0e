package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Tangerg/resolve/marker/lexer"
	"github.com/Tangerg/resolve/marker/token"
)

func collect(src string) []token.Token {
	l := lexer.New(src)
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF || tok.Kind == token.ERROR {
			break
		}
	}
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestLexComparison(t *testing.T) {
	toks := collect(`python_version >= '3.8'`)
	require.Equal(t, []token.Kind{token.IDENT, token.GE, token.STRING, token.EOF}, kinds(toks))
	require.Equal(t, "3.8", toks[2].Value())
}

func TestLexKeywords(t *testing.T) {
	toks := collect(`a in b and not c`)
	require.Equal(t, []token.Kind{
		token.IDENT, token.IN, token.IDENT, token.AND, token.NOT, token.IDENT, token.EOF,
	}, kinds(toks))
}

func TestLexParens(t *testing.T) {
	toks := collect(`(a or b)`)
	require.Equal(t, []token.Kind{
		token.LPAREN, token.IDENT, token.OR, token.IDENT, token.RPAREN, token.EOF,
	}, kinds(toks))
}

func TestLexUnterminatedString(t *testing.T) {
	toks := collect(`'unterminated`)
	require.Equal(t, token.ERROR, toks[len(toks)-1].Kind)
}
