// Package parser builds a marker/ast.Expression from marker-expression
// source text, by recursive descent over marker/lexer's token stream.
// Precedence, low to high: or, and, not, comparison — the same ladder the
// teacher's query-filter token.Kind.Precedence documents for its own
// (structurally different) expression language.
package parser

import (
	"fmt"

	"github.com/Tangerg/resolve/marker/ast"
	"github.com/Tangerg/resolve/marker/lexer"
	"github.com/Tangerg/resolve/marker/token"
)

// Parser holds one parse's token lookahead state.
type Parser struct {
	lex  *lexer.Lexer
	cur  token.Token
	peek token.Token
}

// Parse parses a complete marker expression, returning an error that names
// the offending token and position on any syntax problem.
func Parse(src string) (ast.Expression, error) {
	p := &Parser{lex: lexer.New(src)}
	p.advance()
	p.advance()

	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != token.EOF {
		return nil, p.errorf("unexpected trailing token %q", p.cur.Text)
	}
	return expr, nil
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) errorf(format string, args ...any) error {
	return fmt.Errorf("marker: %s (at position %d)", fmt.Sprintf(format, args...), p.cur.Pos)
}

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.OR {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.AND {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.And{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.cur.Kind == token.NOT && p.peek.Kind != token.IN {
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.Not{Expr: inner}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	if p.cur.Kind == token.LPAREN {
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.cur.Kind != token.RPAREN {
			return nil, p.errorf("expected ')', found %q", p.cur.Text)
		}
		p.advance()
		return inner, nil
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	negate := false
	op := p.cur.Kind
	switch op {
	case token.EQ, token.NE, token.LT, token.LE, token.GT, token.GE:
		p.advance()
	case token.IN:
		p.advance()
	case token.NOT:
		p.advance()
		if p.cur.Kind != token.IN {
			return nil, p.errorf("expected 'in' after 'not', found %q", p.cur.Text)
		}
		op = token.IN
		negate = true
		p.advance()
	default:
		return nil, p.errorf("expected a comparison operator, found %q", p.cur.Text)
	}

	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	return ast.Comparison{Left: left, Op: op, Right: right, Negate: negate}, nil
}

func (p *Parser) parseOperand() (ast.Operand, error) {
	switch p.cur.Kind {
	case token.STRING:
		v := p.cur.Value()
		p.advance()
		return ast.Literal{Value: v}, nil
	case token.IDENT:
		v := p.cur.Text
		p.advance()
		return ast.Variable{Name: v}, nil
	default:
		return nil, p.errorf("expected a variable or string literal, found %q", p.cur.Text)
	}
}
