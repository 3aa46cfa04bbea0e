// Package marker is the resolver's shipped marker-expression
// implementation: a lexer/parser producing an ast.Expression, and a pure
// evaluator consuming it against an environment map.
//
// The distilled resolver specification treats the marker evaluator as an
// external collaborator the resolver consumes only through its boolean
// result (spec.md §1, §6). This package supplies a concrete one so the
// resolver can actually be exercised and tested end-to-end; resolve.Engine
// depends only on the narrow resolve.MarkerEvaluator interface, never on
// this package directly, so a caller may substitute a different
// implementation without touching the engine.
package marker

import (
	"fmt"
	"strings"

	"github.com/Tangerg/resolve/marker/ast"
	"github.com/Tangerg/resolve/marker/parser"
	"github.com/Tangerg/resolve/marker/token"
	"github.com/Tangerg/resolve/version"
)

// Expression is a parsed marker expression, ready for repeated evaluation
// against different environments.
type Expression = ast.Expression

// Parse parses raw marker-expression source into an Expression.
func Parse(raw string) (Expression, error) {
	return parser.Parse(raw)
}

// Evaluator evaluates a parsed Expression against an environment map. The
// zero value is ready to use; it holds no state of its own.
type Evaluator struct{}

// NewEvaluator constructs an Evaluator.
func NewEvaluator() Evaluator {
	return Evaluator{}
}

// Evaluate evaluates expr against env. env is read only — augmenting it
// with an "extra" key for extras-aware dependency gathering (spec.md
// §4.4/§9) is the caller's responsibility, done by building a fresh map,
// never by mutating one already in use.
func (Evaluator) Evaluate(expr Expression, env map[string]string) (bool, error) {
	return evaluate(expr, env)
}

func evaluate(expr Expression, env map[string]string) (bool, error) {
	switch e := expr.(type) {
	case ast.And:
		left, err := evaluate(e.Left, env)
		if err != nil {
			return false, err
		}
		if !left {
			return false, nil
		}
		return evaluate(e.Right, env)
	case ast.Or:
		left, err := evaluate(e.Left, env)
		if err != nil {
			return false, err
		}
		if left {
			return true, nil
		}
		return evaluate(e.Right, env)
	case ast.Not:
		inner, err := evaluate(e.Expr, env)
		if err != nil {
			return false, err
		}
		return !inner, nil
	case ast.Comparison:
		return evaluateComparison(e, env)
	default:
		return false, fmt.Errorf("marker: unhandled expression node %T", expr)
	}
}

func evaluateComparison(c ast.Comparison, env map[string]string) (bool, error) {
	left, err := resolveOperand(c.Left, env)
	if err != nil {
		return false, err
	}
	right, err := resolveOperand(c.Right, env)
	if err != nil {
		return false, err
	}

	switch c.Op {
	case token.IN:
		result := strings.Contains(right, left)
		if c.Negate {
			result = !result
		}
		return result, nil
	default:
		return compare(c.Op, left, right)
	}
}

// compare implements ==, !=, <, <=, >, >= between two operand values. Both
// sides are tried as versions first (most marker comparisons are against
// python_version / platform_version and similar dotted values); if either
// side fails to parse as a version, the comparison falls back to plain
// string equality for == and != (needed for values like os_name == 'posix'
// or extra == 'bonus'), and is an error for ordering operators, which have
// no meaningful string-only interpretation.
func compare(op token.Kind, left, right string) (bool, error) {
	lv, lerr := version.Parse(left)
	rv, rerr := version.Parse(right)
	if lerr == nil && rerr == nil {
		c := lv.Compare(rv)
		switch op {
		case token.EQ:
			return c == 0, nil
		case token.NE:
			return c != 0, nil
		case token.LT:
			return c < 0, nil
		case token.LE:
			return c <= 0, nil
		case token.GT:
			return c > 0, nil
		case token.GE:
			return c >= 0, nil
		}
	}

	switch op {
	case token.EQ:
		return left == right, nil
	case token.NE:
		return left != right, nil
	default:
		return false, fmt.Errorf("marker: cannot order non-version values %q and %q", left, right)
	}
}

func resolveOperand(op ast.Operand, env map[string]string) (string, error) {
	switch o := op.(type) {
	case ast.Literal:
		return o.Value, nil
	case ast.Variable:
		v, ok := env[o.Name]
		if !ok {
			return "", nil
		}
		return v, nil
	default:
		return "", fmt.Errorf("marker: unhandled operand node %T", op)
	}
}
