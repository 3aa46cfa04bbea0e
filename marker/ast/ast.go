// Package ast defines the marker-expression syntax tree produced by
// marker/parser and consumed by the marker evaluator.
package ast

import "github.com/Tangerg/resolve/marker/token"

// Expression is any node of a parsed marker expression.
type Expression interface {
	expressionNode()
}

// Operand is either a Variable (an environment lookup) or a Literal (a
// quoted string constant).
type Operand interface {
	operandNode()
}

// Variable references an environment value by name, e.g. python_version.
type Variable struct {
	Name string
}

func (Variable) operandNode() {}

// Literal is a quoted string constant.
type Literal struct {
	Value string
}

func (Literal) operandNode() {}

// Comparison is "left <op> right", e.g. python_version >= '3.8'. Negate is
// set only for "not in", which shares token.IN as Op with Negate true.
type Comparison struct {
	Left   Operand
	Op     token.Kind
	Right  Operand
	Negate bool
}

func (Comparison) expressionNode() {}

// And is a conjunction of two sub-expressions.
type And struct {
	Left, Right Expression
}

func (And) expressionNode() {}

// Or is a disjunction of two sub-expressions.
type Or struct {
	Left, Right Expression
}

func (Or) expressionNode() {}

// Not negates a sub-expression. PEP 508 markers do not themselves use a
// unary "not" outside of "not in", but the grammar accommodates one for
// generality and symmetry with the teacher's query-filter AST, which
// supports the same shape.
type Not struct {
	Expr Expression
}

func (Not) expressionNode() {}
