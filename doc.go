// Package resolve implements a PyPI-wheel-style dependency resolver:
// given a set of top-level requirements and a target environment profile,
// it picks exactly one compatible artifact per distribution (and per
// distribution-with-extras) such that every live requirement, including
// transitively-discovered ones, is satisfied.
//
// The resolver core depends on two narrow collaborator interfaces,
// Provider and MarkerEvaluator, and never on their concrete
// implementations: callers supply an index (see provider/memory for a
// reference implementation) and a marker evaluator (see package marker for
// the one this repository ships).
//
// Example:
//
//	engine := resolve.NewEngine(myProvider, marker.NewEvaluator())
//	committed, err := engine.Resolve(ctx, requirements, env)
package resolve
