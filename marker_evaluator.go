package resolve

import "github.com/Tangerg/resolve/marker"

// MarkerEvaluator is the narrow interface the engine depends on for PEP
// 508 marker evaluation (spec §6). The engine never imports the `marker`
// package directly, so a caller can substitute a different implementation
// without touching the resolver core.
type MarkerEvaluator interface {
	Evaluate(expr marker.Expression, env map[string]string) (bool, error)
}
