package resolve

import "context"

// DefaultMaxBacktrackRounds bounds how many commit/backtrack rounds a run
// may take before failing with ErrTooDeep (spec §4.4 FULL), grounded
// directly on the reference PyPI resolver's own maxRounds guard.
const DefaultMaxBacktrackRounds = 200_000

// EngineOption configures an Engine at construction time. The resolver
// takes no environment variables or config files (spec §6 FULL); every
// tunable is a constructor option, the same functional-option shape the
// teacher uses for its pool constructors.
type EngineOption func(*Engine)

// WithMaxBacktrackRounds overrides the default backtracking round budget.
func WithMaxBacktrackRounds(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxBacktrackRounds = n
		}
	}
}

// WithReporter attaches progress hooks to the engine.
func WithReporter(r *Reporter) EngineOption {
	return func(e *Engine) {
		e.reporter = normalizeReporter(r)
	}
}

// Engine is the resolver's backtracking search, wired to an Index Provider
// and a Marker Evaluator (spec §4.4). An Engine is safe to reuse across
// independent Resolve calls: each call owns its own run state and shares
// nothing with any other call, matching spec §5's "no shared resources
// across resolver instances".
type Engine struct {
	provider           Provider
	evaluator          MarkerEvaluator
	reporter           *Reporter
	maxBacktrackRounds int
}

// NewEngine constructs an Engine from its two required collaborators.
func NewEngine(provider Provider, evaluator MarkerEvaluator, opts ...EngineOption) *Engine {
	e := &Engine{
		provider:           provider,
		evaluator:          evaluator,
		reporter:           noopReporter(),
		maxBacktrackRounds: DefaultMaxBacktrackRounds,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve picks one candidate per identity that satisfies every live
// requirement, returning the committed map keyed by Identity.Key() (spec
// §4.4). ctx bounds only the provider's FetchMetadata suspension point
// (spec §5 FULL); the search loop itself is synchronous CPU work with no
// suspension points of its own, so ctx is never polled mid-search.
func (e *Engine) Resolve(ctx context.Context, requirements []Requirement, env *EnvironmentProfile) (map[string]Candidate, error) {
	return backtrackingSearch(ctx, requirements, env, e.provider, e.evaluator, e.reporter, e.maxBacktrackRounds)
}
