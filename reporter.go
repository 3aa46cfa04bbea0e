package resolve

// Reporter is an optional set of no-op-by-default progress hooks a caller
// may supply to observe a run without affecting its outcome (spec §7). A
// nil *Reporter is valid; the engine resolves it to no-ops at construction
// rather than nil-checking on every callback site.
type Reporter struct {
	// OnConsider fires when the engine starts enumerating candidates for
	// an identity.
	OnConsider func(identity Identity)
	// OnCommit fires when the engine commits a candidate for an identity.
	OnCommit func(candidate Candidate)
	// OnBacktrack fires when the engine uncommits a candidate and adds it
	// to the incompatibility set for its identity.
	OnBacktrack func(candidate Candidate)
	// OnResolved fires once, after a run completes successfully.
	OnResolved func(committed map[string]Candidate)
}

func noopReporter() *Reporter {
	return &Reporter{
		OnConsider:  func(Identity) {},
		OnCommit:    func(Candidate) {},
		OnBacktrack: func(Candidate) {},
		OnResolved:  func(map[string]Candidate) {},
	}
}

// normalizeReporter returns r if non-nil with all hooks populated,
// otherwise a fully no-op Reporter. Individual nil fields on a supplied
// Reporter are also filled with no-ops so callers need only set the hooks
// they care about.
func normalizeReporter(r *Reporter) *Reporter {
	if r == nil {
		return noopReporter()
	}
	out := *r
	if out.OnConsider == nil {
		out.OnConsider = func(Identity) {}
	}
	if out.OnCommit == nil {
		out.OnCommit = func(Candidate) {}
	}
	if out.OnBacktrack == nil {
		out.OnBacktrack = func(Candidate) {}
	}
	if out.OnResolved == nil {
		out.OnResolved = func(map[string]Candidate) {}
	}
	return &out
}
