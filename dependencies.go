package resolve

// gatherDependencies computes the requirements a committed candidate
// contributes to the search (spec §4.4 "Dependency gathering"). Markers
// are evaluated and then stripped from emitted requirements, since a
// requirement's marker is only ever consulted once. If the candidate's
// identity carries extras, a synthesized self-pin requirement for the bare
// identity is emitted first, ahead of the extras' own dependencies (spec §5
// "Ordering").
func gatherDependencies(c Candidate, env *EnvironmentProfile, evaluator MarkerEvaluator) ([]Requirement, error) {
	var out []Requirement

	if c.Identity().HasExtras() {
		out = append(out, NewPinnedRequirement(c.Identity().Name().String(), c.Descriptor().Version()))
	}

	metadata := c.Descriptor().Metadata()
	if metadata == nil {
		return out, nil
	}

	for _, dep := range metadata.Dependencies() {
		include, err := dependencyIsLive(dep, c.Identity(), env, evaluator)
		if err != nil {
			return nil, err
		}
		if include {
			out = append(out, dep.WithoutMarker())
		}
	}

	return out, nil
}

// dependencyIsLive decides whether a single dependency-list entry should
// be emitted as a live requirement, per §4.4's marker evaluation rules:
// no marker → always include; a true marker under the plain environment →
// include; otherwise, if the owning identity requested extras, re-evaluate
// once per extra with the environment augmented by "extra" → include if
// any evaluation is true.
func dependencyIsLive(dep Requirement, owner Identity, env *EnvironmentProfile, evaluator MarkerEvaluator) (bool, error) {
	marker := dep.Marker()
	if marker == nil {
		return true, nil
	}

	ok, err := evaluator.Evaluate(marker, env.MarkerValues())
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}

	if !owner.HasExtras() {
		return false, nil
	}

	for _, extra := range owner.Extras() {
		augmented := augmentMarkerValues(env.MarkerValues(), extra)
		ok, err := evaluator.Evaluate(marker, augmented)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}

	return false, nil
}

// augmentMarkerValues returns a fresh map equal to base plus an "extra"
// binding, never mutating base — dependency gathering's per-extra
// evaluation must not leak state across extras or across calls (spec §9
// "Marker evaluation augmentation").
func augmentMarkerValues(base map[string]string, extra string) map[string]string {
	out := make(map[string]string, len(base)+1)
	for k, v := range base {
		out[k] = v
	}
	out["extra"] = extra
	return out
}
