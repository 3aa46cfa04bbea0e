package resolve

import (
	"context"
	"fmt"
	"sort"

	"github.com/Tangerg/resolve/pkg/maps"
	"github.com/Tangerg/resolve/pkg/sets"
)

// descriptorArena is the filtered-descriptor cache named in spec §3/§9: a
// name-keyed, insertion-ordered cache of a distribution's
// environment-compatible descriptors, computed once per run and shared by
// every identity over that name (bare and extras-bearing alike), since
// the descriptor set itself does not depend on which extras were
// requested. Backed by pkg/maps.LinkedMap rather than a plain map so the
// cache's own iteration, where it matters for diagnostics, stays
// insertion-ordered.
type descriptorArena struct {
	cache *maps.LinkedMap[string, []*ArtifactDescriptor]
}

func newDescriptorArena() *descriptorArena {
	return &descriptorArena{cache: maps.NewLinkedMap[string, []*ArtifactDescriptor]()}
}

func (a *descriptorArena) get(name string) ([]*ArtifactDescriptor, bool) {
	return a.cache.Get(name)
}

func (a *descriptorArena) set(name string, descriptors []*ArtifactDescriptor) {
	a.cache.Put(name, descriptors)
}

// criterion accumulates every requirement seen so far for one identity,
// plus its most recently enumerated, preference-sorted candidate list.
// Grounded on the reference PyPI resolver's criterion/criteria types.
type criterion struct {
	identity     Identity
	requirements []Requirement
	candidates   []Candidate
}

// satisfiedBy reports whether a committed candidate satisfies every
// requirement accumulated so far for this criterion's identity.
func (c *criterion) satisfiedBy(cand Candidate) bool {
	for _, r := range c.requirements {
		if !r.Satisfies(cand.Descriptor().Version()) {
			return false
		}
	}
	return true
}

// searchState is the resolver's mutable run state (spec §3 "Resolver Run
// State"): committed candidates per identity, the criteria accumulated per
// identity, and the per-identity incompatibility set of previously-tried,
// now-excluded descriptors. Each identity's incompatibility set is a
// pkg/sets.HashSet keyed by descriptor pointer: descriptors for a given
// name are fetched once into descriptorArena and the same pointers are
// reused for every subsequent lookup, so pointer identity is a valid (and
// O(1)) membership test here.
type searchState struct {
	committed    map[string]Candidate
	criteria     map[string]*criterion
	incompatible map[string]sets.Set[*ArtifactDescriptor]
	order        []string // identity keys in first-seen order
	arena        *descriptorArena
}

func newSearchState() *searchState {
	return &searchState{
		committed:    make(map[string]Candidate),
		criteria:     make(map[string]*criterion),
		incompatible: make(map[string]sets.Set[*ArtifactDescriptor]),
		arena:        newDescriptorArena(),
	}
}

// mergeRequirement folds a new requirement into its identity's criterion,
// creating the criterion on first sight and recording first-seen order so
// later iteration never depends on Go's randomized map order (spec §9).
func (s *searchState) mergeRequirement(r Requirement) {
	key := r.Identity().Key()
	crit, ok := s.criteria[key]
	if !ok {
		crit = &criterion{identity: r.Identity()}
		s.criteria[key] = crit
		s.order = append(s.order, key)
	}
	crit.requirements = append(crit.requirements, r)
}

// unsettledIdentities returns the identity keys whose criterion is not yet
// committed, or is committed to a candidate that no longer satisfies its
// accumulated requirements, sorted deterministically by identity key (spec
// §9's "do not rely on hash-table iteration order" directive, applied to
// criteria selection as well as storage).
func (s *searchState) unsettledIdentities() []string {
	var out []string
	for _, key := range s.order {
		crit := s.criteria[key]
		if committed, ok := s.committed[key]; ok && crit.satisfiedBy(committed) {
			continue
		}
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// enumerateCandidates implements candidate enumeration for an identity
// (spec §4.3): fetch-and-filter the name's descriptor list (cached once
// per run), restrict to descriptors satisfying every active requirement,
// fetch missing metadata in bulk, drop environment-incompatible-by-metadata
// descriptors, exclude descriptors already ruled out, and sort the
// survivors by preference.
func enumerateCandidates(ctx context.Context, crit *criterion, st *searchState, env *EnvironmentProfile, provider Provider) ([]Candidate, error) {
	name := crit.identity.Name().String()

	available, ok := st.arena.get(name)
	if !ok {
		all, err := provider.Available(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolve: fetching available descriptors for %q: %w", name, err)
		}
		for _, d := range all {
			if isEnvironmentCompatible(d, env) {
				available = append(available, d)
			}
		}
		st.arena.set(name, available)
	}

	var matching []*ArtifactDescriptor
	for _, d := range available {
		satisfiesAll := true
		for _, r := range crit.requirements {
			if !r.Satisfies(d.Version()) {
				satisfiesAll = false
				break
			}
		}
		if satisfiesAll {
			matching = append(matching, d)
		}
	}

	var needMetadata []*ArtifactDescriptor
	for _, d := range matching {
		if !d.HasMetadata() {
			needMetadata = append(needMetadata, d)
		}
	}
	if len(needMetadata) > 0 {
		if err := provider.FetchMetadata(ctx, needMetadata); err != nil {
			return nil, fmt.Errorf("resolve: fetching metadata for %q: %w", name, err)
		}
	}

	excluded := st.incompatible[crit.identity.Key()]

	var candidates []Candidate
	for _, d := range matching {
		if !isMetadataCompatible(d, env) {
			continue
		}
		if excluded != nil && excluded.Contains(d) {
			continue
		}
		candidates = append(candidates, NewCandidate(crit.identity, d))
	}

	sortCandidatesByPreference(candidates)
	return candidates, nil
}

// decision records one commit so the search can backtrack it later: the
// identity committed, the candidate previously committed (if any, for
// restoring on backtrack past an overwrite), and the length each
// identity's requirement list had grown to, so requirements contributed by
// this commit's dependency gathering can be trimmed off on backtrack.
type decision struct {
	identityKey     string
	priorCandidate  Candidate
	hadPrior        bool
	requirementCuts map[string]int
}

// backtrackingSearch runs the engine's core loop (spec §4.4): repeatedly
// pick the most-constrained unsettled identity, commit its most preferred
// remaining candidate, gather and merge its dependencies, and continue;
// on failure to find any candidate for the chosen identity, undo the most
// recent commit, mark it incompatible, and retry.
func backtrackingSearch(
	ctx context.Context,
	requirements []Requirement,
	env *EnvironmentProfile,
	provider Provider,
	evaluator MarkerEvaluator,
	reporter *Reporter,
	maxRounds int,
) (map[string]Candidate, error) {
	st := newSearchState()
	for _, r := range requirements {
		st.mergeRequirement(r)
	}

	var history []decision
	var lastCauses []error
	seenCauses := sets.NewHashSet[string]()

	rounds := 0
	for {
		rounds++
		if rounds > maxRounds {
			return nil, &ResolutionImpossible{
				Residual: residualRequirements(st),
				Causes:   fmt.Errorf("%w (after %d rounds)", ErrTooDeep, rounds),
			}
		}

		unsettled := st.unsettledIdentities()
		if len(unsettled) == 0 {
			committed := make(map[string]Candidate, len(st.committed))
			for k, v := range st.committed {
				committed[k] = v
			}
			reporter.OnResolved(committed)
			return committed, nil
		}

		key := pickMostConstrained(ctx, unsettled, st, env, provider, reporter)
		crit := st.criteria[key]

		candidates, err := enumerateCandidates(ctx, crit, st, env, provider)
		if err != nil {
			return nil, err
		}

		if len(candidates) == 0 {
			if n := len(history); n > 0 {
				reporter.OnBacktrack(st.committed[history[n-1].identityKey])
			}
			ok, err := backtrack(&history, st)
			if err != nil && seenCauses.Add(err.Error()) {
				lastCauses = append(lastCauses, err)
			}
			if !ok {
				return nil, newResolutionImpossible(residualRequirements(st), lastCauses)
			}
			continue
		}

		chosen := candidates[0]
		dec := commit(st, crit, chosen)
		reporter.OnCommit(chosen)

		deps, err := gatherDependencies(chosen, env, evaluator)
		if err != nil {
			return nil, fmt.Errorf("resolve: gathering dependencies for %s: %w", chosen.Identity(), err)
		}
		for _, d := range deps {
			st.mergeRequirement(d)
		}

		history = append(history, dec)
	}
}

// pickMostConstrained returns the identity key among unsettled with the
// fewest enumerated candidates, preferring fewer live options first to
// minimize backtracking (spec §4.4 "Preference/tie-breaking"). Ties break
// by identity key, which is already how unsettled is sorted.
func pickMostConstrained(ctx context.Context, unsettled []string, st *searchState, env *EnvironmentProfile, provider Provider, reporter *Reporter) string {
	best := unsettled[0]
	bestCount := -1
	for _, key := range unsettled {
		crit := st.criteria[key]
		reporter.OnConsider(crit.identity)
		candidates, err := enumerateCandidates(ctx, crit, st, env, provider)
		if err != nil {
			// Deferred: the real enumeration call in the main loop will
			// surface this error properly. Treat as maximally constrained
			// so the loop reaches it next and returns the error.
			return key
		}
		count := len(candidates)
		if bestCount == -1 || count < bestCount {
			best = key
			bestCount = count
		}
	}
	return best
}

// commit pins a candidate for its identity, recording enough to undo it.
func commit(st *searchState, crit *criterion, chosen Candidate) decision {
	prior, hadPrior := st.committed[crit.identity.Key()]

	cuts := make(map[string]int, len(st.criteria))
	for key, c := range st.criteria {
		cuts[key] = len(c.requirements)
	}

	st.committed[crit.identity.Key()] = chosen

	return decision{
		identityKey:     crit.identity.Key(),
		priorCandidate:  prior,
		hadPrior:        hadPrior,
		requirementCuts: cuts,
	}
}

// backtrack undoes the most recent decision: the candidate it committed is
// added to the incompatibility set for its identity (or restored to the
// prior commit, if any), and every requirement contributed since that
// decision is trimmed back off. Reports whether a decision was available
// to undo.
func backtrack(history *[]decision, st *searchState) (bool, error) {
	if len(*history) == 0 {
		return false, fmt.Errorf("resolve: no candidate exists at the root")
	}

	last := (*history)[len(*history)-1]
	*history = (*history)[:len(*history)-1]

	rejected := st.committed[last.identityKey]
	key := last.identityKey
	if st.incompatible[key] == nil {
		st.incompatible[key] = sets.NewHashSet[*ArtifactDescriptor]()
	}
	st.incompatible[key].Add(rejected.Descriptor())

	if last.hadPrior {
		st.committed[key] = last.priorCandidate
	} else {
		delete(st.committed, key)
	}

	var survivingOrder []string
	for _, critKey := range st.order {
		c := st.criteria[critKey]
		cut, existedBeforeCommit := last.requirementCuts[critKey]
		if !existedBeforeCommit {
			// This criterion was created entirely by the decision being
			// undone (a dependency requirement for an identity never seen
			// before); remove it rather than merely trimming it.
			delete(st.criteria, critKey)
			delete(st.committed, critKey)
			delete(st.incompatible, critKey)
			continue
		}
		if cut < len(c.requirements) {
			c.requirements = c.requirements[:cut]
		}
		survivingOrder = append(survivingOrder, critKey)
	}
	st.order = survivingOrder

	return true, fmt.Errorf("resolve: candidate %s rejected for %s", rejected.Descriptor().Version(), key)
}

// residualRequirements flattens every unsatisfied criterion's requirements
// into the residual set a ResolutionImpossible reports.
func residualRequirements(st *searchState) []Requirement {
	var out []Requirement
	for _, key := range st.unsettledIdentities() {
		out = append(out, st.criteria[key].requirements...)
	}
	return out
}
