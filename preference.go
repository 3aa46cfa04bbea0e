package resolve

import "sort"

// sortCandidatesByPreference sorts candidates most-preferred first,
// in place, by the lexicographic triple (version, tag_rank,
// build_disambiguator), all descending.
func sortCandidatesByPreference(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidatePreferenceLess(candidates[j], candidates[i])
	})
}

// candidatePreferenceLess reports whether a sorts strictly before b under
// ascending preference order (used internally so the public sort can
// invert it for descending/most-preferred-first output).
func candidatePreferenceLess(a, b Candidate) bool {
	av, bv := a.Descriptor().Version(), b.Descriptor().Version()
	if cmp := av.Compare(bv); cmp != 0 {
		return cmp < 0
	}

	ar, br := a.Descriptor().Tags().Rank(), b.Descriptor().Tags().Rank()
	if ar != br {
		return ar < br
	}

	return a.Descriptor().BuildDisambiguator() < b.Descriptor().BuildDisambiguator()
}
