package resolve

// Candidate pairs a requirement identity with the artifact descriptor
// chosen to satisfy it. Candidates are created fresh during enumeration
// (spec §4.3) and never mutated afterward, though the descriptor they point
// to may gain metadata as the run progresses.
type Candidate struct {
	identity   Identity
	descriptor *ArtifactDescriptor
}

// NewCandidate pairs an identity with the descriptor chosen for it.
func NewCandidate(identity Identity, descriptor *ArtifactDescriptor) Candidate {
	return Candidate{identity: identity, descriptor: descriptor}
}

// Identity returns the candidate's requirement identity.
func (c Candidate) Identity() Identity {
	return c.identity
}

// Descriptor returns the candidate's chosen artifact descriptor.
func (c Candidate) Descriptor() *ArtifactDescriptor {
	return c.descriptor
}

// Equal reports whether two candidates share both identity and descriptor
// (spec §3: "Two Candidates are equal iff identities and descriptors are
// equal").
func (c Candidate) Equal(other Candidate) bool {
	return c.identity.Equal(other.identity) && c.descriptor.Equal(other.descriptor)
}
