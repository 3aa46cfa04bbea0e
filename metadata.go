package resolve

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/Tangerg/resolve/name"
	"github.com/Tangerg/resolve/pkg/assert"
	"github.com/Tangerg/resolve/pkg/sets"
	"github.com/Tangerg/resolve/version"
)

// ArtifactMetadata is the dependency information fetched for a descriptor:
// its own interpreter constraint (if declared independently of the
// descriptor's), the extras it provides, and its dependency list in
// declared order. Metadata is attached to its descriptor after fetch and is
// read-only thereafter (spec §3).
type ArtifactMetadata struct {
	declaredInterpreterSpecSet version.SpecifierSet
	declaredInterpreterAbsent  bool
	providedExtras             []string
	dependencyList             *orderedmap.OrderedMap[int, DependencyEntry]
}

// DependencyEntry is one entry of an ArtifactMetadata's dependency list: a
// requirement plus the marker expression it was declared under. The
// requirement's own Marker (if any) already carries this; DependencyEntry
// exists so dependency gathering (§4.4) can iterate the ordered map without
// re-deriving the requirement's marker from elsewhere.
type DependencyEntry struct {
	Requirement Requirement
}

// HasDeclaredInterpreterConstraint reports whether this metadata declares
// its own interpreter-version constraint.
func (m *ArtifactMetadata) HasDeclaredInterpreterConstraint() bool {
	return !m.declaredInterpreterAbsent
}

// DeclaredInterpreterConstraint returns the metadata-level interpreter
// constraint, valid only if HasDeclaredInterpreterConstraint is true.
func (m *ArtifactMetadata) DeclaredInterpreterConstraint() version.SpecifierSet {
	return m.declaredInterpreterSpecSet
}

// ProvidedExtras returns the canonical extras names this artifact declares.
func (m *ArtifactMetadata) ProvidedExtras() []string {
	return m.providedExtras
}

// DependencyList returns the metadata's dependency requirements in the
// order they were declared.
func (m *ArtifactMetadata) DependencyList() *orderedmap.OrderedMap[int, DependencyEntry] {
	return m.dependencyList
}

// Dependencies returns the dependency list flattened into a plain slice,
// preserving declared order.
func (m *ArtifactMetadata) Dependencies() []Requirement {
	if m.dependencyList == nil {
		return nil
	}
	out := make([]Requirement, 0, m.dependencyList.Len())
	for pair := m.dependencyList.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.Requirement)
	}
	return out
}

// ArtifactMetadataBuilder builds an immutable ArtifactMetadata.
type ArtifactMetadataBuilder struct {
	declaredInterpreterRaw   string
	declaredInterpreterIsSet bool
	providedExtras           []string
	dependencies             []Requirement
}

// NewArtifactMetadataBuilder creates an empty builder.
func NewArtifactMetadataBuilder() *ArtifactMetadataBuilder {
	return &ArtifactMetadataBuilder{}
}

// WithDeclaredInterpreterConstraint sets the metadata-level interpreter
// constraint.
func (b *ArtifactMetadataBuilder) WithDeclaredInterpreterConstraint(raw string) *ArtifactMetadataBuilder {
	b.declaredInterpreterRaw = raw
	b.declaredInterpreterIsSet = true
	return b
}

// WithProvidedExtras appends declared extras names.
func (b *ArtifactMetadataBuilder) WithProvidedExtras(extras ...string) *ArtifactMetadataBuilder {
	b.providedExtras = append(b.providedExtras, extras...)
	return b
}

// WithDependency appends a dependency requirement, preserving call order as
// the declared dependency-list order.
func (b *ArtifactMetadataBuilder) WithDependency(r Requirement) *ArtifactMetadataBuilder {
	b.dependencies = append(b.dependencies, r)
	return b
}

func (b *ArtifactMetadataBuilder) validate() error {
	return nil
}

// Build constructs the ArtifactMetadata.
func (b *ArtifactMetadataBuilder) Build() (*ArtifactMetadata, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	m := &ArtifactMetadata{
		providedExtras:            normalizeExtrasList(b.providedExtras),
		declaredInterpreterAbsent: !b.declaredInterpreterIsSet,
		dependencyList:            orderedmap.New[int, DependencyEntry](),
	}

	if b.declaredInterpreterIsSet {
		spec, err := version.ParseSpecifierSet(b.declaredInterpreterRaw)
		if err != nil {
			return nil, err
		}
		m.declaredInterpreterSpecSet = spec
	}

	for i, dep := range b.dependencies {
		m.dependencyList.Set(i, DependencyEntry{Requirement: dep})
	}

	return m, nil
}

// MustBuild builds the ArtifactMetadata, panicking on failure.
func (b *ArtifactMetadataBuilder) MustBuild() *ArtifactMetadata {
	return assert.ErrorIsNil(b.Build())
}

// normalizeExtrasList canonicalizes, deduplicates, and sorts a raw extras
// name list, mirroring Identity's extras normalization. Deduplication is
// done with a pkg/sets.HashSet rather than a bare map literal, since an
// extras list is exactly the "set" abstraction that package models.
func normalizeExtrasList(raw []string) []string {
	extrasSet := sets.NewHashSet[string](len(raw))
	for _, e := range raw {
		if ce := string(name.Canonicalize(e)); ce != "" {
			extrasSet.Add(ce)
		}
	}
	out := extrasSet.ToSlice()
	sort.Strings(out)
	return out
}
