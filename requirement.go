package resolve

import (
	"errors"

	"github.com/Tangerg/resolve/marker"
	"github.com/Tangerg/resolve/pkg/assert"
	"github.com/Tangerg/resolve/version"
)

// Requirement is a constraint on a distribution: the identity it applies
// to, a version specifier set, and an optional marker expression that must
// evaluate true under the target environment for the requirement to be
// live. Requirements are created from parsed requirement strings or
// synthesized internally (the extras self-pin, spec §4.4). Requirement
// equality is by (identity, raw) — two requirements with the same identity
// but different source text are never considered the same requirement.
type Requirement struct {
	identity   Identity
	specifiers version.SpecifierSet
	marker     marker.Expression
	raw        string
}

// Identity returns the distribution/extras identity this requirement
// constrains.
func (r Requirement) Identity() Identity {
	return r.identity
}

// Specifiers returns the version specifier set this requirement demands.
func (r Requirement) Specifiers() version.SpecifierSet {
	return r.specifiers
}

// Marker returns the requirement's conditional marker expression, or nil if
// the requirement is unconditional.
func (r Requirement) Marker() marker.Expression {
	return r.marker
}

// Raw returns the original requirement source text, used only for equality
// and diagnostics.
func (r Requirement) Raw() string {
	return r.raw
}

// Satisfies reports whether a descriptor version lies in this requirement's
// specifier set (spec §4.4 "Satisfaction test"). Identity matching is the
// caller's responsibility: Requirement carries no descriptor reference.
func (r Requirement) Satisfies(v version.Version) bool {
	return r.specifiers.Contains(v)
}

// Equal reports whether r and other share both identity and raw source
// text.
func (r Requirement) Equal(other Requirement) bool {
	return r.identity.Equal(other.identity) && r.raw == other.raw
}

// WithoutMarker returns a copy of r with its marker expression stripped.
// Dependency gathering (spec §4.4) emits requirements this way once their
// marker has already been evaluated.
func (r Requirement) WithoutMarker() Requirement {
	if r.marker == nil {
		return r
	}
	cp := r
	cp.marker = nil
	return cp
}

// RequirementBuilder builds an immutable Requirement through fluent WithX
// calls, validated at Build time.
type RequirementBuilder struct {
	name       string
	extras     []string
	specifiers version.SpecifierSet
	marker     marker.Expression
	raw        string
}

// NewRequirementBuilder creates an empty RequirementBuilder.
func NewRequirementBuilder() *RequirementBuilder {
	return &RequirementBuilder{}
}

// WithName sets the distribution name if not empty.
func (b *RequirementBuilder) WithName(rawName string) *RequirementBuilder {
	if rawName != "" {
		b.name = rawName
	}
	return b
}

// WithExtras appends requested extras.
func (b *RequirementBuilder) WithExtras(extras ...string) *RequirementBuilder {
	b.extras = append(b.extras, extras...)
	return b
}

// WithSpecifiers sets the version specifier set.
func (b *RequirementBuilder) WithSpecifiers(s version.SpecifierSet) *RequirementBuilder {
	b.specifiers = s
	return b
}

// WithMarker sets the conditional marker expression.
func (b *RequirementBuilder) WithMarker(m marker.Expression) *RequirementBuilder {
	b.marker = m
	return b
}

// WithRaw sets the original requirement source text, used for equality and
// diagnostics.
func (b *RequirementBuilder) WithRaw(raw string) *RequirementBuilder {
	b.raw = raw
	return b
}

func (b *RequirementBuilder) validate() error {
	if b.name == "" {
		return errors.New("resolve: requirement name is required")
	}
	return nil
}

// Build validates and constructs the Requirement.
func (b *RequirementBuilder) Build() (Requirement, error) {
	if err := b.validate(); err != nil {
		return Requirement{}, err
	}
	return Requirement{
		identity:   NewIdentity(b.name, b.extras...),
		specifiers: b.specifiers,
		marker:     b.marker,
		raw:        b.raw,
	}, nil
}

// MustBuild builds the Requirement, panicking on validation failure.
func (b *RequirementBuilder) MustBuild() Requirement {
	return assert.ErrorIsNil(b.Build())
}

// NewPinnedRequirement synthesizes the exact-version self-pin requirement
// emitted during dependency gathering for an extras-bearing identity
// (spec §4.4: "(N, ∅) == C.descriptor.version"). It carries no marker —
// self-pins are never conditional — and its raw text records both the name
// and version for diagnostics.
func NewPinnedRequirement(rawName string, v version.Version) Requirement {
	return NewRequirementBuilder().
		WithName(rawName).
		WithSpecifiers(version.Pinned(v)).
		WithRaw(rawName + "==" + v.String()).
		MustBuild()
}
