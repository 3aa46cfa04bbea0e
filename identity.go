package resolve

import (
	"strings"

	"github.com/Tangerg/resolve/name"
)

// Identity is the resolver's unit of commitment: a canonical distribution
// name paired with a (possibly empty) set of requested extras. Two
// identities are equal iff both components are equal; the empty-extras
// identity (N, ∅) is the bare distribution, and (N, {e1,...}) is a virtual
// sibling that must pin to the same version as (N, ∅) (spec §3, §9).
type Identity struct {
	name   name.Name
	extras []string
	key    string
}

// NewIdentity builds an Identity from a raw (not necessarily canonical)
// distribution name and a set of raw extras. Extras are canonicalized and
// deduplicated the same way the distribution name is, then sorted so the
// identity's key is independent of the order extras were requested in.
func NewIdentity(rawName string, rawExtras ...string) Identity {
	n := name.Canonicalize(rawName)
	extras := normalizeExtrasList(rawExtras)

	return Identity{
		name:   n,
		extras: extras,
		key:    buildIdentityKey(n, extras),
	}
}

func buildIdentityKey(n name.Name, sortedExtras []string) string {
	if len(sortedExtras) == 0 {
		return string(n)
	}
	var b strings.Builder
	b.WriteString(string(n))
	b.WriteByte('[')
	b.WriteString(strings.Join(sortedExtras, ","))
	b.WriteByte(']')
	return b.String()
}

// Name returns the identity's canonical distribution name.
func (i Identity) Name() name.Name {
	return i.name
}

// Extras returns the identity's sorted, canonicalized extras. The returned
// slice must not be mutated by callers.
func (i Identity) Extras() []string {
	return i.extras
}

// HasExtras reports whether this identity names an extras-bearing virtual
// sibling (X ≠ ∅) rather than the bare distribution.
func (i Identity) HasExtras() bool {
	return len(i.extras) > 0
}

// Bare returns the identity (N, ∅) for the same distribution name. If i is
// already bare, it is returned unchanged.
func (i Identity) Bare() Identity {
	if !i.HasExtras() {
		return i
	}
	return Identity{name: i.name, key: string(i.name)}
}

// Key returns a precomputed string uniquely identifying this identity,
// suitable as a Go map key. Equal identities always have equal keys, and the
// key's construction (canonical name plus sorted, comma-joined extras) never
// depends on map iteration order (spec §3 FULL, §9).
func (i Identity) Key() string {
	return i.key
}

// Equal reports whether i and other name the same distribution with the
// same extras set.
func (i Identity) Equal(other Identity) bool {
	return i.key == other.key
}

// String returns the identity's key, primarily for diagnostics and error
// messages.
func (i Identity) String() string {
	return i.key
}
