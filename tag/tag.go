// Package tag models compatibility tags — (interpreter, abi, platform)
// triples that label an artifact's runtime suitability — and the
// environment-supplied priority order over them.
//
// A Set is represented as a bitmask over one Order's positions rather than
// a generic hash set of Tag values: once an environment's tag_order is
// fixed for a resolver run, every descriptor's advertised tags are
// expressed as bits in that order, making compatibility tests and rank
// lookups (§4.5/§4.6 of the resolver specification) simple bit operations
// instead of map probes.
package tag

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Tag is a single compatibility triple, e.g. (cp313, cp313, wasi).
type Tag struct {
	Interpreter string
	ABI         string
	Platform    string
}

// String renders the tag in its canonical dash-joined form.
func (t Tag) String() string {
	return fmt.Sprintf("%s-%s-%s", t.Interpreter, t.ABI, t.Platform)
}

// Order is an environment's compatibility tag list, most to least
// preferred, indexed for O(1) position lookup.
type Order struct {
	tags     []Tag
	position map[Tag]uint
}

// NewOrder builds an Order from a priority-ordered tag slice. The first
// element is most preferred; position 0 in the returned Order is the most
// preferred bit.
func NewOrder(tags []Tag) Order {
	position := make(map[Tag]uint, len(tags))
	for i, t := range tags {
		if _, exists := position[t]; !exists {
			position[t] = uint(i)
		}
	}
	return Order{tags: append([]Tag(nil), tags...), position: position}
}

// Len reports how many distinct tags are in the order.
func (o Order) Len() int {
	return len(o.tags)
}

// PositionOf returns the preference position of t in the order (0 = most
// preferred) and whether t appears in the order at all.
func (o Order) PositionOf(t Tag) (uint, bool) {
	p, ok := o.position[t]
	return p, ok
}

// Tags returns the order's tags, most preferred first. The returned slice
// must not be mutated by callers.
func (o Order) Tags() []Tag {
	return o.tags
}

// NewSet builds a Set of the given tags against this Order. Tags absent
// from the order are silently ignored — they can never be compatible with
// the environment and carry no bit position to set.
func (o Order) NewSet(tags []Tag) Set {
	bs := bitset.New(uint(len(o.tags)))
	for _, t := range tags {
		if pos, ok := o.position[t]; ok {
			bs.Set(pos)
		}
	}
	return Set{order: o, bits: bs}
}

// Set is a descriptor's advertised tag set, represented as a bitmask over
// one Order's positions.
type Set struct {
	order Order
	bits  *bitset.BitSet
}

// IsCompatible reports whether at least one bit is set — i.e. whether the
// descriptor advertises at least one tag present in the environment's
// tag_order (§4.5).
func (s Set) IsCompatible() bool {
	return s.bits != nil && s.bits.Any()
}

// BestPosition returns the lowest (most preferred) set bit, and whether
// the set has any compatible tag at all.
func (s Set) BestPosition() (uint, bool) {
	if s.bits == nil {
		return 0, false
	}
	pos, ok := s.bits.NextSet(0)
	return pos, ok
}

// Rank computes tag_rank = len(tag_order) - bestPosition, per §4.6: a
// lower (more preferred) position yields a higher rank. A set with no
// compatible tag ranks 0, lower than any real match.
func (s Set) Rank() int {
	pos, ok := s.BestPosition()
	if !ok {
		return 0
	}
	return s.order.Len() - int(pos)
}

// Intersects reports whether s and other share at least one set bit, i.e.
// whether the two tag sets have a tag in common.
func (s Set) Intersects(other Set) bool {
	if s.bits == nil || other.bits == nil {
		return false
	}
	return s.bits.IntersectionCardinality(other.bits) > 0
}
