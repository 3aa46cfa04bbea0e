// Package version implements a PEP 440-flavored version type and specifier
// algebra: a totally ordered Version and a SpecifierSet exposing
// Contains(v) -> bool, consumed by the resolver as an opaque predicate
// (spec.md §6).
//
// No example repository in the reference pack carries a PEP 440-aware
// version library; Masterminds/semver enforces strict three-component
// semantic versioning and rejects ordinary wheel versions such as
// "1.0.dev0" or epoch-qualified versions such as "2!1.0", so it cannot
// stand in here. This package is a from-scratch implementation, tokenized
// with a regexp2 pattern rather than a hand-rolled state machine. The
// marker package does not use regexp2; its lexer is a hand-rolled scanner.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// versionPattern matches a whole version string, capturing the epoch, the
// dotted numeric release segment (e.g. "1.2.3"), the pre/post/dev segments
// and the local segment as named groups.
var versionPattern = regexp2.MustCompile(
	`^\s*`+
		`(?:(?<epoch>[0-9]+)!)?`+
		`(?<release>[0-9]+(?:\.[0-9]+)*)`+
		`(?<pre>(?<pre_l>a|b|c|rc|alpha|beta|pre|preview)(?<pre_n>[0-9]*))?`+
		`(?<post>\.post(?<post_n>[0-9]*)|-(?<post_n2>[0-9]+))?`+
		`(?<dev>\.dev(?<dev_n>[0-9]*))?`+
		`(?:\+(?<local>[a-zA-Z0-9]+(?:[-_.][a-zA-Z0-9]+)*))?`+
		`\s*$`,
	regexp2.IgnoreCase,
)

// Version is a parsed, comparable PEP 440-flavored version.
type Version struct {
	raw     string
	epoch   int
	release []int
	preL    string // "", "a", "b", or "rc" (normalized)
	preN    int
	hasPre  bool
	postN   int
	hasPost bool
	devN    int
	hasDev  bool
	local   string
}

// String returns the original text the Version was parsed from.
func (v Version) String() string {
	return v.raw
}

// Parse parses raw into a Version, or returns a structured error describing
// why it could not be parsed as a version.
func Parse(raw string) (Version, error) {
	m, err := versionPattern.FindStringMatch(raw)
	if err != nil {
		return Version{}, fmt.Errorf("version: parsing %q: %w", raw, err)
	}
	if m == nil {
		return Version{}, fmt.Errorf("version: %q is not a valid version", raw)
	}

	v := Version{raw: raw}

	if g := m.GroupByName("epoch"); g != nil && g.Length > 0 {
		v.epoch, _ = strconv.Atoi(g.String())
	}

	releaseGroup := m.GroupByName("release")
	if releaseGroup == nil || releaseGroup.Length == 0 {
		return Version{}, fmt.Errorf("version: %q has no release segment", raw)
	}
	for _, part := range strings.Split(releaseGroup.String(), ".") {
		n, convErr := strconv.Atoi(part)
		if convErr != nil {
			return Version{}, fmt.Errorf("version: %q has a non-numeric release segment: %w", raw, convErr)
		}
		v.release = append(v.release, n)
	}

	if g := m.GroupByName("pre_l"); g != nil && g.Length > 0 {
		v.hasPre = true
		v.preL = normalizePreLabel(g.String())
		if ng := m.GroupByName("pre_n"); ng != nil && ng.Length > 0 {
			v.preN, _ = strconv.Atoi(ng.String())
		}
	}

	if g := m.GroupByName("post"); g != nil && g.Length > 0 {
		v.hasPost = true
		if ng := m.GroupByName("post_n"); ng != nil && ng.Length > 0 {
			v.postN, _ = strconv.Atoi(ng.String())
		}
		if ng := m.GroupByName("post_n2"); ng != nil && ng.Length > 0 {
			v.postN, _ = strconv.Atoi(ng.String())
		}
	}

	if g := m.GroupByName("dev"); g != nil && g.Length > 0 {
		v.hasDev = true
		if ng := m.GroupByName("dev_n"); ng != nil && ng.Length > 0 {
			v.devN, _ = strconv.Atoi(ng.String())
		}
	}

	if g := m.GroupByName("local"); g != nil && g.Length > 0 {
		v.local = strings.ToLower(g.String())
	}

	return v, nil
}

func normalizePreLabel(l string) string {
	switch strings.ToLower(l) {
	case "alpha":
		return "a"
	case "beta":
		return "b"
	case "c", "pre", "preview":
		return "rc"
	default:
		return strings.ToLower(l)
	}
}

// IsPrerelease reports whether this version carries a pre-release or dev
// segment.
func (v Version) IsPrerelease() bool {
	return v.hasPre || v.hasDev
}

// releaseAt returns the i-th release component, or 0 past the end, so two
// releases of different lengths ("1.0" vs "1.0.0") compare as equal.
func releaseAt(release []int, i int) int {
	if i < len(release) {
		return release[i]
	}
	return 0
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other, using PEP 440 total ordering: epoch, then release, then
// pre/post/dev segments (no pre-release sorts higher than any pre-release
// of the same release; dev sorts lower than no-dev; post sorts higher).
func (v Version) Compare(other Version) int {
	if v.epoch != other.epoch {
		return cmpInt(v.epoch, other.epoch)
	}

	n := len(v.release)
	if len(other.release) > n {
		n = len(other.release)
	}
	for i := 0; i < n; i++ {
		if c := cmpInt(releaseAt(v.release, i), releaseAt(other.release, i)); c != 0 {
			return c
		}
	}

	if c := cmpPreRelease(v, other); c != 0 {
		return c
	}
	if c := cmpPost(v, other); c != 0 {
		return c
	}
	if c := cmpDev(v, other); c != 0 {
		return c
	}
	return strings.Compare(v.local, other.local)
}

// cmpPreRelease orders: dev-only < pre-release < final < post-release,
// for an otherwise-equal release segment.
func cmpPreRelease(a, b Version) int {
	aRank, aN := preRank(a)
	bRank, bN := preRank(b)
	if aRank != bRank {
		return cmpInt(aRank, bRank)
	}
	return cmpInt(aN, bN)
}

// preRank collapses a version's pre-release state into a single ordinal:
// a dev-only release (dev segment, no pre or post segment) < a/alpha <
// b/beta < rc, with every other "no pre-release" version ranked above all
// of them.
func preRank(v Version) (rank int, n int) {
	if !v.hasPre {
		if v.hasDev && !v.hasPost {
			return -1, 0
		}
		return 3, 0
	}
	switch v.preL {
	case "a":
		return 0, v.preN
	case "b":
		return 1, v.preN
	default: // "rc"
		return 2, v.preN
	}
}

func cmpPost(a, b Version) int {
	switch {
	case a.hasPost && b.hasPost:
		return cmpInt(a.postN, b.postN)
	case a.hasPost:
		return 1
	case b.hasPost:
		return -1
	default:
		return 0
	}
}

func cmpDev(a, b Version) int {
	switch {
	case a.hasDev && b.hasDev:
		return cmpInt(a.devN, b.devN)
	case a.hasDev:
		return -1
	case b.hasDev:
		return 1
	default:
		return 0
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Less reports whether v orders strictly before other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

// Equal reports whether v and other compare equal under Compare, which is
// not textual equality (e.g. "1.0" equals "1.0.0").
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}
