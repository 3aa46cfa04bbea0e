// Package wheelname parses artifact (wheel) filenames into their
// constituent identity: distribution name, version, optional build
// disambiguator, and compatibility tag set.
//
// Grounded on mousebender's Wheel.__init__, which calls
// packaging.utils.parse_wheel_filename; no pack dependency implements this
// grammar, and the grammar itself is a small, fixed, dash-delimited
// format with no ambiguity that would call for a parser-combinator or
// regex library, so this is a justified hand-rolled implementation.
package wheelname

import (
	"fmt"
	"strings"

	"github.com/Tangerg/resolve/name"
	"github.com/Tangerg/resolve/tag"
	"github.com/Tangerg/resolve/version"
)

// Parsed is the result of parsing one artifact filename.
type Parsed struct {
	Name               name.Name
	Version            version.Version
	BuildDisambiguator string // "" if absent
	Tags               []tag.Tag
}

// Parse parses a ".whl" filename of the form
// {name}-{version}(-{build})?-{interpreter}-{abi}-{platform}.whl.
//
// Compressed tag sets (e.g. "py2.py3-none-any", meaning the cross product
// of interpreter tags with the single abi/platform pair) are expanded into
// individual Tag values.
func Parse(filename string) (Parsed, error) {
	base := strings.TrimSuffix(filename, ".whl")
	if base == filename {
		return Parsed{}, fmt.Errorf("wheelname: %q does not have a .whl suffix", filename)
	}

	parts := strings.Split(base, "-")
	if len(parts) != 5 && len(parts) != 6 {
		return Parsed{}, fmt.Errorf(
			"wheelname: %q does not split into 5 or 6 dash-separated fields (got %d)",
			filename, len(parts),
		)
	}

	rawName := parts[0]
	rawVersion := parts[1]

	var buildTag string
	tagFields := parts[2:]
	if len(parts) == 6 {
		buildTag = parts[2]
		tagFields = parts[3:]
	}

	v, err := version.Parse(rawVersion)
	if err != nil {
		return Parsed{}, fmt.Errorf("wheelname: %q: %w", filename, err)
	}

	interpreters := strings.Split(tagFields[0], ".")
	abis := strings.Split(tagFields[1], ".")
	platforms := strings.Split(tagFields[2], ".")

	var tags []tag.Tag
	for _, interp := range interpreters {
		for _, abi := range abis {
			for _, plat := range platforms {
				tags = append(tags, tag.Tag{Interpreter: interp, ABI: abi, Platform: plat})
			}
		}
	}

	return Parsed{
		Name:               name.Canonicalize(rawName),
		Version:            v,
		BuildDisambiguator: buildTag,
		Tags:               tags,
	}, nil
}
