package resolve

import (
	"errors"

	"github.com/Tangerg/resolve/name"
	"github.com/Tangerg/resolve/pkg/assert"
	"github.com/Tangerg/resolve/tag"
	"github.com/Tangerg/resolve/version"
	"github.com/Tangerg/resolve/wheelname"
)

// ArtifactDescriptor is the parsed identity of a single distributable
// artifact file, plus the transport details needed to fetch it (spec §3).
// Descriptors are immutable once constructed; the only thing that changes
// over a descriptor's lifetime is whether an ArtifactMetadata has been
// attached (see Metadata/SetMetadata).
type ArtifactDescriptor struct {
	name                        name.Name
	version                     version.Version
	buildDisambiguator          string
	tags                        tag.Set
	url                         string
	hashes                      map[string]string
	declaredInterpreterRaw      string
	declaredInterpreterAbsent   bool
	declaredInterpreterSpecSet  version.SpecifierSet
	metadata                    *ArtifactMetadata
}

// Name returns the descriptor's canonical distribution name.
func (d *ArtifactDescriptor) Name() name.Name {
	return d.name
}

// Version returns the descriptor's parsed version.
func (d *ArtifactDescriptor) Version() version.Version {
	return d.version
}

// BuildDisambiguator returns the build tag segment, or "" if absent.
func (d *ArtifactDescriptor) BuildDisambiguator() string {
	return d.buildDisambiguator
}

// Tags returns the descriptor's advertised compatibility tag set.
func (d *ArtifactDescriptor) Tags() tag.Set {
	return d.tags
}

// URL returns the transport location the provider would fetch this
// artifact from.
func (d *ArtifactDescriptor) URL() string {
	return d.url
}

// Hashes returns the declared content hashes, keyed by algorithm name.
func (d *ArtifactDescriptor) Hashes() map[string]string {
	return d.hashes
}

// HasDeclaredInterpreterConstraint reports whether this descriptor declares
// its own interpreter-version constraint (independent of any constraint its
// metadata may later declare).
func (d *ArtifactDescriptor) HasDeclaredInterpreterConstraint() bool {
	return !d.declaredInterpreterAbsent
}

// DeclaredInterpreterConstraint returns the descriptor-level interpreter
// constraint, valid only if HasDeclaredInterpreterConstraint is true.
func (d *ArtifactDescriptor) DeclaredInterpreterConstraint() version.SpecifierSet {
	return d.declaredInterpreterSpecSet
}

// Metadata returns the attached ArtifactMetadata, or nil if this descriptor
// is still metadata-pending.
func (d *ArtifactDescriptor) Metadata() *ArtifactMetadata {
	return d.metadata
}

// HasMetadata reports whether metadata has been fetched and attached.
func (d *ArtifactDescriptor) HasMetadata() bool {
	return d.metadata != nil
}

// SetMetadata attaches fetched metadata. It is the provider's
// responsibility to call this at most once per descriptor per run (spec
// §3's "metadata fetched at most once" invariant); SetMetadata does not
// itself enforce that, since the provider is the sole writer.
func (d *ArtifactDescriptor) SetMetadata(m *ArtifactMetadata) {
	d.metadata = m
}

// Equal reports whether two descriptors parse to the same filename tuple:
// name, version, build disambiguator, and tag set intersect identically
// (spec §4.1: "Two descriptors compare equal iff their parsed filename
// tuples are equal").
func (d *ArtifactDescriptor) Equal(other *ArtifactDescriptor) bool {
	if other == nil {
		return false
	}
	return d.name.Equal(other.name) &&
		d.version.Equal(other.version) &&
		d.buildDisambiguator == other.buildDisambiguator &&
		d.tags.Intersects(other.tags)
}

// ArtifactDescriptorBuilder builds an immutable ArtifactDescriptor.
type ArtifactDescriptorBuilder struct {
	filename                 string
	tagOrder                 tag.Order
	url                      string
	hashes                   map[string]string
	declaredInterpreterRaw   string
	declaredInterpreterIsSet bool
}

// NewArtifactDescriptorBuilder creates an empty builder.
func NewArtifactDescriptorBuilder() *ArtifactDescriptorBuilder {
	return &ArtifactDescriptorBuilder{}
}

// WithFilename sets the artifact's wheel filename, parsed at Build time.
func (b *ArtifactDescriptorBuilder) WithFilename(filename string) *ArtifactDescriptorBuilder {
	b.filename = filename
	return b
}

// WithTagOrder sets the environment tag Order the descriptor's tags are
// represented against.
func (b *ArtifactDescriptorBuilder) WithTagOrder(order tag.Order) *ArtifactDescriptorBuilder {
	b.tagOrder = order
	return b
}

// WithURL sets the fetch location.
func (b *ArtifactDescriptorBuilder) WithURL(url string) *ArtifactDescriptorBuilder {
	if url != "" {
		b.url = url
	}
	return b
}

// WithHash records a declared content hash under the given algorithm name.
func (b *ArtifactDescriptorBuilder) WithHash(algorithm, value string) *ArtifactDescriptorBuilder {
	if b.hashes == nil {
		b.hashes = make(map[string]string, 1)
	}
	b.hashes[algorithm] = value
	return b
}

// WithDeclaredInterpreterConstraint sets the descriptor-level interpreter
// constraint (spec §4.5).
func (b *ArtifactDescriptorBuilder) WithDeclaredInterpreterConstraint(raw string) *ArtifactDescriptorBuilder {
	b.declaredInterpreterRaw = raw
	b.declaredInterpreterIsSet = true
	return b
}

func (b *ArtifactDescriptorBuilder) validate() error {
	if b.filename == "" {
		return errors.New("resolve: descriptor filename is required")
	}
	return nil
}

// Build parses the filename and constructs the descriptor.
func (b *ArtifactDescriptorBuilder) Build() (*ArtifactDescriptor, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	parsed, err := wheelname.Parse(b.filename)
	if err != nil {
		return nil, err
	}

	d := &ArtifactDescriptor{
		name:                      parsed.Name,
		version:                   parsed.Version,
		buildDisambiguator:        parsed.BuildDisambiguator,
		tags:                      b.tagOrder.NewSet(parsed.Tags),
		url:                       b.url,
		hashes:                    b.hashes,
		declaredInterpreterAbsent: !b.declaredInterpreterIsSet,
	}

	if b.declaredInterpreterIsSet {
		spec, specErr := version.ParseSpecifierSet(b.declaredInterpreterRaw)
		if specErr != nil {
			return nil, specErr
		}
		d.declaredInterpreterSpecSet = spec
	}

	return d, nil
}

// MustBuild builds the descriptor, panicking on validation or parse
// failure.
func (b *ArtifactDescriptorBuilder) MustBuild() *ArtifactDescriptor {
	return assert.ErrorIsNil(b.Build())
}
