package resolve

import (
	"errors"

	"github.com/spf13/cast"

	"github.com/Tangerg/resolve/pkg/assert"
	"github.com/Tangerg/resolve/pkg/kv"
	"github.com/Tangerg/resolve/tag"
	"github.com/Tangerg/resolve/version"
)

// EnvironmentProfile is the immutable target a resolver run resolves
// against: the PEP 508 marker values of the target interpreter, its
// compatibility tag priority order, and its interpreter version (spec §3).
type EnvironmentProfile struct {
	markerValues       kv.KV[string, string]
	tagOrder           tag.Order
	interpreterVersion version.Version
}

// MarkerValues returns the environment's name→string marker variable
// bindings (e.g. "os_name", "python_version", "sys_platform").
func (e *EnvironmentProfile) MarkerValues() map[string]string {
	return e.markerValues
}

// MarkerValue returns a single marker variable's raw string value and
// whether it was declared. No type coercion is applied; see
// MarkerValueAsInt for a numeric read.
func (e *EnvironmentProfile) MarkerValue(name string) (string, bool) {
	return e.markerValues.Value(name)
}

// MarkerValueAsInt reads a marker value coerced to int, for numeric marker
// variables such as platform bitness.
func (e *EnvironmentProfile) MarkerValueAsInt(name string) (int, error) {
	return cast.ToIntE(e.markerValues.Get(name))
}

// TagOrder returns the environment's compatibility tag priority order.
func (e *EnvironmentProfile) TagOrder() tag.Order {
	return e.tagOrder
}

// InterpreterVersion returns the target interpreter's version.
func (e *EnvironmentProfile) InterpreterVersion() version.Version {
	return e.interpreterVersion
}

// EnvironmentProfileBuilder builds an immutable EnvironmentProfile.
type EnvironmentProfileBuilder struct {
	markerValues          kv.KV[string, string]
	tags                  []tag.Tag
	interpreterVersionRaw string
}

// NewEnvironmentProfileBuilder creates an empty builder.
func NewEnvironmentProfileBuilder() *EnvironmentProfileBuilder {
	return &EnvironmentProfileBuilder{markerValues: kv.New[string, string]()}
}

// WithMarkerValue sets a single marker variable binding.
func (b *EnvironmentProfileBuilder) WithMarkerValue(name, value string) *EnvironmentProfileBuilder {
	if name != "" {
		b.markerValues.Put(name, value)
	}
	return b
}

// WithMarkerValues merges a map of marker variable bindings.
func (b *EnvironmentProfileBuilder) WithMarkerValues(values map[string]string) *EnvironmentProfileBuilder {
	b.markerValues.PutAll(values)
	return b
}

// WithTagOrder appends tags in priority order (most preferred first).
func (b *EnvironmentProfileBuilder) WithTagOrder(tags ...tag.Tag) *EnvironmentProfileBuilder {
	b.tags = append(b.tags, tags...)
	return b
}

// WithInterpreterVersion sets the raw interpreter version string.
func (b *EnvironmentProfileBuilder) WithInterpreterVersion(raw string) *EnvironmentProfileBuilder {
	if raw != "" {
		b.interpreterVersionRaw = raw
	}
	return b
}

func (b *EnvironmentProfileBuilder) validate() error {
	if len(b.tags) == 0 {
		return errors.New("resolve: environment profile requires at least one compatibility tag")
	}
	if b.interpreterVersionRaw == "" {
		return errors.New("resolve: environment profile requires an interpreter version")
	}
	return nil
}

// Build validates and constructs the EnvironmentProfile.
func (b *EnvironmentProfileBuilder) Build() (*EnvironmentProfile, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	v, err := version.Parse(b.interpreterVersionRaw)
	if err != nil {
		return nil, err
	}

	return &EnvironmentProfile{
		markerValues:       b.markerValues,
		tagOrder:           tag.NewOrder(b.tags),
		interpreterVersion: v,
	}, nil
}

// MustBuild builds the EnvironmentProfile, panicking on failure.
func (b *EnvironmentProfileBuilder) MustBuild() *EnvironmentProfile {
	return assert.ErrorIsNil(b.Build())
}
