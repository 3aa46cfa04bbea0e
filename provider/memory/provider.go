// Package memory is the reference Provider implementation (spec §4.3
// FULL): an in-memory catalog seeded from JSON fixtures, used by this
// repository's own engine tests to exercise the Provider contract
// end-to-end without a real package index.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/Tangerg/resolve"
	"github.com/Tangerg/resolve/marker"
	"github.com/Tangerg/resolve/name"
	pkgresult "github.com/Tangerg/resolve/pkg/result"
	"github.com/Tangerg/resolve/pkg/safe"
	pkgslices "github.com/Tangerg/resolve/pkg/slices"
	pkgsync "github.com/Tangerg/resolve/pkg/sync"
	"github.com/Tangerg/resolve/tag"
	"github.com/Tangerg/resolve/version"
)

// fetchChunkSize bounds how many descriptors one pool job resolves before
// yielding, so a large FetchMetadata batch submits a handful of jobs to the
// pool rather than one goroutine per descriptor.
const fetchChunkSize = 16

// Provider is an in-memory resolve.Provider backed by a fixed catalog.
// FetchMetadata parallelizes its (already in-memory, so instantaneous)
// lookups across a pool (§9's "provider may own a task runtime
// internally"), exercising the same concurrency shape a real HTTP-backed
// provider would use, so the contract is tested under the conditions it
// was designed for.
type Provider struct {
	tagOrder tag.Order
	pool     pkgsync.Pool

	byName   map[string][]*resolve.ArtifactDescriptor
	metadata map[*resolve.ArtifactDescriptor]*resolve.ArtifactMetadata
}

// New constructs an empty Provider. A nil pool falls back to
// pkgsync.DefaultPool().
func New(tagOrder tag.Order, pool pkgsync.Pool) *Provider {
	if pool == nil {
		pool = pkgsync.DefaultPool()
	}
	return &Provider{
		tagOrder: tagOrder,
		pool:     pool,
		byName:   make(map[string][]*resolve.ArtifactDescriptor),
		metadata: make(map[*resolve.ArtifactDescriptor]*resolve.ArtifactMetadata),
	}
}

// Available implements resolve.Provider.
func (p *Provider) Available(_ context.Context, n string) ([]*resolve.ArtifactDescriptor, error) {
	key := string(name.Canonicalize(n))
	return append([]*resolve.ArtifactDescriptor(nil), p.byName[key]...), nil
}

// FetchMetadata implements resolve.Provider, attaching each pending
// descriptor's registered metadata across the provider's pool. Pending
// descriptors are split into fixed-size chunks (pkg/slices.Chunk) so one
// pool job resolves several descriptors rather than submitting a goroutine
// per descriptor; each job runs under pkg/safe.WithRecover so a panic while
// resolving one chunk surfaces as an error instead of crashing the run.
// Per-item outcomes are collected as pkg/result.Result values so one
// descriptor's failure short-circuits the whole batch without losing which
// descriptor caused it (spec §4.3's "non-recoverable, no partial recovery"
// rule).
func (p *Provider) FetchMetadata(_ context.Context, descriptors []*resolve.ArtifactDescriptor) error {
	var pending []*resolve.ArtifactDescriptor
	for _, d := range descriptors {
		if !d.HasMetadata() {
			pending = append(pending, d)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	results := make([]pkgresult.Result[*resolve.ArtifactDescriptor], len(pending))
	chunks := pkgslices.Chunk(pending, fetchChunkSize)

	var wg sync.WaitGroup
	wg.Add(len(chunks))

	offset := 0
	for _, chunk := range chunks {
		base, chunk := offset, chunk
		offset += len(chunk)

		job := safe.WithRecover(func() {
			defer wg.Done()
			for j, d := range chunk {
				md, ok := p.metadata[d]
				if !ok {
					results[base+j] = pkgresult.Error[*resolve.ArtifactDescriptor](
						fmt.Errorf("memory: no metadata registered for %s", d.URL()))
					continue
				}
				d.SetMetadata(md)
				results[base+j] = pkgresult.Value(d)
			}
		}, func(err error) {
			for j := range chunk {
				results[base+j] = pkgresult.Error[*resolve.ArtifactDescriptor](err)
			}
		})

		if submitErr := p.pool.Submit(job); submitErr != nil {
			wg.Done()
			for j := range chunk {
				results[base+j] = pkgresult.Error[*resolve.ArtifactDescriptor](submitErr)
			}
		}
	}
	wg.Wait()

	for _, r := range results {
		if err := r.Error(); err != nil {
			return fmt.Errorf("memory: fetch metadata: %w", err)
		}
	}
	return nil
}

// LoadFixture seeds a Provider from a JSON fixture (parsed with
// github.com/tidwall/gjson). The fixture is a top-level array; each entry
// is one artifact:
//
//	[
//	  {
//	    "name": "spam",
//	    "filename": "Spam-1.2.3-py3-none-any.whl",
//	    "url": "https://example.org/spam-1.2.3.whl",
//	    "hashes": {"sha256": "..."},
//	    "declared_interpreter_constraint": ">=3.6",
//	    "metadata": {
//	      "declared_interpreter_constraint": "",
//	      "provided_extras": ["bonus"],
//	      "dependencies": [
//	        {"name": "bacon", "extras": [], "specifier": "", "marker": ""}
//	      ]
//	    }
//	  }
//	]
//
// The "metadata" object is optional; a descriptor without one is left
// metadata-pending, as if the index had not yet been asked about it.
func LoadFixture(raw []byte, tagOrder tag.Order, pool pkgsync.Pool) (*Provider, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("memory: fixture is not valid JSON")
	}

	parsed := gjson.ParseBytes(raw)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("memory: fixture root must be a JSON array")
	}

	p := New(tagOrder, pool)

	var buildErr error
	parsed.ForEach(func(_, item gjson.Result) bool {
		d, md, err := decodeFixtureEntry(item, tagOrder)
		if err != nil {
			buildErr = err
			return false
		}
		p.seed(item.Get("name").String(), d, md)
		return true
	})
	if buildErr != nil {
		return nil, buildErr
	}

	return p, nil
}

func (p *Provider) seed(rawName string, d *resolve.ArtifactDescriptor, md *resolve.ArtifactMetadata) {
	key := string(name.Canonicalize(rawName))
	p.byName[key] = append(p.byName[key], d)
	if md != nil {
		p.metadata[d] = md
	}
}

func decodeFixtureEntry(item gjson.Result, tagOrder tag.Order) (*resolve.ArtifactDescriptor, *resolve.ArtifactMetadata, error) {
	builder := resolve.NewArtifactDescriptorBuilder().
		WithFilename(item.Get("filename").String()).
		WithTagOrder(tagOrder)

	if u := item.Get("url"); u.Exists() {
		builder = builder.WithURL(u.String())
	}
	item.Get("hashes").ForEach(func(alg, value gjson.Result) bool {
		builder = builder.WithHash(alg.String(), value.String())
		return true
	})
	if c := item.Get("declared_interpreter_constraint"); c.Exists() && c.String() != "" {
		builder = builder.WithDeclaredInterpreterConstraint(c.String())
	}

	d, err := builder.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("memory: decoding fixture entry %q: %w", item.Get("filename").String(), err)
	}

	mdResult := item.Get("metadata")
	if !mdResult.Exists() {
		return d, nil, nil
	}

	mb := resolve.NewArtifactMetadataBuilder()
	if c := mdResult.Get("declared_interpreter_constraint"); c.Exists() && c.String() != "" {
		mb = mb.WithDeclaredInterpreterConstraint(c.String())
	}
	for _, extra := range mdResult.Get("provided_extras").Array() {
		mb = mb.WithProvidedExtras(extra.String())
	}

	var depErr error
	mdResult.Get("dependencies").ForEach(func(_, depItem gjson.Result) bool {
		req, err := decodeFixtureDependency(depItem)
		if err != nil {
			depErr = err
			return false
		}
		mb = mb.WithDependency(req)
		return true
	})
	if depErr != nil {
		return nil, nil, depErr
	}

	md, err := mb.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("memory: decoding metadata for %q: %w", item.Get("filename").String(), err)
	}
	return d, md, nil
}

func decodeFixtureDependency(depItem gjson.Result) (resolve.Requirement, error) {
	rb := resolve.NewRequirementBuilder().
		WithName(depItem.Get("name").String()).
		WithRaw(depItem.Get("name").String())

	for _, extra := range depItem.Get("extras").Array() {
		rb = rb.WithExtras(extra.String())
	}

	if spec := depItem.Get("specifier"); spec.Exists() && spec.String() != "" {
		specifiers, err := version.ParseSpecifierSet(spec.String())
		if err != nil {
			return resolve.Requirement{}, err
		}
		rb = rb.WithSpecifiers(specifiers)
	}

	if rawMarker := depItem.Get("marker"); rawMarker.Exists() && rawMarker.String() != "" {
		expr, err := marker.Parse(rawMarker.String())
		if err != nil {
			return resolve.Requirement{}, fmt.Errorf("memory: parsing dependency marker %q: %w", rawMarker.String(), err)
		}
		rb = rb.WithMarker(expr)
	}

	return rb.Build()
}
