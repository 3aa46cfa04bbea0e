package resolve

import "context"

// Provider is the contract the resolver consumes from an index (spec §4.3).
// Implementations are free to cache, batch, and parallelize as they see
// fit; the engine treats a Provider as a pure capability interface and
// never assumes anything about its internal concurrency model.
type Provider interface {
	// Available returns all known descriptors for the given canonical
	// distribution name, in arbitrary order. It may be called multiple
	// times across runs; implementations should cache externally.
	Available(ctx context.Context, n string) ([]*ArtifactDescriptor, error)

	// FetchMetadata attaches metadata to each descriptor in place.
	// Descriptors that already have metadata must be left untouched.
	// Failure for any single descriptor is a non-recoverable error for the
	// whole batch — the resolver does not attempt partial recovery.
	FetchMetadata(ctx context.Context, descriptors []*ArtifactDescriptor) error
}
