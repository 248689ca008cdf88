// Package cache provides result caching for kinship computations.
//
// Computing a proband kinship matrix over a large pedigree can take
// minutes; the inputs (a pedigree file and a handful of options) hash
// cheaply. The pipeline therefore caches exported artifacts keyed by the
// pedigree content hash plus the computation options, so repeated runs skip
// the traversal entirely.
//
// Three backends implement the same interface:
//   - [FileCache]: directory of entries, for single-machine CLI usage
//   - [RedisCache]: shared cache for multi-instance deployments
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The second result reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ResultKeyOpts are the computation options that distinguish cached results.
type ResultKeyOpts struct {
	Backend  string
	Dense    bool
	Format   string
	Probands []int
}

// Keyer generates cache keys.
type Keyer interface {
	// ResultKey generates a key for an exported kinship result, given the
	// hash of the pedigree content and the computation options.
	ResultKey(pedigreeHash string, opts ResultKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// ResultKey generates a key for an exported kinship result.
func (k *DefaultKeyer) ResultKey(pedigreeHash string, opts ResultKeyOpts) string {
	return hashKey("result", pedigreeHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix, isolating cache namespaces when
// several projects share one backend (typically Redis).
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ResultKey generates a prefixed result key.
func (k *ScopedKeyer) ResultKey(pedigreeHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(pedigreeHash, opts)
}
