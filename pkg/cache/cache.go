// Package cache stores diff results and rendered artifacts between runs.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for
// sharing results between machines, and [NullCache] when caching is off.
// Keys come from a [Keyer] so that every backend addresses entries the
// same way.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss. Expired
	// and corrupt entries count as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// =============================================================================
// Keys
// =============================================================================

// DiffKeyOpts are the inputs besides the two graphs that determine a diff.
type DiffKeyOpts struct {
	Algorithm string `json:"algorithm"`
	Seed      uint64 `json:"seed"`
	Params    any    `json:"params,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// DiffKey addresses a diff between graphs with the given content hashes.
	DiffKey(g1Hash, g2Hash string, opts DiffKeyOpts) string

	// ArtifactKey addresses a rendering of a cached diff.
	ArtifactKey(diffKey, format string) string
}

// DefaultKeyer hashes all key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DiffKey returns "diff:<sha256>". Argument order matters: a diff of (a, b)
// lists additions where a diff of (b, a) lists removals.
func (DefaultKeyer) DiffKey(g1Hash, g2Hash string, opts DiffKeyOpts) string {
	return hashKey("diff", g1Hash, g2Hash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(diffKey, format string) string {
	return hashKey("artifact", diffKey, format)
}
