package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tools or users
// can share one Redis instance without colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "graphdiff:ci:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DiffKey generates a prefixed diff key.
func (k *ScopedKeyer) DiffKey(g1Hash, g2Hash string, opts DiffKeyOpts) string {
	return k.prefix + k.inner.DiffKey(g1Hash, g2Hash, opts)
}

// ArtifactKey generates a prefixed artifact key. diffKey is expected to be
// prefixed already and is hashed as is.
func (k *ScopedKeyer) ArtifactKey(diffKey, format string) string {
	return k.prefix + k.inner.ArtifactKey(diffKey, format)
}
