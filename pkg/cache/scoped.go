package cache

// ScopedKeyer wraps a Keyer with a prefix. The server uses it to keep
// archives of different deployments apart when they share one Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "datasprout:")
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

// HTTPKey generates a prefixed key for downloaded resources.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// ArchiveKey generates a prefixed key for dataset archives.
func (k *ScopedKeyer) ArchiveKey(graphHash string, opts ArchiveKeyOpts) string {
	return k.prefix + k.inner.ArchiveKey(graphHash, opts)
}
