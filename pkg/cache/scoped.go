package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving each endpoint
// or tenant its own namespace in a shared backend.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "adminstack:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey returns the prefixed inner HTTP key.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// QueryKey returns the prefixed inner query key.
func (k *ScopedKeyer) QueryKey(endpoint, query string, variables map[string]any) string {
	return k.prefix + k.inner.QueryKey(endpoint, query, variables)
}
