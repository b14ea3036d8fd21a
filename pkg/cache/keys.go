package cache

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey identifies a raw HTTP response within a namespace.
	HTTPKey(namespace, key string) string

	// QueryKey identifies a query result. Variable order does not matter.
	QueryKey(endpoint, query string, variables map[string]any) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:{namespace}:{key}".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return fmt.Sprintf("http:%s:%s", namespace, key)
}

// QueryKey returns "query:{sha256}" over the endpoint, the query and the
// variables sorted by name.
func (DefaultKeyer) QueryKey(endpoint, query string, variables map[string]any) string {
	names := slices.Sorted(maps.Keys(variables))
	pairs := make([]any, 0, 2*len(names))
	for _, n := range names {
		pairs = append(pairs, n, variables[n])
	}
	return hashKey("query", endpoint, query, pairs)
}

// hashKey hashes the JSON encoding of parts under prefix.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}
