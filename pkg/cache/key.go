package cache

import (
	"fmt"
	"sort"
	"strings"
)

// Key identifies a cache entry by operation kind and parameter tuple.
type Key struct {
	// Kind is the operation kind (e.g. "pokemon-list")
	Kind string

	// Params are the parameters that select the result (e.g. {"limit": "20"})
	Params map[string]string
}

// NewKey builds a Key from alternating name/value pairs.
// A trailing name without value is ignored.
func NewKey(kind string, pairs ...string) Key {
	k := Key{Kind: kind}
	if len(pairs) >= 2 {
		k.Params = make(map[string]string, len(pairs)/2)
		for i := 0; i+1 < len(pairs); i += 2 {
			k.Params[pairs[i]] = pairs[i+1]
		}
	}
	return k
}

// String generates a deterministic cache key string.
// Format: pokedex:kind:param1=val1:param2=val2
//
// Example:
//
//	pokedex:pokemon-list:limit=20:offset=40
func (k Key) String() string {
	parts := []string{"pokedex"}

	if kind := strings.TrimSpace(k.Kind); kind != "" {
		parts = append(parts, kind)
	}

	// Params sorted for determinism
	if len(k.Params) > 0 {
		names := make([]string, 0, len(k.Params))
		for name := range k.Params {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", name, k.Params[name]))
		}
	}

	return strings.Join(parts, ":")
}
