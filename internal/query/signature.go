package query

import (
	"encoding/json"
	"sort"
)

// Signature produces a deterministic string for a filter document,
// suitable as a cache key component — map iteration order in Go is
// randomized, so a naive json.Marshal of the filter would not be
// stable across calls with equal content.
func Signature(filter map[string]interface{}) string {
	b, err := json.Marshal(sortedValue(filter))
	if err != nil {
		return ""
	}
	return string(b)
}

// sortedValue recursively rewrites maps into a slice of key/value
// pairs in sorted key order so that json.Marshal produces identical
// bytes for equal content regardless of original map iteration order.
func sortedValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([][2]interface{}, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, [2]interface{}{k, sortedValue(t[k])})
		}
		return pairs
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = sortedValue(e)
		}
		return out
	default:
		return t
	}
}
