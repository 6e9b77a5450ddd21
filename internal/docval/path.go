package docval

import "strings"

// SetPath assigns value at the dotted path in doc, creating
// intermediate maps on demand. Used by the update applier for $set,
// $inc, $push and $addToSet, which are specified to create
// intermediate objects as needed.
func SetPath(doc map[string]interface{}, path string, value interface{}) {
	segs := strings.Split(path, ".")
	cur := doc
	for i := 0; i < len(segs)-1; i++ {
		next, ok := cur[segs[i]].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			cur[segs[i]] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = value
}

// GetPath reads the dotted path directly from nested maps (no array
// broadcasting, unlike Resolve) — the leaf value used by update
// operators before they mutate it.
func GetPath(doc map[string]interface{}, path string) (interface{}, bool) {
	segs := strings.Split(path, ".")
	cur := interface{}(doc)
	for _, seg := range segs {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		val, ok := m[seg]
		if !ok {
			return nil, false
		}
		cur = val
	}
	return cur, true
}

// UnsetPath removes the leaf at the dotted path if present. It never
// creates intermediate objects, per $unset/$pull semantics.
func UnsetPath(doc map[string]interface{}, path string) {
	segs := strings.Split(path, ".")
	cur := doc
	for i := 0; i < len(segs)-1; i++ {
		next, ok := cur[segs[i]].(map[string]interface{})
		if !ok {
			return
		}
		cur = next
	}
	delete(cur, segs[len(segs)-1])
}
