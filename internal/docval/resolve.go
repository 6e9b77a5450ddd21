// Package docval implements the dotted-path resolver and the small set
// of structural helpers (equality, ordering, deep copy) that the filter
// evaluator, update applier and sort pipeline all share.
package docval

import (
	"strconv"
	"strings"
)

// absentType is the sentinel type returned by Resolve when a path has
// no value in a document. It is distinct from a stored nil.
type absentType struct{}

// Absent is the zero value returned for a path that does not resolve.
var Absent interface{} = absentType{}

// IsAbsent reports whether v is the Absent sentinel.
func IsAbsent(v interface{}) bool {
	_, ok := v.(absentType)
	return ok
}

// Resolve walks path (dot-joined field names) against doc and returns
// the value found, or Absent. Arrays are descended by numeric index
// when the segment parses as one; otherwise the remaining path is
// evaluated against every element and the non-absent results are
// collected (flattening one level of nested array), per the "array
// traversal" rule. This is the only place that manufactures a
// synthetic array result.
func Resolve(doc map[string]interface{}, path string) interface{} {
	if path == "" {
		return Absent
	}
	segments := strings.Split(path, ".")
	return resolveSegments(doc, segments)
}

func resolveSegments(cur interface{}, segs []string) interface{} {
	switch v := cur.(type) {
	case map[string]interface{}:
		next, ok := v[segs[0]]
		if !ok {
			return Absent
		}
		if len(segs) == 1 {
			return next
		}
		return resolveSegments(next, segs[1:])
	case []interface{}:
		if idx, err := strconv.Atoi(segs[0]); err == nil && idx >= 0 {
			if idx >= len(v) {
				return Absent
			}
			if len(segs) == 1 {
				return v[idx]
			}
			return resolveSegments(v[idx], segs[1:])
		}
		var collected []interface{}
		for _, elem := range v {
			sub := resolveSegments(elem, segs)
			if IsAbsent(sub) {
				continue
			}
			if arr, ok := sub.([]interface{}); ok {
				collected = append(collected, arr...)
			} else {
				collected = append(collected, sub)
			}
		}
		if len(collected) == 0 {
			return Absent
		}
		return collected
	default:
		return Absent
	}
}
