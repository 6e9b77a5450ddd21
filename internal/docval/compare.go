package docval

import "strings"

// typeRank orders value kinds so that Compare gives a total order
// across heterogeneous values. The exact ranking is not specified by
// the engine's contract (spec.md §9, open question 4: "Sort order
// between mixed types... is implementation-defined"); it only needs to
// be stable between runs, which a fixed rank table guarantees.
func typeRank(v interface{}) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case float64:
		return 2
	case string:
		return 3
	case []interface{}:
		return 4
	case map[string]interface{}:
		return 5
	default:
		return 6
	}
}

// Compare returns -1, 0, or 1 for a versus b under a stable total
// order. Absent sorts before everything else.
func Compare(a, b interface{}) int {
	if IsAbsent(a) && IsAbsent(b) {
		return 0
	}
	if IsAbsent(a) {
		return -1
	}
	if IsAbsent(b) {
		return 1
	}

	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch av := a.(type) {
	case nil:
		return 0
	case bool:
		bv := b.(bool)
		if av == bv {
			return 0
		}
		if !av {
			return -1
		}
		return 1
	case float64:
		bv, _ := toFloat(b)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case string:
		return strings.Compare(av, b.(string))
	case []interface{}:
		bv := b.([]interface{})
		for i := 0; i < len(av) && i < len(bv); i++ {
			if c := Compare(av[i], bv[i]); c != 0 {
				return c
			}
		}
		switch {
		case len(av) < len(bv):
			return -1
		case len(av) > len(bv):
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}
