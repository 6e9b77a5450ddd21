package docval

// Equal reports structural equality between two decoded JSON values
// (nil, bool, float64, string, []interface{}, map[string]interface{}).
// Scalars compare by value; arrays and objects compare deeply,
// order-sensitive for arrays, key-set-and-value for objects.
func Equal(a, b interface{}) bool {
	if IsAbsent(a) || IsAbsent(b) {
		return IsAbsent(a) == IsAbsent(b)
	}
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case float64:
		bv, ok := toFloat(b)
		return ok && av == bv
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]interface{}:
		bv, ok := b.(map[string]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, present := bv[k]
			if !present || !Equal(v, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Contains reports whether list (an array value, or a scalar treated
// as a single-element list) contains v by Equal.
func Contains(list interface{}, v interface{}) bool {
	arr, ok := list.([]interface{})
	if !ok {
		return Equal(list, v)
	}
	for _, elem := range arr {
		if Equal(elem, v) {
			return true
		}
	}
	return false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
