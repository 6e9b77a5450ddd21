package query

import (
	"fmt"
	"regexp"

	"github.com/skshohagmiah/docbase/internal/docval"
)

// predicate is a compiled per-field operator, evaluated against the
// resolved value of the field it was attached to.
type predicate interface {
	eval(a interface{}) bool
}

type predicateFunc func(a interface{}) bool

func (f predicateFunc) eval(a interface{}) bool { return f(a) }

// alwaysFalse is returned for malformed operator payloads, which
// spec.md §4.2.1 defines to evaluate to non-match rather than error.
var alwaysFalse = predicateFunc(func(interface{}) bool { return false })

func (d *Decoder) compilePredicate(op string, e interface{}, options string) (predicate, error) {
	switch op {
	case "$eq":
		return predicateFunc(func(a interface{}) bool { return matchesValue(a, e) }), nil
	case "$ne":
		return predicateFunc(func(a interface{}) bool {
			if docval.IsAbsent(a) {
				return true
			}
			return !matchesValue(a, e)
		}), nil
	case "$gt":
		return orderPredicate(e, func(c int) bool { return c > 0 }), nil
	case "$gte":
		return orderPredicate(e, func(c int) bool { return c >= 0 }), nil
	case "$lt":
		return orderPredicate(e, func(c int) bool { return c < 0 }), nil
	case "$lte":
		return orderPredicate(e, func(c int) bool { return c <= 0 }), nil
	case "$in":
		list, ok := e.([]interface{})
		if !ok {
			d.logger.Warnw("malformed $in payload, expected array", "value", e)
			return alwaysFalse, nil
		}
		return predicateFunc(func(a interface{}) bool {
			if docval.IsAbsent(a) {
				return false
			}
			return anyElement(a, func(v interface{}) bool {
				for _, item := range list {
					if docval.Equal(v, item) {
						return true
					}
				}
				return false
			})
		}), nil
	case "$nin":
		list, ok := e.([]interface{})
		if !ok {
			d.logger.Warnw("malformed $nin payload, expected array", "value", e)
			return alwaysFalse, nil
		}
		return predicateFunc(func(a interface{}) bool {
			if docval.IsAbsent(a) {
				return true
			}
			return !anyElement(a, func(v interface{}) bool {
				for _, item := range list {
					if docval.Equal(v, item) {
						return true
					}
				}
				return false
			})
		}), nil
	case "$exists":
		want, ok := e.(bool)
		if !ok {
			d.logger.Warnw("malformed $exists payload, expected bool", "value", e)
			return alwaysFalse, nil
		}
		return predicateFunc(func(a interface{}) bool {
			return !docval.IsAbsent(a) == want
		}), nil
	case "$regex":
		pattern, ok := e.(string)
		if !ok {
			d.logger.Warnw("malformed $regex payload, expected string", "value", e)
			return alwaysFalse, nil
		}
		re, err := compileRegex(pattern, options)
		if err != nil {
			d.logger.Warnw("invalid $regex pattern", "pattern", pattern, "error", err)
			return alwaysFalse, nil
		}
		return predicateFunc(func(a interface{}) bool {
			if docval.IsAbsent(a) {
				return false
			}
			return anyElement(a, func(v interface{}) bool {
				return re.MatchString(fmt.Sprintf("%v", v))
			})
		}), nil
	case "$mod":
		list, ok := e.([]interface{})
		if !ok || len(list) != 2 {
			d.logger.Warnw("malformed $mod payload, expected [divisor, remainder]", "value", e)
			return alwaysFalse, nil
		}
		divisor, ok1 := toFloat(list[0])
		remainder, ok2 := toFloat(list[1])
		if !ok1 || !ok2 || divisor == 0 {
			d.logger.Warnw("malformed $mod payload", "value", e)
			return alwaysFalse, nil
		}
		return predicateFunc(func(a interface{}) bool {
			return anyElement(a, func(v interface{}) bool {
				n, ok := toFloat(v)
				if !ok {
					return false
				}
				return int64(n)%int64(divisor) == int64(remainder)
			})
		}), nil
	case "$not":
		inner, ok := e.(map[string]interface{})
		if !ok {
			d.logger.Warnw("malformed $not payload, expected operator map", "value", e)
			return alwaysFalse, nil
		}
		preds := make([]predicate, 0, len(inner))
		innerOptions, _ := inner["$options"].(string)
		for op, val := range inner {
			if op == "$options" {
				continue
			}
			p, err := d.compilePredicate(op, val, innerOptions)
			if err != nil {
				return nil, err
			}
			if p != nil {
				preds = append(preds, p)
			}
		}
		return predicateFunc(func(a interface{}) bool {
			for _, p := range preds {
				if !p.eval(a) {
					return true
				}
			}
			return false
		}), nil
	default:
		d.logger.Warnw("ignoring unknown filter operator", "operator", op)
		return nil, nil
	}
}

// matchesValue implements the array-broadcast equality rule shared by
// $eq and the plain equality field form.
func matchesValue(a, e interface{}) bool {
	if arr, ok := a.([]interface{}); ok {
		return docval.Contains(arr, e)
	}
	return docval.Equal(a, e)
}

// anyElement applies pred directly to scalar a, or to any element when
// a is an array ("array-valued A matches if any element satisfies the
// predicate").
func anyElement(a interface{}, pred func(interface{}) bool) bool {
	if arr, ok := a.([]interface{}); ok {
		for _, v := range arr {
			if pred(v) {
				return true
			}
		}
		return false
	}
	return pred(a)
}

func orderPredicate(e interface{}, ok func(int) bool) predicate {
	return predicateFunc(func(a interface{}) bool {
		if docval.IsAbsent(a) {
			return false
		}
		return anyElement(a, func(v interface{}) bool {
			return ok(docval.Compare(v, e))
		})
	})
}

func compileRegex(pattern, options string) (*regexp.Regexp, error) {
	flags := ""
	for _, o := range options {
		switch o {
		case 'i', 'm', 's':
			flags += string(o)
		}
	}
	if flags != "" {
		pattern = "(?" + flags + ")" + pattern
	}
	return regexp.Compile(pattern)
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
	}
	return 0, false
}
