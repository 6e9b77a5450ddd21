// Package update interprets update specifications (operator documents,
// or plain field documents applied as a $set) against a mutable
// document, including dotted-path mutation and array operators.
package update

import (
	"go.uber.org/zap"

	"github.com/skshohagmiah/docbase/internal/docval"
)

var operatorKeys = map[string]bool{
	"$set":      true,
	"$unset":    true,
	"$inc":      true,
	"$push":     true,
	"$addToSet": true,
	"$pull":     true,
}

// IsOperatorForm reports whether any of spec's top-level keys begins
// with '$', known operator or not. A spec with no top-level $ keys at all
// is not operator form (it is a bare $set payload); a spec mixing
// operator and non-operator keys is still treated as operator form,
// and the non-operator keys are ignored as unknown operators.
func IsOperatorForm(spec map[string]interface{}) bool {
	for k := range spec {
		if len(k) > 0 && k[0] == '$' {
			return true
		}
	}
	return false
}

// Apply mutates doc in place per spec. A non-operator
// spec is treated as {$set: spec}.
func Apply(doc map[string]interface{}, spec map[string]interface{}, logger *zap.SugaredLogger) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if !IsOperatorForm(spec) {
		applySet(doc, spec)
		return
	}
	for op, payload := range spec {
		switch op {
		case "$set":
			m, ok := payload.(map[string]interface{})
			if !ok {
				logger.Warnw("malformed $set payload, expected object", "value", payload)
				continue
			}
			applySet(doc, m)
		case "$unset":
			m, ok := payload.(map[string]interface{})
			if !ok {
				logger.Warnw("malformed $unset payload, expected object", "value", payload)
				continue
			}
			for path := range m {
				docval.UnsetPath(doc, path)
			}
		case "$inc":
			m, ok := payload.(map[string]interface{})
			if !ok {
				logger.Warnw("malformed $inc payload, expected object", "value", payload)
				continue
			}
			for path, delta := range m {
				applyInc(doc, path, delta)
			}
		case "$push":
			m, ok := payload.(map[string]interface{})
			if !ok {
				logger.Warnw("malformed $push payload, expected object", "value", payload)
				continue
			}
			for path, v := range m {
				applyPush(doc, path, v)
			}
		case "$addToSet":
			m, ok := payload.(map[string]interface{})
			if !ok {
				logger.Warnw("malformed $addToSet payload, expected object", "value", payload)
				continue
			}
			for path, v := range m {
				applyAddToSet(doc, path, v)
			}
		case "$pull":
			m, ok := payload.(map[string]interface{})
			if !ok {
				logger.Warnw("malformed $pull payload, expected object", "value", payload)
				continue
			}
			for path, v := range m {
				applyPull(doc, path, v)
			}
		default:
			logger.Warnw("ignoring unknown update operator", "operator", op)
		}
	}
}

func applySet(doc map[string]interface{}, fields map[string]interface{}) {
	for path, v := range fields {
		docval.SetPath(doc, path, v)
	}
}

func applyInc(doc map[string]interface{}, path string, delta interface{}) {
	d, ok := toFloat(delta)
	if !ok {
		return
	}
	cur, _ := docval.GetPath(doc, path)
	n, _ := toFloat(cur)
	docval.SetPath(doc, path, n+d)
}

func applyPush(doc map[string]interface{}, path string, v interface{}) {
	cur, ok := docval.GetPath(doc, path)
	arr, isArr := cur.([]interface{})
	if !ok || !isArr {
		arr = []interface{}{}
	}
	arr = append(arr, v)
	docval.SetPath(doc, path, arr)
}

func applyAddToSet(doc map[string]interface{}, path string, v interface{}) {
	cur, ok := docval.GetPath(doc, path)
	arr, isArr := cur.([]interface{})
	if !ok || !isArr {
		arr = []interface{}{}
	}
	additions := extractEach(v)
	for _, item := range additions {
		if !docval.Contains(arr, item) {
			arr = append(arr, item)
		}
	}
	docval.SetPath(doc, path, arr)
}

func extractEach(v interface{}) []interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		if each, ok := m["$each"].([]interface{}); ok {
			return each
		}
	}
	return []interface{}{v}
}

func applyPull(doc map[string]interface{}, path string, v interface{}) {
	cur, ok := docval.GetPath(doc, path)
	arr, isArr := cur.([]interface{})
	if !ok || !isArr {
		return
	}
	shouldRemove := func(elem interface{}) bool {
		if m, ok := v.(map[string]interface{}); ok {
			if in, ok := m["$in"].([]interface{}); ok {
				for _, item := range in {
					if docval.Equal(elem, item) {
						return true
					}
				}
				return false
			}
		}
		return docval.Equal(elem, v)
	}
	out := make([]interface{}, 0, len(arr))
	for _, elem := range arr {
		if !shouldRemove(elem) {
			out = append(out, elem)
		}
	}
	docval.SetPath(doc, path, out)
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
	case nil:
		return 0, true
	}
	return 0, false
}
