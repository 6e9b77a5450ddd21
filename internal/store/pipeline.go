package store

import (
	"sort"

	"go.uber.org/zap"

	"github.com/skshohagmiah/docbase/internal/docval"
)

// applySort orders docs by the given keys, most significant first,
// comparing through docval.Compare's stable total order so mixed-type
// fields never panic (spec.md §9, open question 4).
func applySort(docs []map[string]interface{}, order SortSpec) []map[string]interface{} {
	if len(order) == 0 {
		return docs
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, f := range order {
			vi := docval.Resolve(docs[i], f.Path)
			vj := docval.Resolve(docs[j], f.Path)
			c := docval.Compare(vi, vj)
			if c == 0 {
				continue
			}
			if f.Dir < 0 {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return docs
}

func applySkip(docs []map[string]interface{}, skip int) []map[string]interface{} {
	if skip <= 0 {
		return docs
	}
	if skip >= len(docs) {
		return []map[string]interface{}{}
	}
	return docs[skip:]
}

// applyLimit implements spec.md §4.3: retain the first N, or all
// results if limit is the literal string "all" (or unset).
func applyLimit(docs []map[string]interface{}, limit interface{}) []map[string]interface{} {
	if limit == nil {
		return docs
	}
	if s, ok := limit.(string); ok {
		_ = s // the only valid string literal is "all", which also just means unlimited
		return docs
	}
	n, ok := toInt(limit)
	if !ok || n < 0 {
		return docs
	}
	if n > len(docs) {
		n = len(docs)
	}
	return docs[:n]
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

type projectionMode int

const (
	projectInclude projectionMode = iota
	projectExclude
)

// resolveProjectionMode rejects a projection that mixes include and
// exclude entries, per spec.md §4.3.
func resolveProjectionMode(projection map[string]interface{}) (projectionMode, bool) {
	var hasInclude, hasExclude bool
	for _, v := range projection {
		if truthyProjection(v) {
			hasInclude = true
		} else {
			hasExclude = true
		}
	}
	if hasInclude && hasExclude {
		return 0, false
	}
	if hasInclude {
		return projectInclude, true
	}
	return projectExclude, true
}

func truthyProjection(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return false
}

// applyProjection implements spec.md §4.3's projection stage. A
// mixed-mode projection is unsupported; the spec's observed behavior
// is to return the documents untouched with a warning.
func applyProjection(docs []map[string]interface{}, projection map[string]interface{}, logger *zap.SugaredLogger) []map[string]interface{} {
	if len(projection) == 0 {
		return docs
	}
	mode, ok := resolveProjectionMode(projection)
	if !ok {
		if logger != nil {
			logger.Warnw("mixed include/exclude projection is unsupported; returning documents unprojected")
		}
		return docs
	}
	out := make([]map[string]interface{}, len(docs))
	for i, doc := range docs {
		if mode == projectInclude {
			out[i] = applyInclude(doc, projection)
		} else {
			out[i] = applyExclude(doc, projection)
		}
	}
	return out
}

func applyInclude(doc map[string]interface{}, projection map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for path, v := range projection {
		if !truthyProjection(v) {
			continue
		}
		val := docval.Resolve(doc, path)
		if docval.IsAbsent(val) {
			continue
		}
		out[path] = docval.Clone(val)
	}
	return out
}

func applyExclude(doc map[string]interface{}, projection map[string]interface{}) map[string]interface{} {
	out := docval.CloneDoc(doc)
	for path, v := range projection {
		if truthyProjection(v) {
			continue
		}
		docval.UnsetPath(out, path)
	}
	return out
}
