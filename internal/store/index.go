package store

import (
	"encoding/json"
	"strconv"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/skshohagmiah/docbase/internal/docval"
)

// secondaryIndex is a composite index keyed by an ordered tuple of
// field names (spec.md §3). It is a nested trie of canonical
// value-keys; the leaf at depth len(fields) holds the set of matching
// positions as a roaring bitmap, which keeps a wide index compact and
// makes a future multi-field lookup's set intersection O(1)-ish
// instead of a hand-rolled slice merge.
type secondaryIndex struct {
	fields []IndexField
	root   *indexNode
}

type indexNode struct {
	children map[string]*indexNode
	bitmap   *roaring.Bitmap
}

func newIndexNode() *indexNode {
	return &indexNode{children: make(map[string]*indexNode)}
}

func newSecondaryIndex(fields []IndexField) *secondaryIndex {
	return &secondaryIndex{fields: fields, root: newIndexNode()}
}

// keysFor resolves the index's fields against doc. It returns ok=false
// when any field is undefined — such documents are absent from the
// index per spec.md §3's invariant (b).
func (idx *secondaryIndex) keysFor(doc map[string]interface{}) ([]string, bool) {
	keys := make([]string, len(idx.fields))
	for i, f := range idx.fields {
		v := docval.Resolve(doc, f.Path)
		if docval.IsAbsent(v) {
			return nil, false
		}
		keys[i] = valueKey(v)
	}
	return keys, true
}

func (idx *secondaryIndex) add(doc map[string]interface{}, pos int) {
	keys, ok := idx.keysFor(doc)
	if !ok {
		return
	}
	node := idx.root
	for _, k := range keys {
		child, ok := node.children[k]
		if !ok {
			child = newIndexNode()
			node.children[k] = child
		}
		node = child
	}
	if node.bitmap == nil {
		node.bitmap = roaring.New()
	}
	node.bitmap.Add(uint32(pos))
}

func (idx *secondaryIndex) remove(doc map[string]interface{}, pos int) {
	keys, ok := idx.keysFor(doc)
	if !ok {
		return
	}
	node := idx.root
	for _, k := range keys {
		child, ok := node.children[k]
		if !ok {
			return
		}
		node = child
	}
	if node.bitmap != nil {
		node.bitmap.Remove(uint32(pos))
	}
}

// Lookup returns the positions whose indexed fields equal values, in
// field order. It is not used by any read path (spec.md §1: "No
// secondary-index-aware query planning in v1 — indexes exist but are
// not required for correctness of any read"); it exists so an index,
// once created, is independently inspectable/testable.
func (idx *secondaryIndex) Lookup(values []interface{}) []int {
	if len(values) != len(idx.fields) {
		return nil
	}
	node := idx.root
	for _, v := range values {
		child, ok := node.children[valueKey(v)]
		if !ok {
			return nil
		}
		node = child
	}
	if node.bitmap == nil {
		return nil
	}
	out := make([]int, 0, node.bitmap.GetCardinality())
	it := node.bitmap.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// valueKey canonicalizes a resolved field value into a string usable
// as a trie edge label, tagging the encoding by type so that, e.g.,
// the string "1" and the number 1 never collide.
func valueKey(v interface{}) string {
	switch t := v.(type) {
	case string:
		return "s:" + t
	case float64:
		return "n:" + strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return "b:" + strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return "j:" + string(b)
	}
}
