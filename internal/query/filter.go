// Package query decodes a filter document into a small predicate tree
// and evaluates it against documents, plus a bounded FIFO result cache
// keyed on filter shape and dataset size.
package query

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/skshohagmiah/docbase/internal/docval"
)

// Node is a compiled filter predicate.
type Node interface {
	Match(doc map[string]interface{}) bool
}

// andNode matches when every sub-node matches (also used for the
// implicit AND across a filter document's top-level keys).
type andNode struct{ subs []Node }

func (n andNode) Match(doc map[string]interface{}) bool {
	for _, s := range n.subs {
		if !s.Match(doc) {
			return false
		}
	}
	return true
}

type orNode struct{ subs []Node }

func (n orNode) Match(doc map[string]interface{}) bool {
	for _, s := range n.subs {
		if s.Match(doc) {
			return true
		}
	}
	return len(n.subs) == 0
}

type norNode struct{ subs []Node }

func (n norNode) Match(doc map[string]interface{}) bool {
	for _, s := range n.subs {
		if s.Match(doc) {
			return false
		}
	}
	return true
}

type notNode struct{ sub Node }

func (n notNode) Match(doc map[string]interface{}) bool {
	return !n.sub.Match(doc)
}

// equalityNode is the plain-value comparison form of a field entry.
type equalityNode struct {
	path  string
	value interface{}
}

func (n equalityNode) Match(doc map[string]interface{}) bool {
	resolved := docval.Resolve(doc, n.path)
	if arr, ok := resolved.([]interface{}); ok {
		return docval.Contains(arr, n.value)
	}
	return docval.Equal(resolved, n.value)
}

// fieldNode is the per-field operator-map form of a field entry.
type fieldNode struct {
	path  string
	preds []predicate
}

func (n fieldNode) Match(doc map[string]interface{}) bool {
	resolved := docval.Resolve(doc, n.path)
	for _, p := range n.preds {
		if !p.eval(resolved) {
			return false
		}
	}
	return true
}

// Decoder compiles filter documents into Nodes and logs (rather than
// fails) on unknown operators and malformed operator payloads, per
// spec.md §4.2.1.
type Decoder struct {
	logger *zap.SugaredLogger
}

// NewDecoder builds a Decoder. logger may be nil.
func NewDecoder(logger *zap.SugaredLogger) *Decoder {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Decoder{logger: logger}
}

// Decode compiles a filter document into a Node. An empty or nil
// filter always matches.
func (d *Decoder) Decode(filter map[string]interface{}) (Node, error) {
	if len(filter) == 0 {
		return andNode{}, nil
	}
	var subs []Node
	for key, value := range filter {
		switch key {
		case "$and":
			sub, err := d.decodeList(value)
			if err != nil {
				return nil, err
			}
			subs = append(subs, andNode{subs: sub})
		case "$or":
			sub, err := d.decodeList(value)
			if err != nil {
				return nil, err
			}
			subs = append(subs, orNode{subs: sub})
		case "$nor":
			sub, err := d.decodeList(value)
			if err != nil {
				return nil, err
			}
			subs = append(subs, norNode{subs: sub})
		case "$not":
			inner, ok := value.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("query: $not requires an object filter")
			}
			sub, err := d.Decode(inner)
			if err != nil {
				return nil, err
			}
			subs = append(subs, notNode{sub: sub})
		default:
			node, err := d.decodeField(key, value)
			if err != nil {
				return nil, err
			}
			subs = append(subs, node)
		}
	}
	return andNode{subs: subs}, nil
}

func (d *Decoder) decodeList(value interface{}) ([]Node, error) {
	list, ok := value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("query: logical operator requires an array of filters")
	}
	out := make([]Node, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("query: logical operator entries must be filter objects")
		}
		node, err := d.Decode(m)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

// isOperatorMap reports whether v is a non-empty document whose every
// key begins with '$' — the per-field operator map form.
func isOperatorMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	if !ok || len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if len(k) == 0 || k[0] != '$' {
			return nil, false
		}
	}
	return m, true
}

func (d *Decoder) decodeField(path string, value interface{}) (Node, error) {
	ops, ok := isOperatorMap(value)
	if !ok {
		return equalityNode{path: path, value: value}, nil
	}
	options, _ := ops["$options"].(string)
	preds := make([]predicate, 0, len(ops))
	for op, e := range ops {
		if op == "$options" {
			continue
		}
		pred, err := d.compilePredicate(op, e, options)
		if err != nil {
			return nil, err
		}
		if pred != nil {
			preds = append(preds, pred)
		}
	}
	return fieldNode{path: path, preds: preds}, nil
}
