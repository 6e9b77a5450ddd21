package store

import (
	"bytes"
	"encoding/json"
	"sort"
)

// canonicalJSON encodes doc with the field order spec.md §3 mandates
// for persistence: id first, then all other fields lexicographically,
// then createdAt, then updatedAt. encoding/json's default map
// marshaling sorts ALL keys together, which cannot produce this order,
// so the object is assembled by hand.
func canonicalJSON(doc map[string]interface{}) (json.RawMessage, error) {
	rest := make([]string, 0, len(doc))
	for k := range doc {
		switch k {
		case "id", "createdAt", "updatedAt":
			continue
		default:
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, val interface{}) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		kb, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(vb)
		return nil
	}

	if v, ok := doc["id"]; ok {
		if err := write("id", v); err != nil {
			return nil, err
		}
	}
	for _, k := range rest {
		if err := write(k, doc[k]); err != nil {
			return nil, err
		}
	}
	if v, ok := doc["createdAt"]; ok {
		if err := write("createdAt", v); err != nil {
			return nil, err
		}
	}
	if v, ok := doc["updatedAt"]; ok {
		if err := write("updatedAt", v); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return json.RawMessage(buf.Bytes()), nil
}

// MarshalSnapshot renders docs as a pretty-printed (two-space indent)
// JSON array with each document in canonical field order, the exact
// on-disk shape spec.md §6 specifies.
func MarshalSnapshot(docs []map[string]interface{}) ([]byte, error) {
	items := make([]json.RawMessage, len(docs))
	for i, doc := range docs {
		raw, err := canonicalJSON(doc)
		if err != nil {
			return nil, err
		}
		items[i] = raw
	}
	return json.MarshalIndent(items, "", "  ")
}
