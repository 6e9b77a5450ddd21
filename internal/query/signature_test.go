package query

import "testing"

func TestSignatureDeterministicAcrossCalls(t *testing.T) {
	filter := map[string]interface{}{"a": 1.0, "b": "x"}
	if Signature(filter) != Signature(filter) {
		t.Fatal("expected Signature to be stable across calls")
	}
}

func TestSignatureIndependentOfKeyOrder(t *testing.T) {
	a := map[string]interface{}{"a": 1.0, "b": "x"}
	b := map[string]interface{}{"b": "x", "a": 1.0}
	if Signature(a) != Signature(b) {
		t.Fatal("expected signature to not depend on map iteration order")
	}
}

func TestSignatureDiffersForDifferentContent(t *testing.T) {
	a := map[string]interface{}{"a": 1.0}
	b := map[string]interface{}{"a": 2.0}
	if Signature(a) == Signature(b) {
		t.Fatal("expected different content to produce different signatures")
	}
}
