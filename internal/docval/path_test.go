package docval

import "testing"

func TestSetPathCreatesIntermediates(t *testing.T) {
	doc := map[string]interface{}{}
	SetPath(doc, "stats.views", 50.0)

	stats, ok := doc["stats"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected stats to be a map, got %T", doc["stats"])
	}
	if stats["views"] != 50.0 {
		t.Fatalf("expected views=50, got %v", stats["views"])
	}
}

func TestSetPathOverwritesExisting(t *testing.T) {
	doc := map[string]interface{}{"stats": map[string]interface{}{"views": 10.0}}
	SetPath(doc, "stats.views", 99.0)
	if doc["stats"].(map[string]interface{})["views"] != 99.0 {
		t.Fatal("expected views to be overwritten")
	}
}

func TestGetPathNoBroadcast(t *testing.T) {
	doc := map[string]interface{}{
		"items": []interface{}{map[string]interface{}{"qty": 1.0}},
	}
	_, ok := GetPath(doc, "items.qty")
	if ok {
		t.Fatal("expected GetPath to not broadcast through arrays")
	}
}

func TestGetPathFound(t *testing.T) {
	doc := map[string]interface{}{"stats": map[string]interface{}{"views": 10.0}}
	v, ok := GetPath(doc, "stats.views")
	if !ok || v != 10.0 {
		t.Fatalf("expected (10, true), got (%v, %v)", v, ok)
	}
}

func TestUnsetPathRemovesLeaf(t *testing.T) {
	doc := map[string]interface{}{"stats": map[string]interface{}{"views": 10.0, "likes": 5.0}}
	UnsetPath(doc, "stats.views")
	stats := doc["stats"].(map[string]interface{})
	if _, present := stats["views"]; present {
		t.Fatal("expected views to be removed")
	}
	if stats["likes"] != 5.0 {
		t.Fatal("expected likes to remain untouched")
	}
}

func TestUnsetPathNeverCreatesIntermediates(t *testing.T) {
	doc := map[string]interface{}{}
	UnsetPath(doc, "stats.views")
	if _, present := doc["stats"]; present {
		t.Fatal("expected UnsetPath to not create intermediate objects")
	}
}
