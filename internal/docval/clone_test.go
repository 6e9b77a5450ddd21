package docval

import "testing"

func TestCloneDocIsIndependent(t *testing.T) {
	original := map[string]interface{}{
		"name": "Alice",
		"tags": []interface{}{"a", "b"},
		"nested": map[string]interface{}{
			"x": 1.0,
		},
	}
	clone := CloneDoc(original)

	clone["name"] = "Bob"
	clone["tags"].([]interface{})[0] = "z"
	clone["nested"].(map[string]interface{})["x"] = 2.0

	if original["name"] != "Alice" {
		t.Fatal("mutating clone's top-level field affected original")
	}
	if original["tags"].([]interface{})[0] != "a" {
		t.Fatal("mutating clone's array affected original")
	}
	if original["nested"].(map[string]interface{})["x"] != 1.0 {
		t.Fatal("mutating clone's nested map affected original")
	}
}
