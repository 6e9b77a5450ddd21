package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertAssignsSixteenHexDigitID(t *testing.T) {
	c := New("people", nil, nil, nil)
	result, err := c.Insert([]map[string]interface{}{
		{"name": "Alice", "age": 30.0},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.InsertedCount)
	require.Len(t, result.InsertedIDs, 1)
	require.Len(t, result.InsertedIDs[0], 16)

	docs, err := c.Find(map[string]interface{}{}, FindOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, docs[0]["createdAt"], docs[0]["updatedAt"])
}

func TestInsertBatchIDShape(t *testing.T) {
	c := New("people", nil, nil, nil)
	docs := make([]map[string]interface{}, 30)
	for i := range docs {
		docs[i] = map[string]interface{}{"n": float64(i)}
	}
	result, err := c.Insert(docs)
	require.NoError(t, err)
	require.Equal(t, 30, result.InsertedCount)
	require.Empty(t, result.InsertedIDs)
	require.NotEmpty(t, result.FirstID)
	require.NotEmpty(t, result.LastID)
	require.NotEmpty(t, result.Prefix)

	found, err := c.Find(map[string]interface{}{}, FindOptions{})
	require.NoError(t, err)
	require.Len(t, found, 30)
	for i, doc := range found {
		require.Equal(t, float64(i), doc["n"])
	}
}

func TestUpsertOnInsert(t *testing.T) {
	c := New("people", nil, nil, nil)
	_, err := c.Insert([]map[string]interface{}{
		{"id": "u1", "name": "Alice", "score": 100.0},
	})
	require.NoError(t, err)

	first, err := c.FindByID("u1")
	require.NoError(t, err)
	createdAt := first["createdAt"]

	result, err := c.Insert([]map[string]interface{}{
		{"id": "u1", "name": "Alice Updated", "score": 200.0},
	})
	require.NoError(t, err)
	require.Equal(t, 0, result.InsertedCount)
	require.Equal(t, 1, result.UpdatedCount)

	updated, err := c.FindByID("u1")
	require.NoError(t, err)
	require.Equal(t, "Alice Updated", updated["name"])
	require.Equal(t, createdAt, updated["createdAt"])
}

func TestComplexFilterMatch(t *testing.T) {
	c := New("people", nil, nil, nil)
	_, err := c.Insert([]map[string]interface{}{
		{"active": true, "score": 1200.0, "tags": []interface{}{"vip"}},
		{"active": false, "score": 1200.0, "tags": []interface{}{"vip"}},
		{"active": true, "score": 500.0, "tags": []interface{}{"vip"}},
		{"active": true, "score": 1200.0, "tags": []interface{}{"gold"}},
		{"active": true, "score": 1200.0, "tags": []interface{}{"vip", "gold"}},
	})
	require.NoError(t, err)

	filter := map[string]interface{}{
		"active": true,
		"score":  map[string]interface{}{"$gte": 1000.0},
		"tags":   "vip",
	}
	docs, err := c.Find(filter, FindOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 2)
}

func TestDottedUpdateByID(t *testing.T) {
	c := New("people", nil, nil, nil)
	_, err := c.Insert([]map[string]interface{}{
		{"id": "u1", "stats": map[string]interface{}{"views": 10.0}},
	})
	require.NoError(t, err)

	_, err = c.UpdateByID("u1", map[string]interface{}{
		"$set": map[string]interface{}{"stats.views": 50.0},
	}, ReturnOptions{})
	require.NoError(t, err)

	doc, err := c.FindByID("u1")
	require.NoError(t, err)
	stats := doc["stats"].(map[string]interface{})
	require.Equal(t, 50.0, stats["views"])
}

func TestUpdateByIDUnknownIDFails(t *testing.T) {
	c := New("people", nil, nil, nil)
	_, err := c.UpdateByID("nope", map[string]interface{}{"$set": map[string]interface{}{"x": 1.0}}, ReturnOptions{})
	require.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDeleteRemovesMatchingDocuments(t *testing.T) {
	c := New("people", nil, nil, nil)
	_, err := c.Insert([]map[string]interface{}{
		{"id": "u1", "active": true},
		{"id": "u2", "active": false},
	})
	require.NoError(t, err)

	n, err := c.Delete(map[string]interface{}{"active": false})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	remaining, err := c.Find(map[string]interface{}{}, FindOptions{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, "u1", remaining[0]["id"])

	doc, err := c.FindByID("u1")
	require.NoError(t, err)
	require.NotNil(t, doc)
}

func TestDeleteByIDUnknownFails(t *testing.T) {
	c := New("people", nil, nil, nil)
	err := c.DeleteByID("nope")
	require.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestCountMatchesFindAllLength(t *testing.T) {
	c := New("people", nil, nil, nil)
	docs := make([]map[string]interface{}, 10)
	for i := range docs {
		docs[i] = map[string]interface{}{"active": i%2 == 0}
	}
	_, err := c.Insert(docs)
	require.NoError(t, err)

	filter := map[string]interface{}{"active": true}
	n, err := c.Count(filter)
	require.NoError(t, err)

	found, err := c.Find(filter, FindOptions{Limit: "all"})
	require.NoError(t, err)
	require.Equal(t, n, len(found))
}

func TestPaginateEdgePastLastPage(t *testing.T) {
	c := New("people", nil, nil, nil)
	docs := make([]map[string]interface{}, 50)
	for i := range docs {
		docs[i] = map[string]interface{}{"n": float64(i)}
	}
	_, err := c.Insert(docs)
	require.NoError(t, err)

	page, err := c.Paginate(map[string]interface{}{}, PaginateOptions{Page: 999, Limit: 10})
	require.NoError(t, err)
	require.Empty(t, page.Data)
	require.Equal(t, 5, page.Meta.TotalPages)
	require.False(t, page.Meta.HasNext)
	require.True(t, page.Meta.HasPrev)
}

func TestPaginateFirstPage(t *testing.T) {
	c := New("people", nil, nil, nil)
	docs := make([]map[string]interface{}, 25)
	for i := range docs {
		docs[i] = map[string]interface{}{"n": float64(i)}
	}
	_, err := c.Insert(docs)
	require.NoError(t, err)

	page, err := c.Paginate(map[string]interface{}{}, PaginateOptions{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 10)
	require.Equal(t, 3, page.Meta.TotalPages)
	require.True(t, page.Meta.HasNext)
	require.False(t, page.Meta.HasPrev)
	require.Equal(t, 1, page.Meta.StartIndex)
	require.Equal(t, 10, page.Meta.EndIndex)
}

func TestCreateIndexAndLookup(t *testing.T) {
	c := New("people", nil, nil, nil)
	_, err := c.Insert([]map[string]interface{}{
		{"id": "u1", "email": "a@example.com"},
		{"id": "u2", "email": "b@example.com"},
	})
	require.NoError(t, err)

	err = c.CreateIndex("by_email", []IndexField{{Path: "email"}})
	require.NoError(t, err)

	ids, ok := c.IndexLookup("by_email", []interface{}{"a@example.com"})
	require.True(t, ok)
	require.Equal(t, []string{"u1"}, ids)
}

func TestCreateIndexDuplicateNameFails(t *testing.T) {
	c := New("people", nil, nil, nil)
	require.NoError(t, c.CreateIndex("idx", []IndexField{{Path: "email"}}))
	err := c.CreateIndex("idx", []IndexField{{Path: "email"}})
	require.ErrorIs(t, err, ErrIndexExists)
}

func TestIndexSurvivesDeleteRebuild(t *testing.T) {
	c := New("people", nil, nil, nil)
	_, err := c.Insert([]map[string]interface{}{
		{"id": "u1", "email": "a@example.com"},
		{"id": "u2", "email": "b@example.com"},
		{"id": "u3", "email": "c@example.com"},
	})
	require.NoError(t, err)
	require.NoError(t, c.CreateIndex("by_email", []IndexField{{Path: "email"}}))

	_, err = c.Delete(map[string]interface{}{"id": "u2"})
	require.NoError(t, err)

	ids, ok := c.IndexLookup("by_email", []interface{}{"c@example.com"})
	require.True(t, ok)
	require.Equal(t, []string{"u3"}, ids)

	ids, ok = c.IndexLookup("by_email", []interface{}{"b@example.com"})
	require.True(t, ok)
	require.Empty(t, ids)
}

func TestDropClearsState(t *testing.T) {
	c := New("people", nil, nil, nil)
	_, err := c.Insert([]map[string]interface{}{{"id": "u1"}})
	require.NoError(t, err)

	c.Drop()
	docs, err := c.Find(map[string]interface{}{}, FindOptions{})
	require.NoError(t, err)
	require.Empty(t, docs)

	stats := c.Stats()
	require.Equal(t, 0, stats.Documents)
}

func TestReadsReturnIndependentCopies(t *testing.T) {
	c := New("people", nil, nil, nil)
	_, err := c.Insert([]map[string]interface{}{
		{"id": "u1", "tags": []interface{}{"a"}},
	})
	require.NoError(t, err)

	doc, err := c.FindByID("u1")
	require.NoError(t, err)
	doc["tags"].([]interface{})[0] = "mutated"

	fresh, err := c.FindByID("u1")
	require.NoError(t, err)
	require.Equal(t, "a", fresh["tags"].([]interface{})[0])
}
