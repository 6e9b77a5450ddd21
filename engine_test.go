package docbase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := Open(Config{StoragePath: t.TempDir(), SaveDelay: 5 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

// S1 — basic insert/find.
func TestBasicInsertFind(t *testing.T) {
	e := openTestEngine(t)
	res := e.Insert("people", []map[string]interface{}{{"name": "Alice", "age": 30.0}})
	require.True(t, res.Success)
	ir := res.Data.(*InsertResult)
	require.Equal(t, 1, ir.InsertedCount)
	require.Len(t, ir.InsertedIDs[0], 16)

	find := e.Find("people", map[string]interface{}{}, FindOptions{})
	require.True(t, find.Success)
	docs := find.Data.([]map[string]interface{})
	require.Len(t, docs, 1)
	require.Equal(t, docs[0]["createdAt"], docs[0]["updatedAt"])
}

// S2 — batch id shape.
func TestBatchInsertIDShape(t *testing.T) {
	e := openTestEngine(t)
	docs := make([]map[string]interface{}, 30)
	for i := range docs {
		docs[i] = map[string]interface{}{"n": float64(i)}
	}
	res := e.Insert("people", docs)
	require.True(t, res.Success)
	ir := res.Data.(*InsertResult)
	require.Equal(t, 30, ir.InsertedCount)
	require.NotEmpty(t, ir.FirstID)
	require.NotEmpty(t, ir.LastID)
	require.NotEmpty(t, ir.Prefix)

	find := e.Find("people", map[string]interface{}{}, FindOptions{})
	require.True(t, find.Success)
	found := find.Data.([]map[string]interface{})
	require.Len(t, found, 30)
	for i, doc := range found {
		require.Equal(t, float64(i), doc["n"])
	}
}

// S5 — upsert.
func TestUpsertReturnsUpdatedCount(t *testing.T) {
	e := openTestEngine(t)
	e.Insert("people", []map[string]interface{}{{"id": "u1", "name": "Alice", "score": 100.0}})
	res := e.Insert("people", []map[string]interface{}{{"id": "u1", "name": "Alice Updated", "score": 200.0}})
	require.True(t, res.Success)
	ir := res.Data.(*InsertResult)
	require.Equal(t, 0, ir.InsertedCount)
	require.Equal(t, 1, ir.UpdatedCount)

	found := e.FindByID("people", "u1")
	require.True(t, found.Success)
	doc := found.Data.(map[string]interface{})
	require.Equal(t, "Alice Updated", doc["name"])
}

// S6 — snapshot round trip.
func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	e, err := Open(Config{StoragePath: dir, SaveDelay: 5 * time.Millisecond})
	require.NoError(t, err)

	e.Insert("people", []map[string]interface{}{
		{"name": "Alice"}, {"name": "Bob"}, {"name": "Carol"},
	})
	require.NoError(t, e.Close())

	e2, err := Open(Config{StoragePath: dir, SaveDelay: 5 * time.Millisecond})
	require.NoError(t, err)
	defer e2.Close()

	res := e2.Find("people", map[string]interface{}{}, FindOptions{})
	require.True(t, res.Success)
	docs := res.Data.([]map[string]interface{})
	require.Len(t, docs, 3)
}

// S7 — paginate edge.
func TestPaginateEdge(t *testing.T) {
	e := openTestEngine(t)
	docs := make([]map[string]interface{}, 50)
	for i := range docs {
		docs[i] = map[string]interface{}{"n": float64(i)}
	}
	e.Insert("people", docs)

	res := e.Paginate("people", map[string]interface{}{}, PaginateOptions{Page: 999, Limit: 10})
	require.True(t, res.Success)
	page := res.Data.(*PageResult)
	require.Empty(t, page.Data)
	require.Equal(t, 5, page.Meta.TotalPages)
	require.False(t, page.Meta.HasNext)
	require.True(t, page.Meta.HasPrev)
}

func TestFindEmptyResultReturnsFailureEnvelope(t *testing.T) {
	e := openTestEngine(t)
	res := e.Find("people", map[string]interface{}{"name": "nobody"}, FindOptions{})
	require.False(t, res.Success)
	require.Equal(t, CodeNotFound, res.Error.Code)
	require.Equal(t, []map[string]interface{}{}, res.Data)
}

func TestCountOnNonMatchingFilterIsSuccessZero(t *testing.T) {
	e := openTestEngine(t)
	e.Insert("people", []map[string]interface{}{{"name": "Alice"}})
	res := e.Count("people", map[string]interface{}{"name": "nobody"})
	require.True(t, res.Success)
	require.Equal(t, 0, res.Data)
}

func TestInvalidCollectionNameRejected(t *testing.T) {
	e := openTestEngine(t)
	res := e.Insert("1bad", []map[string]interface{}{{"a": 1.0}})
	require.False(t, res.Success)
	require.Equal(t, CodeInvalid, res.Error.Code)
}

func TestUpdateByIDUnknownIsNotFound(t *testing.T) {
	e := openTestEngine(t)
	res := e.UpdateByID("people", "nope", map[string]interface{}{"$set": map[string]interface{}{"a": 1.0}}, ReturnOptions{})
	require.False(t, res.Success)
	require.Equal(t, CodeNotFound, res.Error.Code)
}

func TestCreateIndexDuplicateIsConflict(t *testing.T) {
	e := openTestEngine(t)
	e.Insert("people", []map[string]interface{}{{"email": "a@example.com"}})
	require.True(t, e.CreateIndex("people", "by_email", []IndexField{{Path: "email"}}).Success)
	res := e.CreateIndex("people", "by_email", []IndexField{{Path: "email"}})
	require.False(t, res.Success)
	require.Equal(t, CodeConflict, res.Error.Code)
}

func TestDropDeletesSnapshotFile(t *testing.T) {
	e := openTestEngine(t)
	e.Insert("people", []map[string]interface{}{{"name": "Alice"}})
	require.NoError(t, e.Close())

	e2, err := Open(Config{StoragePath: e.cfg.StoragePath})
	require.NoError(t, err)
	defer e2.Close()

	res := e2.Drop("people")
	require.True(t, res.Success)

	find := e2.Find("people", map[string]interface{}{}, FindOptions{})
	require.False(t, find.Success)
}
