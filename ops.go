package docbase

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/skshohagmiah/docbase/internal/store"
)

// Count returns the number of documents in collection matching filter.
func (e *Engine) Count(collection string, filter map[string]interface{}) *Result {
	c, err := e.collection(collection)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	e.metrics.ObserveOp(collection, "count")
	n, err := c.Count(filter)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	return ok(n)
}

// Find runs the filter/sort/skip/limit/projection pipeline. An empty
// result is reported as success:false, data:[], code:404 per
// spec.md §7.
func (e *Engine) Find(collection string, filter map[string]interface{}, opts FindOptions) *Result {
	c, err := e.collection(collection)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	e.metrics.ObserveOp(collection, "find")
	docs, err := c.Find(filter, opts)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	if len(docs) == 0 {
		return &Result{Success: false, Data: []map[string]interface{}{}, Error: &Error{Message: "no documents matched", Code: CodeNotFound}}
	}
	return ok(docs)
}

// FindOne returns the first matching document, or a 404 if none match.
func (e *Engine) FindOne(collection string, filter map[string]interface{}, opts FindOptions) *Result {
	c, err := e.collection(collection)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	e.metrics.ObserveOp(collection, "findOne")
	doc, err := c.FindOne(filter, opts)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	if doc == nil {
		return fail(CodeNotFound, store.ErrDocumentNotFound)
	}
	return ok(doc)
}

// FindByID looks a document up by id in O(1).
func (e *Engine) FindByID(collection, id string) *Result {
	c, err := e.collection(collection)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	e.metrics.ObserveOp(collection, "findById")
	doc, err := c.FindByID(id)
	if err != nil {
		return fail(CodeInternal, err)
	}
	if doc == nil {
		return fail(CodeNotFound, store.ErrDocumentNotFound)
	}
	return ok(doc)
}

// Insert inserts or upserts each document in docs, in order.
func (e *Engine) Insert(collection string, docs []map[string]interface{}) *Result {
	c, err := e.collection(collection)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	e.metrics.ObserveOp(collection, "insert")
	result, err := c.Insert(docs)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	return ok(result)
}

// Update applies spec to every document matching filter.
func (e *Engine) Update(collection string, filter, spec map[string]interface{}, ret ReturnOptions) *Result {
	c, err := e.collection(collection)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	e.metrics.ObserveOp(collection, "update")
	result, err := c.Update(filter, spec, ret)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	return ok(result)
}

// UpdateByID applies spec to the single document with the given id.
func (e *Engine) UpdateByID(collection, id string, spec map[string]interface{}, ret ReturnOptions) *Result {
	c, err := e.collection(collection)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	e.metrics.ObserveOp(collection, "updateById")
	result, err := c.UpdateByID(id, spec, ret)
	if err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			return fail(CodeNotFound, err)
		}
		return fail(CodeInvalid, err)
	}
	return ok(result)
}

// Delete removes every document matching filter.
func (e *Engine) Delete(collection string, filter map[string]interface{}) *Result {
	c, err := e.collection(collection)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	e.metrics.ObserveOp(collection, "delete")
	n, err := c.Delete(filter)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	return ok(n)
}

// DeleteByID removes the single document with the given id.
func (e *Engine) DeleteByID(collection, id string) *Result {
	c, err := e.collection(collection)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	e.metrics.ObserveOp(collection, "deleteById")
	if err := c.DeleteByID(id); err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			return fail(CodeNotFound, err)
		}
		return fail(CodeInternal, err)
	}
	return ok(nil)
}

// Paginate runs the pipeline with skip=(page-1)*limit and returns both
// the page and its metadata block.
func (e *Engine) Paginate(collection string, filter map[string]interface{}, opts PaginateOptions) *Result {
	c, err := e.collection(collection)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	e.metrics.ObserveOp(collection, "paginate")
	page, err := c.Paginate(filter, opts)
	if err != nil {
		if errors.Is(err, store.ErrInvalidPagination) {
			return fail(CodeInvalid, err)
		}
		return fail(CodeInvalid, err)
	}
	return ok(page)
}

// CreateIndex registers a composite index over collection's fields
// and scans the collection to populate it.
func (e *Engine) CreateIndex(collection, name string, fields []IndexField) *Result {
	c, err := e.collection(collection)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	e.metrics.ObserveOp(collection, "createIndex")
	if err := c.CreateIndex(name, fields); err != nil {
		if errors.Is(err, store.ErrIndexExists) {
			return fail(CodeConflict, err)
		}
		return fail(CodeInvalid, err)
	}
	return ok(nil)
}

// DropIndex removes a previously registered index; a no-op if absent.
func (e *Engine) DropIndex(collection, name string) *Result {
	c, err := e.collection(collection)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	c.DropIndex(name)
	return ok(nil)
}

// Drop clears a collection's in-memory state and deletes its on-disk
// snapshot, idempotently if the file is already absent.
func (e *Engine) Drop(collection string) *Result {
	c, err := e.collection(collection)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	e.metrics.ObserveOp(collection, "drop")
	c.Drop()

	path := filepath.Join(e.cfg.StoragePath, collection+".json")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fail(CodeInternal, err)
	}

	e.mu.Lock()
	delete(e.collections, collection)
	e.mu.Unlock()
	return ok(nil)
}

// Stats returns a read-only snapshot of collection's bookkeeping
// state (document count, dirty flag, last save time, index names).
func (e *Engine) Stats(collection string) *Result {
	c, err := e.collection(collection)
	if err != nil {
		return fail(CodeInvalid, err)
	}
	return ok(c.Stats())
}
