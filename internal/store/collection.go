package store

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/skshohagmiah/docbase/internal/docval"
	"github.com/skshohagmiah/docbase/internal/metrics"
	"github.com/skshohagmiah/docbase/internal/query"
	"github.com/skshohagmiah/docbase/internal/update"
)

// Armer (re)arms a collection's debounced snapshot timer. Implemented
// by internal/persist.Persister; kept as a small interface here so
// store never imports persist.
type Armer interface {
	Arm(name string)
}

// Collection is the in-memory engine for one named document
// collection: the data vector, the primary id index, any secondary
// indexes, and the public insert/find/update/delete/paginate surface
// (spec.md §4.5).
type Collection struct {
	mu sync.RWMutex

	name     string
	data     []map[string]interface{}
	idIndex  map[string]int
	indexes  map[string]*secondaryIndex
	dirty    bool
	lastSave time.Time
	epoch    uint64

	cache   *query.Cache
	decoder *query.Decoder
	logger  *zap.SugaredLogger
	metrics *metrics.Recorder
	armer   Armer
}

// New builds an empty Collection. logger and rec may be nil; armer may
// be nil for a Collection used without a persister (e.g. in tests).
func New(name string, logger *zap.SugaredLogger, rec *metrics.Recorder, armer Armer) *Collection {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Collection{
		name:    name,
		idIndex: make(map[string]int),
		indexes: make(map[string]*secondaryIndex),
		cache:   query.NewCache(query.DefaultCacheSize),
		decoder: query.NewDecoder(logger),
		logger:  logger,
		metrics: rec,
		armer:   armer,
	}
}

// Name returns the collection's name.
func (c *Collection) Name() string { return c.name }

// LoadSnapshot installs docs (as read from disk) as the collection's
// initial state. Secondary indexes are not persisted (spec.md §4.6);
// callers re-declare and CreateIndex separately if needed.
func (c *Collection) LoadSnapshot(docs []map[string]interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = docs
	c.rebuildIDIndexLocked()
	c.lastSave = time.Now()
	if c.metrics != nil {
		c.metrics.SetDocuments(c.name, len(c.data))
	}
}

// Insert applies spec.md §4.5's insert/upsert semantics across docs in
// order and returns the resulting counts and id shape.
func (c *Collection) Insert(docs []map[string]interface{}) (*InsertResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(docs)
	var prefix string
	if n >= 2 {
		prefix = batchPrefix()
	}

	result := &InsertResult{}
	var insertedIDs []string
	seq := 0

	for _, input := range docs {
		doc := docval.CloneDoc(input)
		id, hasID := idOf(doc)
		if hasID {
			if pos, exists := c.idIndex[id]; exists {
				c.upsertAtLocked(pos, doc)
				result.UpdatedCount++
				continue
			}
		} else {
			seq++
			if n >= 2 {
				id = batchID(prefix, seq)
			} else {
				id = newAutoID()
			}
		}
		ts := nowISO()
		doc["id"] = id
		doc["createdAt"] = ts
		doc["updatedAt"] = ts
		c.appendLocked(doc)
		result.InsertedCount++
		insertedIDs = append(insertedIDs, id)
	}

	if result.InsertedCount > 0 || result.UpdatedCount > 0 {
		c.finishWriteLocked()
	}
	result.fillIDs(insertedIDs)
	return result, nil
}

func (c *Collection) appendLocked(doc map[string]interface{}) {
	pos := len(c.data)
	c.data = append(c.data, doc)
	if id, ok := idOf(doc); ok {
		c.idIndex[id] = pos
	}
	for _, idx := range c.indexes {
		idx.add(doc, pos)
	}
}

// upsertAtLocked merges input's fields over the existing document at
// pos, preserving createdAt and refreshing updatedAt (spec.md §3
// "Upsert semantics").
func (c *Collection) upsertAtLocked(pos int, input map[string]interface{}) {
	existing := c.data[pos]
	old := docval.CloneDoc(existing)
	for k, v := range input {
		if k == "id" || k == "createdAt" {
			continue
		}
		existing[k] = v
	}
	existing["updatedAt"] = nowISO()
	for _, idx := range c.indexes {
		idx.remove(old, pos)
		idx.add(existing, pos)
	}
}

func (c *Collection) finishWriteLocked() {
	c.dirty = true
	c.epoch++
	if c.metrics != nil {
		c.metrics.SetDocuments(c.name, len(c.data))
	}
	if c.armer != nil {
		c.armer.Arm(c.name)
	}
}

// Count returns the number of documents matching filter.
func (c *Collection) Count(filter map[string]interface{}) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	node, err := c.decoder.Decode(filter)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return len(c.matchPositionsLocked(filter, node)), nil
}

// Find runs the filter → sort → skip → limit → project pipeline.
func (c *Collection) Find(filter map[string]interface{}, opts FindOptions) ([]map[string]interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.findLocked(filter, opts)
}

func (c *Collection) findLocked(filter map[string]interface{}, opts FindOptions) ([]map[string]interface{}, error) {
	node, err := c.decoder.Decode(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	positions := c.matchPositionsLocked(filter, node)

	results := make([]map[string]interface{}, len(positions))
	for i, p := range positions {
		results[i] = docval.CloneDoc(c.data[p])
	}

	results = applySort(results, opts.Sort)
	results = applySkip(results, opts.Skip)
	results = applyLimit(results, opts.Limit)
	results = applyProjection(results, opts.Projection, c.logger)
	return results, nil
}

// FindOne returns the first document find(filter, {limit:1}) would,
// or nil if none match.
func (c *Collection) FindOne(filter map[string]interface{}, opts FindOptions) (map[string]interface{}, error) {
	opts.Limit = 1
	results, err := c.Find(filter, opts)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// FindByID looks a document up in O(1) via idIndex.
func (c *Collection) FindByID(id string) (map[string]interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pos, ok := c.idIndex[id]
	if !ok {
		return nil, nil
	}
	return docval.CloneDoc(c.data[pos]), nil
}

// matchPositionsLocked evaluates filter against every document,
// consulting and populating the bounded query cache keyed by filter
// shape, dataset size and write epoch (spec.md §4.2.2).
func (c *Collection) matchPositionsLocked(filter map[string]interface{}, node query.Node) []int {
	sig := query.Signature(filter)
	if cached, ok := c.cache.Get(sig, len(c.data), c.epoch); ok {
		return cached
	}
	var positions []int
	for i, doc := range c.data {
		if node.Match(doc) {
			positions = append(positions, i)
		}
	}
	c.cache.Put(sig, len(c.data), c.epoch, positions)
	return positions
}

// Update applies spec to every document matching filter.
func (c *Collection) Update(filter map[string]interface{}, spec map[string]interface{}, ret ReturnOptions) (*UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	node, err := c.decoder.Decode(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	positions := c.matchPositionsLocked(filter, node)
	result := c.applyUpdatesLocked(positions, spec, ret)
	if len(positions) > 0 {
		c.finishWriteLocked()
	}
	return result, nil
}

// UpdateByID applies spec to the single document with the given id.
func (c *Collection) UpdateByID(id string, spec map[string]interface{}, ret ReturnOptions) (*UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos, ok := c.idIndex[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	result := c.applyUpdatesLocked([]int{pos}, spec, ret)
	c.finishWriteLocked()
	return result, nil
}

func (c *Collection) applyUpdatesLocked(positions []int, spec map[string]interface{}, ret ReturnOptions) *UpdateResult {
	maxReturn := ret.MaxReturn
	if maxReturn <= 0 {
		maxReturn = DefaultMaxReturn
	}
	result := &UpdateResult{MatchedCount: len(positions)}
	for i, pos := range positions {
		c.applyUpdateAtLocked(pos, spec)
		doc := c.data[pos]
		if ret.ReturnIDs {
			if i < maxReturn {
				if id, ok := idOf(doc); ok {
					result.UpdatedIDs = append(result.UpdatedIDs, id)
				}
			} else {
				result.Truncated = true
			}
		}
		if ret.ReturnDocs {
			if i < maxReturn {
				result.UpdatedDocs = append(result.UpdatedDocs, docval.CloneDoc(doc))
			} else {
				result.Truncated = true
			}
		}
	}
	return result
}

func (c *Collection) applyUpdateAtLocked(pos int, spec map[string]interface{}) {
	doc := c.data[pos]
	old := docval.CloneDoc(doc)
	update.Apply(doc, spec, c.logger)
	doc["updatedAt"] = nowISO()
	for _, idx := range c.indexes {
		idx.remove(old, pos)
		idx.add(doc, pos)
	}
}

// Delete removes every document matching filter.
func (c *Collection) Delete(filter map[string]interface{}) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	node, err := c.decoder.Decode(filter)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	positions := c.matchPositionsLocked(filter, node)
	if len(positions) == 0 {
		return 0, nil
	}
	c.removePositionsLocked(positions)
	c.finishWriteLocked()
	return len(positions), nil
}

// DeleteByID removes the single document with the given id.
func (c *Collection) DeleteByID(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos, ok := c.idIndex[id]
	if !ok {
		return ErrDocumentNotFound
	}
	c.removePositionsLocked([]int{pos})
	c.finishWriteLocked()
	return nil
}

// removePositionsLocked splices the given positions out of data and
// fully rebuilds idIndex and every secondary index (spec.md §4.5's
// strategy (a): "full rebuild after any bulk delete"), chosen over
// in-place renumbering for its much smaller surface for invariant
// bugs at the dataset sizes this engine targets.
func (c *Collection) removePositionsLocked(positions []int) {
	remove := make(map[int]bool, len(positions))
	for _, p := range positions {
		remove[p] = true
	}
	newData := make([]map[string]interface{}, 0, len(c.data)-len(positions))
	for i, doc := range c.data {
		if !remove[i] {
			newData = append(newData, doc)
		}
	}
	c.data = newData
	c.rebuildIndexesLocked()
}

func (c *Collection) rebuildIDIndexLocked() {
	c.idIndex = make(map[string]int, len(c.data))
	for i, doc := range c.data {
		if id, ok := idOf(doc); ok {
			c.idIndex[id] = i
		}
	}
}

func (c *Collection) rebuildIndexesLocked() {
	c.rebuildIDIndexLocked()
	for _, idx := range c.indexes {
		idx.root = newIndexNode()
	}
	for i, doc := range c.data {
		for _, idx := range c.indexes {
			idx.add(doc, i)
		}
	}
}

// Paginate runs the read pipeline with skip=(page-1)*limit and
// returns both the page and its metadata block (spec.md §4.5).
func (c *Collection) Paginate(filter map[string]interface{}, opts PaginateOptions) (*PageResult, error) {
	if opts.Page < 1 || opts.Limit < 1 {
		return nil, ErrInvalidPagination
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	node, err := c.decoder.Decode(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	positions := c.matchPositionsLocked(filter, node)
	total := len(positions)
	totalPages := (total + opts.Limit - 1) / opts.Limit

	docs := make([]map[string]interface{}, len(positions))
	for i, p := range positions {
		docs[i] = docval.CloneDoc(c.data[p])
	}
	docs = applySort(docs, opts.Sort)

	skip := (opts.Page - 1) * opts.Limit
	var page []map[string]interface{}
	if skip < len(docs) {
		end := skip + opts.Limit
		if end > len(docs) {
			end = len(docs)
		}
		page = docs[skip:end]
	} else {
		page = []map[string]interface{}{}
	}

	meta := &PageMeta{
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalItems: total,
		TotalPages: totalPages,
		HasPrev:    opts.Page > 1,
		HasNext:    opts.Page < totalPages,
	}
	if meta.HasNext {
		next := opts.Page + 1
		meta.NextPage = &next
	}
	if meta.HasPrev {
		prev := opts.Page - 1
		meta.PrevPage = &prev
	}
	if len(page) > 0 {
		meta.StartIndex = skip + 1
		meta.EndIndex = skip + len(page)
	}
	return &PageResult{Data: page, Meta: meta}, nil
}

// CreateIndex registers a composite index and scans the collection to
// populate it.
func (c *Collection) CreateIndex(name string, fields []IndexField) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.indexes[name]; exists {
		return ErrIndexExists
	}
	idx := newSecondaryIndex(fields)
	for i, doc := range c.data {
		idx.add(doc, i)
	}
	c.indexes[name] = idx
	return nil
}

// DropIndex removes a previously registered index. A no-op if absent.
func (c *Collection) DropIndex(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.indexes, name)
}

// IndexLookup returns the positions' document ids whose fields equal
// values under the named index. Not used by Find/Count (spec.md §1
// Non-goals); exposed so a created index is independently testable.
func (c *Collection) IndexLookup(name string, values []interface{}) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx, ok := c.indexes[name]
	if !ok {
		return nil, false
	}
	positions := idx.Lookup(values)
	ids := make([]string, 0, len(positions))
	for _, p := range positions {
		if id, ok := idOf(c.data[p]); ok {
			ids = append(ids, id)
		}
	}
	return ids, true
}

// Drop clears the collection's in-memory state. Deleting the on-disk
// snapshot is the caller's (Engine's) responsibility, since Collection
// does not know its own storage path.
func (c *Collection) Drop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
	c.idIndex = make(map[string]int)
	c.indexes = make(map[string]*secondaryIndex)
	c.dirty = false
	c.cache = query.NewCache(query.DefaultCacheSize)
	c.epoch++
}

// --- Snapshotter: the interface internal/persist.Persister consumes.

// IsDirty reports whether the collection has unpersisted mutations.
func (c *Collection) IsDirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

// Snapshot returns a deep copy of the current document list for the
// persister to serialize, without blocking further reads/writes once
// the copy is taken.
func (c *Collection) Snapshot() []map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]map[string]interface{}, len(c.data))
	for i, doc := range c.data {
		out[i] = docval.CloneDoc(doc)
	}
	return out
}

// MarkClean records a successful snapshot.
func (c *Collection) MarkClean(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty = false
	c.lastSave = at
}

// Stats returns a read-only snapshot of the collection's bookkeeping.
func (c *Collection) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.indexes))
	for name := range c.indexes {
		names = append(names, name)
	}
	return Stats{
		Name:      c.name,
		Documents: len(c.data),
		Dirty:     c.dirty,
		LastSave:  c.lastSave,
		Indexes:   names,
	}
}
