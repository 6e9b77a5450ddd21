// Package persist debounces and atomically writes per-collection JSON
// snapshots to disk (spec.md §4.6). A collection arms its timer on
// every write; the timer fires after a quiet period and saves the
// collection's current state to "<dir>/<name>.json" via a temp-file-
// then-rename, the same atomic-write shape hupe1980-vecgo's
// persistence.AtomicSaveToDir uses for its own snapshot writes.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/skshohagmiah/docbase/internal/metrics"
	"github.com/skshohagmiah/docbase/internal/store"
)

// DefaultDebounce is how long a collection's snapshot timer waits
// after the last write before firing, absent an explicit Config value.
const DefaultDebounce = 50 * time.Millisecond

// Source is the view into a collection a Persister needs: whether it
// has unsaved mutations, a deep-copyable document list, and a way to
// record a completed save. internal/store.Collection implements this.
type Source interface {
	IsDirty() bool
	Snapshot() []map[string]interface{}
	MarkClean(at time.Time)
}

// Persister owns one debounce timer per collection and the directory
// snapshots are written under.
type Persister struct {
	dir      string
	debounce time.Duration
	logger   *zap.SugaredLogger
	metrics  *metrics.Recorder

	mu      sync.Mutex
	sources map[string]Source
	timers  map[string]*time.Timer
	saving  map[string]bool
	pending map[string]bool
	closed  bool
}

// New builds a Persister rooted at dir. debounce<=0 selects
// DefaultDebounce. logger/rec may be nil.
func New(dir string, debounce time.Duration, logger *zap.SugaredLogger, rec *metrics.Recorder) *Persister {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Persister{
		dir:      dir,
		debounce: debounce,
		logger:   logger,
		metrics:  rec,
		sources:  make(map[string]Source),
		timers:   make(map[string]*time.Timer),
		saving:   make(map[string]bool),
		pending:  make(map[string]bool),
	}
}

// Register associates a collection name with its Source so Arm can
// find it later. Call once per collection, before its first write.
func (p *Persister) Register(name string, src Source) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sources[name] = src
}

// Arm (re)starts name's debounce timer. If a save for name is already
// in flight, Arm just marks the collection pending so fire re-arms
// itself once that save completes (spec.md §4.6: "if already saving,
// re-arm and return") instead of starting a second concurrent save.
func (p *Persister) Arm(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if p.saving[name] {
		p.pending[name] = true
		return
	}
	if t, ok := p.timers[name]; ok {
		t.Stop()
	}
	p.timers[name] = time.AfterFunc(p.debounce, func() { p.fire(name) })
}

func (p *Persister) fire(name string) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	src, ok := p.sources[name]
	if !ok || !src.IsDirty() {
		p.mu.Unlock()
		return
	}
	p.saving[name] = true
	p.mu.Unlock()

	p.saveNow(name, src)

	p.mu.Lock()
	p.saving[name] = false
	rearm := p.pending[name]
	p.pending[name] = false
	p.mu.Unlock()

	if rearm {
		p.Arm(name)
	}
}

// saveNow writes src's current document list to "<dir>/<name>.json"
// via a temp file in the same directory followed by os.Rename, so a
// reader never observes a partially written snapshot.
func (p *Persister) saveNow(name string, src Source) error {
	start := time.Now()
	docs := src.Snapshot()

	if err := p.writeSnapshot(name, docs); err != nil {
		p.logger.Errorw("snapshot write failed", "collection", name, "error", err)
		return err
	}

	src.MarkClean(start)
	if p.metrics != nil {
		p.metrics.ObserveSnapshot(name, time.Since(start))
	}
	p.logger.Debugw("snapshot written", "collection", name, "documents", len(docs), "elapsed", time.Since(start))
	return nil
}

func (p *Persister) writeSnapshot(name string, docs []map[string]interface{}) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("persist: create dir %s: %w", p.dir, err)
	}
	target := p.path(name)

	tmp, err := os.CreateTemp(p.dir, name+".json.tmp-*")
	if err != nil {
		return fmt.Errorf("persist: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	data, err := store.MarshalSnapshot(docs)
	if err != nil {
		_ = tmp.Close()
		return fmt.Errorf("persist: encode snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("persist: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("persist: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("persist: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("persist: rename into place: %w", err)
	}
	if d, err := os.Open(p.dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

func (p *Persister) path(name string) string {
	return filepath.Join(p.dir, name+".json")
}

// Close cancels every pending timer and flushes every dirty
// collection's final snapshot, bounded to a handful of concurrent
// writers via errgroup (the same bounded fan-out hupe1980-vecgo's
// blobstore cache uses for its own concurrent backend reads).
func (p *Persister) Close() error {
	p.mu.Lock()
	p.closed = true
	for _, t := range p.timers {
		t.Stop()
	}
	names := make([]string, 0, len(p.sources))
	srcs := make(map[string]Source, len(p.sources))
	for name, src := range p.sources {
		names = append(names, name)
		srcs[name] = src
	}
	p.mu.Unlock()

	g := new(errgroup.Group)
	g.SetLimit(4)
	for _, name := range names {
		name, src := name, srcs[name]
		g.Go(func() error {
			if src.IsDirty() {
				return p.saveNow(name, src)
			}
			return nil
		})
	}
	return g.Wait()
}

// Load reads a previously written snapshot for name, if any. A
// missing file is not an error: it means the collection has never
// been saved (spec.md §4.6).
func Load(dir, name string) ([]map[string]interface{}, error) {
	path := filepath.Join(dir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("persist: read %s: %w", path, err)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("persist: decode %s: %w", path, err)
	}
	docs := make([]map[string]interface{}, len(raw))
	for i, r := range raw {
		var doc map[string]interface{}
		if err := json.Unmarshal(r, &doc); err != nil {
			return nil, fmt.Errorf("persist: decode document %d of %s: %w", i, path, err)
		}
		docs[i] = doc
	}
	return docs, nil
}

// ListSnapshots returns the collection names that have a snapshot
// file under dir, derived from "<name>.json" entries.
func ListSnapshots(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("persist: read dir %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		const suffix = ".json"
		if len(n) > len(suffix) && n[len(n)-len(suffix):] == suffix {
			names = append(names, n[:len(n)-len(suffix)])
		}
	}
	return names, nil
}
