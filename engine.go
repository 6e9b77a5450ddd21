package docbase

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/skshohagmiah/docbase/internal/logging"
	"github.com/skshohagmiah/docbase/internal/metrics"
	"github.com/skshohagmiah/docbase/internal/persist"
	"github.com/skshohagmiah/docbase/internal/store"
)

// Engine owns a storage directory and the collections opened from or
// created within it. It is the library's public entry point.
type Engine struct {
	cfg       Config
	logger    *zap.SugaredLogger
	metrics   *metrics.Recorder
	persister *persist.Persister

	mu          sync.Mutex
	collections map[string]*store.Collection
}

// Open creates or opens an engine rooted at cfg.StoragePath. It does
// not eagerly load every collection snapshot; each collection is
// loaded lazily on first reference (spec.md §4.6 "On load").
func Open(cfg Config) (*Engine, error) {
	cfg = cfg.withDefaults()

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("docbase: build logger: %w", err)
	}
	if err := os.MkdirAll(cfg.StoragePath, 0o755); err != nil {
		return nil, fmt.Errorf("docbase: create storage path %s: %w", cfg.StoragePath, err)
	}

	rec := metrics.New(cfg.Registerer)
	p := persist.New(cfg.StoragePath, cfg.SaveDelay, logger, rec)

	return &Engine{
		cfg:         cfg,
		logger:      logger,
		metrics:     rec,
		persister:   p,
		collections: make(map[string]*store.Collection),
	}, nil
}

// Close flushes every dirty collection's final snapshot and cancels
// all pending timers; it does not return until every snapshot has
// been durably renamed into place (spec.md §4.6 "Close").
func (e *Engine) Close() error {
	return e.persister.Close()
}

// collection returns the named collection, lazily creating it and
// loading its snapshot from disk on first reference.
func (e *Engine) collection(name string) (*store.Collection, error) {
	if err := validateCollectionName(name); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.collections[name]; ok {
		return c, nil
	}

	c := store.New(name, e.logger, e.metrics, e.persister)
	docs, err := persist.Load(e.cfg.StoragePath, name)
	if err != nil {
		return nil, fmt.Errorf("docbase: load collection %s: %w", name, err)
	}
	if docs != nil {
		c.LoadSnapshot(docs)
	}
	e.persister.Register(name, c)
	e.collections[name] = c
	return c, nil
}

// ListCollections returns the names of every collection opened in
// this process so far. It does not scan the storage directory for
// not-yet-opened snapshot files: a collection is lazily created on
// first reference, so one that exists on disk but hasn't been touched
// this process is invisible until it is.
func (e *Engine) ListCollections() *Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.collections))
	for name := range e.collections {
		out = append(out, name)
	}
	return ok(out)
}
