package docbase

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config holds the engine's tunables (spec.md §6 "Configuration
// options"). Zero values are replaced by their documented defaults in
// Open.
type Config struct {
	// StoragePath is the directory snapshots are read from and
	// written to. Defaults to "./storage"; created if missing.
	StoragePath string

	// SaveDelay is the debounce window before a dirty collection is
	// snapshotted. Defaults to 50ms.
	SaveDelay time.Duration

	// Debug enables structured operation logging (development-mode
	// zap output instead of a quiet production config).
	Debug bool

	// Registerer, if set, exposes per-collection operation and
	// snapshot metrics through it. Nil disables metrics entirely.
	Registerer prometheus.Registerer
}

const (
	defaultStoragePath = "./storage"
	defaultSaveDelay   = 50 * time.Millisecond
)

func (c Config) withDefaults() Config {
	if c.StoragePath == "" {
		c.StoragePath = defaultStoragePath
	}
	if c.SaveDelay <= 0 {
		c.SaveDelay = defaultSaveDelay
	}
	return c
}
