// Package docbase is an embeddable, single-process, in-memory document
// database with a MongoDB-style query/update surface and debounced,
// atomic, per-collection JSON snapshotting. It is consumed as a Go
// library; there is no network server in this module.
package docbase

import (
	"github.com/skshohagmiah/docbase/internal/store"
)

// The option and result shapes are simple struct types owned by
// internal/store; re-exporting them as aliases here keeps one
// definition while giving callers a public name to import.
type (
	IndexField      = store.IndexField
	SortField       = store.SortField
	SortSpec        = store.SortSpec
	FindOptions     = store.FindOptions
	ReturnOptions   = store.ReturnOptions
	PaginateOptions = store.PaginateOptions
	PageMeta        = store.PageMeta
	PageResult      = store.PageResult
	InsertResult    = store.InsertResult
	UpdateResult    = store.UpdateResult
	CollectionStats = store.Stats
)
