package store

import "errors"

// Sentinel errors corresponding to the taxonomy in spec.md §7. Malformed
// projections don't belong here: per spec.md's mixed-projection rule
// they're logged and the document is returned untouched, never as an
// error, and collection lookup never fails since Engine lazily creates
// a collection on first reference instead of rejecting an unknown name.
var (
	ErrInvalidFilter     = errors.New("store: invalid filter")
	ErrInvalidPagination = errors.New("store: invalid skip/limit")
	ErrDocumentNotFound  = errors.New("store: document not found")
	ErrIndexExists       = errors.New("store: index already exists")
)
