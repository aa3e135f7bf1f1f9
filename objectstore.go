package shelf

import (
	"github.com/aweris/shelf/internal/object"
)

// ObjectStore is the content-addressable backend a Shelf persists into.
// Re-exported from internal/object for convenience.
type ObjectStore = object.Store

// Types used by ObjectStore implementations.
type (
	Kind      = object.Kind
	TreeEntry = object.TreeEntry
	ListEntry = object.ListEntry
	Commit    = object.Commit
)

const (
	KindBlob = object.KindBlob
	KindTree = object.KindTree
)

// LocalOptions configures NewLocalStore.
type LocalOptions = object.LocalOptions

// NewLocalStore creates or opens a filesystem-backed object store
// rooted at dir.
func NewLocalStore(dir string, opts LocalOptions) (ObjectStore, error) {
	return object.NewLocalStore(dir, opts)
}
