package shelf

import (
	"bytes"
	"context"
	"fmt"
)

// Record is the in-memory representation of one stored value at one
// logical path. The payload stays unmaterialized until first read, so
// walking a large shelf costs nothing beyond the tree structure itself.
type Record struct {
	store ObjectStore
	path  string

	hash   string // blob hash; "" while the value is unflushed
	data   []byte
	loaded bool
	dirty  bool
}

// Path returns the record's slash-delimited key.
func (r *Record) Path() string {
	return r.path
}

// Hash returns the record's blob hash, or "" if the value changed since
// the last commit.
func (r *Record) Hash() string {
	return r.hash
}

// IsDirty reports whether the value changed since the last commit.
func (r *Record) IsDirty() bool {
	return r.dirty
}

// Data returns the record's value, reading it from the object store on
// first access.
func (r *Record) Data(ctx context.Context) ([]byte, error) {
	if r.loaded {
		return r.data, nil
	}

	data, err := r.store.ReadBlob(ctx, r.hash)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", r.path, err)
	}

	r.data = data
	r.loaded = true
	return r.data, nil
}

// setData replaces the value and reports whether it actually changed.
// The caller must have materialized the current value first.
func (r *Record) setData(data []byte) bool {
	if r.loaded && bytes.Equal(r.data, data) {
		return false
	}

	r.data = data
	r.loaded = true
	r.hash = ""
	r.dirty = true
	return true
}
