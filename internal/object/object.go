// Package object implements the content-addressable layer that backs a
// shelf: blobs, trees and commits identified by the sha256 of their
// framed encoding, plus mutable refs advanced with compare-and-swap
// semantics.
//
// The Store interface is the full set of primitives a shelf needs; the
// LocalStore in this package is a filesystem-backed implementation with
// git-style object sharding, zstd compression at rest and an in-memory
// read cache. Any backend honoring the same contracts can be swapped in.
package object

import (
	"context"
	"errors"
)

// Kind identifies what a tree entry points at.
type Kind uint8

const (
	KindBlob Kind = iota
	KindTree
)

func (k Kind) String() string {
	switch k {
	case KindBlob:
		return "blob"
	case KindTree:
		return "tree"
	default:
		return "unknown"
	}
}

// TreeEntry is a single named child of a tree object.
type TreeEntry struct {
	Kind Kind
	Hash string
	Name string
}

// ListEntry is one row of a recursive tree listing. Path is relative to
// the listed root; a tree's own entry appears before its children.
type ListEntry struct {
	Kind Kind
	Hash string
	Path string
}

// Commit is the decoded form of a commit object.
type Commit struct {
	Tree    string
	Parents []string
	Message string
}

var (
	ErrNotFound    = errors.New("not found")
	ErrRefConflict = errors.New("ref advanced concurrently")
	ErrCorrupt     = errors.New("corrupt object")
)

// Store is the set of object-store primitives a shelf is built on.
type Store interface {
	// ReadBlob returns the payload of a blob object.
	ReadBlob(ctx context.Context, hash string) ([]byte, error)

	// WriteBlob stores data as a blob object and returns its content
	// hash. Writing identical content twice is a no-op.
	WriteBlob(ctx context.Context, data []byte) (string, error)

	// WriteTree stores a tree object built from entries and returns its
	// hash. The hash is deterministic for a given entry set regardless
	// of entry order.
	WriteTree(ctx context.Context, entries []TreeEntry) (string, error)

	// ReadCommit decodes a commit object.
	ReadCommit(ctx context.Context, hash string) (*Commit, error)

	// WriteCommit stores a commit referencing tree, with zero or more
	// parents, and returns its hash.
	WriteCommit(ctx context.Context, tree string, parents []string, message string) (string, error)

	// ResolveRef returns the hash a ref points at, or ErrNotFound if
	// the ref does not exist.
	ResolveRef(ctx context.Context, name string) (string, error)

	// UpdateRef points a ref at hash. The update only succeeds if the
	// ref currently holds expected, failing with ErrRefConflict
	// otherwise. An empty expected means the ref must not exist yet.
	UpdateRef(ctx context.Context, name, hash, expected string) error

	// DeleteRef removes a ref. Removing a missing ref is not an error.
	DeleteRef(ctx context.Context, name string) error

	// ListTree enumerates an entire tree depth-first, emitting entries
	// for subtrees as well as blobs.
	ListTree(ctx context.Context, hash string) ([]ListEntry, error)
}
