package object

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aweris/shelf/internal/compression"
)

// LocalOptions configures a LocalStore. The zero value uses the
// defaults below.
type LocalOptions struct {
	// CacheEntries bounds the in-memory object cache. Zero means
	// DefaultCacheEntries; negative disables caching.
	CacheEntries int

	// CompressionLevel is the zstd level for objects at rest (1-3).
	// Zero means DefaultCompressionLevel; negative disables compression.
	CompressionLevel int
}

const (
	DefaultCacheEntries     = 256
	DefaultCompressionLevel = 2
)

// LocalStore implements Store on the local filesystem.
//
// Layout:
//
//	basePath/
//	  objects/
//	    ab/cdef12...  (framed, optionally compressed objects)
//	  refs/
//	    main          (plain text hash)
type LocalStore struct {
	basePath   string
	cache      *objectCache
	compressor *compression.Compressor

	refMu sync.Mutex // serializes read-compare-write ref updates
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates or opens a store rooted at basePath.
func NewLocalStore(basePath string, opts LocalOptions) (*LocalStore, error) {
	cacheEntries := opts.CacheEntries
	if cacheEntries == 0 {
		cacheEntries = DefaultCacheEntries
	}
	level := opts.CompressionLevel
	if level == 0 {
		level = DefaultCompressionLevel
	}

	for _, dir := range []string{
		filepath.Join(basePath, "objects"),
		filepath.Join(basePath, "refs"),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	compressor, err := compression.New(level)
	if err != nil {
		return nil, fmt.Errorf("create compressor: %w", err)
	}

	s := &LocalStore{
		basePath:   basePath,
		compressor: compressor,
	}
	if cacheEntries > 0 {
		s.cache = newObjectCache(cacheEntries)
	}
	return s, nil
}

func (s *LocalStore) ReadBlob(ctx context.Context, hash string) ([]byte, error) {
	payload, err := s.readObject(ctx, hash, "blob")
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *LocalStore) WriteBlob(ctx context.Context, data []byte) (string, error) {
	hash, encoded := encodeBlob(data)
	if err := s.writeObject(hash, encoded); err != nil {
		return "", err
	}
	return hash, nil
}

func (s *LocalStore) WriteTree(ctx context.Context, entries []TreeEntry) (string, error) {
	hash, encoded, err := encodeTree(entries)
	if err != nil {
		return "", err
	}
	if err := s.writeObject(hash, encoded); err != nil {
		return "", err
	}
	return hash, nil
}

func (s *LocalStore) ReadCommit(ctx context.Context, hash string) (*Commit, error) {
	payload, err := s.readObject(ctx, hash, "commit")
	if err != nil {
		return nil, err
	}
	return decodeCommit(payload)
}

func (s *LocalStore) WriteCommit(ctx context.Context, tree string, parents []string, message string) (string, error) {
	if _, err := s.readObject(ctx, tree, "tree"); err != nil {
		return "", fmt.Errorf("commit tree %s: %w", tree, err)
	}

	hash, encoded := encodeCommit(&Commit{Tree: tree, Parents: parents, Message: message})
	if err := s.writeObject(hash, encoded); err != nil {
		return "", err
	}
	return hash, nil
}

func (s *LocalStore) ResolveRef(ctx context.Context, name string) (string, error) {
	data, err := os.ReadFile(s.refPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("ref %s: %w", name, ErrNotFound)
		}
		return "", fmt.Errorf("read ref %s: %w", name, err)
	}
	return string(data), nil
}

func (s *LocalStore) UpdateRef(ctx context.Context, name, hash, expected string) error {
	s.refMu.Lock()
	defer s.refMu.Unlock()

	current, err := os.ReadFile(s.refPath(name))
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("read ref %s: %w", name, err)
		}
		current = nil
	}
	if string(current) != expected {
		return fmt.Errorf("ref %s: %w", name, ErrRefConflict)
	}

	path := s.refPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create ref directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(hash), 0644); err != nil {
		return fmt.Errorf("write ref %s: %w", name, err)
	}
	return nil
}

func (s *LocalStore) DeleteRef(ctx context.Context, name string) error {
	err := os.Remove(s.refPath(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete ref %s: %w", name, err)
	}
	return nil
}

func (s *LocalStore) ListTree(ctx context.Context, hash string) ([]ListEntry, error) {
	var out []ListEntry
	if err := s.listTree(ctx, hash, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *LocalStore) listTree(ctx context.Context, hash, prefix string, out *[]ListEntry) error {
	payload, err := s.readObject(ctx, hash, "tree")
	if err != nil {
		return err
	}
	entries, err := decodeTree(payload)
	if err != nil {
		return fmt.Errorf("tree %s: %w", hash, err)
	}

	for _, e := range entries {
		path := e.Name
		if prefix != "" {
			path = prefix + "/" + e.Name
		}
		*out = append(*out, ListEntry{Kind: e.Kind, Hash: e.Hash, Path: path})

		if e.Kind == KindTree {
			if err := s.listTree(ctx, e.Hash, path, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// readObject fetches an object, checks its framed type, and returns the
// payload.
func (s *LocalStore) readObject(ctx context.Context, hash, wantType string) ([]byte, error) {
	var data []byte
	if s.cache != nil {
		if cached, ok := s.cache.get(hash); ok {
			data = cached
		}
	}

	if data == nil {
		raw, err := os.ReadFile(s.objectPath(hash))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("object %s: %w", hash, ErrNotFound)
			}
			return nil, fmt.Errorf("read object %s: %w", hash, err)
		}
		data = s.compressor.Decompress(raw)
		if s.cache != nil {
			s.cache.add(hash, data)
		}
	}

	typ, payload, err := unframe(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", hash, err)
	}
	if typ != wantType {
		return nil, fmt.Errorf("object %s: %w: %s where %s was expected", hash, ErrCorrupt, typ, wantType)
	}
	return payload, nil
}

// writeObject persists framed object bytes under their hash. Existing
// objects are left alone; content-addressed writes are idempotent.
func (s *LocalStore) writeObject(hash string, encoded []byte) error {
	path := s.objectPath(hash)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}
	if err := os.WriteFile(path, s.compressor.Compress(encoded), 0644); err != nil {
		return fmt.Errorf("write object %s: %w", hash, err)
	}

	if s.cache != nil {
		s.cache.add(hash, encoded)
	}
	return nil
}

// objectPath shards objects git-style: objects/ab/cdef12...
func (s *LocalStore) objectPath(hash string) string {
	if len(hash) < 2 {
		return filepath.Join(s.basePath, "objects", hash)
	}
	return filepath.Join(s.basePath, "objects", hash[:2], hash[2:])
}

func (s *LocalStore) refPath(name string) string {
	return filepath.Join(s.basePath, "refs", name)
}
