package shelf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
)

// Shelf is a hierarchical, path-keyed, versioned key-value store. It
// mirrors one branch of an object store in memory, tracks which paths
// changed since the last snapshot, and on commit rebuilds only the
// modified subtrees, reusing everything else by its cached hash.
//
// A Shelf is not safe for concurrent use; callers needing shared access
// must add their own locking. Cross-process coordination is delegated
// to the object store's compare-and-swap ref update.
type Shelf struct {
	branch string
	store  ObjectStore

	root  *treeNode
	head  string
	dirty bool

	keepHistory   bool
	changeComment func(path string, data []byte) string
	concurrency   int
	log           *slog.Logger
}

// Open loads the shelf state recorded under branch, or starts empty if
// the branch does not exist yet.
func Open(ctx context.Context, store ObjectStore, branch string, opts ...Option) (*Shelf, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	s := &Shelf{
		branch:        branch,
		store:         store,
		root:          newTreeNode(),
		keepHistory:   options.KeepHistory,
		changeComment: options.ChangeComment,
		concurrency:   options.Concurrency,
		log:           options.Logger,
	}

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Branch returns the branch name this shelf tracks.
func (s *Shelf) Branch() string { return s.branch }

// Head returns the commit hash of the last synced snapshot, or "" if
// nothing was committed yet.
func (s *Shelf) Head() string { return s.head }

// Dirty reports whether the shelf holds changes not yet committed.
func (s *Shelf) Dirty() bool { return s.dirty }

// Get returns the value stored at path. The value is read from the
// object store on first access and cached afterwards.
func (s *Shelf) Get(ctx context.Context, path string) ([]byte, error) {
	segs, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	n, ok := s.lookup(segs)
	if !ok || !n.isRecord() {
		return nil, fmt.Errorf("get %s: %w", path, ErrNotFound)
	}
	return n.rec.Data(ctx)
}

// Set stores data at path, creating intermediate containers as needed.
// Writing a value equal to the one already stored is a no-op and keeps
// the path clean for the next incremental commit. A container at the
// target, or a value blocking an intermediate segment, is displaced by
// the write.
func (s *Shelf) Set(ctx context.Context, path string, data []byte) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}

	// If a record already occupies the path, compare before touching
	// anything so an equal write stays a complete no-op.
	if n, ok := s.lookup(segs); ok && n.isRecord() {
		if _, err := n.rec.Data(ctx); err != nil {
			return err
		}
		if !n.rec.setData(data) {
			return nil
		}
		s.invalidate(segs[:len(segs)-1])
		s.dirty = true
		return nil
	}

	s.installRecord(segs, &Record{
		store:  s.store,
		path:   path,
		data:   data,
		loaded: true,
		dirty:  true,
	})
	return nil
}

// Delete removes the value or subtree at path. Containers emptied by
// the removal are pruned, and every remaining ancestor's cached hash is
// invalidated.
func (s *Shelf) Delete(path string) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}

	chain := make([]*treeNode, 0, len(segs)+1)
	cur := s.root
	chain = append(chain, cur)
	for _, seg := range segs {
		if cur.isRecord() {
			return fmt.Errorf("delete %s: %w", path, ErrNotFound)
		}
		child, ok := cur.children[seg]
		if !ok {
			return fmt.Errorf("delete %s: %w", path, ErrNotFound)
		}
		chain = append(chain, child)
		cur = child
	}

	i := len(segs) - 1
	delete(chain[i].children, segs[i])
	for i > 0 && len(chain[i].children) == 0 {
		delete(chain[i-1].children, segs[i-1])
		i--
	}
	for j := i; j >= 0; j-- {
		chain[j].hash = ""
	}

	s.dirty = true
	return nil
}

// Contains reports whether path resolves to a stored value. Container
// paths are not contained.
func (s *Shelf) Contains(path string) bool {
	segs, err := splitPath(path)
	if err != nil {
		return false
	}
	n, ok := s.lookup(segs)
	return ok && n.isRecord()
}

// Put stores data keyed by its own content hash and returns the hash.
// The record lands at "ab/cdef12..." — first two hex characters as the
// directory, remainder as the leaf — mirroring the loose-object layout
// for uniform fan-out. The blob is written immediately; only the tree
// rebuild waits for the next commit.
func (s *Shelf) Put(ctx context.Context, data []byte) (string, error) {
	hash, err := s.store.WriteBlob(ctx, data)
	if err != nil {
		return "", fmt.Errorf("put: %w", err)
	}

	path := hash[:2] + "/" + hash[2:]
	s.installRecord(strings.Split(path, "/"), &Record{
		store:  s.store,
		path:   path,
		hash:   hash,
		data:   data,
		loaded: true,
	})
	return hash, nil
}

// Keys yields every stored path, depth-first.
func (s *Shelf) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		s.root.walkInto("", func(key string, _ *Record) bool {
			return yield(key)
		})
	}
}

// Entries yields every stored path with its record. Values stay
// unmaterialized until read through Record.Data. Mutating the shelf
// while iterating has undefined results.
func (s *Shelf) Entries() iter.Seq2[string, *Record] {
	return func(yield func(string, *Record) bool) {
		s.root.walkInto("", yield)
	}
}

// Values yields every record, depth-first. Payloads stay unmaterialized
// until read through Record.Data.
func (s *Shelf) Values() iter.Seq[*Record] {
	return func(yield func(*Record) bool) {
		s.root.walkInto("", func(_ string, rec *Record) bool {
			return yield(rec)
		})
	}
}

// Len returns the number of stored values.
func (s *Shelf) Len() int {
	n := 0
	for range s.Keys() {
		n++
	}
	return n
}

// Commit flushes pending changes as a new snapshot on the shelf's
// branch and returns the commit hash. Unmodified subtrees are reused by
// their cached hash, so the cost is proportional to the changes, not to
// the shelf's size. A clean shelf returns the current head untouched.
//
// With an empty message and a change comment hook configured, the
// message is assembled from the hook's output for each flushed record
// in traversal order.
func (s *Shelf) Commit(ctx context.Context, message string) (string, error) {
	if !s.dirty {
		return s.head, nil
	}

	withComments := message == "" && s.changeComment != nil
	rootHash, comment, err := s.materialize(ctx, s.root, withComments)
	if err != nil {
		return "", err
	}
	if withComments {
		message = comment
	}

	var parents []string
	if s.keepHistory && s.head != "" {
		parents = []string{s.head}
	}
	commitHash, err := s.store.WriteCommit(ctx, rootHash, parents, message)
	if err != nil {
		return "", fmt.Errorf("write commit: %w", err)
	}

	if err := s.store.UpdateRef(ctx, s.branch, commitHash, s.head); err != nil {
		return "", fmt.Errorf("advance %s: %w", s.branch, err)
	}

	s.head = commitHash
	s.dirty = false
	s.log.Debug("committed", "branch", s.branch, "commit", commitHash, "tree", rootHash)
	return commitHash, nil
}

// Sync commits pending changes with an auto-generated message.
func (s *Shelf) Sync(ctx context.Context) error {
	_, err := s.Commit(ctx, "")
	return err
}

// Close syncs pending changes, if any.
func (s *Shelf) Close(ctx context.Context) error {
	if s.dirty {
		return s.Sync(ctx)
	}
	return nil
}

// Parents returns the parent commit hashes of the current head.
func (s *Shelf) Parents(ctx context.Context) ([]string, error) {
	if s.head == "" {
		return nil, nil
	}
	commit, err := s.store.ReadCommit(ctx, s.head)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", s.head, err)
	}
	return commit.Parents, nil
}

// Reload re-reads the branch if it moved underneath this shelf,
// discarding the in-memory cache. Reloading with pending changes is an
// error; commit or discard them first.
func (s *Shelf) Reload(ctx context.Context) error {
	if s.dirty {
		return errors.New("reload with pending changes")
	}

	current, err := s.store.ResolveRef(ctx, s.branch)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("resolve %s: %w", s.branch, err)
	}
	if current == s.head {
		return nil
	}
	return s.load(ctx)
}

// Dump writes a human-readable listing of the in-memory tree, showing
// which containers and records still carry synced hashes.
func (s *Shelf) Dump(w io.Writer) {
	indent := 0
	if s.root.hash != "" {
		fmt.Fprintf(w, "tree %s\n", s.root.hash)
		indent = 2
	}
	dumpNode(w, s.root, indent)
}

// load rebuilds the in-memory mirror from the branch's current
// snapshot. An absent branch leaves the shelf empty.
func (s *Shelf) load(ctx context.Context) error {
	s.root = newTreeNode()
	s.head = ""
	s.dirty = false

	head, err := s.store.ResolveRef(ctx, s.branch)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve %s: %w", s.branch, err)
	}

	commit, err := s.store.ReadCommit(ctx, head)
	if err != nil {
		return fmt.Errorf("read commit %s: %w", head, err)
	}

	entries, err := s.store.ListTree(ctx, commit.Tree)
	if err != nil {
		return fmt.Errorf("list tree %s: %w", commit.Tree, err)
	}

	s.root.hash = commit.Tree

	for _, e := range entries {
		segs, err := splitPath(e.Path)
		if err != nil {
			return fmt.Errorf("snapshot entry %q: %w", e.Path, err)
		}

		cur := s.root
		for _, seg := range segs[:len(segs)-1] {
			if cur.isRecord() {
				return fmt.Errorf("snapshot entry %q: value where a container was expected: %w", e.Path, ErrCorrupt)
			}
			child, ok := cur.children[seg]
			if !ok {
				child = newTreeNode()
				cur.children[seg] = child
			}
			cur = child
		}
		if cur.isRecord() {
			return fmt.Errorf("snapshot entry %q: value where a container was expected: %w", e.Path, ErrCorrupt)
		}

		last := segs[len(segs)-1]
		node, ok := cur.children[last]
		if !ok {
			node = &treeNode{}
			cur.children[last] = node
		}

		switch e.Kind {
		case KindTree:
			if node.isRecord() {
				return fmt.Errorf("snapshot entry %q: tree where a value was installed: %w", e.Path, ErrCorrupt)
			}
			if node.children == nil {
				node.children = make(map[string]*treeNode)
			}
			node.hash = e.Hash
		case KindBlob:
			if node.isRecord() || len(node.children) > 0 {
				return fmt.Errorf("snapshot entry %q: blob where a container was installed: %w", e.Path, ErrCorrupt)
			}
			node.children = nil
			node.rec = &Record{store: s.store, path: e.Path, hash: e.Hash}
		default:
			return fmt.Errorf("snapshot entry %q: unknown kind: %w", e.Path, ErrCorrupt)
		}
	}

	s.head = head
	s.log.Debug("loaded", "branch", s.branch, "commit", head, "entries", len(entries))
	return nil
}

// lookup walks to the node at segs without creating or mutating
// anything. The second return is false if any segment is missing or a
// value blocks the descent.
func (s *Shelf) lookup(segs []string) (*treeNode, bool) {
	cur := s.root
	for _, seg := range segs {
		if cur.isRecord() {
			return nil, false
		}
		child, ok := cur.children[seg]
		if !ok {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

// installRecord places rec at segs, displacing whatever occupied the
// slot, and invalidates the ancestor chain.
func (s *Shelf) installRecord(segs []string, rec *Record) {
	cur := s.root
	for _, seg := range segs[:len(segs)-1] {
		if cur.isRecord() {
			cur.toContainer()
		}
		child, ok := cur.children[seg]
		if !ok {
			child = newTreeNode()
			cur.children[seg] = child
		}
		cur = child
	}
	if cur.isRecord() {
		cur.toContainer()
	}

	last := segs[len(segs)-1]
	target, ok := cur.children[last]
	if !ok {
		target = &treeNode{}
		cur.children[last] = target
	}
	target.children = nil
	target.hash = ""
	target.rec = rec

	s.invalidate(segs[:len(segs)-1])
	s.dirty = true
}

// invalidate clears cached tree hashes from the root down to the node
// at segs, so the next flush rebuilds exactly that chain.
func (s *Shelf) invalidate(segs []string) {
	cur := s.root
	cur.hash = ""
	for _, seg := range segs {
		child, ok := cur.children[seg]
		if !ok || child.isRecord() {
			return
		}
		child.hash = ""
		cur = child
	}
}

// splitPath splits a slash-delimited path into segments, rejecting
// empty paths and empty segments. Segments cannot contain the
// separator; there is no escaping.
func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path: %w", ErrInvalidPath)
	}
	segs := strings.Split(path, "/")
	for _, seg := range segs {
		if seg == "" {
			return nil, fmt.Errorf("%q: %w", path, ErrInvalidPath)
		}
	}
	return segs, nil
}
