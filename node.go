package shelf

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"
)

// treeNode is one path component of the in-memory mirror. A node is
// either a container mapping name segments to children, or the holder
// of a single record, never both.
type treeNode struct {
	children map[string]*treeNode
	rec      *Record

	// hash is the object-store tree hash this container corresponded to
	// at last sync, or "" when any descendant changed since.
	hash string
}

func newTreeNode() *treeNode {
	return &treeNode{children: make(map[string]*treeNode)}
}

func (n *treeNode) isRecord() bool {
	return n.rec != nil
}

// toContainer drops whatever the node held and makes it an empty
// container. Used when an explicit write descends through or lands on
// an occupied slot.
func (n *treeNode) toContainer() {
	n.rec = nil
	n.hash = ""
	n.children = make(map[string]*treeNode)
}

func sortedNames(children map[string]*treeNode) []string {
	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// walkInto yields every record under n in depth-first pre-order,
// joining path segments with "/". Returns false once yield does.
func (n *treeNode) walkInto(prefix string, yield func(string, *Record) bool) bool {
	for _, name := range sortedNames(n.children) {
		child := n.children[name]

		key := name
		if prefix != "" {
			key = prefix + "/" + name
		}

		if child.isRecord() {
			if !yield(key, child.rec) {
				return false
			}
		} else if !child.walkInto(key, yield) {
			return false
		}
	}
	return true
}

// materializeResult is one child's contribution to its parent tree.
type materializeResult struct {
	entry   TreeEntry
	comment string
}

// materialize ensures n's subtree exists in the object store and
// returns its tree hash. A cached hash short-circuits the whole
// subtree: an unmodified container, however deep, costs no I/O and no
// recursion. Otherwise dirty records are written as blobs, child
// containers are materialized recursively, and a tree object is written
// from the collected entries.
//
// A failed write leaves already-materialized subtree hashes cached, so
// retrying resumes where the previous attempt stopped.
func (s *Shelf) materialize(ctx context.Context, n *treeNode, withComments bool) (string, string, error) {
	if n.hash != "" {
		return n.hash, "", nil
	}

	names := sortedNames(n.children)
	results := make([]materializeResult, len(names))

	flush := func(i int) error {
		name := names[i]
		child := n.children[name]

		if child.isRecord() {
			rec := child.rec
			if rec.dirty {
				if withComments && s.changeComment != nil {
					results[i].comment = s.changeComment(rec.path, rec.data)
				}
				hash, err := s.store.WriteBlob(ctx, rec.data)
				if err != nil {
					return fmt.Errorf("write blob %s: %w", rec.path, err)
				}
				rec.hash = hash
				rec.dirty = false
			}
			results[i].entry = TreeEntry{Kind: KindBlob, Hash: rec.hash, Name: name}
			return nil
		}

		hash, comment, err := s.materialize(ctx, child, withComments)
		if err != nil {
			return err
		}
		results[i].entry = TreeEntry{Kind: KindTree, Hash: hash, Name: name}
		results[i].comment = comment
		return nil
	}

	// Sibling subtrees are disjoint, so they can be flushed in
	// parallel. Entry and comment order stay deterministic because
	// results are collected by index and emitted name-sorted.
	if s.concurrency > 1 && len(names) > 1 {
		p := pool.New().WithMaxGoroutines(s.concurrency).WithContext(ctx).WithCancelOnError()
		for i := range names {
			p.Go(func(ctx context.Context) error {
				return flush(i)
			})
		}
		if err := p.Wait(); err != nil {
			return "", "", err
		}
	} else {
		for i := range names {
			if err := flush(i); err != nil {
				return "", "", err
			}
		}
	}

	entries := make([]TreeEntry, len(results))
	var comments strings.Builder
	for i, res := range results {
		entries[i] = res.entry
		comments.WriteString(res.comment)
	}

	hash, err := s.store.WriteTree(ctx, entries)
	if err != nil {
		return "", "", fmt.Errorf("write tree: %w", err)
	}

	n.hash = hash
	return hash, comments.String(), nil
}

// dumpNode writes a human-readable listing of the subtree, showing the
// cached hash of every synced container and record.
func dumpNode(w io.Writer, n *treeNode, indent int) {
	pad := strings.Repeat(" ", indent)

	for _, name := range sortedNames(n.children) {
		child := n.children[name]

		if child.isRecord() {
			if hash := child.rec.hash; hash != "" {
				fmt.Fprintf(w, "%sblob %s: %s\n", pad, hash, name)
			} else {
				fmt.Fprintf(w, "%sblob: %s\n", pad, name)
			}
			continue
		}

		if child.hash != "" {
			fmt.Fprintf(w, "%stree %s: %s\n", pad, child.hash, name)
		} else {
			fmt.Fprintf(w, "%stree: %s\n", pad, name)
		}
		dumpNode(w, child, indent+2)
	}
}
