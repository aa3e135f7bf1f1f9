// Package shelf provides a hierarchical, path-keyed, versioned
// key-value store layered on a content-addressable object store.
//
// A Shelf mirrors one branch of the object store as an in-memory tree.
// Reads load values lazily on first access; writes stay in memory and
// mark the touched path dirty. Commit rebuilds only the modified
// subtrees bottom-up — an untouched subtree is reused by its cached
// hash — and records the result as a new snapshot whose parent chain
// preserves full history.
//
// Basic usage:
//
//	store, _ := shelf.NewLocalStore("/tmp/data", shelf.LocalOptions{})
//	s, _ := shelf.Open(ctx, store, "mydata")
//
//	s.Set(ctx, "foo/bar/git.c", []byte("This is some sample data."))
//	s.Commit(ctx, "changes")
//
//	data, _ := s.Get(ctx, "foo/bar/git.c")
//
//	for key := range s.Keys() {
//		fmt.Println(key)
//	}
//
//	s.Close(ctx)
//
// Hash-keyed mode, where the store picks the path from the content
// hash and history is not kept:
//
//	s, _ := shelf.Open(ctx, store, "blobs", shelf.WithKeepHistory(false))
//	hash, _ := s.Put(ctx, data)
//	data, _ = s.Get(ctx, hash[:2]+"/"+hash[2:])
package shelf
