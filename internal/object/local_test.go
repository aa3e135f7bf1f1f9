package object

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, opts LocalOptions) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir(), opts)
	require.NoError(t, err)
	return s
}

func TestBlobRoundTrip(t *testing.T) {
	s := newStore(t, LocalOptions{})

	hash, err := s.WriteBlob(t.Context(), []byte("hello"))
	require.NoError(t, err)
	require.Len(t, hash, 64)

	data, err := s.ReadBlob(t.Context(), hash)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	// Identical content re-hashes to the same object.
	again, err := s.WriteBlob(t.Context(), []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, hash, again)

	_, err = s.ReadBlob(t.Context(), "0000000000000000000000000000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTreeHashIsOrderIndependent(t *testing.T) {
	s := newStore(t, LocalOptions{})

	a, err := s.WriteBlob(t.Context(), []byte("a"))
	require.NoError(t, err)
	b, err := s.WriteBlob(t.Context(), []byte("b"))
	require.NoError(t, err)

	first, err := s.WriteTree(t.Context(), []TreeEntry{
		{Kind: KindBlob, Hash: a, Name: "a.txt"},
		{Kind: KindBlob, Hash: b, Name: "b.txt"},
	})
	require.NoError(t, err)

	second, err := s.WriteTree(t.Context(), []TreeEntry{
		{Kind: KindBlob, Hash: b, Name: "b.txt"},
		{Kind: KindBlob, Hash: a, Name: "a.txt"},
	})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCommitRoundTrip(t *testing.T) {
	s := newStore(t, LocalOptions{})

	blob, err := s.WriteBlob(t.Context(), []byte("data"))
	require.NoError(t, err)
	tree, err := s.WriteTree(t.Context(), []TreeEntry{
		{Kind: KindBlob, Hash: blob, Name: "file"},
	})
	require.NoError(t, err)

	first, err := s.WriteCommit(t.Context(), tree, nil, "initial\n\nwith body")
	require.NoError(t, err)

	decoded, err := s.ReadCommit(t.Context(), first)
	require.NoError(t, err)
	assert.Equal(t, tree, decoded.Tree)
	assert.Empty(t, decoded.Parents)
	assert.Equal(t, "initial\n\nwith body", decoded.Message)

	second, err := s.WriteCommit(t.Context(), tree, []string{first}, "followup")
	require.NoError(t, err)

	decoded, err = s.ReadCommit(t.Context(), second)
	require.NoError(t, err)
	assert.Equal(t, []string{first}, decoded.Parents)

	// A commit must reference a known tree.
	_, err = s.WriteCommit(t.Context(), blob, nil, "tree is a blob")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestRefCompareAndSwap(t *testing.T) {
	s := newStore(t, LocalOptions{})

	_, err := s.ResolveRef(t.Context(), "main")
	assert.ErrorIs(t, err, ErrNotFound)

	// Creating requires the ref to be absent.
	require.NoError(t, s.UpdateRef(t.Context(), "main", "aaa", ""))
	assert.ErrorIs(t, s.UpdateRef(t.Context(), "main", "bbb", ""), ErrRefConflict)

	hash, err := s.ResolveRef(t.Context(), "main")
	require.NoError(t, err)
	assert.Equal(t, "aaa", hash)

	assert.ErrorIs(t, s.UpdateRef(t.Context(), "main", "bbb", "stale"), ErrRefConflict)
	require.NoError(t, s.UpdateRef(t.Context(), "main", "bbb", "aaa"))

	require.NoError(t, s.DeleteRef(t.Context(), "main"))
	require.NoError(t, s.DeleteRef(t.Context(), "main"), "deleting a missing ref is not an error")
	_, err = s.ResolveRef(t.Context(), "main")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTree(t *testing.T) {
	s := newStore(t, LocalOptions{})

	leaf, err := s.WriteBlob(t.Context(), []byte("leaf"))
	require.NoError(t, err)
	inner, err := s.WriteTree(t.Context(), []TreeEntry{
		{Kind: KindBlob, Hash: leaf, Name: "baz.c"},
	})
	require.NoError(t, err)
	top, err := s.WriteBlob(t.Context(), []byte("top"))
	require.NoError(t, err)
	root, err := s.WriteTree(t.Context(), []TreeEntry{
		{Kind: KindTree, Hash: inner, Name: "bar"},
		{Kind: KindBlob, Hash: top, Name: "top.txt"},
	})
	require.NoError(t, err)

	entries, err := s.ListTree(t.Context(), root)
	require.NoError(t, err)

	assert.Equal(t, []ListEntry{
		{Kind: KindTree, Hash: inner, Path: "bar"},
		{Kind: KindBlob, Hash: leaf, Path: "bar/baz.c"},
		{Kind: KindBlob, Hash: top, Path: "top.txt"},
	}, entries, "trees list before their children, depth-first")

	// Listing a blob is a kind mismatch.
	_, err = s.ListTree(t.Context(), leaf)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestCompressionTransparency(t *testing.T) {
	// Large compressible payload round-trips at every level.
	payload := bytes.Repeat([]byte("compress me "), 1000)

	for _, level := range []int{-1, 1, 2, 3} {
		s := newStore(t, LocalOptions{CompressionLevel: level})

		hash, err := s.WriteBlob(t.Context(), payload)
		require.NoError(t, err)

		data, err := s.ReadBlob(t.Context(), hash)
		require.NoError(t, err)
		assert.Equal(t, payload, data, "level %d", level)
	}
}

func TestCacheDisabled(t *testing.T) {
	s := newStore(t, LocalOptions{CacheEntries: -1})

	hash, err := s.WriteBlob(t.Context(), []byte("uncached"))
	require.NoError(t, err)

	data, err := s.ReadBlob(t.Context(), hash)
	require.NoError(t, err)
	assert.Equal(t, []byte("uncached"), data)
}
