package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	hash, encoded := frame("blob", []byte("payload"))
	assert.Len(t, hash, 64)

	typ, payload, err := unframe(encoded)
	require.NoError(t, err)
	assert.Equal(t, "blob", typ)
	assert.Equal(t, []byte("payload"), payload)
}

func TestUnframeCorrupt(t *testing.T) {
	_, _, err := unframe([]byte("no terminator"))
	assert.ErrorIs(t, err, ErrCorrupt)

	_, _, err = unframe([]byte("nospace\x00payload"))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestTreeEncodeRejectsBadHash(t *testing.T) {
	_, _, err := encodeTree([]TreeEntry{
		{Kind: KindBlob, Hash: "not hex", Name: "x"},
	})
	assert.Error(t, err)

	_, _, err = encodeTree([]TreeEntry{
		{Kind: KindBlob, Hash: "abcd", Name: "too short"},
	})
	assert.Error(t, err)
}

func TestDecodeTreeCorrupt(t *testing.T) {
	blob, _ := frame("blob", []byte("x"))

	_, encoded, err := encodeTree([]TreeEntry{
		{Kind: KindBlob, Hash: blob, Name: "file"},
	})
	require.NoError(t, err)
	_, payload, err := unframe(encoded)
	require.NoError(t, err)

	// Truncated entry.
	_, err = decodeTree(payload[:len(payload)-3])
	assert.ErrorIs(t, err, ErrCorrupt)

	// Unknown kind byte.
	bad := append([]byte{0xff}, payload[1:]...)
	_, err = decodeTree(bad)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestDecodeCommitCorrupt(t *testing.T) {
	_, err := decodeCommit([]byte("\nmessage only"))
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = decodeCommit([]byte("gibberish-line\n\nmsg"))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestDecodeCommitEmptyMessage(t *testing.T) {
	c := &Commit{Tree: "abc", Parents: []string{"p1", "p2"}}
	_, encoded := encodeCommit(c)
	_, payload, err := unframe(encoded)
	require.NoError(t, err)

	decoded, err := decodeCommit(payload)
	require.NoError(t, err)
	assert.Equal(t, "abc", decoded.Tree)
	assert.Equal(t, []string{"p1", "p2"}, decoded.Parents)
	assert.Empty(t, decoded.Message)
}
