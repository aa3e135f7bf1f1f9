package compression

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)
	defer c.Close()

	payload := bytes.Repeat([]byte("abcdefgh"), 1000)
	compressed := c.Compress(payload)
	assert.Less(t, len(compressed), len(payload))
	assert.Equal(t, payload, c.Decompress(compressed))
}

func TestSmallPayloadPassesThrough(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)
	defer c.Close()

	payload := []byte("tiny")
	assert.Equal(t, payload, c.Compress(payload))
	assert.Equal(t, payload, c.Decompress(payload))
}

func TestDisabled(t *testing.T) {
	c, err := New(0)
	require.NoError(t, err)
	defer c.Close()

	payload := bytes.Repeat([]byte("abcdefgh"), 1000)
	assert.Equal(t, payload, c.Compress(payload))
	assert.Equal(t, payload, c.Decompress(payload))
}
