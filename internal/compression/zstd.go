// Package compression wraps zstd for object storage at rest.
package compression

import (
	"github.com/klauspost/compress/zstd"
)

// Compressor compresses object payloads before they hit disk. A
// disabled compressor passes data through unchanged.
type Compressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// minSize is the smallest payload worth compressing.
const minSize = 128

// New creates a Compressor for the given level (1 fastest, 2 default,
// 3 best). Level 0 or below disables compression.
func New(level int) (*Compressor, error) {
	if level <= 0 {
		return &Compressor{}, nil
	}

	var encoderLevel zstd.EncoderLevel
	switch level {
	case 1:
		encoderLevel = zstd.SpeedFastest
	case 2:
		encoderLevel = zstd.SpeedDefault
	default:
		encoderLevel = zstd.SpeedBetterCompression
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(encoderLevel),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, err
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}

	return &Compressor{encoder: encoder, decoder: decoder}, nil
}

// Compress returns the compressed form of data, or data itself when
// compression is disabled, the payload is tiny, or zstd cannot shrink it.
func (c *Compressor) Compress(data []byte) []byte {
	if c.encoder == nil || len(data) < minSize {
		return data
	}

	compressed := c.encoder.EncodeAll(data, make([]byte, 0, len(data)))
	if len(compressed) >= len(data) {
		return data
	}
	return compressed
}

// Decompress reverses Compress. Payloads stored uncompressed are
// detected by the failed zstd frame check and returned as-is.
func (c *Compressor) Decompress(data []byte) []byte {
	if c.decoder == nil {
		return data
	}

	decompressed, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return data
	}
	return decompressed
}

// Close releases the encoder and decoder.
func (c *Compressor) Close() error {
	if c.encoder != nil {
		c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
	return nil
}
