package compressors

import (
	"errors"
	"fmt"

	lz4 "github.com/pierrec/lz4/v4"
)

// LZ4Compressor implements the Compressor interface using the LZ4 block format.
type LZ4Compressor struct {
	MaxDecodedSize int
}

var _ Compressor = (*LZ4Compressor)(nil)

func NewLz4Compressor() *LZ4Compressor {
	return &LZ4Compressor{MaxDecodedSize: DefaultMaxDecodedSize}
}

func (c *LZ4Compressor) Compress(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress error: %w", err)
	}
	// Incompressible input yields n == 0; store it as a literal-only block.
	if n == 0 && len(data) > 0 {
		return literalBlock(data), nil
	}
	return dst[:n], nil
}

// literalBlock encodes data as a single LZ4 sequence with no match.
func literalBlock(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/255+2)
	l := len(data)
	if l < 15 {
		return append(append(out, byte(l<<4)), data...)
	}
	out = append(out, 0xf0)
	for l -= 15; l >= 255; l -= 255 {
		out = append(out, 0xff)
	}
	out = append(out, byte(l))
	return append(out, data...)
}

func (c *LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	// The block format does not store the original size, so grow the
	// destination until it fits or the limit is reached.
	limit := c.MaxDecodedSize
	if limit <= 0 {
		limit = DefaultMaxDecodedSize
	}
	dstSize := len(data) * 3
	if dstSize < 1024 {
		dstSize = 1024
	}
	for {
		if dstSize > limit {
			dstSize = limit
		}
		dst := make([]byte, dstSize)
		n, err := lz4.UncompressBlock(data, dst)
		if err == nil {
			return dst[:n], nil
		}
		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return nil, fmt.Errorf("lz4 decompress error: %w: %w", ErrCorrupt, err)
		}
		if dstSize >= limit {
			return nil, fmt.Errorf("lz4 decompress error: %w: more than %d bytes", ErrTooLarge, limit)
		}
		dstSize *= 2
	}
}

func (c *LZ4Compressor) Type() Type {
	return LZ4
}
