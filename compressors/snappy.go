package compressors

import (
	"fmt"

	"github.com/golang/snappy"
)

// SnappyCompressor implements the Compressor interface using the Snappy
// block format, which is what the freezer writes by default.
type SnappyCompressor struct {
	MaxDecodedSize int
}

var _ Compressor = (*SnappyCompressor)(nil)

func NewSnappyCompressor() *SnappyCompressor {
	return &SnappyCompressor{MaxDecodedSize: DefaultMaxDecodedSize}
}

func (c *SnappyCompressor) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (c *SnappyCompressor) Decompress(data []byte) ([]byte, error) {
	// The block header declares the decoded length; check it before
	// snappy allocates the destination.
	n, err := snappy.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("snappy decompress error: %w: %w", ErrCorrupt, err)
	}
	if c.MaxDecodedSize > 0 && n > c.MaxDecodedSize {
		return nil, fmt.Errorf("snappy decompress error: %w: %d > %d", ErrTooLarge, n, c.MaxDecodedSize)
	}
	decompressed, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("snappy decompress error: %w: %w", ErrCorrupt, err)
	}
	return decompressed, nil
}

func (c *SnappyCompressor) Type() Type {
	return Snappy
}
