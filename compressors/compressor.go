// Package compressors provides the block codecs freezer records may be
// stored with.
package compressors

import (
	"errors"
	"fmt"
	"strings"
)

// Type identifies a compression algorithm.
type Type byte

const (
	None   Type = 0
	Snappy Type = 1
	LZ4    Type = 2
	ZSTD   Type = 3
)

// DefaultMaxDecodedSize bounds the size a single record may decompress to.
const DefaultMaxDecodedSize = 64 * 1024 * 1024

var (
	// ErrCorrupt is returned when compressed input cannot be decoded.
	ErrCorrupt = errors.New("compressed data is corrupt")
	// ErrTooLarge is returned when input declares a decoded size above the limit.
	ErrTooLarge = errors.New("decoded size exceeds limit")
)

// Compressor compresses and decompresses whole blocks held in memory.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Type() Type
}

// String returns the string representation of the Type.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Snappy:
		return "snappy"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

// ParseType maps a configuration name to a Type.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "":
		return None, nil
	case "snappy":
		return Snappy, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return ZSTD, nil
	default:
		return None, fmt.Errorf("unknown compression type: %q", name)
	}
}

// New returns a Compressor for t. maxDecodedSize bounds decompression
// output; zero selects DefaultMaxDecodedSize.
func New(t Type, maxDecodedSize int) (Compressor, error) {
	if maxDecodedSize <= 0 {
		maxDecodedSize = DefaultMaxDecodedSize
	}
	switch t {
	case None:
		return &NoCompressionCompressor{}, nil
	case Snappy:
		return &SnappyCompressor{MaxDecodedSize: maxDecodedSize}, nil
	case LZ4:
		return &LZ4Compressor{MaxDecodedSize: maxDecodedSize}, nil
	case ZSTD:
		return NewZstdCompressor(maxDecodedSize), nil
	default:
		return nil, fmt.Errorf("unknown compression type: %d", t)
	}
}
