package freezer

import (
	"context"
	"fmt"
	"io"
	"math"
	"path/filepath"

	"github.com/INLOpen/xtra/numeric"
	"github.com/INLOpen/xtra/sys"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// IndexEntrySize is the width of one index entry: a 2-byte file number
// followed by a 4-byte offset, both big-endian.
const IndexEntrySize = 6

// maxBlock keeps byte positions in the index representable as int64.
const maxBlock = math.MaxInt64/IndexEntrySize - 1

// IndexEntry locates the first byte of a block's record.
type IndexEntry struct {
	FileNumber uint16
	Offset     uint32
}

// ParseIndexEntry decodes one 6-byte index entry.
func ParseIndexEntry(b []byte) (IndexEntry, error) {
	if len(b) != IndexEntrySize {
		return IndexEntry{}, fmt.Errorf("%w: index entry has %d bytes", numeric.ErrConversion, len(b))
	}
	fn, err := numeric.Uint16BE(b[:2])
	if err != nil {
		return IndexEntry{}, err
	}
	off, err := numeric.Uint32BE(b[2:])
	if err != nil {
		return IndexEntry{}, err
	}
	return IndexEntry{FileNumber: fn, Offset: off}, nil
}

func checkRange(min, max uint64) error {
	if min >= max {
		return newError(ErrBlockRange, "", min, fmt.Errorf("min block %d is not below max block %d", min, max))
	}
	if max > maxBlock {
		return newError(ErrBlockRange, "", max, fmt.Errorf("max block %d out of range", max))
	}
	return nil
}

// ReadIndex returns the index entries of blocks [min, max).
func (r *Reader) ReadIndex(ctx context.Context, cat Category, min, max uint64) (entries []IndexEntry, err error) {
	if err := checkRange(min, max); err != nil {
		return nil, err
	}
	_, span := r.tracer.Start(ctx, "Freezer.ReadIndex", trace.WithAttributes(
		attribute.String("freezer.category", cat.String()),
		attribute.Int64("freezer.min_block", int64(min)),
		attribute.Int64("freezer.max_block", int64(max)),
	))
	defer func() { endSpan(span, err) }()

	f, path, err := r.openIndex(cat)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readEntries(f, path, min, max-min)
}

// ReadEntry returns the index entry of a single block.
func (r *Reader) ReadEntry(ctx context.Context, cat Category, block uint64) (IndexEntry, error) {
	entries, err := r.ReadIndex(ctx, cat, block, block+1)
	if err != nil {
		return IndexEntry{}, err
	}
	return entries[0], nil
}

func (r *Reader) openIndex(cat Category) (sys.FileHandle, string, error) {
	path := filepath.Join(r.dir, cat.IndexFile())
	f, err := sys.Open(path)
	if err != nil {
		return nil, path, newError(ErrOpenFile, path, 0, err)
	}
	filesOpened.Add(1)
	return f, path, nil
}

// readEntries reads count entries starting at block from.
func readEntries(f sys.FileHandle, path string, from, count uint64) ([]IndexEntry, error) {
	if _, err := f.Seek(int64(from*IndexEntrySize), io.SeekStart); err != nil {
		return nil, newError(ErrSeekFile, path, from, err)
	}
	buf := make([]byte, count*IndexEntrySize)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, newError(ErrReadFile, path, from, err)
	}
	bytesRead.Add(int64(len(buf)))

	entries := make([]IndexEntry, count)
	for i := range entries {
		e, err := ParseIndexEntry(buf[i*IndexEntrySize : (i+1)*IndexEntrySize])
		if err != nil {
			return nil, newError(ErrConversion, path, from+uint64(i), err)
		}
		entries[i] = e
	}
	return entries, nil
}

// readSpan reads the entries of [min, max) and, when the index holds it,
// the entry of max that marks where the range ends.
func readSpan(f sys.FileHandle, path string, min, max uint64) ([]IndexEntry, *IndexEntry, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, nil, newError(ErrFileMetadata, path, min, err)
	}
	available := uint64(info.Size()) / IndexEntrySize
	if available < max {
		return nil, nil, newError(ErrReadFile, path, max-1,
			fmt.Errorf("%w: index holds %d entries", io.ErrUnexpectedEOF, available))
	}
	count := max - min
	if available > max {
		count++
	}
	entries, err := readEntries(f, path, min, count)
	if err != nil {
		return nil, nil, err
	}
	if available > max {
		end := entries[len(entries)-1]
		return entries[:len(entries)-1], &end, nil
	}
	return entries, nil, nil
}
