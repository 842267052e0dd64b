package freezer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/INLOpen/xtra/sys"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RawRange holds the stored bytes of a block range read from one or more
// data files, with the offset of every record inside Data.
type RawRange struct {
	Category Category
	First    uint64
	Data     []byte
	Offsets  []uint64
}

// Len returns the number of records.
func (rr *RawRange) Len() int { return len(rr.Offsets) }

// Record returns the stored bytes of the i-th record. The last record
// extends to the end of Data.
func (rr *RawRange) Record(i int) []byte {
	end := uint64(len(rr.Data))
	if i+1 < len(rr.Offsets) {
		end = rr.Offsets[i+1]
	}
	return rr.Data[rr.Offsets[i]:end:end]
}

// Export reads the stored bytes of blocks [min, max) into one buffer.
// Records are returned as stored; compressed categories still need
// decompressing.
func (r *Reader) Export(ctx context.Context, cat Category, min, max uint64) (rr *RawRange, err error) {
	if err := checkRange(min, max); err != nil {
		return nil, err
	}
	ctx, span := r.tracer.Start(ctx, "Freezer.Export", trace.WithAttributes(
		attribute.String("freezer.category", cat.String()),
		attribute.Int64("freezer.min_block", int64(min)),
		attribute.Int64("freezer.max_block", int64(max)),
	))
	defer func() { endSpan(span, err) }()

	idx, idxPath, err := r.openIndex(cat)
	if err != nil {
		return nil, err
	}
	entries, end, err := readSpan(idx, idxPath, min, max)
	idx.Close()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, newError(ErrBlockOffset, idxPath, min, fmt.Errorf("no index entries"))
	}

	first := entries[0]
	lastFile := entries[len(entries)-1].FileNumber
	if end != nil {
		if end.FileNumber < lastFile {
			return nil, newError(ErrBlockOffset, idxPath, max, fmt.Errorf("end entry in file %d before file %d", end.FileNumber, lastFile))
		}
		// The range ends exactly where a new file starts.
		if end.FileNumber == lastFile || end.Offset > 0 {
			lastFile = end.FileNumber
		}
	}

	var data []byte
	lengths := make(map[uint16]int64)
	for fn := int(first.FileNumber); fn <= int(lastFile); fn++ {
		if err := Cancelled(ctx, min); err != nil {
			return nil, err
		}
		from := int64(0)
		if fn == int(first.FileNumber) {
			from = int64(first.Offset)
		}
		to := int64(-1)
		if end != nil && fn == int(end.FileNumber) {
			to = int64(end.Offset)
		}
		var size int64
		data, size, err = r.readDataFile(cat, uint16(fn), from, to, min, data)
		if err != nil {
			return nil, err
		}
		lengths[uint16(fn)] = size
	}

	offsets, err := boundaries(min, entries, lengths)
	if err != nil {
		return nil, err
	}
	if n := len(offsets); offsets[n-1] >= uint64(len(data)) {
		return nil, newError(ErrBlockOffset, "", max-1, fmt.Errorf("record starts at %d past the %d bytes read", offsets[n-1], len(data)))
	}

	r.logger.Debug("Exported block range", "category", cat, "min", min, "max", max,
		"files", len(lengths), "bytes", len(data))
	return &RawRange{Category: cat, First: min, Data: data, Offsets: offsets}, nil
}

// readDataFile appends bytes [from, to) of a data file to buf; to < 0 reads
// to the end of the file. It returns the grown buffer and the file length.
func (r *Reader) readDataFile(cat Category, fn uint16, from, to int64, block uint64, buf []byte) (_ []byte, _ int64, err error) {
	path := filepath.Join(r.dir, cat.DataFile(fn))
	f, err := sys.Open(path)
	if err != nil {
		return buf, 0, newError(ErrOpenFile, path, block, err)
	}
	defer f.Close()
	filesOpened.Add(1)

	info, err := f.Stat()
	if err != nil {
		return buf, 0, newError(ErrFileMetadata, path, block, err)
	}
	size := info.Size()
	if to < 0 {
		to = size
	}
	if from > to || to > size {
		return buf, size, newError(ErrBlockOffset, path, block,
			fmt.Errorf("span [%d, %d) outside file of %d bytes", from, to, size))
	}

	n := int(to - from)
	if r.sequentialHint && n > 0 {
		if err := sys.AdviseSequential(f, from, int64(n)); err != nil {
			r.logger.Debug("Sequential read hint failed", "path", path, "error", err)
		}
	}
	if _, err := f.Seek(from, io.SeekStart); err != nil {
		return buf, size, newError(ErrSeekFile, path, block, err)
	}
	start := len(buf)
	buf = slices.Grow(buf, n)[:start+n]
	if _, err := io.ReadFull(f, buf[start:]); err != nil {
		return buf[:start], size, newError(ErrReadFile, path, block, err)
	}
	bytesRead.Add(int64(n))
	return buf, size, nil
}

// boundaries maps index entries to offsets in the concatenated buffer. The
// buffer starts at the first entry's offset. Each time the file number
// changes the full lengths of the files left behind are added to the shift.
func boundaries(min uint64, entries []IndexEntry, lengths map[uint16]int64) ([]uint64, error) {
	offsets := make([]uint64, 0, len(entries))
	shift := -int64(entries[0].Offset)
	current := entries[0].FileNumber
	for i, e := range entries {
		block := min + uint64(i)
		if e.FileNumber != current {
			if e.FileNumber < current {
				return nil, newError(ErrBlockOffset, "", block,
					fmt.Errorf("file number goes back from %d to %d", current, e.FileNumber))
			}
			for fn := current; fn < e.FileNumber; fn++ {
				shift += lengths[fn]
			}
			current = e.FileNumber
		}
		pos := int64(e.Offset) + shift
		if pos < 0 || (len(offsets) > 0 && uint64(pos) <= offsets[len(offsets)-1]) {
			return nil, newError(ErrBlockOffset, "", block,
				fmt.Errorf("record offset %d does not follow the previous record", pos))
		}
		offsets = append(offsets, uint64(pos))
	}
	return offsets, nil
}
