package freezer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/INLOpen/xtra/sys"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Job lists the record offsets of a range that live in one data file.
type Job struct {
	FileNumber uint16
	Offsets    []uint64
	// Rollover is set when the range continues in a later file. The last
	// offset is then the length of this file rather than a record start.
	Rollover bool
}

// Records returns the number of records the job covers.
func (j Job) Records() int {
	if j.Rollover {
		return len(j.Offsets) - 1
	}
	return len(j.Offsets)
}

// Schedule groups the index entries of a block range by data file.
type Schedule struct {
	Category Category
	Min, Max uint64
	Jobs     []Job
	// LastRecordSize is the stored length of the range's final record,
	// which no offset in Jobs bounds. Reader.Schedule fills it in.
	LastRecordSize uint64
}

// NewSchedule groups entries, which start at block min, into jobs.
// fileLength is asked for the length of every file a rollover leaves.
func NewSchedule(cat Category, min uint64, entries []IndexEntry, fileLength func(fileNumber uint16) (int64, error)) (*Schedule, error) {
	s := &Schedule{Category: cat, Min: min, Max: min + uint64(len(entries))}
	var job *Job
	for i, e := range entries {
		block := min + uint64(i)
		if job != nil && e.FileNumber != job.FileNumber {
			if e.FileNumber < job.FileNumber {
				return nil, newError(ErrBlockOffset, "", block,
					fmt.Errorf("file number goes back from %d to %d", job.FileNumber, e.FileNumber))
			}
			size, err := fileLength(job.FileNumber)
			if err != nil {
				return nil, err
			}
			job.Offsets = append(job.Offsets, uint64(size))
			job.Rollover = true
			job = nil
		}
		if job == nil {
			s.Jobs = append(s.Jobs, Job{FileNumber: e.FileNumber})
			job = &s.Jobs[len(s.Jobs)-1]
		}
		if n := len(job.Offsets); n > 0 && uint64(e.Offset) < job.Offsets[n-1] {
			return nil, newError(ErrBlockOffset, "", block,
				fmt.Errorf("offset %d precedes %d in file %d", e.Offset, job.Offsets[n-1], e.FileNumber))
		}
		job.Offsets = append(job.Offsets, uint64(e.Offset))
	}
	return s, nil
}

// Records returns the number of records the schedule covers.
func (s *Schedule) Records() int {
	var n int
	for _, j := range s.Jobs {
		n += j.Records()
	}
	return n
}

// StoredBytes returns the number of bytes the range occupies in the data
// files, which is what Export reads for it.
func (s *Schedule) StoredBytes() uint64 {
	var n uint64
	for _, j := range s.Jobs {
		n += j.Offsets[len(j.Offsets)-1] - j.Offsets[0]
	}
	return n + s.LastRecordSize
}

// Schedule reads the index of [min, max) and groups it by data file. The
// final record is measured the way Export reads it: up to the entry of max
// when the index holds one, otherwise to the end of the last data file.
func (r *Reader) Schedule(ctx context.Context, cat Category, min, max uint64) (s *Schedule, err error) {
	if err := checkRange(min, max); err != nil {
		return nil, err
	}
	_, span := r.tracer.Start(ctx, "Freezer.Schedule", trace.WithAttributes(
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

	fileLength := func(fn uint16) (int64, error) {
		path := filepath.Join(r.dir, cat.DataFile(fn))
		info, err := sys.Stat(path)
		if err != nil {
			return 0, newError(ErrFileMetadata, path, 0, err)
		}
		return info.Size(), nil
	}
	s, err = NewSchedule(cat, min, entries, fileLength)
	if err != nil {
		return nil, err
	}
	last := s.Jobs[len(s.Jobs)-1]
	s.LastRecordSize, err = lastRecordSize(last, end, max, fileLength)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// lastRecordSize measures the record starting at the final offset of last.
// A record whose end entry lies in a later file spans every file up to it.
func lastRecordSize(last Job, end *IndexEntry, max uint64, fileLength func(uint16) (int64, error)) (uint64, error) {
	start := last.Offsets[len(last.Offsets)-1]
	if end != nil && end.FileNumber == last.FileNumber {
		if uint64(end.Offset) <= start {
			return 0, newError(ErrBlockOffset, "", max,
				fmt.Errorf("end offset %d does not follow record at %d", end.Offset, start))
		}
		return uint64(end.Offset) - start, nil
	}
	if end != nil && end.FileNumber < last.FileNumber {
		return 0, newError(ErrBlockOffset, "", max,
			fmt.Errorf("end entry in file %d before file %d", end.FileNumber, last.FileNumber))
	}
	size, err := fileLength(last.FileNumber)
	if err != nil {
		return 0, err
	}
	if uint64(size) < start {
		return 0, newError(ErrBlockOffset, "", max-1,
			fmt.Errorf("record starts at %d past the end of a %d byte file", start, size))
	}
	n := uint64(size) - start
	if end == nil {
		return n, nil
	}
	for fn := last.FileNumber + 1; fn < end.FileNumber; fn++ {
		size, err := fileLength(fn)
		if err != nil {
			return 0, err
		}
		n += uint64(size)
	}
	return n + uint64(end.Offset), nil
}
