// Package testutil builds synthetic freezer archives for tests.
package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/INLOpen/xtra/compressors"
	"github.com/INLOpen/xtra/sys"
)

// Layout names the files of one record category.
type Layout interface {
	IndexFile() string
	DataFile(fileNumber uint16) string
}

// Entry is one index entry as written by the builder.
type Entry struct {
	FileNumber uint16
	Offset     uint32
}

// ArchiveBuilder appends records to numbered data files and writes the
// matching 6-byte index on Finish. A new data file is started when the
// next record would push the current one past MaxFileSize.
type ArchiveBuilder struct {
	t           testing.TB
	dir         string
	layout      Layout
	codec       compressors.Compressor
	maxFileSize int64

	file       sys.FileHandle
	fileNumber uint16
	size       int64
	entries    []Entry
	sizes      map[uint16]int64
}

// NewArchiveBuilder returns a builder writing into dir. A nil codec stores
// records as given; maxFileSize <= 0 keeps everything in file 0.
func NewArchiveBuilder(t testing.TB, dir string, layout Layout, codec compressors.Compressor, maxFileSize int64) *ArchiveBuilder {
	t.Helper()
	b := &ArchiveBuilder{
		t:           t,
		dir:         dir,
		layout:      layout,
		codec:       codec,
		maxFileSize: maxFileSize,
		sizes:       make(map[uint16]int64),
	}
	b.openFile()
	return b
}

func (b *ArchiveBuilder) openFile() {
	b.t.Helper()
	f, err := sys.Create(filepath.Join(b.dir, b.layout.DataFile(b.fileNumber)))
	if err != nil {
		b.t.Fatalf("create data file %d: %v", b.fileNumber, err)
	}
	b.file = f
	b.size = 0
}

func (b *ArchiveBuilder) closeFile() {
	b.t.Helper()
	if err := b.file.Close(); err != nil {
		b.t.Fatalf("close data file %d: %v", b.fileNumber, err)
	}
	b.sizes[b.fileNumber] = b.size
}

// Append stores one record and returns its index entry.
func (b *ArchiveBuilder) Append(record []byte) Entry {
	b.t.Helper()
	data := record
	if b.codec != nil {
		var err error
		if data, err = b.codec.Compress(record); err != nil {
			b.t.Fatalf("compress record %d: %v", len(b.entries), err)
		}
	}
	if b.maxFileSize > 0 && b.size > 0 && b.size+int64(len(data)) > b.maxFileSize {
		b.closeFile()
		b.fileNumber++
		b.openFile()
	}
	e := Entry{FileNumber: b.fileNumber, Offset: uint32(b.size)}
	if _, err := b.file.Write(data); err != nil {
		b.t.Fatalf("write record %d: %v", len(b.entries), err)
	}
	b.size += int64(len(data))
	b.entries = append(b.entries, e)
	return e
}

// Finish closes the current data file and writes the index.
func (b *ArchiveBuilder) Finish() []Entry {
	b.t.Helper()
	b.closeFile()
	WriteIndex(b.t, filepath.Join(b.dir, b.layout.IndexFile()), b.entries)
	return b.entries
}

// FileSize returns the length of a finished data file.
func (b *ArchiveBuilder) FileSize(fileNumber uint16) int64 {
	return b.sizes[fileNumber]
}

// WriteIndex writes entries in the freezer index format.
func WriteIndex(t testing.TB, path string, entries []Entry) {
	t.Helper()
	buf := make([]byte, 0, len(entries)*6)
	for _, e := range entries {
		buf = binary.BigEndian.AppendUint16(buf, e.FileNumber)
		buf = binary.BigEndian.AppendUint32(buf, e.Offset)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write index %s: %v", path, err)
	}
}

// ListDataFiles returns the data file numbers present in dir for the
// category whose data files end in ext (".cdat" or ".rdat").
func ListDataFiles(dir, name, ext string) ([]uint16, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var numbers []uint16
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || !strings.HasPrefix(n, name+".") || !strings.HasSuffix(n, ext) {
			continue
		}
		digits := strings.TrimSuffix(strings.TrimPrefix(n, name+"."), ext)
		v, err := strconv.ParseUint(digits, 10, 16)
		if err != nil {
			continue
		}
		numbers = append(numbers, uint16(v))
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	return numbers, nil
}
