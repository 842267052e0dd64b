package sys

import (
	"log/slog"
	"os"
	"sort"
	"sync"
	"sync/atomic"
)

var _ FileHandle = (*DebugFile)(nil)
var nextID atomic.Uint64

var listFD = new(sync.Map)

// DebugFile is a FileHandle that logs its lifecycle at debug level and is
// tracked until closed.
type DebugFile struct {
	RealFile
	id     uint64
	read   atomic.Int64
	logger *slog.Logger
}

func newDebugFile(f *os.File) *DebugFile {
	id := nextID.Add(1)
	df := &DebugFile{
		RealFile: RealFile{f: f},
		id:       id,
		logger:   slog.Default().With("component", "DebugFile", "id", id, "file_name", f.Name()),
	}
	df.logger.Debug("Opening file")
	listFD.Store(id, f.Name())
	return df
}

func (df *DebugFile) Read(p []byte) (int, error) {
	n, err := df.RealFile.Read(p)
	df.read.Add(int64(n))
	return n, err
}

func (df *DebugFile) ReadAt(p []byte, off int64) (int, error) {
	n, err := df.RealFile.ReadAt(p, off)
	df.read.Add(int64(n))
	return n, err
}

func (df *DebugFile) Close() error {
	df.logger.Debug("Closing file", "bytes_read", df.read.Load())
	listFD.Delete(df.id)
	return df.RealFile.Close()
}

// OpenHandles returns the names of debug handles that have not been closed.
func OpenHandles() []string {
	var names []string
	listFD.Range(func(_, value any) bool {
		names = append(names, value.(string))
		return true
	})
	sort.Strings(names)
	return names
}
