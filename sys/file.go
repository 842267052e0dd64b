// Package sys wraps file access so the freezer reader can be pointed at a
// different opener in tests and can trace the handles it holds.
package sys

import (
	"io"
	"os"
	"sync/atomic"
)

// File opens files for the process. The default implementation uses the os package.
type File interface {
	Open(name string) (*os.File, error)
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)
	Stat(name string) (os.FileInfo, error)
}

// FileHandle is an open file.
type FileHandle interface {
	io.ReadWriteCloser
	io.ReaderAt
	io.Seeker

	Stat() (os.FileInfo, error)
	Sync() error
	Name() string
	Fd() uintptr
}

// fileWrapper keeps the concrete type stored in defaultFile stable.
type fileWrapper struct {
	f File
}

var defaultFile atomic.Value // stores fileWrapper
var debugMode atomic.Bool

type osFile struct{}

func (osFile) Open(name string) (*os.File, error) { return os.Open(name) }
func (osFile) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, flag, perm)
}
func (osFile) Stat(name string) (os.FileInfo, error) { return os.Stat(name) }

func init() {
	defaultFile.Store(fileWrapper{f: osFile{}})
}

// SetDefaultFile replaces the File used by Open, Create and Stat.
// Passing nil restores the os implementation.
func SetDefaultFile(file File) {
	if file == nil {
		file = osFile{}
	}
	defaultFile.Store(fileWrapper{f: file})
}

// SetDebugMode makes every handle opened afterwards log its lifecycle and
// appear in OpenHandles until closed.
func SetDebugMode(mode bool) {
	debugMode.Store(mode)
}

func current() File {
	fw, _ := defaultFile.Load().(fileWrapper)
	if fw.f == nil {
		return osFile{}
	}
	return fw.f
}

type CreateHandler func(name string) (FileHandle, error)
type OpenHandler func(name string) (FileHandle, error)
type StatHandler func(name string) (os.FileInfo, error)

var Create CreateHandler = func(name string) (FileHandle, error) {
	return openFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
}

var Open OpenHandler = func(name string) (FileHandle, error) {
	return openFile(name, os.O_RDONLY, 0)
}

var Stat StatHandler = func(name string) (os.FileInfo, error) {
	return current().Stat(name)
}

func openFile(name string, flag int, perm os.FileMode) (FileHandle, error) {
	f, err := current().OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	if debugMode.Load() {
		return newDebugFile(f), nil
	}
	return &RealFile{f: f}, nil
}
