//go:build linux

package sys

import "golang.org/x/sys/unix"

// AdviseSequential tells the kernel the byte range will be read once, in order.
func AdviseSequential(f FileHandle, offset, length int64) error {
	return unix.Fadvise(int(f.Fd()), offset, length, unix.FADV_SEQUENTIAL)
}
