package server

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"
)

// MemoryCheck compares the buffer a batch needs with the memory the system
// reports as available.
type MemoryCheck struct {
	Needed    uint64
	Available uint64
}

// Fits reports whether the batch leaves a quarter of available memory free.
func (m MemoryCheck) Fits() bool {
	return m.Needed <= m.Available-m.Available/4
}

func (m MemoryCheck) String() string {
	return fmt.Sprintf("batch needs %d bytes, %d available", m.Needed, m.Available)
}

// CheckMemory samples available memory for a batch of needed bytes.
func CheckMemory(needed uint64) (MemoryCheck, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return MemoryCheck{Needed: needed}, fmt.Errorf("failed to read memory statistics: %w", err)
	}
	return MemoryCheck{Needed: needed, Available: vm.Available}, nil
}
