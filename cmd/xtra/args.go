package main

import (
	"fmt"
	"strconv"
	"strings"
)

// blockRange is a half-open range of block numbers.
type blockRange struct {
	min, max uint64
}

func (r blockRange) String() string { return fmt.Sprintf("[%d, %d)", r.min, r.max) }

// parseRange accepts "N" for the single block N or "N-M" for blocks N up
// to but excluding M.
func parseRange(s string) (blockRange, error) {
	lo, hi, isRange := strings.Cut(strings.TrimSpace(s), "-")
	min, err := strconv.ParseUint(lo, 10, 64)
	if err != nil {
		return blockRange{}, fmt.Errorf("invalid block number %q: %w", lo, err)
	}
	if !isRange {
		if min == ^uint64(0) {
			return blockRange{}, fmt.Errorf("block number %d out of range", min)
		}
		return blockRange{min: min, max: min + 1}, nil
	}
	max, err := strconv.ParseUint(hi, 10, 64)
	if err != nil {
		return blockRange{}, fmt.Errorf("invalid block number %q: %w", hi, err)
	}
	if min >= max {
		return blockRange{}, fmt.Errorf("block range %s is empty: the end block is excluded", s)
	}
	return blockRange{min: min, max: max}, nil
}

// batches splits r into consecutive ranges of at most size blocks.
func (r blockRange) batches(size uint64) []blockRange {
	if size == 0 {
		size = r.max - r.min
	}
	var out []blockRange
	for lo := r.min; lo < r.max; {
		hi := r.max
		if r.max-lo > size {
			hi = lo + size
		}
		out = append(out, blockRange{min: lo, max: hi})
		lo = hi
	}
	return out
}
