// Package inspect summarises the records of a block range without decoding
// them into typed values.
package inspect

import (
	"context"
	"fmt"
	"io"

	"github.com/INLOpen/xtra/freezer"
	"github.com/INLOpen/xtra/rlp"
	"github.com/RoaringBitmap/roaring/roaring64"
	tdigest "github.com/caio/go-tdigest/v4"
)

// Collector accumulates record sizes and the set of blocks with content.
type Collector struct {
	category freezer.Category

	records      uint64
	storedBytes  uint64
	decodedBytes uint64
	largest      uint64
	largestBlock uint64

	sizes   *tdigest.TDigest
	content *roaring64.Bitmap
}

// NewCollector returns an empty collector for cat.
func NewCollector(cat freezer.Category) (*Collector, error) {
	td, err := tdigest.New()
	if err != nil {
		return nil, fmt.Errorf("tdigest.New failed: %w", err)
	}
	return &Collector{category: cat, sizes: td, content: roaring64.New()}, nil
}

// Add records one block. stored is the record as read from disk and item
// its RLP item.
func (c *Collector) Add(block uint64, stored, item []byte) error {
	c.records++
	c.storedBytes += uint64(len(stored))
	c.decodedBytes += uint64(len(item))
	if n := uint64(len(item)); n > c.largest || c.records == 1 {
		c.largest, c.largestBlock = n, block
	}
	if err := c.sizes.Add(float64(len(item))); err != nil {
		return fmt.Errorf("tdigest Add failed: %w", err)
	}
	has, err := HasContent(item)
	if err != nil {
		return fmt.Errorf("block %d: %w", block, err)
	}
	if has {
		c.content.Add(block)
	}
	return nil
}

// Merge folds other into c. Both must cover the same category.
func (c *Collector) Merge(other *Collector) error {
	if other.category != c.category {
		return fmt.Errorf("cannot merge %s statistics into %s", other.category, c.category)
	}
	if other.records == 0 {
		return nil
	}
	if err := c.sizes.Merge(other.sizes); err != nil {
		return fmt.Errorf("tdigest Merge failed: %w", err)
	}
	if other.largest > c.largest || c.records == 0 {
		c.largest, c.largestBlock = other.largest, other.largestBlock
	}
	c.records += other.records
	c.storedBytes += other.storedBytes
	c.decodedBytes += other.decodedBytes
	c.content.Or(other.content)
	return nil
}

// Quantile returns the estimated q-quantile of decoded record sizes.
func (c *Collector) Quantile(q float64) float64 {
	if c.records == 0 {
		return 0
	}
	return c.sizes.Quantile(q)
}

// WithContent returns the blocks whose record holds anything but empty
// lists and strings.
func (c *Collector) WithContent() *roaring64.Bitmap { return c.content }

// WriteBitmap serialises the content bitmap in the portable roaring format.
func (c *Collector) WriteBitmap(w io.Writer) (int64, error) {
	c.content.RunOptimize()
	return c.content.WriteTo(w)
}

// Summary is the printable form of a Collector.
type Summary struct {
	Category     string  `json:"category"`
	Records      uint64  `json:"records"`
	StoredBytes  uint64  `json:"storedBytes"`
	DecodedBytes uint64  `json:"decodedBytes"`
	Ratio        float64 `json:"compressionRatio"`
	P50          float64 `json:"p50"`
	P90          float64 `json:"p90"`
	P99          float64 `json:"p99"`
	Largest      uint64  `json:"largest"`
	LargestBlock uint64  `json:"largestBlock"`
	WithContent  uint64  `json:"withContent"`
}

func (c *Collector) Summary() Summary {
	s := Summary{
		Category:     c.category.String(),
		Records:      c.records,
		StoredBytes:  c.storedBytes,
		DecodedBytes: c.decodedBytes,
		P50:          c.Quantile(0.5),
		P90:          c.Quantile(0.9),
		P99:          c.Quantile(0.99),
		Largest:      c.largest,
		LargestBlock: c.largestBlock,
		WithContent:  c.content.GetCardinality(),
	}
	if c.storedBytes > 0 {
		s.Ratio = float64(c.decodedBytes) / float64(c.storedBytes)
	}
	return s
}

// HasContent reports whether an RLP item holds a non-empty value. A list
// counts only if one of its members is neither an empty list nor an empty
// string, so an empty block body [[], []] has no content.
func HasContent(item []byte) (bool, error) {
	n, _, err := rlp.Parse(item)
	if err != nil {
		return false, err
	}
	switch n.Kind {
	case rlp.EmptyList, rlp.EmptyString:
		return false, nil
	case rlp.Bytes:
		return true, nil
	}
	members, err := rlp.DecodeAll(n.Payload)
	if err != nil {
		return false, err
	}
	for _, m := range members {
		if m.Kind != rlp.EmptyList && m.Kind != rlp.EmptyString {
			return true, nil
		}
	}
	return false, nil
}

// Collect reads [min, max) from r and summarises it.
func Collect(ctx context.Context, r *freezer.Reader, cat freezer.Category, min, max uint64) (*Collector, error) {
	c, err := NewCollector(cat)
	if err != nil {
		return nil, err
	}
	rr, err := r.Export(ctx, cat, min, max)
	if err != nil {
		return nil, err
	}
	for i := 0; i < rr.Len(); i++ {
		block := rr.First + uint64(i)
		if err := freezer.Cancelled(ctx, block); err != nil {
			return nil, err
		}
		stored := rr.Record(i)
		item, err := r.Item(cat, block, stored)
		if err != nil {
			return nil, err
		}
		if err := c.Add(block, stored, item); err != nil {
			return nil, err
		}
	}
	return c, nil
}
