// Package freezer reads records out of a freezer archive: per-category
// index files of 6-byte entries pointing into numbered data files.
package freezer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/INLOpen/xtra/compressors"
	"github.com/INLOpen/xtra/rlp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Options configures a Reader.
type Options struct {
	// Dir is the directory holding the index and data files.
	Dir string
	// Compression is the codec of compressed categories. Freezers written
	// by geth use snappy.
	Compression compressors.Type
	// MaxRecordSize bounds the decompressed size of one record. Zero
	// selects compressors.DefaultMaxDecodedSize.
	MaxRecordSize int
	// SequentialHint advises the kernel that data files are read in order.
	SequentialHint bool
	Logger         *slog.Logger
	Tracer         trace.Tracer
}

// DefaultOptions returns options for a geth freezer in dir.
func DefaultOptions(dir string) Options {
	return Options{Dir: dir, Compression: compressors.Snappy}
}

// Reader reads one freezer directory. It holds no open files or buffers
// between calls, so one Reader may serve concurrent requests.
type Reader struct {
	dir            string
	decomp         decompressor
	sequentialHint bool
	logger         *slog.Logger
	tracer         trace.Tracer
}

// NewReader returns a Reader for opts.Dir. The directory is not accessed
// until the first request.
func NewReader(opts Options) (*Reader, error) {
	codec, err := compressors.New(opts.Compression, opts.MaxRecordSize)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default().With("component", "FreezerReader")
	}
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer("xtra/freezer")
	}
	return &Reader{
		dir:            opts.Dir,
		decomp:         decompressor{codec: codec},
		sequentialHint: opts.SequentialHint,
		logger:         opts.Logger,
		tracer:         opts.Tracer,
	}, nil
}

// Dir returns the directory the reader was opened on.
func (r *Reader) Dir() string { return r.dir }

// Each calls fn with the RLP item of every block in [min, max), in block
// order. Compressed records are decompressed and bare hash values are
// wrapped as RLP strings. The first error from fn stops the walk.
func (r *Reader) Each(ctx context.Context, cat Category, min, max uint64, fn func(block uint64, item []byte) error) error {
	rr, err := r.Export(ctx, cat, min, max)
	if err != nil {
		return err
	}
	for i := 0; i < rr.Len(); i++ {
		block := rr.First + uint64(i)
		if err := Cancelled(ctx, block); err != nil {
			return err
		}
		item, err := r.Item(cat, block, rr.Record(i))
		if err != nil {
			return err
		}
		if err := fn(block, item); err != nil {
			return err
		}
	}
	return nil
}

// Item turns the stored bytes of one record into its RLP item.
func (r *Reader) Item(cat Category, block uint64, stored []byte) ([]byte, error) {
	item, err := r.decomp.apply(cat, stored)
	if err != nil {
		return nil, newError(ErrDecompress, "", block, err)
	}
	if cat.Raw() {
		item = wrapRaw(item)
	}
	return item, nil
}

// Blobs returns the RLP item of every block in [min, max).
func (r *Reader) Blobs(ctx context.Context, cat Category, min, max uint64) ([][]byte, error) {
	blobs := make([][]byte, 0, capHint(min, max))
	err := r.Each(ctx, cat, min, max, func(_ uint64, item []byte) error {
		blobs = append(blobs, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blobs, nil
}

// Load decodes every record of [min, max) into a new T. A failed record
// fails the whole range.
func Load[T any, PT interface {
	*T
	rlp.Decoder
}](ctx context.Context, r *Reader, cat Category, min, max uint64) (out []*T, err error) {
	ctx, span := r.tracer.Start(ctx, "Freezer.Load", trace.WithAttributes(
		attribute.String("freezer.category", cat.String()),
		attribute.Int64("freezer.min_block", int64(min)),
		attribute.Int64("freezer.max_block", int64(max)),
	))
	defer func() { endSpan(span, err) }()

	out = make([]*T, 0, capHint(min, max))
	s := rlp.NewStream(nil).WithLogger(r.logger)
	err = r.Each(ctx, cat, min, max, func(block uint64, item []byte) error {
		v := PT(new(T))
		s.Reset(item)
		if err := v.DecodeRLP(s); err != nil {
			return newError(ErrDecode, "", block, err)
		}
		if !s.Done() {
			return newError(ErrDecode, "", block, fmt.Errorf("%w: trailing bytes after record", rlp.ErrUnexpectedMatch))
		}
		recordsLoaded.Add(1)
		out = append(out, (*T)(v))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func capHint(lo, hi uint64) int {
	if hi <= lo {
		return 0
	}
	return int(min(hi-lo, 1<<16))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
