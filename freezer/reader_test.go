package freezer

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/INLOpen/xtra/compressors"
	"github.com/INLOpen/xtra/internal/testutil"
	"github.com/INLOpen/xtra/rlp"
	"github.com/INLOpen/xtra/types"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	gethrlp "github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestReader(t *testing.T, dir string) *Reader {
	t.Helper()
	r, err := NewReader(DefaultOptions(dir))
	require.NoError(t, err)
	return r
}

func snappyCodec(t *testing.T) compressors.Compressor {
	t.Helper()
	c, err := compressors.New(compressors.Snappy, 0)
	require.NoError(t, err)
	return c
}

// record returns a record of 3+i bytes filled with i+1.
func record(i int) []byte {
	return bytes.Repeat([]byte{byte(i + 1)}, 3+i)
}

// buildRollover writes ten difficulty records of 3..12 bytes into data
// files capped at 20 bytes:
//
//	file 0: blocks 0-3 (18 bytes)   file 1: blocks 4-5 (15 bytes)
//	file 2: blocks 6-7 (19 bytes)   file 3: block 8    file 4: block 9
func buildRollover(t *testing.T) (string, *testutil.ArchiveBuilder) {
	t.Helper()
	dir := t.TempDir()
	b := testutil.NewArchiveBuilder(t, dir, Difficulty, nil, 20)
	for i := 0; i < 10; i++ {
		b.Append(record(i))
	}
	b.Finish()
	return dir, b
}

func TestReader_RejectsRangeBeforeFileAccess(t *testing.T) {
	r := newTestReader(t, filepath.Join(t.TempDir(), "does-not-exist"))
	ctx := context.Background()
	opened := filesOpened.Value()

	for _, rng := range [][2]uint64{{5, 5}, {6, 5}, {1, 0}} {
		_, err := r.ReadIndex(ctx, Bodies, rng[0], rng[1])
		assert.True(t, IsRangeError(err), "ReadIndex %v", rng)

		_, err = r.Export(ctx, Headers, rng[0], rng[1])
		assert.True(t, IsRangeError(err), "Export %v", rng)
		assert.Equal(t, ErrBlockRange, KindOf(err))

		_, err = Load[types.TotalDifficulty](ctx, r, Difficulty, rng[0], rng[1])
		assert.True(t, IsRangeError(err), "Load %v", rng)
	}
	_, err := r.ReadEntry(ctx, Hashes, ^uint64(0))
	assert.True(t, IsRangeError(err))
	assert.Equal(t, opened, filesOpened.Value())
}

func TestReader_ReadIndex(t *testing.T) {
	dir := t.TempDir()
	entries := make([]testutil.Entry, 25)
	for i := range entries {
		switch {
		case i < 20:
			entries[i] = testutil.Entry{Offset: uint32(i * 48)}
		default:
			entries[i] = testutil.Entry{Offset: uint32(969 + (i-20)*50)}
		}
	}
	testutil.WriteIndex(t, filepath.Join(dir, Headers.IndexFile()), entries)
	r := newTestReader(t, dir)

	e, err := r.ReadEntry(context.Background(), Headers, 20)
	require.NoError(t, err)
	assert.Equal(t, IndexEntry{FileNumber: 0, Offset: 969}, e)

	got, err := r.ReadIndex(context.Background(), Headers, 18, 22)
	require.NoError(t, err)
	assert.Equal(t, []IndexEntry{{0, 864}, {0, 912}, {0, 969}, {0, 1019}}, got)

	_, err = r.ReadIndex(context.Background(), Headers, 20, 30)
	assert.ErrorIs(t, err, ErrReadFile)

	_, err = r.ReadIndex(context.Background(), Bodies, 0, 1)
	assert.ErrorIs(t, err, ErrOpenFile)
	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, filepath.Join(dir, "bodies.cidx"), fe.Path)
}

func TestParseIndexEntry(t *testing.T) {
	e, err := ParseIndexEntry([]byte{0x00, 0x02, 0x00, 0x00, 0x03, 0xc9})
	require.NoError(t, err)
	assert.Equal(t, IndexEntry{FileNumber: 2, Offset: 969}, e)

	_, err = ParseIndexEntry([]byte{0x00, 0x02, 0x00})
	assert.ErrorIs(t, err, ErrConversion)
}

func TestReader_ExportRollover(t *testing.T) {
	dir, b := buildRollover(t)
	r := newTestReader(t, dir)

	rr, err := r.Export(context.Background(), Difficulty, 2, 8)
	require.NoError(t, err)

	// Records after a rollover start at len(previous files) + offset - first offset.
	first := uint64(7)
	len0, len1 := uint64(b.FileSize(0)), uint64(b.FileSize(1))
	assert.Equal(t, []uint64{
		7 - first,
		12 - first,
		len0 + 0 - first,
		len0 + 7 - first,
		len0 + len1 + 0 - first,
		len0 + len1 + 9 - first,
	}, rr.Offsets)
	assert.Equal(t, []uint64{0, 5, 11, 18, 26, 35}, rr.Offsets)
	assert.Len(t, rr.Data, 45)

	require.Equal(t, 6, rr.Len())
	for i := 0; i < rr.Len(); i++ {
		assert.Equal(t, record(2+i), rr.Record(i), "block %d", 2+i)
	}
}

func TestReader_ExportRangeEdges(t *testing.T) {
	dir, _ := buildRollover(t)
	r := newTestReader(t, dir)
	ctx := context.Background()

	tests := []struct {
		name     string
		min, max uint64
	}{
		{"end entry in same file", 0, 2},
		{"end entry starts next file", 3, 4},
		{"single record after rollover", 4, 5},
		{"whole archive to head", 0, 10},
		{"last block only", 9, 10},
		{"spans every file", 1, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, err := r.Export(ctx, Difficulty, tt.min, tt.max)
			require.NoError(t, err)
			require.Equal(t, int(tt.max-tt.min), rr.Len())
			for i := 1; i < len(rr.Offsets); i++ {
				assert.Greater(t, rr.Offsets[i], rr.Offsets[i-1])
			}
			for i := 0; i < rr.Len(); i++ {
				assert.Equal(t, record(int(tt.min)+i), rr.Record(i))
			}
		})
	}
}

func TestReader_ExportErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("range past head", func(t *testing.T) {
		dir, _ := buildRollover(t)
		_, err := newTestReader(t, dir).Export(ctx, Difficulty, 8, 11)
		assert.ErrorIs(t, err, ErrReadFile)
	})
	t.Run("missing data file", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteIndex(t, filepath.Join(dir, Difficulty.IndexFile()), []testutil.Entry{{FileNumber: 0, Offset: 0}, {FileNumber: 0, Offset: 4}})
		_, err := newTestReader(t, dir).Export(ctx, Difficulty, 0, 1)
		assert.ErrorIs(t, err, ErrOpenFile)
		var fe *Error
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, filepath.Join(dir, "diffs.0000.rdat"), fe.Path)
	})
	t.Run("offset beyond file", func(t *testing.T) {
		dir := t.TempDir()
		b := testutil.NewArchiveBuilder(t, dir, Difficulty, nil, 0)
		b.Append(record(0))
		b.Finish()
		testutil.WriteIndex(t, filepath.Join(dir, Difficulty.IndexFile()), []testutil.Entry{{FileNumber: 0, Offset: 0}, {FileNumber: 0, Offset: 64}})
		_, err := newTestReader(t, dir).Export(ctx, Difficulty, 0, 1)
		assert.ErrorIs(t, err, ErrBlockOffset)
	})
	t.Run("offsets not increasing", func(t *testing.T) {
		dir := t.TempDir()
		b := testutil.NewArchiveBuilder(t, dir, Difficulty, nil, 0)
		b.Append(record(4))
		b.Finish()
		testutil.WriteIndex(t, filepath.Join(dir, Difficulty.IndexFile()), []testutil.Entry{{FileNumber: 0, Offset: 0}, {FileNumber: 0, Offset: 0}})
		_, err := newTestReader(t, dir).Export(ctx, Difficulty, 0, 2)
		assert.ErrorIs(t, err, ErrBlockOffset)
	})
	t.Run("cancelled", func(t *testing.T) {
		dir, _ := buildRollover(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := newTestReader(t, dir).Export(cctx, Difficulty, 0, 10)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, ErrCancelled, KindOf(err))
	})
}

func TestReader_EachStopsWhenCancelled(t *testing.T) {
	dir, _ := buildRollover(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seen []uint64
	err := newTestReader(t, dir).Each(ctx, Difficulty, 2, 9, func(block uint64, _ []byte) error {
		seen = append(seen, block)
		if block == 4 {
			cancel()
		}
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ErrCancelled, KindOf(err))

	var fe *Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, uint64(5), fe.Block)
	assert.Equal(t, []uint64{2, 3, 4}, seen)
	assert.Contains(t, err.Error(), "request cancelled (block 5)")
}

func TestReader_Schedule(t *testing.T) {
	dir, b := buildRollover(t)
	s, err := newTestReader(t, dir).Schedule(context.Background(), Difficulty, 2, 8)
	require.NoError(t, err)

	assert.Equal(t, []Job{
		{FileNumber: 0, Offsets: []uint64{7, 12, uint64(b.FileSize(0))}, Rollover: true},
		{FileNumber: 1, Offsets: []uint64{0, 7, uint64(b.FileSize(1))}, Rollover: true},
		{FileNumber: 2, Offsets: []uint64{0, 9}},
	}, s.Jobs)
	assert.Equal(t, 6, s.Records())
	assert.Equal(t, uint64(2), s.Min)
	assert.Equal(t, uint64(8), s.Max)
	// Block 8 starts file 3, so block 7 runs to the end of file 2.
	assert.Equal(t, uint64(10), s.LastRecordSize)
	assert.Equal(t, uint64(5+6+7+8+9+10), s.StoredBytes())

	for _, tc := range []struct {
		name     string
		min, max uint64
		last     uint64
		stored   uint64
	}{
		{"ends inside a file", 2, 7, 9, 5 + 6 + 7 + 8 + 9},
		{"single block", 6, 7, 9, 9},
		{"no end entry", 0, 10, 12, 75},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, err := newTestReader(t, dir).Schedule(context.Background(), Difficulty, tc.min, tc.max)
			require.NoError(t, err)
			assert.Equal(t, tc.last, s.LastRecordSize)
			assert.Equal(t, tc.stored, s.StoredBytes())

			rr, err := newTestReader(t, dir).Export(context.Background(), Difficulty, tc.min, tc.max)
			require.NoError(t, err)
			assert.Len(t, rr.Data, int(tc.stored), "Export reads what the schedule measures")
		})
	}

	_, err = NewSchedule(Difficulty, 0, []IndexEntry{{1, 0}, {0, 5}}, nil)
	assert.ErrorIs(t, err, ErrBlockOffset)
}

func TestDecompressor(t *testing.T) {
	d := decompressor{codec: snappyCodec(t)}
	rec := []byte{0x85, 0x0b, 0xfe, 0x80, 0x10, 0x00}

	for _, cat := range []Category{Hashes, Difficulty} {
		out, err := d.apply(cat, rec)
		require.NoError(t, err)
		assert.Same(t, &rec[0], &out[0], "%s is passed through", cat)
	}

	errs := decompressErrors.Value()
	assert.NotPanics(t, func() {
		_, err := d.apply(Bodies, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x01, 0x02})
		assert.Error(t, err)
	})
	assert.Equal(t, errs+1, decompressErrors.Value())
}

func TestWrapRaw(t *testing.T) {
	hash := bytes.Repeat([]byte{0x11}, 32)
	assert.Equal(t, append([]byte{0xa0}, hash...), wrapRaw(hash))

	long := bytes.Repeat([]byte{0x22}, 300)
	wrapped := wrapRaw(long)
	assert.Equal(t, []byte{0xb9, 0x01, 0x2c}, wrapped[:3])
	item, rest, err := rlp.Parse(wrapped)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, long, item.Payload)
}

func TestReader_CorruptCompressedRecord(t *testing.T) {
	dir := t.TempDir()
	b := testutil.NewArchiveBuilder(t, dir, Bodies, nil, 0)
	b.Append([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x01, 0x02})
	b.Finish()

	_, err := Load[types.Body](context.Background(), newTestReader(t, dir), Bodies, 0, 1)
	assert.ErrorIs(t, err, ErrDecompress)
	assert.ErrorIs(t, err, compressors.ErrCorrupt)
}

func TestLoad_Difficulty(t *testing.T) {
	dir := t.TempDir()
	b := testutil.NewArchiveBuilder(t, dir, Difficulty, nil, 8)
	want := []*big.Int{big.NewInt(17171480576), big.NewInt(51514445824), new(big.Int).Lsh(big.NewInt(1), 70)}
	for _, v := range want {
		enc, err := gethrlp.EncodeToBytes(v)
		require.NoError(t, err)
		b.Append(enc)
	}
	b.Finish()

	r := newTestReader(t, dir)
	assert.Equal(t, dir, r.Dir())
	loaded := recordsLoaded.Value()
	got, err := Load[types.TotalDifficulty](context.Background(), r, Difficulty, 0, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range want {
		assert.Equal(t, 0, want[i].Cmp(got[i].Value))
	}
	assert.Equal(t, loaded+3, recordsLoaded.Value())

	again, err := Load[types.TotalDifficulty](context.Background(), r, Difficulty, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestLoad_Hashes(t *testing.T) {
	dir := t.TempDir()
	b := testutil.NewArchiveBuilder(t, dir, Hashes, nil, 0)
	hashes := []common.Hash{common.HexToHash("0x01"), common.HexToHash("0xd4e56740f876aef8c010b86a40d5f56745a118d0906a34e69aec8c0db1cb8fa3")}
	for _, h := range hashes {
		b.Append(h.Bytes())
	}
	b.Finish()

	r := newTestReader(t, dir)
	blobs, err := r.Blobs(context.Background(), Hashes, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, byte(0xa0), blobs[1][0])

	got, err := Load[types.BlockHash](context.Background(), r, Hashes, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, hashes[1].Hex(), got[1].Hex())
}

func TestLoad_HeadersAndReceipts(t *testing.T) {
	dir := t.TempDir()
	codec := snappyCodec(t)

	hb := testutil.NewArchiveBuilder(t, dir, Headers, codec, 600)
	for i := 0; i < 4; i++ {
		enc, err := gethrlp.EncodeToBytes(&gethtypes.Header{
			Difficulty: big.NewInt(131072),
			Number:     big.NewInt(int64(i)),
			GasLimit:   5000,
			Time:       1438270000 + uint64(i),
			Extra:      []byte("xtra"),
		})
		require.NoError(t, err)
		hb.Append(enc)
	}
	hb.Finish()

	rb := testutil.NewArchiveBuilder(t, dir, Receipts, codec, 0)
	for i := 0; i < 2; i++ {
		enc, err := gethrlp.EncodeToBytes([]*gethtypes.ReceiptForStorage{
			{Status: gethtypes.ReceiptStatusSuccessful, CumulativeGasUsed: 21000 * uint64(i+1), Logs: []*gethtypes.Log{}},
		})
		require.NoError(t, err)
		rb.Append(enc)
	}
	rb.Finish()

	r := newTestReader(t, dir)
	headers, err := Load[types.Header](context.Background(), r, Headers, 1, 4)
	require.NoError(t, err)
	require.Len(t, headers, 3)
	for i, h := range headers {
		assert.Equal(t, int64(i+1), h.Number.Int64())
		assert.Equal(t, uint64(1438270001+i), h.Time)
		assert.Equal(t, []byte("xtra"), h.Extra)
	}

	receipts, err := Load[types.Receipts](context.Background(), r, Receipts, 0, 2)
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	assert.Equal(t, uint64(42000), (*receipts[1])[0].CumulativeGasUsed)
	assert.Equal(t, types.ReceiptStatusSuccessful, (*receipts[1])[0].Status)
}

func TestLoad_DecodeError(t *testing.T) {
	dir := t.TempDir()
	b := testutil.NewArchiveBuilder(t, dir, Difficulty, nil, 0)
	b.Append([]byte{0x01})
	b.Append([]byte{0xc1, 0x01})
	b.Finish()

	_, err := Load[types.TotalDifficulty](context.Background(), newTestReader(t, dir), Difficulty, 0, 2)
	assert.ErrorIs(t, err, ErrDecode)
	assert.ErrorIs(t, err, rlp.ErrUnexpectedMatch)
	var fe *Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, uint64(1), fe.Block)
	assert.Contains(t, err.Error(), "block 1")
}

func TestReader_Spans(t *testing.T) {
	dir, _ := buildRollover(t)
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	opts := DefaultOptions(dir)
	opts.Tracer = tp.Tracer("test")
	r, err := NewReader(opts)
	require.NoError(t, err)

	_, err = r.Blobs(context.Background(), Difficulty, 0, 3)
	require.NoError(t, err)
	_, err = r.Export(context.Background(), Headers, 0, 3)
	require.Error(t, err)

	var names []string
	var failed int
	for _, s := range sr.Ended() {
		names = append(names, s.Name())
		if s.Status().Code == codes.Error {
			failed++
		}
	}
	assert.ElementsMatch(t, []string{"Freezer.Export", "Freezer.Export"}, names)
	assert.Equal(t, 1, failed)
}
