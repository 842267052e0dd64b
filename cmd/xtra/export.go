package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/INLOpen/xtra/freezer"
	"github.com/INLOpen/xtra/server"
	"github.com/INLOpen/xtra/sys"
	"github.com/INLOpen/xtra/types"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// marshalFunc encodes one record.
type marshalFunc func(v any) ([]byte, error)

func compactJSON(v any) ([]byte, error) { return json.Marshal(v) }

func indentedJSON(v any) ([]byte, error) { return json.MarshalIndent(v, "  ", "  ") }

func encodeAll[T any](items []*T, marshal marshalFunc) ([][]byte, error) {
	out := make([][]byte, len(items))
	for i, item := range items {
		b, err := marshal(item)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// encodeRange decodes [min, max) into the record type of cat and encodes
// every record.
func encodeRange(ctx context.Context, r *freezer.Reader, cat freezer.Category, rng blockRange, marshal marshalFunc) ([][]byte, error) {
	switch cat {
	case freezer.Bodies:
		items, err := freezer.Load[types.Body](ctx, r, cat, rng.min, rng.max)
		if err != nil {
			return nil, err
		}
		return encodeAll(items, marshal)
	case freezer.Headers:
		items, err := freezer.Load[types.Header](ctx, r, cat, rng.min, rng.max)
		if err != nil {
			return nil, err
		}
		return encodeAll(items, marshal)
	case freezer.Hashes:
		items, err := freezer.Load[types.BlockHash](ctx, r, cat, rng.min, rng.max)
		if err != nil {
			return nil, err
		}
		return encodeAll(items, marshal)
	case freezer.Difficulty:
		items, err := freezer.Load[types.TotalDifficulty](ctx, r, cat, rng.min, rng.max)
		if err != nil {
			return nil, err
		}
		return encodeAll(items, marshal)
	case freezer.Receipts:
		items, err := freezer.Load[types.Receipts](ctx, r, cat, rng.min, rng.max)
		if err != nil {
			return nil, err
		}
		return encodeAll(items, marshal)
	default:
		return nil, fmt.Errorf("no record type for category %s", cat)
	}
}

// openOutput returns the writer for target, which is "-" for stdout.
func openOutput(target string, stdout io.Writer) (io.Writer, func() error, error) {
	if target == "" || target == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := sys.Create(target)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file %s: %w", target, err)
	}
	return f, f.Close, nil
}

// wantPretty resolves the pretty setting for the chosen output.
func wantPretty(setting, target string, stdout io.Writer) bool {
	switch strings.ToLower(setting) {
	case "always":
		return true
	case "never":
		return false
	}
	if target != "" && target != "-" {
		return false
	}
	f, ok := stdout.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// jsonArrayWriter streams records as the elements of one JSON array.
type jsonArrayWriter struct {
	w      *bufio.Writer
	count  int
	pretty bool
}

func newJSONArrayWriter(w io.Writer, pretty bool) (*jsonArrayWriter, error) {
	aw := &jsonArrayWriter{w: bufio.NewWriterSize(w, 1<<20), pretty: pretty}
	_, err := aw.w.WriteString("[")
	return aw, err
}

func (aw *jsonArrayWriter) write(record []byte) error {
	sep := ","
	if aw.count == 0 {
		sep = ""
	}
	if aw.pretty {
		sep += "\n  "
	}
	if _, err := aw.w.WriteString(sep); err != nil {
		return err
	}
	aw.count++
	_, err := aw.w.Write(record)
	return err
}

func (aw *jsonArrayWriter) close() error {
	end := "]\n"
	if aw.pretty && aw.count > 0 {
		end = "\n]\n"
	}
	if _, err := aw.w.WriteString(end); err != nil {
		return err
	}
	return aw.w.Flush()
}

// preflight warns when a window of concurrent batches may not fit in memory.
func preflight(ctx context.Context, r *freezer.Reader, cmd *command, window []blockRange, logger *slog.Logger) {
	if !cmd.cfg.Debug.MemoryCheck || len(window) == 0 {
		return
	}
	sched, err := r.Schedule(ctx, cmd.category, window[0].min, window[len(window)-1].max)
	if err != nil {
		logger.Debug("Memory preflight skipped", "error", err)
		return
	}
	// Decompressed and decoded records take a multiple of the stored size.
	needed := sched.StoredBytes()
	if cmd.category.Compressed() {
		needed *= 4
	}
	check, err := server.CheckMemory(needed)
	if err != nil {
		logger.Debug("Memory preflight skipped", "error", err)
		return
	}
	if !check.Fits() {
		logger.Warn("Batch window may exceed available memory; lower export.batch_size or export.workers", "check", check.String())
	}
}

func runExport(ctx context.Context, r *freezer.Reader, cmd *command, stdout io.Writer, logger *slog.Logger) (err error) {
	out, closeOut, err := openOutput(cmd.cfg.Export.Output, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); err == nil {
			err = cerr
		}
	}()

	pretty := wantPretty(cmd.cfg.Export.Pretty, cmd.cfg.Export.Output, stdout)
	marshal := marshalFunc(compactJSON)
	if pretty {
		marshal = indentedJSON
	}
	aw, err := newJSONArrayWriter(out, pretty)
	if err != nil {
		return err
	}

	batches := cmd.blocks.batches(cmd.cfg.Export.BatchSize)
	workers := cmd.cfg.Export.Workers
	for start := 0; start < len(batches); start += workers {
		window := batches[start:min(start+workers, len(batches))]
		preflight(ctx, r, cmd, window, logger)

		results := make([][][]byte, len(window))
		g, gctx := errgroup.WithContext(ctx)
		for i, b := range window {
			g.Go(func() error {
				records, err := encodeRange(gctx, r, cmd.category, b, marshal)
				if err != nil {
					return err
				}
				results[i] = records
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		// Batches are written in block order.
		for _, records := range results {
			for _, rec := range records {
				if err := aw.write(rec); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
		}
		logger.Info("Exported batches", "through_block", window[len(window)-1].max-1, "records", aw.count)
	}
	if err := aw.close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Info("Finished successfully", "records", aw.count)
	return nil
}
