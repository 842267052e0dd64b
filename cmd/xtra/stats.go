package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/INLOpen/xtra/freezer"
	"github.com/INLOpen/xtra/inspect"
	"github.com/INLOpen/xtra/sys"
	"golang.org/x/sync/errgroup"
)

// runStats summarises the range batch by batch and prints the merged result.
func runStats(ctx context.Context, r *freezer.Reader, cmd *command, stdout io.Writer, logger *slog.Logger) error {
	batches := cmd.blocks.batches(cmd.cfg.Export.BatchSize)
	parts := make([]*inspect.Collector, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cmd.cfg.Export.Workers)
	for i, b := range batches {
		g.Go(func() error {
			c, err := inspect.Collect(gctx, r, cmd.category, b.min, b.max)
			if err != nil {
				return err
			}
			parts[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	total, err := inspect.NewCollector(cmd.category)
	if err != nil {
		return err
	}
	for _, c := range parts {
		if err := total.Merge(c); err != nil {
			return err
		}
	}

	if cmd.bitmap != "" {
		f, err := sys.Create(cmd.bitmap)
		if err != nil {
			return fmt.Errorf("failed to create bitmap file %s: %w", cmd.bitmap, err)
		}
		n, err := total.WriteBitmap(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("failed to write bitmap file %s: %w", cmd.bitmap, err)
		}
		logger.Info("Wrote content bitmap", "path", cmd.bitmap, "bytes", n)
	}

	s := total.Summary()
	w := tabwriter.NewWriter(stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "category\t%s\n", s.Category)
	fmt.Fprintf(w, "range\t%s\n", cmd.blocks)
	fmt.Fprintf(w, "records\t%d\n", s.Records)
	fmt.Fprintf(w, "with content\t%d\n", s.WithContent)
	fmt.Fprintf(w, "stored bytes\t%d\n", s.StoredBytes)
	fmt.Fprintf(w, "decoded bytes\t%d\n", s.DecodedBytes)
	fmt.Fprintf(w, "ratio\t%.2f\n", s.Ratio)
	fmt.Fprintf(w, "p50 / p90 / p99\t%.0f / %.0f / %.0f\n", s.P50, s.P90, s.P99)
	fmt.Fprintf(w, "largest\t%d (block %d)\n", s.Largest, s.LargestBlock)
	return w.Flush()
}
