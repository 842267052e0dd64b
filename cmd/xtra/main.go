// Command xtra exports records from a geth freezer directory as JSON.
//
// Usage:
//
//	xtra [flags] CATEGORY RANGE
//	xtra [flags] FOLDER CATEGORY RANGE OUTPUT
//
// CATEGORY is one of b|body, h|header, d|difficulty, hash, r|receipt.
// RANGE is a block number N or a range N-M excluding M.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/INLOpen/xtra/compressors"
	"github.com/INLOpen/xtra/config"
	"github.com/INLOpen/xtra/freezer"
	"github.com/INLOpen/xtra/server"
	"github.com/INLOpen/xtra/sys"
)

const usage = `Usage: xtra [flags] CATEGORY RANGE
       xtra [flags] FOLDER CATEGORY RANGE OUTPUT

FOLDER              the geth freezer folder, usually chaindata/ancient/chain

CATEGORY
    b, body         block bodies
    h, header       block headers
    d, difficulty   total difficulty
    hash            block hashes
    r, receipt      transaction receipts

RANGE
    number          the single block with this number
    number-number   the block range, excluding the last number

OUTPUT
    -               print to stdout
    file            write to file

Flags:
`

// command is a parsed invocation.
type command struct {
	mode     string
	category freezer.Category
	blocks   blockRange
	bitmap   string
	cfg      *config.Config
}

func parseArgs(args []string, stderr io.Writer) (*command, error) {
	fs := flag.NewFlagSet("xtra", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "xtra.yaml", "Path to the configuration file")
	mode := fs.String("mode", "export", "What to do with the range: export, plan or stats")
	dir := fs.String("dir", "", "Freezer directory (overrides freezer.dir)")
	out := fs.String("out", "", "Output file, - for stdout (overrides export.output)")
	compression := fs.String("compression", "", "Codec of compressed tables (overrides freezer.compression)")
	pretty := fs.String("pretty", "", "Indent JSON: auto, always or never (overrides export.pretty)")
	batch := fs.Uint64("batch", 0, "Blocks per request (overrides export.batch_size)")
	workers := fs.Int("workers", 0, "Batches decoded concurrently (overrides export.workers)")
	logLevel := fs.String("log-level", "", "trace, debug, info, warn or error (overrides logging.level)")
	logOutput := fs.String("log-output", "", "stdout, stderr, file or none (overrides logging.output)")
	bitmap := fs.String("bitmap", "", "stats mode: write the roaring bitmap of blocks with content to this file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return nil, err
	}

	rest := fs.Args()
	switch len(rest) {
	case 2:
	case 4:
		cfg.Freezer.Dir, cfg.Export.Output = rest[0], rest[3]
		rest = rest[1:3]
	default:
		fs.Usage()
		return nil, fmt.Errorf("expected 2 or 4 arguments, got %d", len(rest))
	}

	for flagValue, target := range map[*string]*string{
		dir:         &cfg.Freezer.Dir,
		out:         &cfg.Export.Output,
		compression: &cfg.Freezer.Compression,
		pretty:      &cfg.Export.Pretty,
		logLevel:    &cfg.Logging.Level,
		logOutput:   &cfg.Logging.Output,
	} {
		if *flagValue != "" {
			*target = *flagValue
		}
	}
	if *batch > 0 {
		cfg.Export.BatchSize = *batch
	}
	if *workers > 0 {
		cfg.Export.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cat, err := freezer.ParseCategory(rest[0])
	if err != nil {
		return nil, err
	}
	blocks, err := parseRange(rest[1])
	if err != nil {
		return nil, err
	}
	switch *mode {
	case "export", "plan", "stats":
	default:
		return nil, fmt.Errorf("unknown mode %q", *mode)
	}
	return &command{mode: *mode, category: cat, blocks: blocks, bitmap: *bitmap, cfg: cfg}, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	cfg := cmd.cfg

	logger, logCloser, err := createLogger(cfg.Logging, stdout, stderr)
	if err != nil {
		return err
	}
	if logCloser != nil {
		defer logCloser.Close()
	}
	slog.SetDefault(logger)
	if logger.Enabled(ctx, slog.LevelDebug) {
		sys.SetDebugMode(true)
		defer func() {
			sys.SetDebugMode(false)
			if open := sys.OpenHandles(); len(open) > 0 {
				logger.Warn("Files left open", "files", open)
			}
		}()
	}

	if cfg.Debug.Enabled {
		metricSrv := server.NewMetricsServer(cfg.Debug, logger)
		go func() {
			if err := metricSrv.Start(); err != nil {
				logger.Error("Failed to start metrics server", "error", err)
			}
		}()
		defer metricSrv.Stop()

		collector := server.NewSystemCollector(cfg.Freezer.Dir, config.ParseDuration(cfg.Debug.CollectInterval, 5*time.Second, logger), logger)
		collector.Start()
		defer collector.Stop()
	}

	tp, tracerCleanup, err := initTracerProvider(cfg.Tracing, logger)
	if err != nil {
		return err
	}
	defer tracerCleanup()

	codec, err := compressors.ParseType(cfg.Freezer.Compression)
	if err != nil {
		return err
	}
	reader, err := freezer.NewReader(freezer.Options{
		Dir:            cfg.Freezer.Dir,
		Compression:    codec,
		MaxRecordSize:  cfg.Freezer.MaxRecordSize,
		SequentialHint: cfg.Freezer.SequentialHint,
		Logger:         logger.With("component", "FreezerReader"),
		Tracer:         tp.Tracer("github.com/INLOpen/xtra/freezer"),
	})
	if err != nil {
		return err
	}
	logger.Info("Reading freezer", "dir", reader.Dir(), "category", cmd.category, "range", cmd.blocks.String(), "mode", cmd.mode)

	switch cmd.mode {
	case "plan":
		return runPlan(ctx, reader, cmd, stdout)
	case "stats":
		return runStats(ctx, reader, cmd, stdout, logger)
	default:
		return runExport(ctx, reader, cmd, stdout, logger)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "xtra: %v\n", err)
		stop()
		os.Exit(1)
	}
}
