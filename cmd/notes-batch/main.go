package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/Paranjay33/ai-notes-backend/constants"
	"github.com/Paranjay33/ai-notes-backend/internal/batch"
	"github.com/Paranjay33/ai-notes-backend/internal/common"
	"github.com/Paranjay33/ai-notes-backend/internal/export"
	"github.com/Paranjay33/ai-notes-backend/internal/extract"
	"github.com/Paranjay33/ai-notes-backend/internal/ingest"
	"github.com/Paranjay33/ai-notes-backend/internal/llm/openai"
	"github.com/Paranjay33/ai-notes-backend/internal/pipeline"
)

func main() {
	// Parse CLI flags
	var (
		dir     = flag.String("dir", "", "directory of documents to process (required)")
		mode    = flag.String("mode", "summary", "study mode: summary, flashcards or quiz")
		outDir  = flag.String("out-dir", "", "output directory (defaults to a study-material sibling of -dir)")
		watch   = flag.Bool("watch", false, "keep watching the directory for new files")
		workers = flag.Int("workers", 4, "concurrent pipeline workers")
		asXLSX  = flag.Bool("xlsx", false, "also write an XLSX workbook per document")
	)
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if *dir == "" {
		logger.Error("usage", "cmd", "notes-batch -dir <path> [-mode summary|flashcards|quiz] [-out-dir <path>] [-watch] [-xlsx]")
		os.Exit(2)
	}
	if _, ok := constants.ParseMode(*mode); !ok {
		logger.Error("unknown mode", "mode", *mode, "valid", constants.Modes())
		os.Exit(2)
	}

	// If output directory not specified, use a sibling of the input directory
	if *outDir == "" {
		*outDir = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "study-material")
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		logger.Error("create output directory", "path", *outDir, "error", err)
		os.Exit(1)
	}

	cfg, err := common.LoadConfig("")
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wire the pipeline and the per-file runner
	extractor := extract.NewExtractor(extract.ConfigFromApp(cfg.Extract), logger)
	completer := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	pipe := pipeline.New(extractor, completer, cfg.LLM.MaxPromptChars, logger)
	runner := batch.NewRunner(pipe, export.NewService(logger), *outDir, *asXLSX, logger)

	var processed, failed atomic.Int64
	handler := func(ctx context.Context, job batch.Job) error {
		if err := runner.Handle(ctx, job); err != nil {
			failed.Add(1)
			return err
		}
		processed.Add(1)
		return nil
	}
	queue := batch.NewQueue(handler, logger, batch.WithWorkers(*workers))

	// Initial scan
	files, stats, err := ingest.ScanDirectory(*dir, nil, true)
	if err != nil {
		logger.Error("scan directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	logger.Info("scan complete", "dir", *dir, "scanned", stats.Scanned, "matched", stats.Matched)
	for _, path := range files {
		if err := queue.Enqueue(ctx, batch.Job{Path: path, Mode: *mode}); err != nil {
			logger.Error("enqueue", "path", path, "error", err)
		}
	}

	if *watch {
		events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{Roots: []string{*dir}})
		if err != nil {
			logger.Error("start watcher", "dir", *dir, "error", err)
			os.Exit(1)
		}
		logger.Info("watching", "dir", *dir, "out_dir", *outDir)

	loop:
		for {
			select {
			case path, ok := <-events:
				if !ok {
					break loop
				}
				if err := queue.Enqueue(ctx, batch.Job{Path: path, Mode: *mode}); err != nil {
					logger.Error("enqueue", "path", path, "error", err)
				}
			case werr, ok := <-errs:
				if ok && werr != nil {
					logger.Error("watcher", "error", werr)
				}
			case <-ctx.Done():
				break loop
			}
		}
		logger.Info("shutting down...")
	}

	// Drain the queue before reporting
	drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	queue.Shutdown(drainCtx)

	logger.Info("batch processing complete",
		"files_matched", stats.Matched,
		"files_processed", processed.Load(),
		"failures", failed.Load(),
		"out_dir", *outDir)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files matched: %d\n", stats.Matched)
	fmt.Printf("- Files processed: %d\n", processed.Load())
	fmt.Printf("- Failures: %d\n", failed.Load())
	fmt.Printf("- Output: %s\n", *outDir)
}
