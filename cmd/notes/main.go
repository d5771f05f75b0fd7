package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Paranjay33/ai-notes-backend/constants"
	"github.com/Paranjay33/ai-notes-backend/internal/common"
	"github.com/Paranjay33/ai-notes-backend/internal/export"
	"github.com/Paranjay33/ai-notes-backend/internal/extract"
	"github.com/Paranjay33/ai-notes-backend/internal/llm/openai"
	"github.com/Paranjay33/ai-notes-backend/internal/pipeline"
)

func main() {
	// Parse CLI flags
	var (
		file   = flag.String("file", "", "document to process (required)")
		mode   = flag.String("mode", "summary", "study mode: summary, flashcards or quiz")
		out    = flag.String("out", "", "output path (defaults to stdout)")
		asXLSX = flag.Bool("xlsx", false, "write an XLSX workbook instead of JSON (requires -out)")
	)
	flag.Parse()

	// Logger on stderr so stdout stays clean for the result
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if *file == "" {
		logger.Error("usage", "cmd", "notes -file <path> [-mode summary|flashcards|quiz] [-out <path>] [-xlsx]")
		os.Exit(2)
	}
	if _, ok := constants.ParseMode(*mode); !ok {
		logger.Error("unknown mode", "mode", *mode, "valid", constants.Modes())
		os.Exit(2)
	}
	if *asXLSX && *out == "" {
		logger.Error("-xlsx requires -out")
		os.Exit(2)
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

	data, err := os.ReadFile(*file)
	if err != nil {
		logger.Error("read file", "path", *file, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	extractor := extract.NewExtractor(extract.ConfigFromApp(cfg.Extract), logger)
	completer := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	pipe := pipeline.New(extractor, completer, cfg.LLM.MaxPromptChars, logger)

	start := time.Now()
	result, err := pipe.Process(ctx, extract.Document{Name: filepath.Base(*file), Content: data}, *mode)
	if err != nil {
		logger.Error("processing failed", "file", *file, "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	var payload []byte
	if *asXLSX {
		payload, err = export.NewService(logger).StudySetXLSX(result)
		if err != nil {
			logger.Error("xlsx export failed", "error", err)
			os.Exit(1)
		}
	} else {
		payload, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			logger.Error("encode result", "error", err)
			os.Exit(1)
		}
		payload = append(payload, '\n')
	}

	if *out == "" {
		if _, err := os.Stdout.Write(payload); err != nil {
			logger.Error("write stdout", "error", err)
			os.Exit(1)
		}
		return
	}
	if err := os.WriteFile(*out, payload, 0644); err != nil {
		logger.Error("write output file", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("done", "file", *file, "mode", *mode, "output", *out, "duration_ms", time.Since(start).Milliseconds())
}
