package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Paranjay33/ai-notes-backend/internal/common"
	"github.com/Paranjay33/ai-notes-backend/internal/export"
	"github.com/Paranjay33/ai-notes-backend/internal/extract"
	"github.com/Paranjay33/ai-notes-backend/internal/pipeline"
)

// Runner handles queue jobs: it runs one file through the pipeline and
// writes the result envelope into the output directory. Failures write
// the same uniform envelope a client of the HTTP API would see.
type Runner struct {
	pipe     *pipeline.Pipeline
	exporter *export.Service
	logger   *slog.Logger
	outDir   string
	asXLSX   bool
}

func NewRunner(pipe *pipeline.Pipeline, exporter *export.Service, outDir string, asXLSX bool, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{pipe: pipe, exporter: exporter, logger: logger, outDir: outDir, asXLSX: asXLSX}
}

// Handle implements the queue Handler.
func (r *Runner) Handle(ctx context.Context, job Job) error {
	data, err := os.ReadFile(job.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", job.Path, err)
	}

	doc := extract.Document{Name: filepath.Base(job.Path), Content: data}
	result, procErr := r.pipe.Process(ctx, doc, job.Mode)

	outBase := r.outputBase(job)
	if procErr != nil {
		envelope := common.EnvelopeFor(procErr)
		if wErr := writeJSONFile(outBase+".json", envelope); wErr != nil {
			return fmt.Errorf("write failure envelope: %w", wErr)
		}
		return procErr
	}

	if err := writeJSONFile(outBase+".json", result); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if r.asXLSX && r.exporter != nil {
		xlsx, xErr := r.exporter.StudySetXLSX(result)
		if xErr != nil {
			return fmt.Errorf("export xlsx: %w", xErr)
		}
		if err := os.WriteFile(outBase+".xlsx", xlsx, 0o644); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
	}
	return nil
}

func (r *Runner) outputBase(job Job) string {
	base := filepath.Base(job.Path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return filepath.Join(r.outDir, base+"."+job.Mode)
}

func writeJSONFile(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
