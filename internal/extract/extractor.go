package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Paranjay33/ai-notes-backend/constants"
	"github.com/Paranjay33/ai-notes-backend/internal/common"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	TessdataDir   string

	DPI            int  // rasterization DPI for scanned PDFs, default 300
	MaxPages       int  // scanned-PDF page cap, 0 = no limit
	OCRWorkers     int  // concurrent page OCR limit, default 4
	PDFOCRFallback bool // rasterize+OCR PDFs whose text layer is empty

	StagingDir string // scratch file directory; "" = system temp
}

// ConfigFromApp maps the application extract section onto this package.
func ConfigFromApp(c common.ExtractConfig) Config {
	return Config{
		Pdftotext:      c.PdftotextBin,
		Pdftoppm:       c.PdftoppmBin,
		Tesseract:      c.TesseractBin,
		TesseractLang:  c.TesseractLang,
		TessdataDir:    c.TessdataDir,
		DPI:            c.OCRDPI,
		MaxPages:       c.OCRMaxPages,
		OCRWorkers:     c.OCRWorkers,
		PDFOCRFallback: c.PDFOCRFallback,
		StagingDir:     c.StagingDir,
	}
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

var _ TextExtractor = (*Extractor)(nil)

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.OCRWorkers <= 0 {
		cfg.OCRWorkers = 4
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Extract picks a strategy based on the document name's extension.
// Structured formats are staged to a scratch file for the path-based
// decoders; the scratch file is removed on every exit path. The returned
// text is whitespace-trimmed; empty text is not an error here.
func (e *Extractor) Extract(ctx context.Context, doc Document) (Result, error) {
	start := time.Now()
	ext := constants.ExtOf(doc.Name)
	format, ok := constants.FormatOf(doc.Name)
	if !ok {
		e.logger.Error("extract.unsupported", "name", doc.Name, "ext", ext)
		return Result{}, common.NewUnsupportedFormat(fmt.Sprintf("unrecognized file extension %q", ext))
	}
	e.logger.Debug("extract.start", "name", doc.Name, "format", string(format), "bytes", len(doc.Content))

	var res Result
	var err error
	switch format {
	case constants.FormatText:
		res = e.extractText(doc)
	default:
		var path string
		var cleanup func()
		path, cleanup, err = e.stage(doc, ext)
		if err != nil {
			return Result{}, common.NewInternal("stage document", err)
		}
		defer cleanup()
		if format == constants.FormatPDF {
			res, err = e.extractPDF(ctx, path)
		} else {
			res, err = e.extractImage(ctx, path)
		}
	}
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}

	res.Text = strings.TrimSpace(res.Text)
	e.logger.Info("extract.ok",
		"name", doc.Name,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"warnings", len(res.Warnings),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
