package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/sync/errgroup"

	"github.com/Paranjay33/ai-notes-backend/constants"
	"github.com/Paranjay33/ai-notes-backend/internal/common"
)

// extractPDF reads the text layer first and, when the document turns out
// to be a scan with no text layer, optionally rasterizes and OCRs it.
func (e *Extractor) extractPDF(ctx context.Context, path string) (Result, error) {
	text, pages, warns, err := e.pdfToText(ctx, path)
	if err != nil {
		detail := e.diagnosePDF(path)
		return Result{SourceType: string(constants.FormatPDF), Warnings: warns},
			common.NewUpstreamFailure(detail, err)
	}

	// pdftotext separates pages with \f; pages join with a newline.
	text = strings.ReplaceAll(text, "\f", "\n")
	res := Result{
		Text:       text,
		Pages:      pages,
		SourceType: string(constants.FormatPDF),
		Method:     "pdf-text",
		Warnings:   warns,
	}

	if strings.TrimSpace(text) == "" && e.cfg.PDFOCRFallback {
		e.logger.Info("extract.pdf.empty_text_layer", "path", path, "pages", pages)
		ocrText, ocrPages, ocrWarns, ocrErr := e.pdfToOCR(ctx, path)
		if ocrErr != nil {
			return res, common.NewUpstreamFailure("scanned pdf ocr failed", ocrErr)
		}
		res.Text = ocrText
		res.Pages = ocrPages
		res.Method = "pdf-ocr"
		res.Language = e.cfg.TesseractLang
		res.Warnings = append(res.Warnings, ocrWarns...)
	}
	return res, nil
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, []string{string(errb)}, err
	}
	text = string(out)
	// A form-feed \f is used as page separator by default
	pages = 1 + strings.Count(text, "\f")
	return text, pages, nil, nil
}

// diagnosePDF distinguishes a corrupt document from a decoder fault once
// pdftotext has already failed.
func (e *Extractor) diagnosePDF(path string) string {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Sprintf("invalid or corrupt pdf: %s", truncate(err.Error(), 512))
	}
	return "pdf text extraction failed"
}

// pdfToOCR rasterizes each page and OCRs them with bounded concurrency.
// A page that fails OCR degrades to a warning; the document fails only
// when rasterization itself does.
func (e *Extractor) pdfToOCR(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	tmpDir, err := os.MkdirTemp(e.cfg.StagingDir, "notes-pp-*")
	if err != nil {
		return "", 0, nil, err
	}
	defer func(dir string) {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			e.logger.Warn("raster cleanup failed", "dir", dir, "error", rmErr)
		}
	}(tmpDir)

	var warns []string
	if count, cErr := api.PageCountFile(path); cErr != nil {
		warns = append(warns, fmt.Sprintf("page count: %v", cErr))
	} else if e.cfg.MaxPages > 0 && count > e.cfg.MaxPages {
		e.logger.Warn("extract.pdf.page_cap", "pages", count, "max_pages", e.cfg.MaxPages)
		warns = append(warns, fmt.Sprintf("document has %d pages, ocr capped at %d", count, e.cfg.MaxPages))
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", strconv.Itoa(e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", 0, append(warns, string(errb)), err
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, append(warns, "pdftoppm produced no images"), fmt.Errorf("no pages rendered")
	}

	texts := make([]string, len(matches))
	pageWarns := make([][]string, len(matches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.OCRWorkers)
	for i, img := range matches {
		g.Go(func() error {
			pageText, w, ocrErr := e.tesseractOCR(gctx, img)
			if ocrErr != nil {
				pageWarns[i] = append(w, ocrErr.Error())
				return nil
			}
			texts[i] = pageText
			pageWarns[i] = w
			return nil
		})
	}
	_ = g.Wait()

	var b strings.Builder
	for i, t := range texts {
		warns = append(warns, pageWarns[i]...)
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(t)
	}
	return Normalize(b.String()), len(matches), warns, nil
}
