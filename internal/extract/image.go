package extract

import (
	"context"
	"fmt"

	"github.com/Paranjay33/ai-notes-backend/constants"
	"github.com/Paranjay33/ai-notes-backend/internal/common"
)

func (e *Extractor) extractImage(ctx context.Context, path string) (Result, error) {
	txt, warn, err := e.tesseractOCR(ctx, path)
	if err != nil {
		return Result{SourceType: string(constants.FormatImage), Warnings: warn},
			common.NewUpstreamFailure("image ocr failed", err)
	}
	return Result{
		Text:       Normalize(txt),
		Pages:      1,
		SourceType: string(constants.FormatImage),
		Method:     "image-ocr",
		Language:   e.cfg.TesseractLang,
		Warnings:   warn,
	}, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil, nil
}
