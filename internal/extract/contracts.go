package extract

import (
	"context"
	"time"
)

// Document is an uploaded file held in memory. The name drives format
// dispatch; the content is what gets decoded.
type Document struct {
	Name    string
	Content []byte
}

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, doc Document) (Result, error)
}

// Result carries the extracted text plus diagnostics.
type Result struct {
	Text       string
	Pages      int
	SourceType string // "PDF" | "IMAGE" | "TEXT"
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr" | "plain-text"
	Language   string
	Duration   time.Duration
	Warnings   []string
}
