package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Paranjay33/ai-notes-backend/internal/common"
	"github.com/Paranjay33/ai-notes-backend/internal/extract"
	"github.com/Paranjay33/ai-notes-backend/internal/llm"
)

// DefaultMaxPromptChars caps how much document text reaches the prompt.
const DefaultMaxPromptChars = 15000

// Pipeline runs one document end to end: extract, build the prompt,
// complete, validate. Stateless across requests, safe for concurrent use.
type Pipeline struct {
	logger    *slog.Logger
	extractor extract.TextExtractor
	completer llm.Completer
	maxChars  int
}

func New(extractor extract.TextExtractor, completer llm.Completer, maxChars int, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxPromptChars
	}
	return &Pipeline{
		logger:    logger,
		extractor: extractor,
		completer: completer,
		maxChars:  maxChars,
	}
}

// Process turns one uploaded document plus a mode string into validated
// study material. Every failure comes back carrying exactly one
// common.Kind classification.
func (p *Pipeline) Process(ctx context.Context, doc extract.Document, mode string) (llm.Result, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
		ctx = common.WithRequestID(ctx, rid)
	}
	start := time.Now()

	// Resolve the mode first so a bad request never reaches the model.
	spec, err := llm.Resolve(mode)
	if err != nil {
		p.logger.Error("pipeline.mode.invalid", "req_id", rid, "mode", mode)
		return llm.Result{}, common.Classify(err)
	}

	res, err := p.extractor.Extract(ctx, doc)
	if err != nil {
		p.logger.Error("pipeline.extract.failed", "req_id", rid, "name", doc.Name, "err", err)
		return llm.Result{}, common.Classify(err)
	}
	text := strings.TrimSpace(res.Text)
	if text == "" {
		p.logger.Warn("pipeline.extract.empty", "req_id", rid, "name", doc.Name, "method", res.Method)
		return llm.Result{}, common.NewEmptyExtraction()
	}
	p.logger.Info("pipeline.extract.ok",
		"req_id", rid,
		"name", doc.Name,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(text),
	)

	text, truncated := truncateRunes(text, p.maxChars)
	if truncated {
		p.logger.Warn("pipeline.prompt.truncated", "req_id", rid, "max_chars", p.maxChars)
	}
	prompt := spec.BuildPrompt(text)
	p.logger.Debug("pipeline.prompt.built",
		"req_id", rid,
		"mode", string(spec.Mode),
		"prompt_len", len(prompt),
		"truncated", truncated,
	)

	raw, err := p.completer.Complete(ctx, spec.System, prompt)
	if err != nil {
		p.logger.Error("pipeline.complete.failed",
			"req_id", rid, "err", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Result{}, common.NewUpstreamFailure("completion failed", err)
	}

	result, err := llm.Validate(raw, spec)
	if err != nil {
		p.logger.Error("pipeline.validate.failed",
			"req_id", rid, "err", err, "content_len", len(raw),
		)
		return llm.Result{}, common.Classify(err)
	}

	p.logger.Info("pipeline.done",
		"req_id", rid,
		"mode", string(spec.Mode),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// truncateRunes caps s at max runes. Text of exactly max length passes
// through untouched.
func truncateRunes(s string, max int) (string, bool) {
	runes := []rune(s)
	if len(runes) <= max {
		return s, false
	}
	return string(runes[:max]), true
}
