package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Paranjay33/ai-notes-backend/internal/common"
	"github.com/Paranjay33/ai-notes-backend/internal/extract"
	"github.com/Paranjay33/ai-notes-backend/internal/llm"
)

// Processor is the part of the pipeline the HTTP shell depends on.
type Processor interface {
	Process(ctx context.Context, doc extract.Document, mode string) (llm.Result, error)
}

// Server is the HTTP transport shell: it parses uploads, runs the
// pipeline, and maps result or classification onto status codes. All
// domain decisions stay in the pipeline.
type Server struct {
	cfg    common.ServerConfig
	pipe   Processor
	logger *slog.Logger
}

func New(cfg common.ServerConfig, pipe Processor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 20
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}
	return &Server{cfg: cfg, pipe: pipe, logger: logger}
}

// Handler assembles the route table wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/process", s.handleProcess)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return s.withRequestID(s.withCORS(s.withAccessLog(mux)))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleProcess accepts a multipart form with a "file" part and an
// optional "mode" field (default "summary") and answers with the result
// envelope or the uniform error envelope.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadMB<<20)

	if err := r.ParseMultipartForm(s.cfg.MaxUploadMB << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeEnvelope(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		s.writeEnvelope(w, http.StatusBadRequest, "expected multipart form data")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeEnvelope(w, http.StatusBadRequest, "file is required")
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		s.writeEnvelope(w, http.StatusBadRequest, "could not read upload")
		return
	}

	mode := r.FormValue("mode")
	if mode == "" {
		mode = "summary"
	}

	doc := extract.Document{Name: header.Filename, Content: content}
	result, err := s.pipe.Process(r.Context(), doc, mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// writeError maps the error classification onto an HTTP status: client
// faults answer 400, everything else 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := common.Classify(err)
	status := http.StatusInternalServerError
	if appErr.Kind.ClientFault() {
		status = http.StatusBadRequest
	}
	s.logger.Warn("http.process.failed",
		"req_id", common.RequestIDFromContext(r.Context()),
		"kind", string(appErr.Kind),
		"status", status,
	)
	s.writeJSON(w, status, common.ErrorEnvelope{Error: appErr.Detail()})
}

func (s *Server) writeEnvelope(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, common.ErrorEnvelope{Error: detail})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("http.write_response_failed", "error", err)
	}
}
