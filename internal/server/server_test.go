package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paranjay33/ai-notes-backend/internal/common"
	"github.com/Paranjay33/ai-notes-backend/internal/extract"
	"github.com/Paranjay33/ai-notes-backend/internal/llm"
)

type stubProcessor struct {
	result   llm.Result
	err      error
	lastDoc  extract.Document
	lastMode string
	calls    int
}

func (s *stubProcessor) Process(_ context.Context, doc extract.Document, mode string) (llm.Result, error) {
	s.calls++
	s.lastDoc = doc
	s.lastMode = mode
	return s.result, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, pipe Processor, cfg common.ServerConfig) http.Handler {
	t.Helper()
	return New(cfg, pipe, testLogger()).Handler()
}

// multipartBody builds a form upload with a file part and an optional
// mode field.
func multipartBody(t *testing.T, filename string, content []byte, mode string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	if mode != "" {
		require.NoError(t, mw.WriteField("mode", mode))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func postProcess(t *testing.T, handler http.Handler, filename string, content []byte, mode string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, filename, content, mode)
	req := httptest.NewRequest(http.MethodPost, "/api/process", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestProcess_Success(t *testing.T) {
	pipe := &stubProcessor{result: llm.Result{Summary: "- one\n- two"}}
	handler := newTestServer(t, pipe, common.ServerConfig{})

	rec := postProcess(t, handler, "notes.txt", []byte("some notes"), "summary")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, map[string]string{"summary": "- one\n- two"}, payload)

	assert.Equal(t, "notes.txt", pipe.lastDoc.Name)
	assert.Equal(t, []byte("some notes"), pipe.lastDoc.Content)
	assert.Equal(t, "summary", pipe.lastMode)
}

func TestProcess_ModeDefaultsToSummary(t *testing.T) {
	pipe := &stubProcessor{result: llm.Result{Summary: "s"}}
	handler := newTestServer(t, pipe, common.ServerConfig{})

	rec := postProcess(t, handler, "notes.txt", []byte("text"), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "summary", pipe.lastMode)
}

func TestProcess_ClientFaultMapsTo400(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"invalid mode", common.NewInvalidMode("essay")},
		{"unsupported format", common.NewUnsupportedFormat(`unrecognized file extension "exe"`)},
		{"empty extraction", common.NewEmptyExtraction()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pipe := &stubProcessor{err: tc.err}
			handler := newTestServer(t, pipe, common.ServerConfig{})

			rec := postProcess(t, handler, "notes.txt", []byte("text"), "quiz")

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var payload map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			require.Contains(t, payload, "error")
			assert.NotEmpty(t, payload["error"])
		})
	}
}

func TestProcess_ServerFaultMapsTo500(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"upstream failure", common.NewUpstreamFailure("completion failed", nil)},
		{"malformed response", common.NewMalformedResponse("quiz response rejected", nil)},
		{"unclassified", io.ErrUnexpectedEOF},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pipe := &stubProcessor{err: tc.err}
			handler := newTestServer(t, pipe, common.ServerConfig{})

			rec := postProcess(t, handler, "notes.txt", []byte("text"), "quiz")

			require.Equal(t, http.StatusInternalServerError, rec.Code)
			var payload map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			require.Contains(t, payload, "error")
		})
	}
}

func TestProcess_MissingFilePart(t *testing.T) {
	pipe := &stubProcessor{}
	handler := newTestServer(t, pipe, common.ServerConfig{})

	rec := postProcess(t, handler, "", nil, "summary")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "file is required", payload["error"])
	assert.Zero(t, pipe.calls)
}

func TestProcess_NotMultipart(t *testing.T) {
	handler := newTestServer(t, &stubProcessor{}, common.ServerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/api/process", bytes.NewBufferString(`{"mode":"summary"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "expected multipart form data", payload["error"])
}

func TestProcess_OversizedUpload(t *testing.T) {
	pipe := &stubProcessor{}
	handler := newTestServer(t, pipe, common.ServerConfig{MaxUploadMB: 1})

	big := bytes.Repeat([]byte("x"), 2<<20)
	rec := postProcess(t, handler, "big.txt", big, "summary")

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "upload exceeds size limit", payload["error"])
	assert.Zero(t, pipe.calls)
}

func TestProcess_MethodNotAllowed(t *testing.T) {
	handler := newTestServer(t, &stubProcessor{}, common.ServerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/process", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthz(t *testing.T) {
	handler := newTestServer(t, &stubProcessor{}, common.ServerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "ok", payload["status"])
}

func TestRequestIDHeader(t *testing.T) {
	handler := newTestServer(t, &stubProcessor{}, common.ServerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDHeader_EchoesClientValue(t *testing.T) {
	handler := newTestServer(t, &stubProcessor{}, common.ServerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-abc-123", rec.Header().Get("X-Request-ID"))
}

func TestCORS_WildcardDefault(t *testing.T) {
	handler := newTestServer(t, &stubProcessor{}, common.ServerConfig{AllowOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://studyapp.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	handler := newTestServer(t, &stubProcessor{}, common.ServerConfig{AllowOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/process", nil)
	req.Header.Set("Origin", "https://studyapp.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORS_AllowListedOrigin(t *testing.T) {
	cfg := common.ServerConfig{AllowOrigins: []string{"https://allowed.example"}}
	handler := newTestServer(t, &stubProcessor{}, cfg)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://allowed.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "https://allowed.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://other.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestProcess_QuizEnvelope(t *testing.T) {
	pipe := &stubProcessor{result: llm.Result{Questions: []llm.QuizQuestion{
		{Question: "Q1?", Options: []string{"a", "b", "c", "d"}, Answer: "a"},
	}}}
	handler := newTestServer(t, pipe, common.ServerConfig{})

	rec := postProcess(t, handler, "notes.txt", []byte("text"), "quiz")

	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload, 1)
	assert.Contains(t, payload, "questions")
}
