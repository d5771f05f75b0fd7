package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable the loader reads so ambient values
// cannot leak into assertions. t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_ADDR", "HTTP_ALLOW_ORIGINS", "MAX_UPLOAD_MB",
		"PDFTOTEXT_BIN", "PDFTOPPM_BIN", "TESSERACT_BIN", "TESSERACT_LANG",
		"TESSDATA_PREFIX", "STAGING_DIR", "OCR_DPI", "OCR_MAX_PAGES",
		"OCR_WORKERS", "PDF_OCR_FALLBACK",
		"OPENAI_MODEL", "OPENAI_API_KEY", "OPENAI_BASE_URL",
		"OPENAI_TEMPERATURE", "OPENAI_TIMEOUT", "MAX_PROMPT_CHARS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowOrigins)
	assert.Equal(t, int64(20), cfg.Server.MaxUploadMB)

	assert.Equal(t, "pdftotext", cfg.Extract.PdftotextBin)
	assert.Equal(t, "eng", cfg.Extract.TesseractLang)
	assert.Equal(t, 300, cfg.Extract.OCRDPI)
	assert.Equal(t, 25, cfg.Extract.OCRMaxPages)
	assert.True(t, cfg.Extract.PDFOCRFallback)

	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.InDelta(t, 0.5, cfg.LLM.Temperature, 0.001)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 15000, cfg.LLM.MaxPromptChars)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("HTTP_ALLOW_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_TEMPERATURE", "0.2")
	t.Setenv("OPENAI_TIMEOUT", "90s")
	t.Setenv("MAX_PROMPT_CHARS", "5000")
	t.Setenv("PDF_OCR_FALLBACK", "false")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowOrigins)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 0.001)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 5000, cfg.LLM.MaxPromptChars)
	assert.False(t, cfg.Extract.PDFOCRFallback)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  addr: ":7070"
  max_upload_mb: 5
llm:
  model: gpt-4.1
  timeout: 30s
extract:
  ocr_dpi: 150
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, int64(5), cfg.Server.MaxUploadMB)
	assert.Equal(t, "gpt-4.1", cfg.LLM.Model)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 150, cfg.Extract.OCRDPI)

	// Untouched keys keep their defaults.
	assert.Equal(t, "eng", cfg.Extract.TesseractLang)
	assert.Equal(t, 15000, cfg.LLM.MaxPromptChars)
}

func TestLoadConfig_EnvWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  model: gpt-4.1\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate_RequiresAPIKey(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Error(t, cfg.Validate())

	cfg.LLM.APIKey = "sk-test"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsNonPositiveMaxPromptChars(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	cfg.LLM.APIKey = "sk-test"
	cfg.LLM.MaxPromptChars = 0
	assert.Error(t, cfg.Validate())
}
