package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Extract ExtractConfig `yaml:"extract"`
	LLM     LLMConfig     `yaml:"llm"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
	MaxUploadMB  int64    `yaml:"max_upload_mb"`
}

// ExtractConfig holds text-extraction configuration
type ExtractConfig struct {
	PdftotextBin   string `yaml:"pdftotext_bin"`
	PdftoppmBin    string `yaml:"pdftoppm_bin"`
	TesseractBin   string `yaml:"tesseract_bin"`
	TesseractLang  string `yaml:"tesseract_lang"`
	TessdataDir    string `yaml:"tessdata_dir"`
	StagingDir     string `yaml:"staging_dir"`
	OCRDPI         int    `yaml:"ocr_dpi"`
	OCRMaxPages    int    `yaml:"ocr_max_pages"`
	OCRWorkers     int    `yaml:"ocr_workers"`
	PDFOCRFallback bool   `yaml:"pdf_ocr_fallback"`
}

// LLMConfig holds completion client configuration
type LLMConfig struct {
	Model          string        `yaml:"model"`
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	Temperature    float32       `yaml:"temperature"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxPromptChars int           `yaml:"max_prompt_chars"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			AllowOrigins: []string{"*"},
			MaxUploadMB:  20,
		},
		Extract: ExtractConfig{
			PdftotextBin:   "pdftotext",
			PdftoppmBin:    "pdftoppm",
			TesseractBin:   "tesseract",
			TesseractLang:  "eng",
			StagingDir:     "",
			OCRDPI:         300,
			OCRMaxPages:    25,
			OCRWorkers:     4,
			PDFOCRFallback: true,
		},
		LLM: LLMConfig{
			Model:          "gpt-4o",
			BaseURL:        "https://api.openai.com/v1",
			Temperature:    0.5,
			Timeout:        60 * time.Second,
			MaxPromptChars: 15000,
		},
	}
}

// LoadConfig builds configuration from defaults, an optional YAML file,
// and environment variables, with the environment taking precedence.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, WrapError(err, "read config file")
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, WrapError(err, "parse config file")
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("HTTP_ADDR", c.Server.Addr)
	c.Server.AllowOrigins = getEnvAsSlice("HTTP_ALLOW_ORIGINS", c.Server.AllowOrigins)
	c.Server.MaxUploadMB = int64(getEnvAsInt("MAX_UPLOAD_MB", int(c.Server.MaxUploadMB)))

	c.Extract.PdftotextBin = getEnv("PDFTOTEXT_BIN", c.Extract.PdftotextBin)
	c.Extract.PdftoppmBin = getEnv("PDFTOPPM_BIN", c.Extract.PdftoppmBin)
	c.Extract.TesseractBin = getEnv("TESSERACT_BIN", c.Extract.TesseractBin)
	c.Extract.TesseractLang = getEnv("TESSERACT_LANG", c.Extract.TesseractLang)
	c.Extract.TessdataDir = getEnv("TESSDATA_PREFIX", c.Extract.TessdataDir)
	c.Extract.StagingDir = getEnv("STAGING_DIR", c.Extract.StagingDir)
	c.Extract.OCRDPI = getEnvAsInt("OCR_DPI", c.Extract.OCRDPI)
	c.Extract.OCRMaxPages = getEnvAsInt("OCR_MAX_PAGES", c.Extract.OCRMaxPages)
	c.Extract.OCRWorkers = getEnvAsInt("OCR_WORKERS", c.Extract.OCRWorkers)
	c.Extract.PDFOCRFallback = getEnvAsBool("PDF_OCR_FALLBACK", c.Extract.PDFOCRFallback)

	c.LLM.Model = getEnv("OPENAI_MODEL", c.LLM.Model)
	c.LLM.APIKey = getEnv("OPENAI_API_KEY", c.LLM.APIKey)
	c.LLM.BaseURL = getEnv("OPENAI_BASE_URL", c.LLM.BaseURL)
	c.LLM.Temperature = getEnvAsFloat32("OPENAI_TEMPERATURE", c.LLM.Temperature)
	c.LLM.Timeout = getEnvAsDuration("OPENAI_TIMEOUT", c.LLM.Timeout)
	c.LLM.MaxPromptChars = getEnvAsInt("MAX_PROMPT_CHARS", c.LLM.MaxPromptChars)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewInternal("OPENAI_API_KEY is required", nil)
	}
	if c.Server.Addr == "" {
		return NewInternal("HTTP_ADDR is required", nil)
	}
	if c.LLM.MaxPromptChars <= 0 {
		return NewInternal("MAX_PROMPT_CHARS must be positive", nil)
	}
	return nil
}
