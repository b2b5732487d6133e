package infrastructure

import (
	"errors"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so host settings do not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "HOST", "AUTH_TOKEN", "MAX_UPLOAD_MB", "SHUTDOWN_WAIT_SECONDS",
		"SUMMARIZER_BACKEND", "HF_API_TOKEN", "HF_BASE_URL", "MODEL_NAME",
		"GEMINI_API_KEY", "GEMINI_MODEL", "DEVICE", "MODEL_MAX_LENGTH",
		"MODEL_MIN_LENGTH", "MODEL_NUM_BEAMS", "MODEL_TIMEOUT_SECONDS",
		"MAX_INPUT_TOKENS", "MAX_REVIEWS", "ASPECT_LEXICON_FILE", "SKIP_NON_ENGLISH",
		"CACHE_TYPE", "CACHE_DURATION_HOURS", "CACHE_BUCKET", "CACHE_PRUNE_SCHEDULE",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "LOG_MAX_SIZE_MB", "LOG_MAX_AGE_DAYS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("HF_API_TOKEN", "hf_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected Port to be '8080', got '%s'", cfg.Port)
	}
	if cfg.Backend != "huggingface" {
		t.Errorf("Expected Backend to be 'huggingface', got '%s'", cfg.Backend)
	}
	if cfg.ModelName != "t5-small" {
		t.Errorf("Expected ModelName to be 't5-small', got '%s'", cfg.ModelName)
	}
	if cfg.ModelMaxLength != 512 || cfg.ModelMinLength != 50 || cfg.ModelNumBeams != 4 {
		t.Errorf("Unexpected generation defaults: %d/%d/%d", cfg.ModelMaxLength, cfg.ModelMinLength, cfg.ModelNumBeams)
	}
	if cfg.MaxReviews != 200 {
		t.Errorf("Expected MaxReviews to be 200, got %d", cfg.MaxReviews)
	}
	if cfg.CacheType != CacheTypeNone {
		t.Errorf("Expected CacheType to be 'none', got '%s'", cfg.CacheType)
	}
	if cfg.LogMaxSizeMB != 500 || cfg.LogMaxAgeDays != 10 {
		t.Errorf("Unexpected log rotation defaults: %d MB, %d days", cfg.LogMaxSizeMB, cfg.LogMaxAgeDays)
	}
	if cfg.UseGPU() {
		t.Error("Expected UseGPU to be false for DEVICE=auto")
	}
	if cfg.ModelTimeoutDuration() != 60*time.Second {
		t.Errorf("Expected 60s model timeout, got %v", cfg.ModelTimeoutDuration())
	}
	if cfg.MaxUploadBytes() != 10<<20 {
		t.Errorf("Expected 10 MiB upload limit, got %d", cfg.MaxUploadBytes())
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SUMMARIZER_BACKEND", "Gemini")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DEVICE", "GPU")
	t.Setenv("MAX_INPUT_TOKENS", "256")
	t.Setenv("MAX_REVIEWS", "not-a-number")
	t.Setenv("SKIP_NON_ENGLISH", "true")
	t.Setenv("CACHE_TYPE", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Backend != "gemini" {
		t.Errorf("Expected Backend to be 'gemini', got '%s'", cfg.Backend)
	}
	if !cfg.UseGPU() {
		t.Error("Expected UseGPU to be true for DEVICE=gpu")
	}
	if cfg.MaxInputTokens != 256 {
		t.Errorf("Expected MaxInputTokens 256, got %d", cfg.MaxInputTokens)
	}
	if cfg.MaxReviews != 200 {
		t.Errorf("Expected invalid MAX_REVIEWS to fall back to 200, got %d", cfg.MaxReviews)
	}
	if !cfg.SkipNonEnglish {
		t.Error("Expected SkipNonEnglish to be true")
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		errorField string
	}{
		{
			name:       "missing HF_API_TOKEN for hosted API",
			env:        map[string]string{},
			errorField: "HF_API_TOKEN",
		},
		{
			name:       "self-hosted endpoint needs no token",
			env:        map[string]string{"HF_BASE_URL": "http://localhost:8000/models"},
			errorField: "",
		},
		{
			name:       "missing GEMINI_API_KEY",
			env:        map[string]string{"SUMMARIZER_BACKEND": "gemini"},
			errorField: "GEMINI_API_KEY",
		},
		{
			name:       "unknown backend",
			env:        map[string]string{"SUMMARIZER_BACKEND": "bart"},
			errorField: "SUMMARIZER_BACKEND",
		},
		{
			name:       "invalid device",
			env:        map[string]string{"HF_API_TOKEN": "hf", "DEVICE": "mps"},
			errorField: "DEVICE",
		},
		{
			name:       "invalid cache type",
			env:        map[string]string{"HF_API_TOKEN": "hf", "CACHE_TYPE": "redis"},
			errorField: "CACHE_TYPE",
		},
		{
			name:       "invalid log format",
			env:        map[string]string{"HF_API_TOKEN": "hf", "LOG_FORMAT": "xml"},
			errorField: "LOG_FORMAT",
		},
		{
			name:       "non-positive token budget",
			env:        map[string]string{"HF_API_TOKEN": "hf", "MAX_INPUT_TOKENS": "0"},
			errorField: "MAX_INPUT_TOKENS",
		},
		{
			name:       "token budget without room for a review",
			env:        map[string]string{"HF_API_TOKEN": "hf", "MAX_INPUT_TOKENS": "1"},
			errorField: "MAX_INPUT_TOKENS",
		},
		{
			name:       "min length above max length",
			env:        map[string]string{"HF_API_TOKEN": "hf", "MODEL_MIN_LENGTH": "600"},
			errorField: "MODEL_MIN_LENGTH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if tt.errorField == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}

			var configErr *ConfigError
			if !errors.As(err, &configErr) {
				t.Fatalf("Expected ConfigError, got %v", err)
			}
			if configErr.Field != tt.errorField {
				t.Errorf("Expected error field '%s', got '%s'", tt.errorField, configErr.Field)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "DEBUG",
		"WARNING": "WARN",
		"error":   "ERROR",
		"":        "INFO",
		"verbose": "INFO",
	}
	for in, want := range tests {
		if got := ParseLevel(in).String(); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestLoadLocalSkipsBackendChecks(t *testing.T) {
	clearEnv(t)

	if _, err := Load(); err == nil {
		t.Fatal("Expected Load to require HF_API_TOKEN")
	}

	cfg, err := LoadLocal()
	if err != nil {
		t.Fatalf("LoadLocal failed: %v", err)
	}
	if cfg.MaxReviews != 200 {
		t.Errorf("Expected defaults to be read, got MaxReviews %d", cfg.MaxReviews)
	}

	t.Setenv("MAX_REVIEWS", "0")
	var configErr *ConfigError
	if _, err := LoadLocal(); !errors.As(err, &configErr) || configErr.Field != "MAX_REVIEWS" {
		t.Errorf("Expected MAX_REVIEWS ConfigError, got %v", err)
	}
}
