package infrastructure

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port         string `json:"port"`
	Host         string `json:"host"`
	AuthToken    string `json:"-"` // Don't expose in JSON
	MaxUploadMB  int    `json:"max_upload_mb"`
	ShutdownWait int    `json:"shutdown_wait_seconds"`

	// Summarizer backend settings
	Backend        string `json:"backend"`
	HFAPIToken     string `json:"-"`
	HFBaseURL      string `json:"hf_base_url"`
	ModelName      string `json:"model_name"`
	GeminiAPIKey   string `json:"-"`
	GeminiModel    string `json:"gemini_model"`
	Device         string `json:"device"`
	ModelMaxLength int    `json:"model_max_length"`
	ModelMinLength int    `json:"model_min_length"`
	ModelNumBeams  int    `json:"model_num_beams"`
	ModelTimeout   int    `json:"model_timeout_seconds"`

	// Review processing settings
	MaxInputTokens int    `json:"max_input_tokens"`
	MaxReviews     int    `json:"max_reviews"`
	LexiconFile    string `json:"aspect_lexicon_file,omitempty"`
	SkipNonEnglish bool   `json:"skip_non_english"`

	// Cache settings
	CacheType          string `json:"cache_type"`
	CacheDurationHours int    `json:"cache_duration_hours"`
	CacheBucket        string `json:"cache_bucket,omitempty"`
	CachePruneSchedule string `json:"cache_prune_schedule"`

	// Logging settings
	LogLevel      string `json:"log_level"`
	LogFormat     string `json:"log_format"`
	LogFile       string `json:"log_file,omitempty"`
	LogMaxSizeMB  int    `json:"log_max_size_mb"`
	LogMaxAgeDays int    `json:"log_max_age_days"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	config := read()
	return config, config.validate()
}

// LoadLocal reads the same configuration as Load but skips the backend
// checks, for commands that never call the summarization model.
func LoadLocal() (*Config, error) {
	config := read()
	return config, config.validateLocal()
}

func read() *Config {
	// Load .env file if exists
	_ = godotenv.Load()

	return &Config{
		Port:         getEnvOrDefault("PORT", "8080"),
		Host:         getEnvOrDefault("HOST", "0.0.0.0"),
		AuthToken:    getEnvOrDefault("AUTH_TOKEN", ""),
		MaxUploadMB:  getEnvOrDefaultInt("MAX_UPLOAD_MB", 10),
		ShutdownWait: getEnvOrDefaultInt("SHUTDOWN_WAIT_SECONDS", 30),

		Backend:        strings.ToLower(getEnvOrDefault("SUMMARIZER_BACKEND", "huggingface")),
		HFAPIToken:     getEnvOrDefault("HF_API_TOKEN", ""),
		HFBaseURL:      getEnvOrDefault("HF_BASE_URL", "https://api-inference.huggingface.co/models"),
		ModelName:      getEnvOrDefault("MODEL_NAME", "t5-small"),
		GeminiAPIKey:   getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:    getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		Device:         strings.ToLower(getEnvOrDefault("DEVICE", "auto")),
		ModelMaxLength: getEnvOrDefaultInt("MODEL_MAX_LENGTH", 512),
		ModelMinLength: getEnvOrDefaultInt("MODEL_MIN_LENGTH", 50),
		ModelNumBeams:  getEnvOrDefaultInt("MODEL_NUM_BEAMS", 4),
		ModelTimeout:   getEnvOrDefaultInt("MODEL_TIMEOUT_SECONDS", 60),

		MaxInputTokens: getEnvOrDefaultInt("MAX_INPUT_TOKENS", 512),
		MaxReviews:     getEnvOrDefaultInt("MAX_REVIEWS", 200),
		LexiconFile:    getEnvOrDefault("ASPECT_LEXICON_FILE", ""),
		SkipNonEnglish: getEnvOrDefaultBool("SKIP_NON_ENGLISH", false),

		CacheType:          strings.ToLower(getEnvOrDefault("CACHE_TYPE", CacheTypeNone)),
		CacheDurationHours: getEnvOrDefaultInt("CACHE_DURATION_HOURS", 24),
		CacheBucket:        getEnvOrDefault("CACHE_BUCKET", "review-summarizer-cache"),
		CachePruneSchedule: getEnvOrDefault("CACHE_PRUNE_SCHEDULE", "@hourly"),

		LogLevel:      strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		LogFormat:     strings.ToLower(getEnvOrDefault("LOG_FORMAT", "text")),
		LogFile:       getEnvOrDefault("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvOrDefaultInt("LOG_MAX_SIZE_MB", 500),
		LogMaxAgeDays: getEnvOrDefaultInt("LOG_MAX_AGE_DAYS", 10),
	}
}

// validate checks if required configuration values are present
func (c *Config) validate() error {
	switch c.Backend {
	case "huggingface":
		if c.HFAPIToken == "" && strings.Contains(c.HFBaseURL, "huggingface.co") {
			return &ConfigError{Field: "HF_API_TOKEN", Message: "Hugging Face API token is required for the hosted Inference API"}
		}
		if c.ModelName == "" {
			return &ConfigError{Field: "MODEL_NAME", Message: "model name is required"}
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return &ConfigError{Field: "GEMINI_API_KEY", Message: "Gemini API key is required"}
		}
	default:
		return &ConfigError{Field: "SUMMARIZER_BACKEND", Message: "must be huggingface or gemini"}
	}
	return c.validateLocal()
}

func (c *Config) validateLocal() error {
	switch c.Device {
	case "auto", "cpu", "gpu":
	default:
		return &ConfigError{Field: "DEVICE", Message: "must be auto, cpu or gpu"}
	}

	switch c.CacheType {
	case CacheTypeNone, CacheTypeMemory, CacheTypeCloudStorage:
	default:
		return &ConfigError{Field: "CACHE_TYPE", Message: "must be none, memory or cloud-storage"}
	}
	if c.CacheType == CacheTypeCloudStorage && c.CacheBucket == "" {
		return &ConfigError{Field: "CACHE_BUCKET", Message: "bucket is required for cloud-storage cache"}
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return &ConfigError{Field: "LOG_FORMAT", Message: "must be text or json"}
	}

	// The model input needs room for the task prefix plus one review word.
	if c.MaxInputTokens < 2 {
		return &ConfigError{Field: "MAX_INPUT_TOKENS", Message: "must be at least 2"}
	}

	positive := []struct {
		field string
		value int
	}{
		{"MAX_REVIEWS", c.MaxReviews},
		{"MAX_UPLOAD_MB", c.MaxUploadMB},
		{"MODEL_MAX_LENGTH", c.ModelMaxLength},
		{"MODEL_NUM_BEAMS", c.ModelNumBeams},
		{"MODEL_TIMEOUT_SECONDS", c.ModelTimeout},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return &ConfigError{Field: p.field, Message: "must be a positive integer"}
		}
	}
	if c.ModelMinLength < 0 || c.ModelMinLength > c.ModelMaxLength {
		return &ConfigError{Field: "MODEL_MIN_LENGTH", Message: "must be between 0 and MODEL_MAX_LENGTH"}
	}

	return nil
}

// UseGPU reports whether the remote model should be asked for GPU inference.
// "auto" leaves the choice to the inference service.
func (c *Config) UseGPU() bool {
	return c.Device == "gpu"
}

// ModelTimeoutDuration returns the per-call model timeout.
func (c *Config) ModelTimeoutDuration() time.Duration {
	return time.Duration(c.ModelTimeout) * time.Second
}

// MaxUploadBytes returns the request body limit for CSV uploads.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default if not set
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
