package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Speech   SpeechConfig   `yaml:"speech"`
	Render   RenderConfig   `yaml:"render"`
	Session  SessionConfig  `yaml:"session"`
	History  HistoryConfig  `yaml:"history"`
	Archive  ArchiveConfig  `yaml:"archive"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// supportedLanguages mirrors the output languages the report domain
// accepts.
var supportedLanguages = map[string]bool{
	"English": true,
	"Hindi":   true,
	"Marathi": true,
	"Kannada": true,
}

// PipelineConfig defines the limits of the report pipeline.
type PipelineConfig struct {
	MinTextChars    int    `yaml:"minTextChars"`
	MaxFileBytes    int64  `yaml:"maxFileBytes"`
	MaxPromptTokens int    `yaml:"maxPromptTokens"`
	DefaultLanguage string `yaml:"defaultLanguage"`
}

// GeminiConfig contains generative-model settings.
type GeminiConfig struct {
	APIKey  string        `yaml:"apiKey"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
	// MaxAttempts defaults to 1: the pipeline is single-shot and
	// automatic retries would change its observable failure semantics.
	MaxAttempts int `yaml:"maxAttempts"`
}

// SpeechConfig contains speech-synthesis settings.
type SpeechConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// RenderConfig controls the PDF artifact layout.
type RenderConfig struct {
	Title       string `yaml:"title"`
	SourceLabel string `yaml:"sourceLabel"`
}

// SessionConfig selects where per-session pipeline state lives.
type SessionConfig struct {
	TTL    time.Duration `yaml:"ttl"`
	Valkey ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for session storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// HistoryConfig contains DSN and pooling settings for the summary audit log.
type HistoryConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ArchiveConfig contains object-storage settings for generated artifacts.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitCSV(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("PIPELINE_MIN_TEXT_CHARS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.MinTextChars = parsed
		}
	}
	if v := os.Getenv("PIPELINE_MAX_FILE_BYTES"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Pipeline.MaxFileBytes = parsed
		}
	}
	if v := os.Getenv("PIPELINE_MAX_PROMPT_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.MaxPromptTokens = parsed
		}
	}
	if v := os.Getenv("PIPELINE_DEFAULT_LANGUAGE"); v != "" {
		cfg.Pipeline.DefaultLanguage = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	if v := os.Getenv("GEMINI_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Gemini.Timeout = parsed
		}
	}
	if v := os.Getenv("GEMINI_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Gemini.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("SPEECH_BASE_URL"); v != "" {
		cfg.Speech.BaseURL = v
	}
	if v := os.Getenv("SPEECH_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Speech.Timeout = parsed
		}
	}
	if v := os.Getenv("RENDER_TITLE"); v != "" {
		cfg.Render.Title = v
	}
	if v := os.Getenv("RENDER_SOURCE_LABEL"); v != "" {
		cfg.Render.SourceLabel = v
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Session.TTL = parsed
		}
	}
	if v := os.Getenv("SESSION_VALKEY_ENABLED"); v != "" {
		cfg.Session.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("SESSION_VALKEY_ADDR"); v != "" {
		cfg.Session.Valkey.Addr = v
	}
	if v := os.Getenv("HISTORY_POSTGRES_DSN"); v != "" {
		cfg.History.DSN = v
	}
	if v := os.Getenv("HISTORY_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.History.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("HISTORY_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.History.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("ARCHIVE_ENABLED"); v != "" {
		cfg.Archive.Enabled = parseBool(v)
	}
	if v := os.Getenv("ARCHIVE_ENDPOINT"); v != "" {
		cfg.Archive.Endpoint = v
	}
	if v := os.Getenv("ARCHIVE_ACCESS_KEY"); v != "" {
		cfg.Archive.AccessKey = v
	}
	if v := os.Getenv("ARCHIVE_SECRET_KEY"); v != "" {
		cfg.Archive.SecretKey = v
	}
	if v := os.Getenv("ARCHIVE_BUCKET"); v != "" {
		cfg.Archive.Bucket = v
	}
	if v := os.Getenv("ARCHIVE_REGION"); v != "" {
		cfg.Archive.Region = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 30,
				Burst:             10,
			},
		},
		Pipeline: PipelineConfig{
			MinTextChars:    50,
			MaxFileBytes:    16 << 20,
			MaxPromptTokens: 6000,
			DefaultLanguage: "English",
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.5-flash",
			Timeout:     60 * time.Second,
			MaxAttempts: 1,
		},
		Speech: SpeechConfig{
			BaseURL: "https://translate.google.com/translate_tts",
			Timeout: 30 * time.Second,
		},
		Render: RenderConfig{
			Title:       "LifeLink AI - Health Report Summary",
			SourceLabel: "Uploaded health report (PDF)",
		},
		Session: SessionConfig{
			TTL: 2 * time.Hour,
			Valkey: ValkeyConfig{
				Enabled: false,
				Addr:    "",
			},
		},
		History: HistoryConfig{
			DSN:      "",
			MaxConns: 4,
			MinConns: 0,
		},
		Archive: ArchiveConfig{
			Enabled: false,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Pipeline.MinTextChars <= 0 {
		return errors.New("pipeline.minTextChars must be positive")
	}
	if c.Pipeline.MaxFileBytes <= 0 {
		return errors.New("pipeline.maxFileBytes must be positive")
	}
	if c.Pipeline.MaxPromptTokens < 0 {
		return errors.New("pipeline.maxPromptTokens cannot be negative")
	}
	if c.Pipeline.DefaultLanguage != "" && !supportedLanguages[c.Pipeline.DefaultLanguage] {
		return fmt.Errorf("pipeline.defaultLanguage %q is not supported", c.Pipeline.DefaultLanguage)
	}
	if c.Gemini.Model == "" {
		return errors.New("gemini.model cannot be empty")
	}
	if c.Gemini.Timeout <= 0 {
		return errors.New("gemini.timeout must be positive")
	}
	if c.Gemini.MaxAttempts <= 0 {
		return errors.New("gemini.maxAttempts must be positive")
	}
	if c.Speech.BaseURL == "" {
		return errors.New("speech.baseUrl cannot be empty")
	}
	if c.Speech.Timeout <= 0 {
		return errors.New("speech.timeout must be positive")
	}
	if c.Render.Title == "" {
		return errors.New("render.title cannot be empty")
	}
	if c.Session.TTL < 0 {
		return errors.New("session.ttl cannot be negative")
	}
	if c.Session.Valkey.Enabled && strings.TrimSpace(c.Session.Valkey.Addr) == "" {
		return errors.New("session.valkey.addr cannot be empty when valkey sessions are enabled")
	}
	if c.Archive.Enabled && strings.TrimSpace(c.Archive.Endpoint) == "" {
		return errors.New("archive.endpoint cannot be empty when the archive is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
