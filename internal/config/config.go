package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "COREDOC"

type Config struct {
	Port string `yaml:"port" envconfig:"PORT"`

	// Auth
	APIKey string `yaml:"api_key" envconfig:"API_KEY"`

	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	// Chunking
	MinChunkSize  int    `yaml:"min_chunk_size" envconfig:"MIN_CHUNK_SIZE"`
	MaxChunkSize  int    `yaml:"max_chunk_size" envconfig:"MAX_CHUNK_SIZE"`
	StopwordsFile string `yaml:"stopwords_file" envconfig:"STOPWORDS_FILE"`

	// Worker pool
	WorkerCount  int `yaml:"worker_count" envconfig:"WORKER_COUNT"`
	MaxQueueSize int `yaml:"max_queue_size" envconfig:"MAX_QUEUE_SIZE"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`

	// Retention of processing jobs and processed documents
	JobTTL      time.Duration `yaml:"job_ttl" envconfig:"JOB_TTL"`
	DocumentTTL time.Duration `yaml:"document_ttl" envconfig:"DOCUMENT_TTL"`

	// Batch mode
	BatchMinChars int `yaml:"batch_min_chars" envconfig:"BATCH_MIN_CHARS"`
	BatchWorkers  int `yaml:"batch_workers" envconfig:"BATCH_WORKERS"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext" envconfig:"PDF_FALLBACK_PDFTOTEXT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:     "8090",
		LogLevel: "info",

		MinChunkSize: 500,
		MaxChunkSize: 2000,

		WorkerCount:  4,
		MaxQueueSize: 100,

		MaxUploadBytes: 52428800, // 50MB

		JobTTL:      1 * time.Hour,
		DocumentTTL: 24 * time.Hour,

		BatchMinChars: 1000,
		BatchWorkers:  4,

		PDFFallbackPdftotext: true,
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then COREDOC_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.MaxChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("max_chunk_size must be positive, got %d", c.MaxChunkSize))
	}
	if c.MinChunkSize < 0 {
		errs = append(errs, fmt.Errorf("min_chunk_size must not be negative, got %d", c.MinChunkSize))
	}
	if c.WorkerCount <= 0 {
		errs = append(errs, fmt.Errorf("worker_count must be positive, got %d", c.WorkerCount))
	}
	if c.MaxQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("max_queue_size must be positive, got %d", c.MaxQueueSize))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes))
	}
	if c.JobTTL <= 0 || c.DocumentTTL <= 0 {
		errs = append(errs, errors.New("job_ttl and document_ttl must be positive"))
	}
	if c.BatchWorkers <= 0 {
		errs = append(errs, fmt.Errorf("batch_workers must be positive, got %d", c.BatchWorkers))
	}
	if c.BatchMinChars < 0 {
		errs = append(errs, fmt.Errorf("batch_min_chars must not be negative, got %d", c.BatchMinChars))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidateServer additionally checks what the HTTP service needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("%s_API_KEY is required", EnvPrefix)
	}
	if c.Port == "" {
		return errors.New("port is required")
	}
	return nil
}

// ParseLevel maps a log level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
