package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Outline defaults, overridable per job
	OutlineEnabled bool
	OutlineDepth   int
	PageOffset     int

	// Page geometry in points
	PageWidth  float64
	PageHeight float64
	PageMargin float64
	FontSize   float64
	LineHeight float64

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64
	MaxFilesPerJob int

	// Job state
	JobTTL time.Duration

	// Optional YAML overlay, see LoadFile
	ConfigFile string
}

// fileConfig mirrors Config for YAML overlays. Nil fields keep the value
// already loaded from the environment.
type fileConfig struct {
	Port           *string        `yaml:"port"`
	APIKey         *string        `yaml:"api_key"`
	OutlineEnabled *bool          `yaml:"outline"`
	OutlineDepth   *int           `yaml:"depth"`
	PageOffset     *int           `yaml:"page_offset"`
	PageWidth      *float64       `yaml:"page_width"`
	PageHeight     *float64       `yaml:"page_height"`
	PageMargin     *float64       `yaml:"page_margin"`
	FontSize       *float64       `yaml:"font_size"`
	LineHeight     *float64       `yaml:"line_height"`
	WorkerCount    *int           `yaml:"worker_count"`
	MaxQueueSize   *int           `yaml:"max_queue_size"`
	MaxUploadBytes *int64         `yaml:"max_upload_bytes"`
	MaxFilesPerJob *int           `yaml:"max_files_per_job"`
	JobTTL         *time.Duration `yaml:"job_ttl"`
}

// LoadDotEnv reads .env.local and .env from the working directory if present.
// Variables already set in the environment win.
func LoadDotEnv() error {
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the configuration from the environment. The file named by
// ConfigFile is not read here; callers apply it with LoadFile.
func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("DOCOUTLINE_API_KEY"),

		OutlineEnabled: envBool("OUTLINE_ENABLED", true),
		OutlineDepth:   envInt("OUTLINE_DEPTH", 4),
		PageOffset:     envInt("PAGE_OFFSET", 1),

		PageWidth:  envFloat("PAGE_WIDTH", 595.28),
		PageHeight: envFloat("PAGE_HEIGHT", 841.89),
		PageMargin: envFloat("PAGE_MARGIN", 50),
		FontSize:   envFloat("FONT_SIZE", 12),
		LineHeight: envFloat("LINE_HEIGHT", 1.2),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		MaxFilesPerJob: envInt("MAX_FILES_PER_JOB", 50),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		ConfigFile: os.Getenv("OUTLINE_CONFIG"),
	}

	cfg.applyDefaults()
	return cfg
}

// LoadFile overlays the YAML file at path onto c. Environment references in
// the file are expanded first.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&c.Port, fc.Port)
	setIf(&c.APIKey, fc.APIKey)
	setIf(&c.OutlineEnabled, fc.OutlineEnabled)
	setIf(&c.OutlineDepth, fc.OutlineDepth)
	setIf(&c.PageOffset, fc.PageOffset)
	setIf(&c.PageWidth, fc.PageWidth)
	setIf(&c.PageHeight, fc.PageHeight)
	setIf(&c.PageMargin, fc.PageMargin)
	setIf(&c.FontSize, fc.FontSize)
	setIf(&c.LineHeight, fc.LineHeight)
	setIf(&c.WorkerCount, fc.WorkerCount)
	setIf(&c.MaxQueueSize, fc.MaxQueueSize)
	setIf(&c.MaxUploadBytes, fc.MaxUploadBytes)
	setIf(&c.MaxFilesPerJob, fc.MaxFilesPerJob)
	setIf(&c.JobTTL, fc.JobTTL)

	c.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	if c.WorkerCount <= 0 {
		c.WorkerCount = 4
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = 100
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 52428800
	}
	if c.MaxFilesPerJob <= 0 {
		c.MaxFilesPerJob = 50
	}
	if c.JobTTL <= 0 {
		c.JobTTL = 1 * time.Hour
	}
	if c.FontSize <= 0 {
		c.FontSize = 12
	}
	if c.LineHeight <= 0 {
		c.LineHeight = 1.2
	}
	if c.PageMargin < 0 {
		c.PageMargin = 0
	}
}

// OutlineSettings returns the outline defaults as a settings snapshot.
func (c Config) OutlineSettings() outline.Settings {
	return outline.Settings{
		Outline:    c.OutlineEnabled,
		Depth:      c.OutlineDepth,
		PageOffset: c.PageOffset,
	}
}

// Validate checks the values that have no safe default.
func (c Config) Validate() error {
	var errs []error
	if c.OutlineDepth < 0 {
		errs = append(errs, fmt.Errorf("OUTLINE_DEPTH must not be negative, got %d", c.OutlineDepth))
	}
	if c.PageWidth <= 2*c.PageMargin {
		errs = append(errs, fmt.Errorf("PAGE_WIDTH %.2f leaves no room inside margins of %.2f", c.PageWidth, c.PageMargin))
	}
	if c.PageHeight <= 2*c.PageMargin {
		errs = append(errs, fmt.Errorf("PAGE_HEIGHT %.2f leaves no room inside margins of %.2f", c.PageHeight, c.PageMargin))
	}
	return errors.Join(errs...)
}

// ValidateServer additionally requires what the HTTP server needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("DOCOUTLINE_API_KEY is required")
	}
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
