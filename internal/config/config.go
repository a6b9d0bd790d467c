// Package config resolves the explorer settings from defaults, an optional
// YAML file, a .env file and BLUTABLE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/yumyai/blutable/internal/util"
	"github.com/yumyai/blutable/logger"
	"github.com/yumyai/blutable/pkg/model"
)

const (
	DefaultConfigFile = "blutable.yaml"
	EnvConfigFile     = "BLUTABLE_CONFIG"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Addr             string        `yaml:"addr"`
	LogLevel         string        `yaml:"log_level"`
	ExampleURL       string        `yaml:"example_url"`
	FetchTimeout     time.Duration `yaml:"fetch_timeout"`
	MaxDocumentBytes int64         `yaml:"max_document_bytes"`
	CacheSize        int           `yaml:"cache_size"`
	PageSize         int           `yaml:"page_size"`
	RowHeight        float64       `yaml:"row_height"`
	Locale           string        `yaml:"locale"`
	StaticDir        string        `yaml:"static_dir"`

	// Sessions past either limit are dropped with their document history.
	MaxSessions        int           `yaml:"max_sessions"`
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout"`
}

func Default() *Config {
	return &Config{
		Addr:             "0.0.0.0:8080",
		LogLevel:         "info",
		ExampleURL:       model.EXAMPLE_RAW_RESULT_URL,
		FetchTimeout:     30 * time.Second,
		MaxDocumentBytes: 64 << 20,
		CacheSize:        128,
		PageSize:         10,
		RowHeight:        40,
		Locale:           "en",
		StaticDir:        "./static",

		MaxSessions:        1000,
		SessionIdleTimeout: 2 * time.Hour,
	}
}

// Load resolves the configuration. An empty path falls back to
// $BLUTABLE_CONFIG, then to ./blutable.yaml if present.
func Load(path string) (*Config, error) {
	return load(path, ".env")
}

func load(path, envFile string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigFile)
		explicit = path != ""
	}
	if !explicit {
		path = DefaultConfigFile
	}

	if explicit || util.FileExists(path) {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Debug("No .env found, using local environment", zap.String("file", envFile))
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(body, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString("BLUTABLE_ADDR", &c.Addr)
	setString("BLUTABLE_LOG_LEVEL", &c.LogLevel)
	setString("BLUTABLE_EXAMPLE_URL", &c.ExampleURL)
	setString("BLUTABLE_LOCALE", &c.Locale)
	setString("BLUTABLE_STATIC_DIR", &c.StaticDir)

	for key, dst := range map[string]*time.Duration{
		"BLUTABLE_FETCH_TIMEOUT":        &c.FetchTimeout,
		"BLUTABLE_SESSION_IDLE_TIMEOUT": &c.SessionIdleTimeout,
	} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
		}
		*dst = d
	}
	if v := os.Getenv("BLUTABLE_MAX_DOCUMENT_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: BLUTABLE_MAX_DOCUMENT_BYTES: %v", ErrInvalidConfig, err)
		}
		c.MaxDocumentBytes = n
	}
	for key, dst := range map[string]*int{
		"BLUTABLE_CACHE_SIZE":   &c.CacheSize,
		"BLUTABLE_PAGE_SIZE":    &c.PageSize,
		"BLUTABLE_MAX_SESSIONS": &c.MaxSessions,
	} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
		}
		*dst = n
	}
	if v := os.Getenv("BLUTABLE_ROW_HEIGHT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: BLUTABLE_ROW_HEIGHT: %v", ErrInvalidConfig, err)
		}
		c.RowHeight = f
	}
	return nil
}

func (c *Config) Validate() error {
	switch {
	case c.PageSize <= 0:
		return fmt.Errorf("%w: page_size must be positive, got %d", ErrInvalidConfig, c.PageSize)
	case c.RowHeight <= 0:
		return fmt.Errorf("%w: row_height must be positive, got %v", ErrInvalidConfig, c.RowHeight)
	case c.CacheSize <= 0:
		return fmt.Errorf("%w: cache_size must be positive, got %d", ErrInvalidConfig, c.CacheSize)
	case c.MaxDocumentBytes <= 0:
		return fmt.Errorf("%w: max_document_bytes must be positive, got %d", ErrInvalidConfig, c.MaxDocumentBytes)
	case c.FetchTimeout <= 0:
		return fmt.Errorf("%w: fetch_timeout must be positive, got %s", ErrInvalidConfig, c.FetchTimeout)
	case c.MaxSessions <= 0:
		return fmt.Errorf("%w: max_sessions must be positive, got %d", ErrInvalidConfig, c.MaxSessions)
	case c.SessionIdleTimeout <= 0:
		return fmt.Errorf("%w: session_idle_timeout must be positive, got %s", ErrInvalidConfig, c.SessionIdleTimeout)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("%w: locale %q: %v", ErrInvalidConfig, c.Locale, err)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q: %v", ErrInvalidConfig, c.LogLevel, err)
	}
	return nil
}

// Tag is the collation locale. Validate guarantees it parses.
func (c *Config) Tag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}
