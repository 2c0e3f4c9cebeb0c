package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all folio settings. Values come from defaults, then the
// optional YAML file, then FOLIO_* environment variables.
type Config struct {
	APIURL    string `yaml:"api_url"`
	DBPath    string `yaml:"db_path"`
	TimeoutMs int    `yaml:"timeout_ms"`
	LogLevel  string `yaml:"log_level"`
	LogFile   string `yaml:"log_file"`
}

// Dir returns the folio home directory (~/.folio), or FOLIO_HOME when set.
func Dir() (string, error) {
	if v := os.Getenv("FOLIO_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".folio"), nil
}

// Default returns a Config rooted at dir.
func Default(dir string) Config {
	return Config{
		APIURL:    "http://localhost:5000",
		DBPath:    filepath.Join(dir, "folio.db"),
		TimeoutMs: 10000,
		LogLevel:  "info",
		LogFile:   filepath.Join(dir, "folio.log"),
	}
}

// DefaultPath is the config file location inside dir.
func DefaultPath(dir string) string {
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration for the folio home directory dir. A missing
// config file is not an error.
func Load(dir, path string) (Config, error) {
	cfg := Default(dir)
	if path == "" {
		path = DefaultPath(dir)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FOLIO_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("FOLIO_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("FOLIO_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("FOLIO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("FOLIO_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

// Validate checks that the backend URL is absolute and the timeout positive.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid api_url %q: %w", c.APIURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url %q must use http or https", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api_url %q has no host", c.APIURL)
	}
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("timeout_ms must be positive, got %d", c.TimeoutMs)
	}
	return nil
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
