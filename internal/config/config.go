package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// Defaults mirror the layout the tool has always used: inputs under input/,
// the rendered post under output/.
const (
	DefaultInput    = "input/info.json"
	DefaultExample  = "input/info.example.json"
	DefaultOutput   = "output/formatted.md"
	DefaultReset    = "0 11 * * 4"
	DefaultTimezone = "UTC"
	DefaultLogLevel = "info"
	DefaultListen   = "127.0.0.1:8080"
	DefaultCacheDir = "cache"
)

// Config is the top-level application configuration.
type Config struct {
	// Input is the schedule document to render, a file path or an http(s)
	// URL. The format follows the extension (.json, .yaml/.yml, .toml).
	Input string `yaml:"input"`

	// Example is written with sample data when it does not exist yet.
	Example string `yaml:"example"`

	// Output receives the rendered post.
	Output string `yaml:"output"`

	// Calendar, if set, receives an iCalendar export of the week.
	Calendar string `yaml:"calendar,omitempty"`

	// Reset is a standard 5-field cron spec describing when deep dives
	// rotate, e.g. "0 11 * * 4" for Thursdays at 11:00.
	Reset string `yaml:"reset"`

	// Timezone is the IANA zone Reset is evaluated in.
	Timezone string `yaml:"timezone"`

	LogLevel string `yaml:"log_level"`

	// CacheDir keeps copies of remote inputs.
	CacheDir string `yaml:"cache_dir"`

	// Listen is the address the preview server binds to.
	Listen string `yaml:"listen"`

	// BasicAuth protects the preview server when both fields are set.
	BasicAuth *BasicAuth `yaml:"basic_auth,omitempty"`
}

type BasicAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Input:    DefaultInput,
		Example:  DefaultExample,
		Output:   DefaultOutput,
		Reset:    DefaultReset,
		Timezone: DefaultTimezone,
		LogLevel: DefaultLogLevel,
		CacheDir: DefaultCacheDir,
		Listen:   DefaultListen,
	}
}

// Normalize fills in missing values with defaults so that partially-filled
// configs still behave correctly.
func (c *Config) Normalize() {
	if c.Input == "" {
		c.Input = DefaultInput
	}
	if c.Example == "" {
		c.Example = DefaultExample
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Reset == "" {
		c.Reset = DefaultReset
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.CacheDir == "" {
		c.CacheDir = DefaultCacheDir
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
}

// Resolve returns a copy with every relative path joined onto baseDir.
// URLs are left alone.
func (c Config) Resolve(baseDir string) Config {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) || strings.Contains(p, "://") {
			return p
		}
		return filepath.Join(baseDir, p)
	}
	c.Input = abs(c.Input)
	c.Example = abs(c.Example)
	c.Output = abs(c.Output)
	c.Calendar = abs(c.Calendar)
	c.CacheDir = abs(c.CacheDir)
	return c
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, the default config is written there and
//     returned.
//   - Otherwise the file is unmarshaled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically, creating the parent directory.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config: path is empty")
	}
	if cfg == nil {
		return errors.New("config: config is nil")
	}

	cfg.Normalize()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
