// Package config provides configuration management for logscan.
// Configuration is loaded from a YAML file and merged with CLI flags,
// with flags taking precedence over file settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config filename looked up in the working
// directory when no explicit path is given.
const DefaultConfigFile = ".logscan.yaml"

// Config represents logscan configuration options.
type Config struct {
	// Workers is the number of concurrent file scans (0 = number of CPUs)
	Workers int `yaml:"workers"`

	// SizeLimit is the per-file size cap in bytes (inclusive)
	SizeLimit int64 `yaml:"-"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// Include is a list of glob patterns a candidate file must match
	Include []string `yaml:"include"`

	// Exclude is a list of glob patterns that drop a candidate file
	Exclude []string `yaml:"exclude"`

	// ErrorPatterns are extra substrings classified as errors
	ErrorPatterns []string `yaml:"error_patterns"`

	// WarnPatterns are extra substrings classified as warnings
	WarnPatterns []string `yaml:"warn_patterns"`

	// NoProgress disables the per-file progress display
	NoProgress bool `yaml:"no_progress"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Workers:   0, // Number of CPUs
		SizeLimit: 64 * 1024 * 1024,
		LogLevel:  "info",
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Size limit is accepted as a humanized string ("64MB", "1GiB"), so it
	// goes through a temporary struct before landing in Config.
	type yamlConfig struct {
		Workers       int      `yaml:"workers"`
		SizeLimit     string   `yaml:"size_limit"`
		LogLevel      string   `yaml:"log_level"`
		Include       []string `yaml:"include"`
		Exclude       []string `yaml:"exclude"`
		ErrorPatterns []string `yaml:"error_patterns"`
		WarnPatterns  []string `yaml:"warn_patterns"`
		NoProgress    bool     `yaml:"no_progress"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.Workers != 0 {
		cfg.Workers = yamlCfg.Workers
	}
	if yamlCfg.SizeLimit != "" {
		limit, err := ParseSize(yamlCfg.SizeLimit)
		if err != nil {
			return nil, fmt.Errorf("invalid size_limit %q: %w", yamlCfg.SizeLimit, err)
		}
		cfg.SizeLimit = limit
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if len(yamlCfg.Include) > 0 {
		cfg.Include = yamlCfg.Include
	}
	if len(yamlCfg.Exclude) > 0 {
		cfg.Exclude = yamlCfg.Exclude
	}
	if len(yamlCfg.ErrorPatterns) > 0 {
		cfg.ErrorPatterns = yamlCfg.ErrorPatterns
	}
	if len(yamlCfg.WarnPatterns) > 0 {
		cfg.WarnPatterns = yamlCfg.WarnPatterns
	}
	if yamlCfg.NoProgress {
		cfg.NoProgress = yamlCfg.NoProgress
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .logscan.yaml in the
// specified directory. If the file doesn't exist, returns default
// configuration without error.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, DefaultConfigFile))
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(workers *int, sizeLimit *int64, logLevel *string, include, exclude, errorPatterns, warnPatterns *[]string, noProgress *bool) {
	if workers != nil {
		c.Workers = *workers
	}
	if sizeLimit != nil {
		c.SizeLimit = *sizeLimit
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if include != nil {
		c.Include = *include
	}
	if exclude != nil {
		c.Exclude = *exclude
	}
	if errorPatterns != nil {
		c.ErrorPatterns = *errorPatterns
	}
	if warnPatterns != nil {
		c.WarnPatterns = *warnPatterns
	}
	if noProgress != nil {
		c.NoProgress = *noProgress
	}
}

// Validate validates the configuration values.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}

	if c.SizeLimit <= 0 {
		return fmt.Errorf("size limit must be > 0, got %d", c.SizeLimit)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// ParseSize parses a human-readable byte size such as "64MB" or "1GiB".
// Bare numbers are taken as bytes.
func ParseSize(s string) (int64, error) {
	n, err := humanize.ParseBytes(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}
