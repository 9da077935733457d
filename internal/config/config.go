package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"

	"github.com/adrg/xdg"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"litediff/internal/fault"
)

// DefaultMaxFileSize is the content comparison ceiling: equal-sized files
// larger than this are never read.
const DefaultMaxFileSize uint64 = 10 * 1024 * 1024

// FileName is the config file looked up in the XDG config directories.
const FileName = "litediff/config.yaml"

type Config struct {
	Exclude              []string `yaml:"exclude"`
	MaxFileSize          uint64   `yaml:"max_file_size"`
	IgnoreContents       bool     `yaml:"ignore_contents"`
	IgnoreEndOfLine      bool     `yaml:"ignore_end_of_line"`
	IgnoreTrimWhitespace bool     `yaml:"ignore_trim_whitespace"`
	Workers              int      `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Exclude:     []string{},
		MaxFileSize: DefaultMaxFileSize,
		Workers:     runtime.NumCPU() * 2,
	}
}

// Locate returns the first litediff/config.yaml found in the XDG config
// directories, or "" when there is none.
func Locate() string {
	path, err := xdg.SearchConfigFile(FileName)
	if err != nil {
		return ""
	}
	return path
}

// LoadConfig reads a YAML config file over the defaults. A missing file
// yields the defaults. The result is validated before it is returned.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", fault.Read("read config", path, err))
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fault.New(fault.CodeInvalidConfig, "parse config YAML", path, err)
	}

	// Initialize Exclude slice if nil (for "exclude:" with no items)
	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects malformed exclude globs so a walk never applies a partial
// rule set.
func (c *Config) Validate() error {
	if c == nil {
		return fault.New(fault.CodeInvalidConfig, "validate config", "", errors.New("nil config"))
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fault.New(fault.CodeInvalidConfig, "exclude pattern", pattern, doublestar.ErrBadPattern)
		}
	}
	return nil
}

// Excluded reports whether a /-separated relative path matches any exclude
// glob. Dot-files are matched like any other name.
func (c *Config) Excluded(relPath string) bool {
	for _, pattern := range c.Exclude {
		if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
			return true
		}
	}
	return false
}

// WorkerCount returns Workers clamped to at least one.
func (c *Config) WorkerCount() int {
	if c.Workers <= 0 {
		return 1
	}
	return c.Workers
}

func (c *Config) Clone() *Config {
	clone := *c
	clone.Exclude = slices.Clone(c.Exclude)
	return &clone
}
