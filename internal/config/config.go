// Package config loads settings for the lingo commands from a YAML file and
// LINGO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".lingo.yml"

const envPrefix = "LINGO_"

var (
	ErrInvalidLevel = errors.New("invalid log level")
	ErrInvalidColor = errors.New("invalid color mode")
	ErrInvalidWidth = errors.New("invalid excerpt width")
)

type Config struct {
	LogLevel string `yaml:"log_level"`
	// Color is "auto", "always" or "never".
	Color string `yaml:"color"`
	// ExcerptWidth limits the source lines shown in diagnostics; 0 uses the
	// terminal width.
	ExcerptWidth int `yaml:"excerpt_width"`
	// Start names the production parses begin at.
	Start string `yaml:"start"`
	// Trace logs every production attempt.
	Trace bool `yaml:"trace"`
}

func Default() *Config {
	return &Config{
		LogLevel: "info",
		Color:    "auto",
		Start:    "Document",
	}
}

// Load reads path, or FileName in the working directory when path is empty,
// over the defaults and applies environment overrides. A missing default
// file is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = FileName
	}
	data, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.LoadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv applies LINGO_LOG_LEVEL, LINGO_COLOR, LINGO_EXCERPT_WIDTH,
// LINGO_START and LINGO_TRACE.
func (c *Config) LoadEnv() error {
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(envPrefix + "COLOR"); v != "" {
		c.Color = v
	}
	if v := os.Getenv(envPrefix + "START"); v != "" {
		c.Start = v
	}
	if v := os.Getenv(envPrefix + "EXCERPT_WIDTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer for %sEXCERPT_WIDTH: %q", envPrefix, v)
		}
		c.ExcerptWidth = n
	}
	if v := os.Getenv(envPrefix + "TRACE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean for %sTRACE: %q (expected true/false/1/0)", envPrefix, v)
		}
		c.Trace = b
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.LogLevel) {
	case "debug", "trace", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLevel, c.LogLevel))
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidColor, c.Color))
	}
	if c.ExcerptWidth < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidWidth, c.ExcerptWidth))
	}
	return errors.Join(errs...)
}

// ToYAML renders c as a configuration file.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
