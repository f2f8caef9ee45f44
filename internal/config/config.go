// Package config loads kempt's optional YAML configuration file.
//
// The file is read once at startup and never written. Every key is
// optional; missing keys keep the values from DefaultConfig.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/unbound-force/kempt/internal/loader"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory
// when no path is given.
const DefaultFile = ".kempt.yaml"

// Config is the top-level configuration.
type Config struct {
	Format    FormatConfig    `yaml:"format"`
	Highlight HighlightConfig `yaml:"highlight"`
	Export    ExportConfig    `yaml:"export"`
	Log       LogConfig       `yaml:"log"`
	Editor    EditorConfig    `yaml:"editor"`
}

// FormatConfig controls the formatter.
type FormatConfig struct {
	// Language is "python" or "go".
	Language string `yaml:"language"`

	// Level is 0 (layout), 1 (simplify) or 2 (aggressive).
	Level int `yaml:"level"`

	// Autopep8 is the autopep8 executable used for Python.
	Autopep8 string `yaml:"autopep8"`

	// Timeout bounds one autopep8 run. Zero means no limit.
	Timeout time.Duration `yaml:"timeout"`
}

// HighlightConfig controls syntax highlighting.
type HighlightConfig struct {
	// TerminalStyle is the chroma style for terminal panels.
	TerminalStyle string `yaml:"terminal_style"`

	// ImageStyle is the chroma style for image export.
	ImageStyle string `yaml:"image_style"`

	// LineNumbers prefixes panel lines with their number.
	LineNumbers bool `yaml:"line_numbers"`
}

// ExportConfig controls the export sink.
type ExportConfig struct {
	// ImageTimeout bounds the headless browser session.
	ImageTimeout time.Duration `yaml:"image_timeout"`

	// MaxSourceSize rejects larger input, e.g. "1MiB" or "500 kB".
	MaxSourceSize string `yaml:"max_source_size"`
}

// LogConfig controls the error log.
type LogConfig struct {
	// File is the append-only error log path.
	File string `yaml:"file"`
}

// EditorConfig controls source input.
type EditorConfig struct {
	// Enabled uses the full-screen editor when stdin is a terminal.
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Format: FormatConfig{
			Language: string(loader.DefaultLanguage),
			Level:    2,
			Autopep8: "autopep8",
			Timeout:  30 * time.Second,
		},
		Highlight: HighlightConfig{
			TerminalStyle: "monokai",
			ImageStyle:    "dracula",
			LineNumbers:   true,
		},
		Export: ExportConfig{
			ImageTimeout:  60 * time.Second,
			MaxSourceSize: "1MiB",
		},
		Log:    LogConfig{File: "code_formatter.log"},
		Editor: EditorConfig{Enabled: true},
	}
}

// Load reads the config file at path over the defaults. An empty path
// means DefaultFile, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := c.Language(); err != nil {
		return err
	}
	if c.Format.Level < 0 || c.Format.Level > 2 {
		return fmt.Errorf("format.level must be 0, 1 or 2, got %d", c.Format.Level)
	}
	if c.Format.Timeout < 0 {
		return fmt.Errorf("format.timeout must not be negative, got %s", c.Format.Timeout)
	}
	if c.Format.Autopep8 == "" {
		return errors.New("format.autopep8 must not be empty")
	}
	if c.Export.ImageTimeout < 0 {
		return fmt.Errorf("export.image_timeout must not be negative, got %s", c.Export.ImageTimeout)
	}
	if _, err := c.MaxSourceBytes(); err != nil {
		return err
	}
	if c.Log.File == "" {
		return errors.New("log.file must not be empty")
	}
	return nil
}

// Language parses Format.Language. Empty means Python.
func (c *Config) Language() (loader.Language, error) {
	if c.Format.Language == "" {
		return loader.DefaultLanguage, nil
	}
	lang, err := loader.ParseLanguage(c.Format.Language)
	if err != nil {
		return "", fmt.Errorf("format.language: %w", err)
	}
	return lang, nil
}

// MaxSourceBytes parses Export.MaxSourceSize. Zero means no limit.
func (c *Config) MaxSourceBytes() (uint64, error) {
	if c.Export.MaxSourceSize == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(c.Export.MaxSourceSize)
	if err != nil {
		return 0, fmt.Errorf("export.max_source_size %q: %w", c.Export.MaxSourceSize, err)
	}
	return n, nil
}
