// Package config loads traceloupe configuration from YAML with
// environment-variable overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Archive ArchiveConfig `yaml:"archive"`
	Export  ExportConfig  `yaml:"export"`
	Log     LogConfig     `yaml:"log"`
}

type ArchiveConfig struct {
	// MaxDepth bounds report-bundle recursion into nested archives.
	MaxDepth int `yaml:"max_depth"`
}

type ExportConfig struct {
	// ErrorsOnly limits markdown export to failed actions.
	ErrorsOnly bool `yaml:"errors_only"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

const maxArchiveDepthLimit = 16

func Default() Config {
	return Config{
		Archive: ArchiveConfig{
			MaxDepth: 4,
		},
		Export: ExportConfig{
			ErrorsOnly: false,
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatText,
		},
	}
}

// Load reads configuration from path, falling back to defaults when the
// file does not exist, then applies TRACELOUPE_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			decoder := yaml.NewDecoder(bytes.NewReader(data))
			decoder.KnownFields(true)
			decodeErr := decoder.Decode(&cfg)
			if errors.Is(decodeErr, io.EOF) {
				decodeErr = nil
			}
			if decodeErr != nil {
				return Config{}, fmt.Errorf("parse yaml %q: %w", path, decodeErr)
			}
			// Reject multi-document configs to keep configuration
			// unambiguous and avoid hidden trailing documents.
			var trailing any
			trailingErr := decoder.Decode(&trailing)
			if trailingErr != nil && !errors.Is(trailingErr, io.EOF) {
				return Config{}, fmt.Errorf("parse yaml %q: %w", path, trailingErr)
			}
			if trailing != nil {
				return Config{}, fmt.Errorf("parse yaml %q: multiple yaml documents are not supported", path)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks configuration invariants.
func Validate(cfg Config) error {
	if cfg.Archive.MaxDepth < 1 || cfg.Archive.MaxDepth > maxArchiveDepthLimit {
		return fmt.Errorf("archive.max_depth must be between 1 and %d (got %d)", maxArchiveDepthLimit, cfg.Archive.MaxDepth)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Log.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", cfg.Log.Level)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Log.Format)) {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("log.format must be one of %s, %s (got %q)", LogFormatText, LogFormatJSON, cfg.Log.Format)
	}

	return nil
}

func applyEnv(cfg *Config) error {
	if maxDepth := os.Getenv("TRACELOUPE_MAX_DEPTH"); maxDepth != "" {
		v, err := strconv.Atoi(maxDepth)
		if err != nil {
			return fmt.Errorf("invalid TRACELOUPE_MAX_DEPTH: %w", err)
		}
		cfg.Archive.MaxDepth = v
	}

	if errorsOnly := os.Getenv("TRACELOUPE_ERRORS_ONLY"); errorsOnly != "" {
		v, err := strconv.ParseBool(errorsOnly)
		if err != nil {
			return fmt.Errorf("invalid TRACELOUPE_ERRORS_ONLY: %w", err)
		}
		cfg.Export.ErrorsOnly = v
	}

	if level := os.Getenv("TRACELOUPE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if format := os.Getenv("TRACELOUPE_LOG_FORMAT"); format != "" {
		cfg.Log.Format = format
	}

	return nil
}
