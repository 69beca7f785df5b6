package app

import (
	"errors"
	"fmt"

	"github.com/vk/compyler/internal/encode"
)

const (
	// DefaultOutputPath is where the result goes when neither a flag nor
	// the settings file names a path.
	DefaultOutputPath = "../__COMPYLED_CODE__"
	DefaultFormat     = string(encode.FormatRepr)
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
)

// Config holds all the necessary configuration for an App instance to run.
// Empty OutputPath and Format mean "not set on the command line", so the
// settings file or the built-in default applies.
type Config struct {
	ScriptPath string // MDL script to compile
	ConfigPath string // optional settings file

	OutputPath string
	Format     string

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScriptPath == "" {
		return nil, errors.New("ScriptPath is a required configuration field and cannot be empty")
	}

	var errs []error
	if cfg.Format != "" {
		if _, err := encode.ParseFormat(cfg.Format); err != nil {
			errs = append(errs, err)
		}
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q: must be one of debug, info, warn, error", cfg.LogLevel))
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q: must be text or json", cfg.LogFormat))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &cfg, nil
}
