package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/compyler/internal/config"
	"github.com/vk/compyler/internal/ctxlog"
	"github.com/vk/compyler/internal/encode"
	"github.com/vk/compyler/internal/mdl"
	"github.com/vk/compyler/internal/runner"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger   *slog.Logger
	config   *Config
	settings *config.Settings
	runner   *runner.Runner
}

// NewApp is the constructor for the main application. User-facing messages
// go to outW; logs and parser diagnostics go to errW. Settings are loaded
// through loader, and explicitly set fields of cfg take precedence over them.
func NewApp(outW, errW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	settings, err := loader.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	outputPath := firstNonEmpty(cfg.OutputPath, settings.Output, DefaultOutputPath)
	format, err := encode.ParseFormat(firstNonEmpty(cfg.Format, settings.Format, DefaultFormat))
	if err != nil {
		return nil, err
	}
	logger.Debug("Configuration resolved.", "script", cfg.ScriptPath, "output", outputPath, "format", string(format))

	r := runner.New(mdl.NewParser(), runner.Options{
		Out:         outW,
		Diagnostics: errW,
		OutputPath:  outputPath,
		Format:      format,
		Defaults:    settings.Scene,
	})

	return &App{
		logger:   logger,
		config:   cfg,
		settings: settings,
		runner:   r,
	}, nil
}

// Run compiles the configured script. A parse failure is not an error: it
// is reported to the user and yields runner.StateFailed.
func (a *App) Run(ctx context.Context) (runner.State, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	state, err := a.runner.Run(ctx, a.config.ScriptPath)
	if err != nil {
		return state, fmt.Errorf("compile failed: %w", err)
	}

	a.logger.Debug("App.Run method finished.", "state", state.String())
	return state, nil
}

// Settings returns the loaded settings. This is primarily for testing.
func (a *App) Settings() *config.Settings {
	return a.settings
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
