package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/compyler/internal/app"
	"github.com/vk/compyler/internal/encode"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, outW io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var (
		cfg     app.Config
		matched bool
	)

	cmd := &cobra.Command{
		Use:   "compyler [flags] SCRIPT",
		Short: "Compile an MDL script into its command list and symbol table.",
		Long: `compyler parses an MDL graphics script and writes the resulting
(commands, symbols) pair to the output file.

Arguments:
  SCRIPT
    Path to the MDL script to compile.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				slog.Debug("No script path provided, printing usage and exiting.")
				return cmd.Usage()
			}
			cfg.ScriptPath = args[0]
			matched = true
			return nil
		},
	}
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(outW)
	cmd.SetErr(outW)

	flags := cmd.Flags()
	outputPath := flags.StringP("output", "o", app.DefaultOutputPath, "Path of the file the result is written to.")
	format := flags.StringP("format", "f", app.DefaultFormat, "Output format. Options: "+strings.Join(encode.Formats(), ", ")+".")
	flags.StringVarP(&cfg.ConfigPath, "config", "c", "", "Optional settings file (.hcl, .toml, .yaml or .yml).")
	logLevel := flags.String("log-level", app.DefaultLogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	logFormat := flags.String("log-format", app.DefaultLogFormat, "Log output format. Options: 'text' or 'json'.")

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if !matched {
		// Help was requested or no script was given.
		return nil, true, nil
	}
	slog.Debug("Arguments parsed successfully.")

	// Only flags set on the command line override the settings file.
	if flags.Changed("output") {
		cfg.OutputPath = *outputPath
	}
	if flags.Changed("format") {
		cfg.Format = strings.ToLower(*format)
	}
	cfg.LogLevel = strings.ToLower(*logLevel)
	cfg.LogFormat = strings.ToLower(*logFormat)

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
