// Package runner drives a single compile: it parses a script, replays its
// coordinate-system commands, and writes the encoded result to the output
// file.
package runner

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/vk/compyler/internal/ctxlog"
	"github.com/vk/compyler/internal/encode"
	"github.com/vk/compyler/internal/fsutil"
	"github.com/vk/compyler/internal/mdl"
	"github.com/vk/compyler/internal/scene"
	"github.com/vk/compyler/internal/value"
)

// ParsingFailedMessage is written to the user-facing stream when a script
// cannot be parsed.
const ParsingFailedMessage = "Parsing failed."

// Parser is the interface for the MDL parser collaborator.
type Parser interface {
	ParseFile(ctx context.Context, path string) mdl.Result
}

// State is the lifecycle position of a run.
type State int

const (
	StateParsing State = iota
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateParsing:
		return "parsing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configures a Runner.
type Options struct {
	// Out receives user-facing messages such as ParsingFailedMessage.
	Out io.Writer
	// Diagnostics receives parser diagnostics. Defaults to io.Discard.
	Diagnostics io.Writer
	OutputPath  string
	Format      encode.Format
	Defaults    scene.Defaults
}

// Runner compiles scripts into the output file.
type Runner struct {
	parser Parser
	opts   Options
}

// New creates a runner. A zero Format means repr.
func New(parser Parser, opts Options) *Runner {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Diagnostics == nil {
		opts.Diagnostics = io.Discard
	}
	if opts.Format == "" {
		opts.Format = encode.FormatRepr
	}
	return &Runner{parser: parser, opts: opts}
}

// Run parses filename and, on success, replaces the output file with the
// encoded (commands, symbols) pair. A parse failure, or a parser that
// returns no result, is reported to Out and yields StateFailed with a nil
// error; only encode and I/O failures return an error.
func (r *Runner) Run(ctx context.Context, filename string) (State, error) {
	ctx = ctxlog.With(ctx, "run_id", uuid.NewString())
	logger := ctxlog.FromContext(ctx)
	logger.Info("Run started.", "script", filename, "output", r.opts.OutputPath, "format", string(r.opts.Format))

	defaults := r.opts.Defaults
	if err := defaults.Validate(); err != nil {
		return StateFailed, fmt.Errorf("invalid scene defaults: %w", err)
	}
	stack := scene.NewTransformStack()
	logger.Debug("Scene prepared.", "step", defaults.Step3D, "view", defaults.View)

	state := StateParsing
	res := r.parser.ParseFile(ctx, filename)
	if success, ok := res.(*mdl.Success); ok && success != nil {
		replay(ctx, stack, success.Commands)
		if err := r.write(ctx, success); err != nil {
			return StateFailed, err
		}
		state = StateDone
	} else {
		// Anything but a usable Success, including no result at all, is a
		// failed parse.
		if err := r.reportFailure(ctx, filename, res); err != nil {
			return StateFailed, err
		}
		state = StateFailed
	}

	logger.Info("Run finished.", "state", state.String())
	return state, nil
}

func (r *Runner) reportFailure(ctx context.Context, filename string, res mdl.Result) error {
	logger := ctxlog.FromContext(ctx)

	failure, _ := res.(*mdl.Failure)
	if failure == nil {
		logger.Info("Parsing failed.", "script", filename, "result", fmt.Sprintf("%T", res))
	} else {
		logger.Info("Parsing failed.", "script", filename, "error", failure.Error())
	}

	if _, err := fmt.Fprintln(r.opts.Out, ParsingFailedMessage); err != nil {
		return fmt.Errorf("failed to report parse failure: %w", err)
	}
	if failure != nil {
		if err := failure.WriteDiagnostics(r.opts.Diagnostics, 0); err != nil {
			logger.Warn("Could not print diagnostics.", "error", err)
		}
	}
	return nil
}

func (r *Runner) write(ctx context.Context, res *mdl.Success) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run cancelled before writing %s: %w", r.opts.OutputPath, err)
	}
	pair := res.Pair()
	commands, symbols := pair[0].(value.List), pair[1].(*value.Dict)

	err := fsutil.WriteFileAtomic(r.opts.OutputPath, 0o644, func(w io.Writer) error {
		return encode.Encode(r.opts.Format, w, commands, symbols)
	})
	if err != nil {
		return fmt.Errorf("failed to write output file %s: %w", r.opts.OutputPath, err)
	}
	ctxlog.FromContext(ctx).Debug("Output written.", "path", r.opts.OutputPath, "commands", len(commands), "symbols", symbols.Len())
	return nil
}
