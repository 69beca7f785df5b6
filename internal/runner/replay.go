package runner

import (
	"context"
	"errors"

	"github.com/vk/compyler/internal/ctxlog"
	"github.com/vk/compyler/internal/mdl"
	"github.com/vk/compyler/internal/scene"
)

// replay applies the coordinate-system commands to stack in script order.
// Problems are logged and never stop the run; the encoded output does not
// depend on the stack.
func replay(ctx context.Context, stack *scene.TransformStack, commands []*mdl.Command) {
	logger := ctxlog.FromContext(ctx)

	for _, cmd := range commands {
		line := cmd.Range.Start.Line
		switch cmd.Op {
		case "push":
			stack.Push()
		case "pop":
			if err := stack.Pop(); errors.Is(err, scene.ErrStackUnderflow) {
				logger.Warn("Pop without matching push, ignoring.", "line", line)
			}
		case "move", "scale":
			xyz, ok := floats(cmd.Args(), 3)
			if !ok {
				logger.Warn("Skipping transform with malformed arguments.", "op", cmd.Op, "line", line)
				continue
			}
			if cmd.Op == "move" {
				stack.Apply(scene.Translation(xyz[0], xyz[1], xyz[2]))
			} else {
				stack.Apply(scene.Dilation(xyz[0], xyz[1], xyz[2]))
			}
		case "rotate":
			args := cmd.Args()
			var axis string
			var deg []float64
			ok := len(args) == 2
			if ok {
				axis, ok = args[0].(string)
			}
			if ok {
				deg, ok = floats(args[1:], 1)
			}
			if !ok {
				logger.Warn("Skipping transform with malformed arguments.", "op", cmd.Op, "line", line)
				continue
			}
			m, err := scene.Rotation(axis, deg[0])
			if err != nil {
				logger.Warn("Skipping rotation.", "line", line, "error", err)
				continue
			}
			stack.Apply(m)
		default:
			continue
		}
		if knob, ok := cmd.Knob(); ok {
			// Knob values are only known at render time.
			logger.Debug("Transform replayed without its knob.", "op", cmd.Op, "knob", knob, "line", line)
		}
	}

	if extra := stack.Depth() - 1; extra > 0 {
		logger.Warn("Script ends with unbalanced push.", "open_frames", extra)
	}
	logger.Debug("Transforms replayed.", "depth", stack.Depth(), "top", stack.Top())
}

func floats(args []any, n int) ([]float64, bool) {
	if len(args) != n {
		return nil, false
	}
	out := make([]float64, n)
	for i, a := range args {
		f, ok := a.(float64)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}
