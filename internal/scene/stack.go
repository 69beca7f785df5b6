package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrStackUnderflow is returned when popping would remove the base frame.
var ErrStackUnderflow = errors.New("cannot pop the base coordinate frame")

// TransformStack is a stack of coordinate frames. It always holds at least
// one frame, the identity it was created with.
type TransformStack struct {
	frames []mgl64.Mat4
}

// NewTransformStack creates a stack seeded with a single identity frame.
func NewTransformStack() *TransformStack {
	return &TransformStack{frames: []mgl64.Mat4{mgl64.Ident4()}}
}

// Depth returns the number of frames on the stack.
func (s *TransformStack) Depth() int {
	return len(s.frames)
}

// Top returns the current frame.
func (s *TransformStack) Top() mgl64.Mat4 {
	return s.frames[len(s.frames)-1]
}

// Push duplicates the current frame.
func (s *TransformStack) Push() {
	s.frames = append(s.frames, s.Top())
}

// Pop discards the current frame. The base frame cannot be popped.
func (s *TransformStack) Pop() error {
	if len(s.frames) == 1 {
		return ErrStackUnderflow
	}
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

// Apply composes m onto the current frame (top = top * m), so m acts in the
// current frame's local coordinates.
func (s *TransformStack) Apply(m mgl64.Mat4) {
	top := len(s.frames) - 1
	s.frames[top] = s.frames[top].Mul4(m)
}

// Translation returns a matrix that moves points by (x, y, z).
func Translation(x, y, z float64) mgl64.Mat4 {
	return mgl64.Translate3D(x, y, z)
}

// Dilation returns a matrix that scales points by (x, y, z).
func Dilation(x, y, z float64) mgl64.Mat4 {
	return mgl64.Scale3D(x, y, z)
}

// Rotation returns a matrix that rotates points around the named axis by
// the given angle in degrees.
func Rotation(axis string, degrees float64) (mgl64.Mat4, error) {
	rad := mgl64.DegToRad(degrees)
	switch axis {
	case "x":
		return mgl64.HomogRotate3DX(rad), nil
	case "y":
		return mgl64.HomogRotate3DY(rad), nil
	case "z":
		return mgl64.HomogRotate3DZ(rad), nil
	default:
		return mgl64.Mat4{}, fmt.Errorf("unknown rotation axis %q", axis)
	}
}
