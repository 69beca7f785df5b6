// Package scene holds the rendering state a script starts from: the default
// view, lighting and reflection constants, and the stack of coordinate
// frames that transforms apply to.
package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Light is a point light source.
type Light struct {
	Location mgl64.Vec3
	Color    mgl64.Vec3
}

// Reflection holds per-channel reflection coefficients.
type Reflection struct {
	Ambient  mgl64.Vec3
	Diffuse  mgl64.Vec3
	Specular mgl64.Vec3
}

// Defaults is the scene state a script starts from. A fresh value is built
// for every run; nothing here is shared between runs.
type Defaults struct {
	View    mgl64.Vec3
	Ambient mgl64.Vec3
	Light   Light
	Reflect Reflection
	Color   mgl64.Vec3
	Step3D  int
}

// NewDefaults returns the built-in scene defaults.
func NewDefaults() Defaults {
	return Defaults{
		View:    mgl64.Vec3{0, 0, 1},
		Ambient: mgl64.Vec3{50, 50, 50},
		Light: Light{
			Location: mgl64.Vec3{0.5, 0.75, 1},
			Color:    mgl64.Vec3{0, 255, 255},
		},
		Reflect: Reflection{
			Ambient:  mgl64.Vec3{0.1, 0.1, 0.1},
			Diffuse:  mgl64.Vec3{0.5, 0.5, 0.5},
			Specular: mgl64.Vec3{0.5, 0.5, 0.5},
		},
		Color:  mgl64.Vec3{0, 0, 0},
		Step3D: 20,
	}
}

// Validate checks that the defaults describe a usable scene.
func (d Defaults) Validate() error {
	var errs []error
	if d.Step3D <= 0 {
		errs = append(errs, fmt.Errorf("step must be positive, got %d", d.Step3D))
	}
	if d.View.Len() == 0 {
		errs = append(errs, errors.New("view vector must not be zero"))
	}
	for _, r := range []struct {
		name   string
		coeffs mgl64.Vec3
	}{
		{"ambient", d.Reflect.Ambient},
		{"diffuse", d.Reflect.Diffuse},
		{"specular", d.Reflect.Specular},
	} {
		for _, c := range r.coeffs {
			if c < 0 || c > 1 {
				errs = append(errs, fmt.Errorf("%s reflection coefficients must be within [0, 1], got %v", r.name, r.coeffs))
				break
			}
		}
	}
	return errors.Join(errs...)
}
