package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vk/compyler/internal/scene"
)

// Settings is the format-agnostic result of loading a settings file. Empty
// strings mean the file did not set the value.
type Settings struct {
	Output string
	Format string
	Scene  scene.Defaults
}

// Loader is the interface for loading settings from a path.
type Loader interface {
	// Load reads the settings file at path. An empty path yields the
	// built-in defaults.
	Load(ctx context.Context, path string) (*Settings, error)
}

// fileRoot mirrors the on-disk schema. Every field is optional, so pointers
// and nil slices tell "absent" apart from a zero value.
type fileRoot struct {
	Output *string    `hcl:"output,optional" toml:"output" yaml:"output"`
	Format *string    `hcl:"format,optional" toml:"format" yaml:"format"`
	Scene  *fileScene `hcl:"scene,block" toml:"scene" yaml:"scene"`
}

type fileScene struct {
	View    []float64    `hcl:"view,optional" toml:"view" yaml:"view"`
	Ambient []float64    `hcl:"ambient,optional" toml:"ambient" yaml:"ambient"`
	Color   []float64    `hcl:"color,optional" toml:"color" yaml:"color"`
	Step    *int         `hcl:"step,optional" toml:"step" yaml:"step"`
	Light   *fileLight   `hcl:"light,block" toml:"light" yaml:"light"`
	Reflect *fileReflect `hcl:"reflect,block" toml:"reflect" yaml:"reflect"`
}

type fileLight struct {
	Location []float64 `hcl:"location,optional" toml:"location" yaml:"location"`
	Color    []float64 `hcl:"color,optional" toml:"color" yaml:"color"`
}

type fileReflect struct {
	Ambient  []float64 `hcl:"ambient,optional" toml:"ambient" yaml:"ambient"`
	Diffuse  []float64 `hcl:"diffuse,optional" toml:"diffuse" yaml:"diffuse"`
	Specular []float64 `hcl:"specular,optional" toml:"specular" yaml:"specular"`
}

// toSettings layers the decoded file over the built-in defaults.
func (r *fileRoot) toSettings() (*Settings, error) {
	s := &Settings{Scene: scene.NewDefaults()}
	if r.Output != nil {
		s.Output = *r.Output
	}
	if r.Format != nil {
		s.Format = *r.Format
	}

	var errs []error
	vec := func(name string, src []float64, dst *mgl64.Vec3) {
		if src == nil {
			return
		}
		if len(src) != 3 {
			errs = append(errs, fmt.Errorf("scene.%s must have exactly 3 elements, got %d", name, len(src)))
			return
		}
		*dst = mgl64.Vec3{src[0], src[1], src[2]}
	}

	if sc := r.Scene; sc != nil {
		vec("view", sc.View, &s.Scene.View)
		vec("ambient", sc.Ambient, &s.Scene.Ambient)
		vec("color", sc.Color, &s.Scene.Color)
		if sc.Step != nil {
			s.Scene.Step3D = *sc.Step
		}
		if l := sc.Light; l != nil {
			vec("light.location", l.Location, &s.Scene.Light.Location)
			vec("light.color", l.Color, &s.Scene.Light.Color)
		}
		if rf := sc.Reflect; rf != nil {
			vec("reflect.ambient", rf.Ambient, &s.Scene.Reflect.Ambient)
			vec("reflect.diffuse", rf.Diffuse, &s.Scene.Reflect.Diffuse)
			vec("reflect.specular", rf.Specular, &s.Scene.Reflect.Specular)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := s.Scene.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
