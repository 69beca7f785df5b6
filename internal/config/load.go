package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/compyler/internal/ctxlog"
	"github.com/vk/compyler/internal/scene"
	"gopkg.in/yaml.v3"
)

// FileLoader loads settings from HCL, TOML or YAML files.
type FileLoader struct{}

// NewLoader creates a new settings file loader.
func NewLoader() *FileLoader {
	return &FileLoader{}
}

type decodeFunc func(path string, src []byte, root *fileRoot) error

var decoders = map[string]decodeFunc{
	".hcl":  decodeHCL,
	".toml": decodeTOML,
	".yaml": decodeYAML,
	".yml":  decodeYAML,
}

// Load reads the settings file at path. An empty path yields the built-in
// defaults.
func (l *FileLoader) Load(ctx context.Context, path string) (*Settings, error) {
	logger := ctxlog.FromContext(ctx)
	if path == "" {
		logger.Debug("No settings file given, using built-in defaults.")
		return &Settings{Scene: scene.NewDefaults()}, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported settings file extension %q for %s: must be one of %s", ext, path, strings.Join(extensions(), ", "))
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	var root fileRoot
	if err := decode(path, src, &root); err != nil {
		return nil, err
	}
	s, err := root.toSettings()
	if err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}

	logger.Debug("Settings file loaded.", "path", path, "output", s.Output, "format", s.Format)
	return s, nil
}

func extensions() []string {
	exts := make([]string, 0, len(decoders))
	for ext := range decoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func decodeHCL(path string, src []byte, root *fileRoot) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	diags = gohcl.DecodeBody(file.Body, nil, root)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	return nil
}

func decodeTOML(path string, src []byte, root *fileRoot) error {
	md, err := toml.Decode(string(src), root)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("failed to decode TOML file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func decodeYAML(path string, src []byte, root *fileRoot) error {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	// An empty document decodes to io.EOF and means "no overrides".
	if err := dec.Decode(root); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}
	return nil
}
