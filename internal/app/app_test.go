package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/compyler/internal/config"
	"github.com/vk/compyler/internal/runner"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name        string
		cfg         Config
		errContains []string
	}{
		{name: "minimal", cfg: Config{ScriptPath: "s.mdl"}},
		{name: "fully set", cfg: Config{ScriptPath: "s.mdl", Format: "yaml", LogLevel: "debug", LogFormat: "json"}},
		{name: "missing script", cfg: Config{}, errContains: []string{"ScriptPath is a required"}},
		{
			name:        "bad values",
			cfg:         Config{ScriptPath: "s.mdl", Format: "xml", LogLevel: "loud", LogFormat: "xml"},
			errContains: []string{`unknown output format "xml"`, `unknown log level "loud"`, `unknown log format "xml"`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if len(tc.errContains) == 0 {
				require.NoError(t, err)
				assert.Equal(t, tc.cfg, *cfg)
				return
			}
			require.Error(t, err)
			for _, s := range tc.errContains {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		level   string
		enabled slog.Level
		muted   slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 1},
		{"info", slog.LevelInfo, slog.LevelDebug},
		{"warn", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"", slog.LevelWarn, slog.LevelInfo},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			logger := newLogger(tc.level, "text", io.Discard)
			assert.True(t, logger.Enabled(ctx, tc.enabled))
			assert.False(t, logger.Enabled(ctx, tc.muted))
		})
	}

	var buf bytes.Buffer
	newLogger("info", "json", &buf).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestApp_CompilesScript(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	script := writeFile(t, dir, "scene.mdl", "// a box\nbox 0 0 0 10 10 10\n")
	outPath := filepath.Join(dir, "out")
	a, out, logs := SetupAppTest(t, &Config{ScriptPath: script, OutputPath: outPath})

	// --- Act ---
	state, err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, runner.StateDone, state)
	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "([{'op': 'box', 'constants': None, 'cs': None, 'args': [0.0, 0.0, 0.0, 10.0, 10.0, 10.0]}], {})", string(content))
	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), "run_id=")
}

func TestApp_ParseFailureIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "bad.mdl", "frobnicate 1 2 3\n")
	outPath := filepath.Join(dir, "out")
	a, out, logs := SetupAppTest(t, &Config{ScriptPath: script, OutputPath: outPath})

	state, err := a.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, runner.StateFailed, state)
	assert.Equal(t, "Parsing failed.\n", out.String())
	assert.Contains(t, logs.String(), "Unrecognized command")
	assert.NoFileExists(t, outPath)
}

func TestApp_SettingsPrecedence(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	script := writeFile(t, dir, "s.mdl", "line 0 0 0 1 1 1\n")
	fromSettings := filepath.Join(dir, "from-settings")
	settings := writeFile(t, dir, "settings.toml", "output = \""+filepath.ToSlash(fromSettings)+"\"\nformat = \"json\"\n\n[scene]\nstep = 5\n")

	testCases := []struct {
		name           string
		cfg            Config
		expectedPath   string
		expectedPrefix string
	}{
		{
			name:           "settings override defaults",
			cfg:            Config{ScriptPath: script, ConfigPath: settings},
			expectedPath:   fromSettings,
			expectedPrefix: "[[{",
		},
		{
			name:           "flags override settings",
			cfg:            Config{ScriptPath: script, ConfigPath: settings, OutputPath: filepath.Join(dir, "from-flag"), Format: "repr"},
			expectedPath:   filepath.Join(dir, "from-flag"),
			expectedPrefix: "([{",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			a, _, _ := SetupAppTest(t, &cfg)

			// --- Act ---
			_, err := a.Run(context.Background())

			// --- Assert ---
			require.NoError(t, err)
			assert.Equal(t, 5, a.Settings().Scene.Step3D)
			content, err := os.ReadFile(tc.expectedPath)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(content, []byte(tc.expectedPrefix)), "got %q", content)
		})
	}
}

func TestNewApp_BadSettings(t *testing.T) {
	dir := t.TempDir()
	settings := writeFile(t, dir, "settings.yaml", "scene:\n  view: [1]\n")
	cfg := &Config{ScriptPath: "s.mdl", ConfigPath: settings}

	_, err := NewApp(io.Discard, io.Discard, cfg, config.NewLoader())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load settings")
	assert.Contains(t, err.Error(), "scene.view must have exactly 3 elements")
}

func TestNewApp_BadFormatInSettings(t *testing.T) {
	dir := t.TempDir()
	settings := writeFile(t, dir, "settings.hcl", "format = \"xml\"\n")
	cfg := &Config{ScriptPath: "s.mdl", ConfigPath: settings}

	_, err := NewApp(io.Discard, io.Discard, cfg, config.NewLoader())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}

func TestApp_OutputDirectoryMissing(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "s.mdl", "push\npop\n")
	a, _, _ := SetupAppTest(t, &Config{ScriptPath: script, OutputPath: filepath.Join(dir, "missing", "out")})

	state, err := a.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, runner.StateFailed, state)
	assert.Contains(t, err.Error(), "compile failed")
}
