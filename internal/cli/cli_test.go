package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/compyler/internal/app"
)

func TestParse_Success(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		expected app.Config
	}{
		{
			name: "script only uses defaults",
			args: []string{"scene.mdl"},
			expected: app.Config{
				ScriptPath: "scene.mdl",
				LogLevel:   "warn",
				LogFormat:  "text",
			},
		},
		{
			name: "all flags",
			args: []string{"-o", "out.txt", "--format", "JSON", "-c", "settings.hcl", "--log-level", "DEBUG", "--log-format", "json", "scene.mdl"},
			expected: app.Config{
				ScriptPath: "scene.mdl",
				ConfigPath: "settings.hcl",
				OutputPath: "out.txt",
				Format:     "json",
				LogLevel:   "debug",
				LogFormat:  "json",
			},
		},
		{
			name: "flag equal to default still counts as set",
			args: []string{"--output=../__COMPYLED_CODE__", "-f", "repr", "scene.mdl"},
			expected: app.Config{
				ScriptPath: "scene.mdl",
				OutputPath: "../__COMPYLED_CODE__",
				Format:     "repr",
				LogLevel:   "warn",
				LogFormat:  "text",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			var out bytes.Buffer

			// --- Act ---
			cfg, shouldExit, err := Parse(tc.args, &out)

			// --- Assert ---
			require.NoError(t, err)
			assert.False(t, shouldExit)
			require.NotNil(t, cfg)
			assert.Equal(t, tc.expected, *cfg)
		})
	}
}

func TestParse_ShouldExit(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "short help", args: []string{"-h"}},
		{name: "long help", args: []string{"--help"}},
		{name: "no script", args: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer

			cfg, shouldExit, err := Parse(tc.args, &out)

			require.NoError(t, err)
			assert.True(t, shouldExit)
			assert.Nil(t, cfg)
			assert.Contains(t, out.String(), "Usage:")
			assert.Contains(t, out.String(), "--output")
		})
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		args        []string
		errContains string
	}{
		{name: "unknown flag", args: []string{"--bogus", "s.mdl"}, errContains: "unknown flag: --bogus"},
		{name: "too many scripts", args: []string{"a.mdl", "b.mdl"}, errContains: "accepts at most 1 arg(s), received 2"},
		{name: "bad format", args: []string{"-f", "xml", "s.mdl"}, errContains: `unknown output format "xml"`},
		{name: "bad log level", args: []string{"--log-level", "loud", "s.mdl"}, errContains: `unknown log level "loud"`},
		{name: "bad log format", args: []string{"--log-format", "xml", "s.mdl"}, errContains: `unknown log format "xml"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer

			cfg, shouldExit, err := Parse(tc.args, &out)

			require.Error(t, err)
			assert.False(t, shouldExit)
			assert.Nil(t, cfg)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.errContains)
		})
	}
}
