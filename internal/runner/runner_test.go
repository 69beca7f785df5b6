package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/compyler/internal/ctxlog"
	"github.com/vk/compyler/internal/encode"
	"github.com/vk/compyler/internal/mdl"
	"github.com/vk/compyler/internal/scene"
	"github.com/vk/compyler/internal/value"
)

// stubParser returns a canned result and records the paths it was given.
type stubParser struct {
	result mdl.Result
	calls  []string
}

func (p *stubParser) ParseFile(_ context.Context, path string) mdl.Result {
	p.calls = append(p.calls, path)
	return p.result
}

func testContext(w io.Writer) context.Context {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}

func newTestRunner(p Parser, out io.Writer, outputPath string) *Runner {
	return New(p, Options{
		Out:        out,
		OutputPath: outputPath,
		Defaults:   scene.NewDefaults(),
	})
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestRun_EmptyScript(t *testing.T) {
	// --- Arrange ---
	outPath := filepath.Join(t.TempDir(), "__COMPYLED_CODE__")
	p := &stubParser{result: &mdl.Success{Symbols: mdl.NewSymbolTable()}}
	var out bytes.Buffer
	r := newTestRunner(p, &out, outPath)

	// --- Act ---
	state, err := r.Run(testContext(io.Discard), "empty.mdl")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, StateDone, state)
	assert.Equal(t, []string{"empty.mdl"}, p.calls)
	assert.Equal(t, "([], {})", readFile(t, outPath))
	assert.Empty(t, out.String())
}

func TestRun_WritesPairRepr(t *testing.T) {
	// --- Arrange ---
	outPath := filepath.Join(t.TempDir(), "out")
	p := &stubParser{result: &mdl.Success{
		Commands: []*mdl.Command{mdl.NewCommand("line")},
		Symbols:  mdl.SymbolTableFromDict(value.DictOf("x", 1)),
	}}
	r := newTestRunner(p, io.Discard, outPath)

	// --- Act ---
	state, err := r.Run(testContext(io.Discard), "s.mdl")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, StateDone, state)
	assert.Equal(t, "([{'op': 'line'}], {'x': 1})", readFile(t, outPath))
}

func TestRun_ParseFailure(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out")
	p := &stubParser{result: &mdl.Failure{
		Path: "bad.mdl",
		Diagnostics: hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unrecognized command",
			Detail:   `"frobnicate" is not an MDL command.`,
		}},
	}}
	var out, diag bytes.Buffer
	r := New(p, Options{Out: &out, Diagnostics: &diag, OutputPath: outPath, Defaults: scene.NewDefaults()})

	// --- Act ---
	state, err := r.Run(testContext(io.Discard), "bad.mdl")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, StateFailed, state)
	assert.Equal(t, "Parsing failed.\n", out.String())
	assert.Contains(t, diag.String(), "Unrecognized command")
	_, statErr := os.Stat(outPath)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "output file must not be created")
}

func TestRun_NoResultIsParseFailure(t *testing.T) {
	testCases := []struct {
		name   string
		result mdl.Result
	}{
		{name: "nil result", result: nil},
		{name: "nil success", result: (*mdl.Success)(nil)},
		{name: "nil failure", result: (*mdl.Failure)(nil)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			outPath := filepath.Join(t.TempDir(), "out")
			var out bytes.Buffer
			r := newTestRunner(&stubParser{result: tc.result}, &out, outPath)

			// --- Act ---
			state, err := r.Run(testContext(io.Discard), "s.mdl")

			// --- Assert ---
			require.NoError(t, err)
			assert.Equal(t, StateFailed, state)
			assert.Equal(t, "Parsing failed.\n", out.String())
			assert.NoFileExists(t, outPath)
		})
	}
}

func TestRun_ContextWithoutLogger(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out")
	p := &stubParser{result: &mdl.Success{Symbols: mdl.NewSymbolTable()}}

	state, err := newTestRunner(p, io.Discard, outPath).Run(context.Background(), "s.mdl")

	require.NoError(t, err)
	assert.Equal(t, StateDone, state)
	assert.Equal(t, "([], {})", readFile(t, outPath))
}

func TestRun_ParseFailureKeepsExistingOutput(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(outPath, []byte("previous"), 0o644))
	p := &stubParser{result: &mdl.Failure{Path: "missing.mdl", Err: os.ErrNotExist}}

	state, err := newTestRunner(p, io.Discard, outPath).Run(testContext(io.Discard), "missing.mdl")

	require.NoError(t, err)
	assert.Equal(t, StateFailed, state)
	assert.Equal(t, "previous", readFile(t, outPath))
}

func TestRun_Idempotent(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out")
	p := &stubParser{result: &mdl.Success{
		Commands: []*mdl.Command{mdl.NewCommand("sphere", "constants", nil, "args", value.List{0.0, 0.0, 0.0, 50.0}, "cs", nil)},
		Symbols:  mdl.NewSymbolTable(),
	}}
	r := newTestRunner(p, io.Discard, outPath)

	_, err := r.Run(testContext(io.Discard), "s.mdl")
	require.NoError(t, err)
	first := readFile(t, outPath)

	_, err = r.Run(testContext(io.Discard), "s.mdl")
	require.NoError(t, err)
	assert.Equal(t, first, readFile(t, outPath))

	entries, err := os.ReadDir(filepath.Dir(outPath))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files should be left behind")
}

func TestRun_OutputDirectoryMissing(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "no", "such", "dir", "out")
	p := &stubParser{result: &mdl.Success{Symbols: mdl.NewSymbolTable()}}

	state, err := newTestRunner(p, io.Discard, outPath).Run(testContext(io.Discard), "s.mdl")

	require.Error(t, err)
	assert.Equal(t, StateFailed, state)
	assert.Contains(t, err.Error(), "failed to write output file")
}

func TestRun_CancelledBeforeWrite(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out")
	p := &stubParser{result: &mdl.Success{Symbols: mdl.NewSymbolTable()}}
	ctx, cancel := context.WithCancel(testContext(io.Discard))
	cancel()

	state, err := newTestRunner(p, io.Discard, outPath).Run(ctx, "s.mdl")

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateFailed, state)
	_, statErr := os.Stat(outPath)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestRun_InvalidDefaults(t *testing.T) {
	defaults := scene.NewDefaults()
	defaults.Step3D = -1
	p := &stubParser{result: &mdl.Success{Symbols: mdl.NewSymbolTable()}}
	r := New(p, Options{OutputPath: filepath.Join(t.TempDir(), "out"), Defaults: defaults})

	state, err := r.Run(testContext(io.Discard), "s.mdl")

	require.Error(t, err)
	assert.Equal(t, StateFailed, state)
	assert.Empty(t, p.calls, "parser must not run with invalid defaults")
}

func TestRun_JSONFormat(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.json")
	p := &stubParser{result: &mdl.Success{
		Commands: []*mdl.Command{mdl.NewCommand("line")},
		Symbols:  mdl.SymbolTableFromDict(value.DictOf("x", 1)),
	}}
	r := New(p, Options{OutputPath: outPath, Format: encode.FormatJSON, Defaults: scene.NewDefaults()})

	_, err := r.Run(testContext(io.Discard), "s.mdl")

	require.NoError(t, err)
	assert.Equal(t, "[[{\"op\":\"line\"}],{\"x\":1}]\n", readFile(t, outPath))
}

func TestRun_WarnsOnUnbalancedStack(t *testing.T) {
	// --- Arrange ---
	outPath := filepath.Join(t.TempDir(), "out")
	p := &stubParser{result: &mdl.Success{
		Commands: []*mdl.Command{
			mdl.NewCommand("pop", "args", nil),
			mdl.NewCommand("push", "args", nil),
			mdl.NewCommand("move", "args", value.List{1.0, 2.0, 3.0}, "knob", nil),
			mdl.NewCommand("rotate", "args", value.List{"q", 90.0}, "knob", nil),
		},
		Symbols: mdl.NewSymbolTable(),
	}}
	var logs bytes.Buffer

	// --- Act ---
	state, err := newTestRunner(p, io.Discard, outPath).Run(testContext(&logs), "s.mdl")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, StateDone, state)
	assert.Contains(t, logs.String(), "Pop without matching push")
	assert.Contains(t, logs.String(), "Skipping rotation")
	assert.Contains(t, logs.String(), "open_frames=1")
	assert.Contains(t, logs.String(), "run_id=")
}

func TestRun_WithRealParser(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "scene.mdl")
	require.NoError(t, os.WriteFile(script, []byte("push\nmove 1 2 3 spin\nbox 0 0 0 1 1 1\npop\n"), 0o644))
	outPath := filepath.Join(dir, "out")

	state, err := newTestRunner(mdl.NewParser(), io.Discard, outPath).Run(testContext(io.Discard), script)

	require.NoError(t, err)
	assert.Equal(t, StateDone, state)
	content := readFile(t, outPath)
	assert.Contains(t, content, "{'op': 'move', 'args': [1.0, 2.0, 3.0], 'knob': 'spin'}")
	assert.Contains(t, content, "{'spin': ['knob', 0]}")
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "parsing", StateParsing.String())
	assert.Equal(t, "done", StateDone.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "State(9)", State(9).String())
}
