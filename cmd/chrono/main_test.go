package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/colorfulnotion/chronospatial/chrono"
	"github.com/colorfulnotion/chronospatial/chronoerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInput = `Register A: 729
Register B: 0
Register C: 0

Program: 0,1,5,4,3,0
`

const quineInput = `Register A: 2024
Register B: 0
Register C: 0

Program: 0,3,5,4,3,0
`

func writeInput(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	path := writeInput(t, sampleInput)
	for _, backend := range chrono.Backends() {
		out, err := execute(t, "run", "--backend", backend, path)
		require.NoError(t, err, backend)
		assert.Equal(t, "4,6,3,5,6,3,5,2,1,0\n", out, backend)
	}

	out, err := execute(t, "run", "--backend", chrono.BackendInterpreter, "--a", "117440", writeInput(t, quineInput))
	require.NoError(t, err)
	assert.Equal(t, "0,3,5,4,3,0\n", out)
}

func TestRunCommandErrors(t *testing.T) {
	_, err := execute(t, "run", "--backend", "gpu", writeInput(t, sampleInput))
	assert.ErrorIs(t, err, chronoerrors.ErrEUnknownBackend)

	_, err = execute(t, "run", writeInput(t, "Register A: 1\nProgram: 0,1,5\n"))
	assert.ErrorIs(t, err, chronoerrors.ErrPOddLength)

	_, err = execute(t, "run", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestQuineCommand(t *testing.T) {
	path := writeInput(t, quineInput)
	out, err := execute(t, "quine", path)
	require.NoError(t, err)
	assert.Equal(t, "117440\n", out)

	out, err = execute(t, "quine", writeInput(t, sampleInput))
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	out, err = execute(t, "quine", "--max-iterations", "10", path)
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestQuineCommandCache(t *testing.T) {
	path := writeInput(t, quineInput)
	cache := filepath.Join(t.TempDir(), "cache")
	for i := 0; i < 2; i++ {
		out, err := execute(t, "quine", "--cache", cache, path)
		require.NoError(t, err)
		assert.Equal(t, "117440\n", out)
	}
	_, err := os.Stat(cache)
	assert.NoError(t, err)
}

func TestQuineCommandCacheAfterLimit(t *testing.T) {
	path := writeInput(t, quineInput)
	cache := filepath.Join(t.TempDir(), "cache")
	out, err := execute(t, "quine", "--cache", cache, "--max-iterations", "10", path)
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	out, err = execute(t, "quine", "--cache", cache, "--max-iterations", "0", path)
	require.NoError(t, err)
	assert.Equal(t, "117440\n", out)
}

func TestConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "chrono.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[execution]\nbackend = \"interpreter\"\nmax-steps = 5\n"), 0644))

	_, err := execute(t, "--config", cfg, "run", writeInput(t, sampleInput))
	assert.ErrorIs(t, err, chronoerrors.ErrEStepLimit)
}

func TestDisasmCommand(t *testing.T) {
	path := writeInput(t, sampleInput)
	out, err := execute(t, "disasm", path)
	require.NoError(t, err)
	for _, want := range []string{"00: ADV 1", "prologue", "02 JNZ 0", "epilogue"} {
		assert.Contains(t, out, want)
	}

	out, err = execute(t, "disasm", "--flat", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "0x0000: 48 89 c7"))
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "0x0027: c3"))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "chrono dev (commit "))
	assert.Contains(t, out, chrono.BackendInterpreter)
}

func TestConsoleEval(t *testing.T) {
	m, err := chrono.NewMachine([]byte{0, 3, 5, 4, 3, 0}, chrono.BackendInterpreter)
	require.NoError(t, err)
	defer m.Close()
	c, err := newConsole(m, 1<<20, chrono.QuineOptions{})
	require.NoError(t, err)

	testCases := []struct {
		line string
		want string
	}{
		{"117440", "0,3,5,4,3,0"},
		{"run(117440)", "0,3,5,4,3,0"},
		{"run(8*8)", "0,1,0"},
		{"quine()", "117440"},
		{"1 + 2", "3"},
		{"", ""},
		{"var x = 1", ""},
	}
	for _, tc := range testCases {
		got, err := c.eval(tc.line)
		require.NoError(t, err, tc.line)
		assert.Equal(t, tc.want, got, tc.line)
	}

	got, err := c.eval("program()")
	require.NoError(t, err)
	assert.Contains(t, got, "01: OUT A")

	got, err = c.eval("disasm()")
	require.NoError(t, err)
	assert.Contains(t, got, "epilogue")

	_, err = c.eval("run(-1)")
	assert.Error(t, err)
	_, err = c.eval("run(1, 2, 3, 4)")
	assert.Error(t, err)
	_, err = c.eval("nope(")
	assert.Error(t, err)
}
