package paramsource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviddao/poisson_viewer/internal/process"
)

// writeParams creates dir/.ppv/params.yaml with the given body.
func writeParams(t *testing.T, dir, body string) string {
	t.Helper()
	ppvDir := filepath.Join(dir, defaultDir)
	require.NoError(t, os.MkdirAll(ppvDir, 0o755))
	path := filepath.Join(ppvDir, "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDiscoverFromEnvVar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rate: 3\n"), 0o644))
	t.Setenv(EnvVar, path)

	got, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestDiscoverEnvVarMissing(t *testing.T) {
	t.Setenv(EnvVar, "/nonexistent/path/params.yaml")

	_, err := Discover()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscoverFromCWD(t *testing.T) {
	dir := t.TempDir()
	writeParams(t, dir, "rate: 1\n")
	t.Setenv(EnvVar, "")
	t.Chdir(dir)

	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, defaultDir, filepath.Base(filepath.Dir(path)))
	assert.True(t, filepath.IsAbs(path))
}

func TestDiscoverFromParentDir(t *testing.T) {
	dir := t.TempDir()
	want := writeParams(t, dir, "rate: 1\n")

	childDir := filepath.Join(dir, "sub", "deep")
	require.NoError(t, os.MkdirAll(childDir, 0o755))
	t.Setenv(EnvVar, "")
	t.Chdir(childDir)

	path, err := Discover()
	require.NoError(t, err)

	// Resolve symlinks for comparison (macOS /var -> /private/var).
	resolvedPath, _ := filepath.EvalSymlinks(path)
	resolvedWant, _ := filepath.EvalSymlinks(want)
	assert.Equal(t, resolvedWant, resolvedPath)
}

func TestDiscoverNoFile(t *testing.T) {
	t.Setenv(EnvVar, "")
	t.Chdir(t.TempDir())

	_, err := Discover()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParse(t *testing.T) {
	base := process.DefaultParams()

	tests := []struct {
		name string
		body string
		want process.Params
	}{
		{"empty", "", base},
		{"comment only", "# nothing\n", base},
		{"rate", "rate: 3.5\n", process.Params{Rate: 3.5, Horizon: 5, Seed: 1}},
		{"all", "rate: 1\nhorizon: 10\nmax_events: 20\nseed: 9\n", process.Params{Rate: 1, Horizon: 10, MaxEvents: 20, Seed: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.body), base)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	base := process.DefaultParams()

	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "lambda: 2\n"},
		{"bad type", "rate: fast\n"},
		{"invalid rate", "rate: -1\n"},
		{"invalid horizon", "horizon: 0\n"},
		{"negative cap", "max_events: -3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.body), base)
			assert.Error(t, err)
			assert.Equal(t, base, got, "base must be returned on error")
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/params.yaml", process.DefaultParams())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenSuccess(t *testing.T) {
	dir := t.TempDir()
	want := writeParams(t, dir, "horizon: 12\n")
	t.Setenv(EnvVar, want)

	p, path, err := Open("", process.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, want, path)
	assert.Equal(t, 12.0, p.Horizon)
	assert.Equal(t, process.DefaultRate, p.Rate)
}

func TestOpenExplicitPathSkipsDiscovery(t *testing.T) {
	discovered := writeParams(t, t.TempDir(), "horizon: 12\n")
	t.Setenv(EnvVar, discovered)
	explicit := writeParams(t, t.TempDir(), "horizon: 3\n")

	p, path, err := Open(explicit, process.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, explicit, path)
	assert.Equal(t, 3.0, p.Horizon)
}

func TestOpenNothingFound(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvVar, "")

	p, path, err := Open("", process.DefaultParams())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, process.DefaultParams(), p)
}

func TestOpenFail(t *testing.T) {
	t.Setenv(EnvVar, "/nonexistent/path/params.yaml")

	_, _, err := Open("", process.DefaultParams())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenBadFile(t *testing.T) {
	path := writeParams(t, t.TempDir(), "rate: -2\n")

	base := process.DefaultParams()
	got, found, err := Open(path, base)
	require.ErrorIs(t, err, process.ErrInvalidRate)
	assert.Empty(t, found)
	assert.Equal(t, base, got)
}
