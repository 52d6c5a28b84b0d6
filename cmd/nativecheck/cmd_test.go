package main

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orchestrators "github.com/ochairo/nativecheck/internal/domain-orchestrators"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeWheel(t *testing.T, dir, name string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for entry, content := range entries {
		w, err := zw.Create(entry)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected ExitError, got %v", err)
	return exitErr.Code
}

func TestValidateWhitelist_Valid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "whitelist.json",
		`{"a.whl": {"a._x": "undefined symbol", "a._y": "GLIBC"}, "b.whl": {}}`)

	stdout, _, err := execute(t, "validate-whitelist", path)

	require.NoError(t, err)
	assert.Contains(t, stdout, "Valid whitelist")
	assert.Contains(t, stdout, "2 wheel(s), 2 entries")
}

func TestValidateWhitelist_WrongShape(t *testing.T) {
	path := writeFile(t, t.TempDir(), "whitelist.json", `{"a.whl": {"a._x": 42}}`)

	_, stderr, err := execute(t, "validate-whitelist", path)

	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, stderr, "Invalid whitelist")
	assert.Contains(t, err.Error(), "whitelist does not match the expected shape")
}

func TestValidateWhitelist_MissingFile(t *testing.T) {
	_, _, err := execute(t, "validate-whitelist", filepath.Join(t.TempDir(), "absent.json"))

	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, err.Error(), "cannot read whitelist file")
}

func TestModules_ListsNativeModules(t *testing.T) {
	dir := t.TempDir()
	wheel := writeWheel(t, dir, "demo-1.0-cp311-cp311-linux_x86_64.whl", map[string]string{
		"demo/__init__.py":                             "",
		"demo/_native.cpython-311-x86_64-linux-gnu.so": "\x7fELF",
		"demo.libs/libgfortran.so.5":                   "\x7fELF",
		"demo-1.0.dist-info/top_level.txt":             "demo\n",
	})

	stdout, _, err := execute(t, "modules", wheel)

	require.NoError(t, err)
	assert.Contains(t, stdout, "demo-1.0-cp311-cp311-linux_x86_64.whl")
	assert.Contains(t, stdout, "Distribution: demo 1.0")
	assert.Contains(t, stdout, "Top-level: demo")
	assert.Contains(t, stdout, "Native modules (1):")
	assert.Contains(t, stdout, "- demo._native")
	assert.NotContains(t, stdout, "libgfortran")
}

func TestModules_PurePackage(t *testing.T) {
	wheel := writeWheel(t, t.TempDir(), "pure-1.0-py3-none-any.whl", map[string]string{
		"pure/__init__.py": "",
	})

	stdout, _, err := execute(t, "modules", wheel)

	require.NoError(t, err)
	assert.Contains(t, stdout, "No native modules found (pure Python package)")
}

func TestModules_UnreadableArchive(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.whl", "not a zip")

	stdout, _, err := execute(t, "modules", path)

	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, stdout, "Cannot read wheel file")
}

func TestRoot_NoPackagesIsFatal(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := execute(t,
		"--python", filepath.Join(dir, "no-such-python"),
		"--packages-dir", dir,
		"--env-file", "")

	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.True(t, errors.Is(err, orchestrators.ErrNoPackages))
	assert.Contains(t, stdout, "Python: unknown")
	assert.Contains(t, stdout, "Packages directory: "+dir)
}

func TestRoot_InvalidFlagValueIsFatal(t *testing.T) {
	_, _, err := execute(t, "--workers=-2", "--packages-dir", t.TempDir(), "--env-file", "")

	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRoot_TooManyArgs(t *testing.T) {
	_, _, err := execute(t, "a.json", "b.json")

	require.Error(t, err)
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "dev (built from source)", versionString())
}
