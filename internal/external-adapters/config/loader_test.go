package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/nativecheck/internal/domain/entities"
)

func loaderWithEnv(env map[string]string) *Loader {
	l := NewLoader()
	l.lookupEnv = func(name string) (string, bool) {
		value, ok := env[name]
		return value, ok
	}
	return l
}

func TestLoader_Defaults(t *testing.T) {
	cfg, err := loaderWithEnv(nil).Load("")
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultCheckerConfig(), cfg)
}

func TestLoader_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nativecheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("python: /from/file\nworkers: 2\ntimeouts:\n  import_seconds: 10\n"), 0600))

	cfg, err := loaderWithEnv(map[string]string{
		"NATIVECHECK_PYTHON":             "/from/env",
		"NATIVECHECK_INSTALL_TIMEOUT":    "300",
		"NATIVECHECK_REQUIRE_SIGNATURES": "true",
		"NATIVECHECK_KEYRING":            "  ",
	}).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.Python)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Import)
	assert.Equal(t, 300*time.Second, cfg.Timeouts.Install)
	assert.True(t, cfg.Integrity.RequireSignatures)
	assert.Empty(t, cfg.Integrity.Keyring, "blank values are ignored")
}

func TestLoader_EnvErrors(t *testing.T) {
	tests := map[string]string{
		"NATIVECHECK_WORKERS":          "many",
		"NATIVECHECK_IMPORT_TIMEOUT":   "30s",
		"NATIVECHECK_VERIFY_CHECKSUMS": "sometimes",
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := loaderWithEnv(map[string]string{name: value}).Load("")
			assert.ErrorContains(t, err, name)
		})
	}
}

func TestLoader_Validation(t *testing.T) {
	_, err := loaderWithEnv(map[string]string{
		"NATIVECHECK_WORKERS":           "-1",
		"NATIVECHECK_PACKAGE_EXTENSION": "whl",
		"NATIVECHECK_LOG_LEVEL":         "verbose",
	}).Load("")

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Fields, 3)
	assert.Contains(t, err.Error(), "Workers")
	assert.Contains(t, err.Error(), "PackageExtension")
	assert.Contains(t, err.Error(), "LogLevel")
}

func TestLoader_ValidateClassifier(t *testing.T) {
	cfg := entities.DefaultCheckerConfig()
	cfg.Classifier.NativeSuffixes = nil
	cfg.Timeouts.Import = 0

	err := NewLoader().Validate(cfg)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Fields, 2)
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := loaderWithEnv(nil).Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to load config")
}
