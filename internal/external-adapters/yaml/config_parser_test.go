package yaml

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/nativecheck/internal/domain/entities"
)

func TestConfigParser_Parse(t *testing.T) {
	data := []byte(`
python: /opt/python3.12/bin/python3
workers: 4
timeouts:
  venv_seconds: 90
  import_seconds: 5
classifier:
  native_suffixes: [".so", ".pyd"]
probe:
  skip_markers: []
integrity:
  keyring: /etc/nativecheck/keys.asc
  require_signatures: true
report:
  snippet_max_length: 80
`)

	cfg, err := NewConfigParser().Parse(data, entities.DefaultCheckerConfig())
	require.NoError(t, err)

	assert.Equal(t, "/opt/python3.12/bin/python3", cfg.Python)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 90*time.Second, cfg.Timeouts.Venv)
	assert.Equal(t, 120*time.Second, cfg.Timeouts.Install, "unset keys keep defaults")
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Import)
	assert.Equal(t, []string{".so", ".pyd"}, cfg.Classifier.NativeSuffixes)
	assert.Equal(t, entities.DefaultClassifierConfig().ABITagPrefixes, cfg.Classifier.ABITagPrefixes)
	assert.Empty(t, cfg.Probe.SkipMarkers, "explicit empty list clears markers")
	assert.NotNil(t, cfg.Probe.SkipMarkers)
	assert.True(t, cfg.Integrity.VerifyChecksums)
	assert.Equal(t, "/etc/nativecheck/keys.asc", cfg.Integrity.Keyring)
	assert.True(t, cfg.Integrity.RequireSignatures)
	assert.Equal(t, 80, cfg.Report.SnippetMaxLength)
	assert.Equal(t, ".whl", cfg.PackageExtension)
}

func TestConfigParser_EmptyDocument(t *testing.T) {
	cfg, err := NewConfigParser().Parse(nil, entities.DefaultCheckerConfig())
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultCheckerConfig(), cfg)
}

func TestConfigParser_Errors(t *testing.T) {
	_, err := NewConfigParser().Parse([]byte("workerz: 3\n"), entities.DefaultCheckerConfig())
	assert.ErrorContains(t, err, "failed to parse YAML")

	_, err = NewConfigParser().Parse([]byte("workers: [1, 2]\n"), entities.DefaultCheckerConfig())
	assert.Error(t, err)

	_, err = NewConfigParser().ParseFile(filepath.Join(t.TempDir(), "missing.yaml"), entities.DefaultCheckerConfig())
	assert.ErrorContains(t, err, "failed to read file")
}

func TestConfigParser_ParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nativecheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\npackages_dir: dist\n"), 0600))

	cfg, err := NewConfigParser().ParseFile(path, entities.DefaultCheckerConfig())
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "dist", cfg.PackagesDir)
}
