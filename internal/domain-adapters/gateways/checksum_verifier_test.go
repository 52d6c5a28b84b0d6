package gateways

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// "Hello, World!"
const helloSum = "dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestCalculateChecksum(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantChecksum string
	}{
		{"empty file", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"simple content", "Hello, World!", helloSum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "pkg.whl", tt.content)

			checksum, err := NewChecksumVerifier().CalculateChecksum(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantChecksum, checksum)
		})
	}
}

func TestVerifyChecksum(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pkg.whl", "Hello, World!")
	verifier := NewChecksumVerifier()

	assert.NoError(t, verifier.VerifyChecksum(context.Background(), path, helloSum))
	assert.NoError(t, verifier.VerifyChecksum(context.Background(), path, strings.ToUpper(helloSum)))
	assert.ErrorContains(t, verifier.VerifyChecksum(context.Background(), path, strings.Repeat("0", 64)), "checksum mismatch")
	assert.ErrorContains(t, verifier.VerifyChecksum(context.Background(), "/nonexistent/pkg.whl", helloSum), "failed to open file")
}

func TestReadChecksumFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{"sha256sum format", helloSum + "  pkg.whl\n", helloSum, false},
		{"bare digest", helloSum, helloSum, false},
		{"empty", "  \n", "", true},
		{"wrong length", "abc123  pkg.whl", "", true},
		{"not hex", strings.Repeat("z", 64), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "pkg.whl.sha256", tt.content)

			got, err := ReadChecksumFile(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ReadChecksumFile(filepath.Join(dir, "missing.sha256"))
	assert.ErrorContains(t, err, "failed to read checksum file")
}
