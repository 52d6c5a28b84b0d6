package gpg

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signingFixture struct {
	dir     string
	keyPath string
	signer  *openpgp.Entity
}

func newSigningFixture(t *testing.T) *signingFixture {
	t.Helper()
	dir := t.TempDir()

	signer, err := openpgp.NewEntity("Release Bot", "test", "release@example.com", nil)
	require.NoError(t, err)

	var pub bytes.Buffer
	w, err := armor.Encode(&pub, openpgp.PublicKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, signer.Serialize(w))
	require.NoError(t, w.Close())

	keyPath := filepath.Join(dir, "keyring.asc")
	require.NoError(t, os.WriteFile(keyPath, pub.Bytes(), 0600))

	return &signingFixture{dir: dir, keyPath: keyPath, signer: signer}
}

func (f *signingFixture) writePackage(t *testing.T, content string, armored bool) (string, string) {
	t.Helper()
	pkgPath := filepath.Join(f.dir, "pkg-1.0-py3-none-any.whl")
	require.NoError(t, os.WriteFile(pkgPath, []byte(content), 0600))

	var sig bytes.Buffer
	sigPath := pkgPath + ".sig"
	if armored {
		require.NoError(t, openpgp.ArmoredDetachSign(&sig, f.signer, strings.NewReader(content), nil))
		sigPath = pkgPath + ".asc"
	} else {
		require.NoError(t, openpgp.DetachSign(&sig, f.signer, strings.NewReader(content), nil))
	}
	require.NoError(t, os.WriteFile(sigPath, sig.Bytes(), 0600))
	return pkgPath, sigPath
}

func TestVerifier_VerifySignatureFromFile(t *testing.T) {
	f := newSigningFixture(t)
	v, err := NewVerifierFromKeyring(f.keyPath)
	require.NoError(t, err)
	assert.Equal(t, 1, v.GetKeyringSize())

	t.Run("armored", func(t *testing.T) {
		pkgPath, sigPath := f.writePackage(t, "wheel bytes", true)
		assert.NoError(t, v.VerifySignatureFromFile(pkgPath, sigPath))
	})

	t.Run("binary", func(t *testing.T) {
		pkgPath, sigPath := f.writePackage(t, "wheel bytes", false)
		assert.NoError(t, v.VerifySignatureFromFile(pkgPath, sigPath))
	})

	t.Run("tampered", func(t *testing.T) {
		pkgPath, sigPath := f.writePackage(t, "wheel bytes", true)
		require.NoError(t, os.WriteFile(pkgPath, []byte("tampered bytes"), 0600))

		err := v.VerifySignatureFromFile(pkgPath, sigPath)
		assert.ErrorContains(t, err, "signature verification failed")
	})

	t.Run("missing signature", func(t *testing.T) {
		err := v.VerifySignatureFromFile(filepath.Join(f.dir, "x.whl"), filepath.Join(f.dir, "x.whl.asc"))
		assert.ErrorContains(t, err, "failed to open signature file")
	})
}

func TestVerifier_UntrustedSigner(t *testing.T) {
	trusted := newSigningFixture(t)
	other := newSigningFixture(t)
	pkgPath, sigPath := other.writePackage(t, "wheel bytes", true)

	v, err := NewVerifierFromKeyring(trusted.keyPath)
	require.NoError(t, err)

	assert.Error(t, v.VerifySignatureFromFile(pkgPath, sigPath))
}

func TestVerifier_EmptyKeyring(t *testing.T) {
	err := NewVerifier().VerifySignatureFromFile("a.whl", "a.whl.asc")
	assert.ErrorContains(t, err, "no GPG keys imported")
}

func TestVerifier_ImportKeyFromFile_Errors(t *testing.T) {
	_, err := NewVerifierFromKeyring("/nonexistent/key.asc")
	assert.ErrorContains(t, err, "failed to open key file")

	keyPath := filepath.Join(t.TempDir(), "bad.asc")
	require.NoError(t, os.WriteFile(keyPath, []byte("not a gpg key"), 0600))
	_, err = NewVerifierFromKeyring(keyPath)
	assert.Error(t, err)
}
