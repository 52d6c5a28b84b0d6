package gateways

import (
	"fmt"

	"github.com/ochairo/nativecheck/internal/external-adapters/gpg"
)

// gpgVerifier wraps the external GPG adapter to implement the domain gateway interface
type gpgVerifier struct {
	verifier *gpg.Verifier
}

// NewGPGVerifier creates a signature verifier trusting the keys in keyringPath
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewGPGVerifier(keyringPath string) (*gpgVerifier, error) {
	verifier, err := gpg.NewVerifierFromKeyring(keyringPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load keyring: %w", err)
	}
	return &gpgVerifier{verifier: verifier}, nil
}

// VerifySignatureFromFile verifies a detached signature stored next to the package
func (g *gpgVerifier) VerifySignatureFromFile(filePath, sigPath string) error {
	if err := g.verifier.VerifySignatureFromFile(filePath, sigPath); err != nil {
		return fmt.Errorf("GPG signature verification failed: %w", err)
	}
	return nil
}
