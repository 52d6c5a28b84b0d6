package gateways

import (
	"context"

	"github.com/ochairo/nativecheck/internal/domain/entities"
)

// IntegrityChecker validates a package archive before it is installed
type IntegrityChecker interface {
	// Check returns a non-nil error describing why the archive must not be tested
	Check(ctx context.Context, pkg entities.Package) error
}

// SignatureVerifier verifies detached signatures against a trusted keyring
type SignatureVerifier interface {
	VerifySignatureFromFile(filePath, sigPath string) error
}
