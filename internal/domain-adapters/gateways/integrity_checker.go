package gateways

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ochairo/nativecheck/internal/domain/entities"
	"github.com/ochairo/nativecheck/internal/domain/interfaces"
	"github.com/ochairo/nativecheck/internal/domain/interfaces/gateways"
)

// Sidecar suffixes looked up next to each package archive
const (
	ChecksumSuffix         = ".sha256"
	ArmoredSignatureSuffix = ".asc"
	BinarySignatureSuffix  = ".sig"
)

// integrityChecker verifies checksum and signature sidecars before install
type integrityChecker struct {
	checksums         *checksumVerifier
	signatures        gateways.SignatureVerifier
	verifyChecksums   bool
	requireSignatures bool
	logger            interfaces.Logger
}

// IntegrityCheckerConfig holds configuration for the integrity checker
type IntegrityCheckerConfig struct {
	VerifyChecksums   bool
	RequireSignatures bool
}

// NewIntegrityChecker creates an integrity checker. signatures may be nil when no keyring is configured.
func NewIntegrityChecker(signatures gateways.SignatureVerifier, config IntegrityCheckerConfig, logger interfaces.Logger) gateways.IntegrityChecker {
	return &integrityChecker{
		checksums:         NewChecksumVerifier(),
		signatures:        signatures,
		verifyChecksums:   config.VerifyChecksums,
		requireSignatures: config.RequireSignatures,
		logger:            interfaces.OrNoOp(logger),
	}
}

// Check verifies the optional sidecars of pkg. Absent sidecars pass unless signatures are required.
func (c *integrityChecker) Check(ctx context.Context, pkg entities.Package) error {
	if c.verifyChecksums {
		if err := c.checkChecksum(ctx, pkg); err != nil {
			return err
		}
	}

	if c.signatures != nil {
		return c.checkSignature(pkg)
	}
	if c.requireSignatures {
		return errors.New("signatures are required but no keyring is configured")
	}
	return nil
}

func (c *integrityChecker) checkChecksum(ctx context.Context, pkg entities.Package) error {
	sidecar := pkg.Path + ChecksumSuffix
	if !fileExists(sidecar) {
		c.logger.Debug("no checksum sidecar", interfaces.F("package", pkg.Name))
		return nil
	}

	expected, err := ReadChecksumFile(sidecar)
	if err != nil {
		return err
	}
	return c.checksums.VerifyChecksum(ctx, pkg.Path, expected)
}

func (c *integrityChecker) checkSignature(pkg entities.Package) error {
	for _, suffix := range []string{ArmoredSignatureSuffix, BinarySignatureSuffix} {
		sigPath := pkg.Path + suffix
		if !fileExists(sigPath) {
			continue
		}
		return c.signatures.VerifySignatureFromFile(pkg.Path, sigPath)
	}

	if c.requireSignatures {
		return fmt.Errorf("no signature found for %s", pkg.Name)
	}
	c.logger.Debug("no signature sidecar", interfaces.F("package", pkg.Name))
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
