// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"fmt"
	"os"

	"github.com/ochairo/nativecheck/internal/domain/entities"
	"github.com/ochairo/nativecheck/internal/domain/interfaces"
	"github.com/ochairo/nativecheck/internal/domain/interfaces/gateways"
	"github.com/ochairo/nativecheck/internal/domain/services"
)

// Classifier derives native module names from a package archive
type Classifier interface {
	Classify(archivePath string) entities.ClassificationResult
}

// PackageVerifier runs the install-and-import workflow for one package
type PackageVerifier struct {
	integrity   gateways.IntegrityChecker
	provisioner gateways.RuntimeProvisioner
	installer   gateways.PackageInstaller
	classifier  Classifier
	prober      gateways.ImportProber
	skipMarkers []string
	workRoot    string
	logger      interfaces.Logger
}

// PackageVerifierConfig holds configuration for the verifier
type PackageVerifierConfig struct {
	SkipMarkers []string
	WorkRoot    string // Parent of per-package temporary directories, empty for the OS default
}

// NewPackageVerifier creates a new package verifier. integrity may be nil.
func NewPackageVerifier(
	integrity gateways.IntegrityChecker,
	provisioner gateways.RuntimeProvisioner,
	installer gateways.PackageInstaller,
	classifier Classifier,
	prober gateways.ImportProber,
	config PackageVerifierConfig,
	logger interfaces.Logger,
) *PackageVerifier {
	return &PackageVerifier{
		integrity:   integrity,
		provisioner: provisioner,
		installer:   installer,
		classifier:  classifier,
		prober:      prober,
		skipMarkers: config.SkipMarkers,
		workRoot:    config.WorkRoot,
		logger:      interfaces.OrNoOp(logger),
	}
}

// Verify installs pkg into a fresh runtime and probes each of its native modules.
// packagesDir is the only source pip may resolve dependencies from.
// Per-package failures are recorded in the outcome; only temp dir creation errors are returned.
func (v *PackageVerifier) Verify(ctx context.Context, pkg entities.Package, packagesDir string, whitelist *entities.Whitelist) (*entities.VerificationOutcome, error) {
	outcome := entities.NewVerificationOutcome(pkg.Name)
	outcome.AddLog("")
	outcome.AddLog("Testing: %s", pkg.Name)

	// Step 1: Integrity pre-check
	if v.integrity != nil {
		if err := v.integrity.Check(ctx, pkg); err != nil {
			outcome.AddLog("  ❌ Integrity check failed")
			outcome.Fail(entities.StageIntegrity, err.Error())
			return outcome, nil
		}
	}

	workDir, err := os.MkdirTemp(v.workRoot, "nativecheck-")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			v.logger.Warn("failed to remove work directory",
				interfaces.F("path", workDir),
				interfaces.F("error", rmErr.Error()))
		}
	}()

	// Step 2: Provision isolated runtime
	rt, step := v.provisioner.Provision(ctx, workDir)
	if !step.OK {
		if step.TimedOut {
			outcome.AddLog("  ❌ Timeout creating venv")
		} else {
			outcome.AddLog("  ❌ Failed to create venv")
		}
		outcome.Fail(entities.StageVenv, step.Diagnostic)
		return outcome, nil
	}
	outcome.AddLog("  ✓ Created venv")

	// Step 3: Resolve the runtime interpreter
	if rt == nil || rt.Executable == "" {
		outcome.AddLog("  ❌ venv Python not found")
		outcome.Fail(entities.StageVenv, "Python executable not found")
		return outcome, nil
	}
	if _, statErr := os.Stat(rt.Executable); statErr != nil {
		outcome.AddLog("  ❌ venv Python not found at %s", rt.Executable)
		outcome.Fail(entities.StageVenv, fmt.Sprintf("Python executable not found at %s", rt.Executable))
		return outcome, nil
	}

	// Step 4: Install offline from the shared package directory
	step = v.installer.Install(ctx, rt, pkg, packagesDir)
	if !step.OK {
		if step.TimedOut {
			outcome.AddLog("  ❌ Timeout installing wheel")
		} else {
			outcome.AddLog("  ❌ Failed to install")
		}
		outcome.Fail(entities.StageInstall, step.Diagnostic)
		return outcome, nil
	}
	outcome.AddLog("  ✓ Installed")

	// Step 5: Classify native modules
	outcome.AddLog("  Analyzing wheel for native modules")
	classification := v.classifier.Classify(pkg.Path)
	if classification.Warning != "" {
		outcome.AddLog("  Warning: %s", classification.Warning)
	}
	if classification.Empty() {
		outcome.AddLog("  No native modules found (pure Python package)")
		outcome.AddLog("  ✓ All imports successful")
		outcome.Finish(true, nil, nil)
		return outcome, nil
	}
	if classification.UsedFallback {
		outcome.AddLog("  Using top-level package names")
	}
	outcome.AddLog("  Found %d native module(s) to test", len(classification.Modules))

	// Step 6: Probe each module
	matcher := services.NewWhitelistMatcher(whitelist)
	var failures, whitelisted []entities.ModuleError
	for _, module := range classification.Modules {
		result := v.prober.Probe(ctx, rt, module)
		verdict, message := services.EvaluateProbe(result, v.skipMarkers)
		if verdict == services.VerdictSkipped {
			v.logger.Debug("probe skipped",
				interfaces.F("package", pkg.Name),
				interfaces.F("module", module))
			continue
		}

		outcome.AddLog("  Testing import: %s", module)
		outcome.TestedCount++
		if verdict == services.VerdictPassed {
			continue
		}

		moduleErr := entities.ModuleError{Module: module, Error: message}
		if matcher.Match(pkg.Name, module, message) {
			outcome.AddLog("  ⚠️  Whitelisted: %s", message)
			whitelisted = append(whitelisted, moduleErr)
		} else {
			outcome.AddLog("  ❌ Failed: %s", message)
			failures = append(failures, moduleErr)
		}
	}
	outcome.AddLog("  Tested %d native module(s)", outcome.TestedCount)
	outcome.UsedWhitelist.Merge(matcher.Used())

	// Step 7: Finalize
	switch {
	case len(failures) > 0:
		outcome.Finish(false, failures, whitelisted)
	case len(whitelisted) > 0:
		outcome.AddLog("  ⚠️  All failures are whitelisted")
		outcome.Finish(true, nil, whitelisted)
	default:
		outcome.AddLog("  ✓ All imports successful")
		outcome.Finish(true, nil, nil)
	}
	return outcome, nil
}
