package gateways

import (
	"context"

	"github.com/ochairo/nativecheck/internal/domain/entities"
)

// RuntimeProvisioner creates isolated interpreter environments
type RuntimeProvisioner interface {
	// Provision creates a fresh environment under workDir.
	// The returned Runtime is nil when the step did not succeed.
	Provision(ctx context.Context, workDir string) (*entities.Runtime, entities.StepResult)
}

// PackageInstaller installs one package into a runtime
type PackageInstaller interface {
	// Install installs pkg, resolving dependencies only from findLinks
	Install(ctx context.Context, rt *entities.Runtime, pkg entities.Package, findLinks string) entities.StepResult
}

// ImportProber attempts to import a single module in a runtime
type ImportProber interface {
	Probe(ctx context.Context, rt *entities.Runtime, module string) entities.ProbeResult
}

// InterpreterInspector describes the host interpreter
type InterpreterInspector interface {
	// Version returns a human-readable interpreter version
	Version(ctx context.Context) (string, error)

	// Executable returns the absolute path of the interpreter binary
	Executable(ctx context.Context) (string, error)
}
