package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ochairo/nativecheck/internal/domain/entities"
	"github.com/ochairo/nativecheck/internal/domain/interfaces"
	"github.com/ochairo/nativecheck/internal/domain/interfaces/repositories"
	"github.com/ochairo/nativecheck/internal/domain/services"
)

// ErrNoPackages is returned when the packages directory holds no archives
var ErrNoPackages = errors.New("no package files found")

// Verifier verifies a single package
type Verifier interface {
	Verify(ctx context.Context, pkg entities.Package, packagesDir string, whitelist *entities.Whitelist) (*entities.VerificationOutcome, error)
}

// WhitelistLoader loads the optional whitelist. An empty path means no suppressions.
type WhitelistLoader interface {
	Load(path string) (*entities.Whitelist, error)
}

// RunCoordinator fans package verification out over a bounded worker pool
type RunCoordinator struct {
	packages repositories.PackageRepository
	loader   WhitelistLoader
	verifier Verifier
	workers  int
	output   io.Writer
	logger   interfaces.Logger
}

// RunCoordinatorConfig holds configuration for the coordinator
type RunCoordinatorConfig struct {
	Workers int       // Upper bound on parallel verifications, 0 for the CPU count
	Output  io.Writer // Receives per-package log blocks and progress lines
}

// NewRunCoordinator creates a new run coordinator
func NewRunCoordinator(
	packages repositories.PackageRepository,
	loader WhitelistLoader,
	verifier Verifier,
	config RunCoordinatorConfig,
	logger interfaces.Logger,
) *RunCoordinator {
	output := config.Output
	if output == nil {
		output = io.Discard
	}

	return &RunCoordinator{
		packages: packages,
		loader:   loader,
		verifier: verifier,
		workers:  config.Workers,
		output:   output,
		logger:   interfaces.OrNoOp(logger),
	}
}

// Run verifies every package in packagesDir and returns the aggregate report.
// Errors are setup failures; package failures are reported in the RunReport.
func (c *RunCoordinator) Run(ctx context.Context, packagesDir, whitelistPath string) (*entities.RunReport, error) {
	// Step 1: Discover packages
	pkgs, err := c.packages.ListPackages(packagesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoPackages, packagesDir)
	}
	fmt.Fprintf(c.output, "Found %d wheel file(s)\n", len(pkgs))

	// Step 2: Load whitelist
	whitelist, err := c.loader.Load(whitelistPath)
	if err != nil {
		return nil, err
	}
	if whitelist == nil {
		whitelist = entities.EmptyWhitelist()
	}

	// Step 3: Dispatch
	workers := WorkerCount(len(pkgs), c.workers)
	fmt.Fprintf(c.output, "Using %d parallel workers\n", workers)
	c.logger.Debug("starting verification",
		interfaces.F("packages", len(pkgs)),
		interfaces.F("workers", workers),
		interfaces.F("whitelisted_packages", whitelist.Len()))

	aggregator := services.NewRunAggregator(len(pkgs))

	var g errgroup.Group
	g.SetLimit(workers)
	for _, pkg := range pkgs {
		g.Go(func() error {
			outcome := c.verifySafely(ctx, pkg, packagesDir, whitelist)

			// Step 4: Flush and merge in completion order
			aggregator.Merge(outcome, func(completed, total int) {
				c.flush(outcome, completed, total)
			})
			return nil
		})
	}
	_ = g.Wait() // Tasks never return errors; failures are carried by outcomes

	// Step 5: Aggregate
	report := aggregator.Report(whitelist)
	report.PackagesDir = packagesDir
	report.Workers = workers
	return report, nil
}

// verifySafely converts verifier errors and panics into exception outcomes
func (c *RunCoordinator) verifySafely(ctx context.Context, pkg entities.Package, packagesDir string, whitelist *entities.Whitelist) (outcome *entities.VerificationOutcome) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("verification panicked",
				interfaces.F("package", pkg.Name),
				interfaces.F("panic", fmt.Sprint(r)))
			outcome = exceptionOutcome(pkg.Name, fmt.Sprint(r))
		}
	}()

	outcome, err := c.verifier.Verify(ctx, pkg, packagesDir, whitelist)
	if err != nil {
		return exceptionOutcome(pkg.Name, err.Error())
	}
	if outcome == nil {
		return exceptionOutcome(pkg.Name, "verification returned no result")
	}
	if !outcome.Finished() {
		outcome.AddLog("  ❌ Verification did not complete")
		outcome.Fail(entities.StageException, "verification did not complete")
	}
	return outcome
}

func exceptionOutcome(packageName, message string) *entities.VerificationOutcome {
	outcome := entities.NewVerificationOutcome(packageName)
	outcome.AddLog("")
	outcome.AddLog("Testing: %s", packageName)
	outcome.AddLog("  ❌ Unexpected error: %s", message)
	outcome.Fail(entities.StageException, message)
	return outcome
}

// flush writes one package's log block and the progress line as a single write
func (c *RunCoordinator) flush(outcome *entities.VerificationOutcome, completed, total int) {
	var b strings.Builder
	for _, line := range outcome.Logs {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nProgress: %d/%d packages tested (%.1fs)\n", completed, total, outcome.Duration().Seconds())

	if _, err := io.WriteString(c.output, b.String()); err != nil {
		c.logger.Warn("failed to write progress", interfaces.F("error", err.Error()))
	}
}

// WorkerCount bounds the pool by the package count and the configured or available parallelism
func WorkerCount(packageCount, configured int) int {
	limit := configured
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	if packageCount < limit {
		limit = packageCount
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}
