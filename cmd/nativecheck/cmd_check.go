package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ochairo/nativecheck/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/nativecheck/internal/domain-orchestrators"
	"github.com/ochairo/nativecheck/internal/domain/entities"
	"github.com/ochairo/nativecheck/internal/domain/interfaces"
	ports "github.com/ochairo/nativecheck/internal/domain/interfaces/gateways"
	"github.com/ochairo/nativecheck/internal/domain/services"
	"github.com/ochairo/nativecheck/internal/external-adapters/charmlog"
	"github.com/ochairo/nativecheck/internal/external-adapters/metrics"
	"github.com/ochairo/nativecheck/internal/external-adapters/whitelist"
)

func runCheck(cmd *cobra.Command, opts *rootOptions, whitelistPath string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stdout := cmd.OutOrStdout()

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return setupError(err)
	}
	logger := charmlog.New(cmd.ErrOrStderr(), cfg.LogLevel)

	runner := gateways.NewCommandRunner()
	inspector := gateways.NewInterpreterInspector(runner, cfg.Python)

	// Step 1: Describe the host
	platform := fmt.Sprintf("%s %s", runtime.GOOS, runtime.GOARCH)
	version, err := inspector.Version(ctx)
	if err != nil {
		logger.Warn("cannot determine interpreter version", interfaces.F("error", err.Error()))
		version = "unknown"
	}
	fmt.Fprintln(stdout, "Starting wheel installation tests...")
	fmt.Fprintln(stdout, rule)
	fmt.Fprintf(stdout, "Platform: %s\n", platform)
	fmt.Fprintf(stdout, "Python: %s\n", version)

	// Step 2: Locate packages
	packagesDir, err := resolvePackagesDir(ctx, cfg.PackagesDir, inspector, logger)
	if err != nil {
		return setupError(err)
	}
	fmt.Fprintf(stdout, "Packages directory: %s\n", packagesDir)

	// Step 3: Wire the workflow
	integrity, err := newIntegrityChecker(cfg.Integrity, logger)
	if err != nil {
		return setupError(err)
	}
	verifier := orchestrators.NewPackageVerifier(
		integrity,
		gateways.NewVenvProvisioner(runner, cfg.Python, cfg.Timeouts.Venv),
		gateways.NewPipInstaller(runner, cfg.Timeouts.Install),
		services.NewModuleClassifier(gateways.NewZipArchiveOpener(), cfg.Classifier, logger),
		gateways.NewImportProber(runner, cfg.Timeouts.Import),
		orchestrators.PackageVerifierConfig{SkipMarkers: cfg.Probe.SkipMarkers},
		logger,
	)
	coordinator := orchestrators.NewRunCoordinator(
		gateways.NewPackageFinder(cfg.PackageExtension),
		&announcingLoader{loader: whitelist.NewLoader(logger), out: stdout},
		verifier,
		orchestrators.RunCoordinatorConfig{Workers: cfg.Workers, Output: stdout},
		logger,
	)

	// Step 4: Run
	report, err := coordinator.Run(ctx, packagesDir, whitelistPath)
	if err != nil {
		return setupError(err)
	}
	report.RunID = uuid.NewString()
	report.Platform = platform
	report.Interpreter = version

	// Step 5: Report
	if err := printSummary(stdout, report, cfg.Report.SnippetMaxLength); err != nil {
		return setupError(err)
	}
	if opts.jsonOutput != "" {
		if err := writeJSONReport(opts.jsonOutput, report); err != nil {
			return setupError(err)
		}
		logger.Info("wrote JSON report", interfaces.F("path", opts.jsonOutput))
	}
	if opts.metricsFile != "" {
		runMetrics := metrics.NewRunMetrics()
		runMetrics.Record(report)
		if err := runMetrics.WriteTextfile(opts.metricsFile); err != nil {
			return setupError(err)
		}
		logger.Info("wrote metrics", interfaces.F("path", opts.metricsFile))
	}

	if code := report.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// resolvePackagesDir returns configured, or the first conventional location that exists
func resolvePackagesDir(ctx context.Context, configured string, inspector ports.InterpreterInspector, logger interfaces.Logger) (string, error) {
	if configured != "" {
		return configured, nil
	}

	executable, err := inspector.Executable(ctx)
	if err != nil {
		logger.Debug("cannot resolve interpreter executable", interfaces.F("error", err.Error()))
		executable = ""
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return gateways.LocatePackagesDir(gateways.PackagesDirCandidates(executable, cwd))
}

// newIntegrityChecker returns nil when no integrity check is enabled
func newIntegrityChecker(cfg entities.IntegrityConfig, logger interfaces.Logger) (ports.IntegrityChecker, error) {
	if !cfg.VerifyChecksums && cfg.Keyring == "" && !cfg.RequireSignatures {
		return nil, nil
	}

	var signatures ports.SignatureVerifier
	if cfg.Keyring != "" {
		verifier, err := gateways.NewGPGVerifier(cfg.Keyring)
		if err != nil {
			return nil, err
		}
		signatures = verifier
	}

	return gateways.NewIntegrityChecker(signatures, gateways.IntegrityCheckerConfig{
		VerifyChecksums:   cfg.VerifyChecksums,
		RequireSignatures: cfg.RequireSignatures,
	}, logger), nil
}

// announcingLoader prints the size of a whitelist loaded from a file
type announcingLoader struct {
	loader orchestrators.WhitelistLoader
	out    io.Writer
}

func (l *announcingLoader) Load(path string) (*entities.Whitelist, error) {
	wl, err := l.loader.Load(path)
	if err != nil {
		return nil, err
	}
	if path != "" && wl.Len() > 0 {
		fmt.Fprintf(l.out, "Loaded whitelist with %d wheel(s)\n", wl.Len())
	}
	return wl, nil
}
