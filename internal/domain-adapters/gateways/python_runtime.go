package gateways

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ochairo/nativecheck/internal/domain/entities"
)

// importScript imports the module named by argv[1], so the name is never evaluated as code
const importScript = "import importlib, sys; importlib.import_module(sys.argv[1])"

type commandRunner interface {
	Run(ctx context.Context, timeout time.Duration, argv ...string) *CommandResult
}

// VenvProvisioner creates virtual environments with the host interpreter
type VenvProvisioner struct {
	runner  commandRunner
	python  string
	timeout time.Duration
	goos    string
}

// NewVenvProvisioner creates a provisioner using python to run "-m venv"
func NewVenvProvisioner(runner commandRunner, python string, timeout time.Duration) *VenvProvisioner {
	return &VenvProvisioner{
		runner:  runner,
		python:  python,
		timeout: timeout,
		goos:    runtime.GOOS,
	}
}

// Provision creates workDir/.venv
func (p *VenvProvisioner) Provision(ctx context.Context, workDir string) (*entities.Runtime, entities.StepResult) {
	venvDir := filepath.Join(workDir, ".venv")

	result := p.runner.Run(ctx, p.timeout, p.python, "-m", "venv", venvDir)
	if result.TimedOut {
		return nil, entities.StepResult{TimedOut: true, ExitCode: -1, Diagnostic: "Timeout creating virtual environment"}
	}
	if !result.Success {
		return nil, entities.StepResult{
			ExitCode:   result.ExitCode,
			Diagnostic: diagnostic(result, false, "Failed to create virtual environment"),
		}
	}

	return &entities.Runtime{
		Dir:        venvDir,
		Executable: VenvPython(venvDir, p.goos),
	}, entities.StepResult{OK: true}
}

// VenvPython returns the interpreter location inside a virtual environment
func VenvPython(venvDir, goos string) string {
	if goos == "windows" {
		return filepath.Join(venvDir, "Scripts", "python.exe")
	}
	return filepath.Join(venvDir, "bin", "python")
}

// PipInstaller installs packages with pip, offline
type PipInstaller struct {
	runner  commandRunner
	timeout time.Duration
}

// NewPipInstaller creates a new pip installer
func NewPipInstaller(runner commandRunner, timeout time.Duration) *PipInstaller {
	return &PipInstaller{
		runner:  runner,
		timeout: timeout,
	}
}

// Install runs pip with --no-index so dependencies resolve only from findLinks
func (i *PipInstaller) Install(ctx context.Context, rt *entities.Runtime, pkg entities.Package, findLinks string) entities.StepResult {
	result := i.runner.Run(ctx, i.timeout,
		rt.Executable, "-m", "pip", "install",
		"--find-links", findLinks,
		"--no-index",
		pkg.Path,
	)
	if result.TimedOut {
		return entities.StepResult{TimedOut: true, ExitCode: -1, Diagnostic: "Timeout installing wheel"}
	}
	if !result.Success {
		return entities.StepResult{
			ExitCode:   result.ExitCode,
			Diagnostic: diagnostic(result, true, "Failed to install wheel"),
		}
	}
	return entities.StepResult{OK: true}
}

// ImportProber imports one module per interpreter process
type ImportProber struct {
	runner  commandRunner
	timeout time.Duration
}

// NewImportProber creates a new import prober
func NewImportProber(runner commandRunner, timeout time.Duration) *ImportProber {
	return &ImportProber{
		runner:  runner,
		timeout: timeout,
	}
}

// Probe imports module inside rt
func (p *ImportProber) Probe(ctx context.Context, rt *entities.Runtime, module string) entities.ProbeResult {
	result := p.runner.Run(ctx, p.timeout, rt.Executable, "-c", importScript, module)

	probe := entities.ProbeResult{
		ExitCode: result.ExitCode,
		TimedOut: result.TimedOut,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
	}
	// Process could not start at all
	if !result.Success && !result.TimedOut && probe.Stderr == "" && result.Error != nil {
		probe.Stderr = result.Error.Error()
	}
	return probe
}

// InterpreterInspector queries the host interpreter
type InterpreterInspector struct {
	runner  commandRunner
	python  string
	timeout time.Duration
}

// NewInterpreterInspector creates a new interpreter inspector
func NewInterpreterInspector(runner commandRunner, python string) *InterpreterInspector {
	return &InterpreterInspector{
		runner:  runner,
		python:  python,
		timeout: 10 * time.Second,
	}
}

// Version returns sys.version of the interpreter
func (i *InterpreterInspector) Version(ctx context.Context) (string, error) {
	return i.query(ctx, "import sys; print(sys.version)")
}

// Executable returns sys.executable of the interpreter
func (i *InterpreterInspector) Executable(ctx context.Context) (string, error) {
	return i.query(ctx, "import sys; print(sys.executable)")
}

func (i *InterpreterInspector) query(ctx context.Context, script string) (string, error) {
	result := i.runner.Run(ctx, i.timeout, i.python, "-c", script)
	if !result.Success {
		if result.Error != nil {
			return "", fmt.Errorf("failed to query %s: %w", i.python, result.Error)
		}
		return "", fmt.Errorf("failed to query %s: exit %d", i.python, result.ExitCode)
	}

	value := strings.TrimSpace(result.Stdout)
	if value == "" {
		return "", errors.New("interpreter returned no output")
	}
	return value, nil
}

// diagnostic picks stderr, then stdout if allowed, then the launch error, then fallback
func diagnostic(result *CommandResult, useStdout bool, fallback string) string {
	if msg := strings.TrimSpace(result.Stderr); msg != "" {
		return msg
	}
	if useStdout {
		if msg := strings.TrimSpace(result.Stdout); msg != "" {
			return msg
		}
	}
	var exitErr *exec.ExitError
	if result.Error != nil && !errors.As(result.Error, &exitErr) {
		return fmt.Sprintf("%s: %v", fallback, result.Error)
	}
	return fallback
}
