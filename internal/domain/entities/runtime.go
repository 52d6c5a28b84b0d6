package entities

// Stage tags attached to failures that happen before any module is probed
const (
	StageVenv      = "venv"
	StageInstall   = "install"
	StageIntegrity = "integrity"
	StageException = "exception"
)

// Runtime is a disposable, isolated interpreter environment
type Runtime struct {
	Dir        string // Root of the environment
	Executable string // Interpreter inside the environment
}

// StepResult is the outcome of one provisioning or install step
type StepResult struct {
	OK         bool
	TimedOut   bool
	ExitCode   int
	Diagnostic string // Best-effort single message, empty on success
}

// ProbeResult is the raw outcome of importing one module in a runtime
type ProbeResult struct {
	ExitCode int
	TimedOut bool
	Stdout   string
	Stderr   string
}

// Succeeded reports whether the import exited cleanly
func (r ProbeResult) Succeeded() bool {
	return !r.TimedOut && r.ExitCode == 0
}
