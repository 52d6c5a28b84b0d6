// Package gateways implements the domain gateway contracts on top of processes and files.
package gateways

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// CommandResult contains the result of running one external command
type CommandResult struct {
	Success  bool
	TimedOut bool
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	Error    error
}

// CommandRunner runs external commands with a per-call timeout
type CommandRunner struct {
	waitDelay time.Duration
}

// NewCommandRunner creates a new command runner
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{
		waitDelay: 2 * time.Second,
	}
}

// Run executes argv[0] with the remaining arguments, capturing both output streams.
// A timeout is reported with TimedOut set and ExitCode -1.
func (r *CommandRunner) Run(ctx context.Context, timeout time.Duration, argv ...string) *CommandResult {
	startTime := time.Now()
	result := &CommandResult{}

	if len(argv) == 0 {
		result.Error = errors.New("no command given")
		result.ExitCode = -1
		return result
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // G204: Arguments are interpreter paths and package file paths, not shell text
	cmd := exec.CommandContext(execCtx, argv[0], argv[1:]...)
	cmd.WaitDelay = r.waitDelay

	// Capture stdout and stderr
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result.Duration = time.Since(startTime)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		result.Error = err
		var exitErr *exec.ExitError
		//nolint:gocritic // ifElseChain: checking different error types, not suitable for switch
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			result.TimedOut = true
			result.ExitCode = -1
		} else if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		return result
	}

	result.Success = true
	result.ExitCode = 0
	return result
}
