package gateways

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestCommandRunner_Success(t *testing.T) {
	requireShell(t)

	result := NewCommandRunner().Run(context.Background(), 5*time.Second, "sh", "-c", "echo out; echo err >&2")

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "out\n", result.Stdout)
	assert.Equal(t, "err\n", result.Stderr)
	assert.NoError(t, result.Error)
}

func TestCommandRunner_ExitCode(t *testing.T) {
	requireShell(t)

	result := NewCommandRunner().Run(context.Background(), 5*time.Second, "sh", "-c", "echo failed >&2; exit 3")

	assert.False(t, result.Success)
	assert.False(t, result.TimedOut)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "failed\n", result.Stderr)
}

func TestCommandRunner_Timeout(t *testing.T) {
	requireShell(t)

	result := NewCommandRunner().Run(context.Background(), 100*time.Millisecond, "sh", "-c", "sleep 5")

	assert.False(t, result.Success)
	assert.True(t, result.TimedOut)
	assert.Equal(t, -1, result.ExitCode)
}

func TestCommandRunner_MissingBinary(t *testing.T) {
	result := NewCommandRunner().Run(context.Background(), time.Second, "/nonexistent/nativecheck-binary")

	assert.False(t, result.Success)
	assert.False(t, result.TimedOut)
	assert.Equal(t, -1, result.ExitCode)
	assert.Error(t, result.Error)
}

func TestCommandRunner_NoArgs(t *testing.T) {
	result := NewCommandRunner().Run(context.Background(), time.Second)

	assert.False(t, result.Success)
	assert.Error(t, result.Error)
}
