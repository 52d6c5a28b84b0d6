package services

import (
	"strings"

	"github.com/ochairo/nativecheck/internal/domain/entities"
)

// ProbeVerdict is the interpretation of one import probe
type ProbeVerdict string

// Probe verdicts
const (
	VerdictPassed  ProbeVerdict = "passed"
	VerdictFailed  ProbeVerdict = "failed"
	VerdictSkipped ProbeVerdict = "skipped" // Not an importable module; not counted as tested
)

// Diagnostics used when a probe produced no usable error text
const (
	ImportTimeoutMessage = "Import timeout (module may be hanging)"
	UnknownErrorMessage  = "Unknown error"
)

// EvaluateProbe turns a raw probe result into a verdict and, for failures, a single-line diagnostic
func EvaluateProbe(result entities.ProbeResult, skipMarkers []string) (ProbeVerdict, string) {
	if result.TimedOut {
		return VerdictFailed, ImportTimeoutMessage
	}
	if result.ExitCode == 0 {
		return VerdictPassed, ""
	}

	for _, marker := range skipMarkers {
		if marker != "" && strings.Contains(result.Stderr, marker) {
			return VerdictSkipped, ""
		}
	}

	if line := LastNonBlankLine(result.Stderr); line != "" {
		return VerdictFailed, line
	}
	return VerdictFailed, UnknownErrorMessage
}

// LastNonBlankLine returns the last line of text that is not whitespace, trimmed
func LastNonBlankLine(text string) string {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
