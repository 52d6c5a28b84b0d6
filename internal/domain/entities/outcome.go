package entities

import (
	"fmt"
	"time"
)

// ModuleError pairs a module (or stage tag) with its diagnostic
type ModuleError struct {
	Module string `json:"module"`
	Error  string `json:"error"`
}

// VerificationOutcome is the result of verifying one package.
// Only the task verifying the package mutates it; after Finish it is read-only.
type VerificationOutcome struct {
	PackageName   string
	Success       bool
	Logs          []string
	Failures      []ModuleError
	Whitelisted   []ModuleError
	UsedWhitelist WhitelistUsage
	TestedCount   int
	StartTime     time.Time
	EndTime       time.Time
}

// NewVerificationOutcome starts an outcome for a package
func NewVerificationOutcome(packageName string) *VerificationOutcome {
	return &VerificationOutcome{
		PackageName:   packageName,
		UsedWhitelist: WhitelistUsage{},
		StartTime:     time.Now(),
	}
}

// AddLog appends a formatted line to the package's log buffer
func (o *VerificationOutcome) AddLog(format string, args ...interface{}) {
	if o.Finished() {
		return
	}
	o.Logs = append(o.Logs, fmt.Sprintf(format, args...))
}

// Finish marks the outcome complete. Subsequent calls are ignored.
func (o *VerificationOutcome) Finish(success bool, failures, whitelisted []ModuleError) {
	if o.Finished() {
		return
	}
	o.Success = success
	o.Failures = failures
	o.Whitelisted = whitelisted
	o.EndTime = time.Now()
}

// Fail finishes the outcome with a single stage-tagged failure
func (o *VerificationOutcome) Fail(stage, message string) {
	o.Finish(false, []ModuleError{{Module: stage, Error: message}}, nil)
}

// Finished reports whether Finish has been called
func (o *VerificationOutcome) Finished() bool {
	return !o.EndTime.IsZero()
}

// Duration returns the elapsed verification time
func (o *VerificationOutcome) Duration() time.Duration {
	end := o.EndTime
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(o.StartTime)
}
