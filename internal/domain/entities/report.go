package entities

import "time"

// RunReport aggregates all verification outcomes of one run
type RunReport struct {
	RunID       string                   `json:"run_id"`
	Platform    string                   `json:"platform"`
	Interpreter string                   `json:"interpreter"`
	PackagesDir string                   `json:"packages_dir"`
	Workers     int                      `json:"workers"`
	Total       int                      `json:"total"`
	Successful  int                      `json:"successful"`
	Failed      int                      `json:"failed"`
	Failures    map[string][]ModuleError `json:"failures"`
	Whitelisted map[string][]ModuleError `json:"whitelisted"`
	Unused      map[string][]string      `json:"unused_whitelist_entries"`
	Durations   map[string]float64       `json:"durations_seconds"`
	TestedCount int                      `json:"tested_modules"`
	StartedAt   time.Time                `json:"started_at"`
	Duration    float64                  `json:"duration_seconds"`
}

// Passed reports whether no package has an unsuppressed failure
func (r *RunReport) Passed() bool {
	return len(r.Failures) == 0
}

// ExitCode returns the process exit status for the run
func (r *RunReport) ExitCode() int {
	if r.Passed() {
		return 0
	}
	return 1
}
