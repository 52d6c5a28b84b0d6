package services

import (
	"sync"
	"time"

	"github.com/ochairo/nativecheck/internal/domain/entities"
)

// RunAggregator is the single point where completed outcomes are merged.
// It is safe for concurrent use.
type RunAggregator struct {
	mu          sync.Mutex
	total       int
	completed   int
	successful  int
	testedCount int
	failures    map[string][]entities.ModuleError
	whitelisted map[string][]entities.ModuleError
	durations   map[string]float64
	used        entities.WhitelistUsage
	startedAt   time.Time
}

// NewRunAggregator creates an aggregator expecting total outcomes
func NewRunAggregator(total int) *RunAggregator {
	return &RunAggregator{
		total:       total,
		failures:    make(map[string][]entities.ModuleError),
		whitelisted: make(map[string][]entities.ModuleError),
		durations:   make(map[string]float64),
		used:        entities.WhitelistUsage{},
		startedAt:   time.Now(),
	}
}

// Merge folds a finished outcome into the aggregate and returns the number of outcomes merged so far.
// The flush callback, when non-nil, runs inside the same critical section so output blocks never interleave.
func (a *RunAggregator) Merge(outcome *entities.VerificationOutcome, flush func(completed, total int)) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.completed++
	a.testedCount += outcome.TestedCount
	a.durations[outcome.PackageName] = outcome.Duration().Seconds()
	a.used.Merge(outcome.UsedWhitelist)

	if outcome.Success {
		a.successful++
	} else {
		a.failures[outcome.PackageName] = append([]entities.ModuleError(nil), outcome.Failures...)
	}
	if len(outcome.Whitelisted) > 0 {
		a.whitelisted[outcome.PackageName] = append([]entities.ModuleError(nil), outcome.Whitelisted...)
	}

	if flush != nil {
		flush(a.completed, a.total)
	}
	return a.completed
}

// Elapsed returns the time since the aggregator was created
func (a *RunAggregator) Elapsed() time.Duration {
	return time.Since(a.startedAt)
}

// Report builds the final run report, including unused whitelist entries
func (a *RunAggregator) Report(whitelist *entities.Whitelist) *entities.RunReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	report := &entities.RunReport{
		Total:       a.total,
		Successful:  a.successful,
		Failed:      len(a.failures),
		Failures:    make(map[string][]entities.ModuleError, len(a.failures)),
		Whitelisted: make(map[string][]entities.ModuleError, len(a.whitelisted)),
		Unused:      FindUnusedEntries(whitelist, a.used),
		Durations:   make(map[string]float64, len(a.durations)),
		TestedCount: a.testedCount,
		StartedAt:   a.startedAt,
		Duration:    time.Since(a.startedAt).Seconds(),
	}
	for pkg, errs := range a.failures {
		report.Failures[pkg] = errs
	}
	for pkg, errs := range a.whitelisted {
		report.Whitelisted[pkg] = errs
	}
	for pkg, seconds := range a.durations {
		report.Durations[pkg] = seconds
	}
	return report
}
