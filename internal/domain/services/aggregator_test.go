package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/nativecheck/internal/domain/entities"
)

func finishedOutcome(name string, failures, whitelisted []entities.ModuleError) *entities.VerificationOutcome {
	outcome := entities.NewVerificationOutcome(name)
	outcome.TestedCount = len(failures) + len(whitelisted)
	for _, w := range whitelisted {
		outcome.UsedWhitelist.Add(entities.WhitelistKey{Package: name, Module: w.Module})
	}
	outcome.Finish(len(failures) == 0, failures, whitelisted)
	return outcome
}

func TestRunAggregatorReport(t *testing.T) {
	whitelist := entities.NewWhitelist(map[string]map[string]string{
		"c.whl": {"c.x": "boom"},
		"d.whl": {"d.y": "never"},
	})
	aggregator := NewRunAggregator(3)

	aggregator.Merge(finishedOutcome("a.whl", nil, nil), nil)
	aggregator.Merge(finishedOutcome("b.whl", []entities.ModuleError{{Module: "b.native", Error: "undefined symbol: xyz"}}, nil), nil)
	completed := aggregator.Merge(finishedOutcome("c.whl", nil, []entities.ModuleError{{Module: "c.x", Error: "boom"}}), nil)

	report := aggregator.Report(whitelist)

	assert.Equal(t, 3, completed)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Successful)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, map[string][]entities.ModuleError{
		"b.whl": {{Module: "b.native", Error: "undefined symbol: xyz"}},
	}, report.Failures)
	assert.Equal(t, map[string][]entities.ModuleError{
		"c.whl": {{Module: "c.x", Error: "boom"}},
	}, report.Whitelisted)
	assert.Equal(t, map[string][]string{"d.whl": {"d.y"}}, report.Unused)
	assert.Equal(t, 2, report.TestedCount)
	assert.Len(t, report.Durations, 3)
	assert.Equal(t, 1, report.ExitCode())
}

func TestRunAggregatorOrderIndependent(t *testing.T) {
	const total = 20
	aggregator := NewRunAggregator(total)

	var (
		wg      sync.WaitGroup
		flushed []int
	)
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var failures []entities.ModuleError
			if i%4 == 0 {
				failures = []entities.ModuleError{{Module: "m", Error: "e"}}
			}
			aggregator.Merge(finishedOutcome(fmt.Sprintf("p%02d.whl", i), failures, nil), func(completed, _ int) {
				flushed = append(flushed, completed)
			})
		}(i)
	}
	wg.Wait()

	report := aggregator.Report(entities.EmptyWhitelist())

	require.Len(t, flushed, total)
	for i, completed := range flushed {
		assert.Equal(t, i+1, completed)
	}
	assert.Equal(t, 5, report.Failed)
	assert.Len(t, report.Failures, 5)
	assert.Equal(t, 15, report.Successful)
}

func TestRunAggregatorAllPassed(t *testing.T) {
	aggregator := NewRunAggregator(1)
	aggregator.Merge(finishedOutcome("a.whl", nil, []entities.ModuleError{{Module: "a.x", Error: "e"}}), nil)

	report := aggregator.Report(nil)

	assert.True(t, report.Passed())
	assert.Equal(t, 0, report.ExitCode())
	assert.Empty(t, report.Unused)
}
