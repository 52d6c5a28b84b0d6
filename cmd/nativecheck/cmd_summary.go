package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/ochairo/nativecheck/internal/domain/entities"
	"github.com/ochairo/nativecheck/internal/domain/services"
)

// printSummary renders the end-of-run summary. Packages are listed by name.
func printSummary(w io.Writer, report *entities.RunReport, snippetMaxLength int) error {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, TitleStyle.Render("Test Summary"))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Platform: %s\n", report.Platform)
	fmt.Fprintf(w, "Python: %s\n", report.Interpreter)
	fmt.Fprintf(w, "Packages directory: %s\n", report.PackagesDir)
	fmt.Fprintf(w, "Total wheels tested: %d\n", report.Total)
	fmt.Fprintf(w, "Successful: %d\n", report.Successful)
	fmt.Fprintf(w, "Failed: %d\n", report.Failed)
	if len(report.Whitelisted) > 0 {
		fmt.Fprintf(w, "Whitelisted warnings: %d\n", len(report.Whitelisted))
	}
	fmt.Fprintf(w, "Duration: %.1fs\n", report.Duration)
	fmt.Fprintln(w, rule)

	if len(report.Whitelisted) > 0 {
		fmt.Fprintf(w, "\n%s\n\n", WarningStyle.Render(fmt.Sprintf("⚠️  Whitelisted warnings (%d):", len(report.Whitelisted))))
		printModuleErrors(w, report.Whitelisted)
	}

	if report.Passed() {
		fmt.Fprintln(w, SuccessStyle.Render("✓ All wheels installed and imported successfully!"))
	} else {
		fmt.Fprintf(w, "\n%s\n\n", ErrorStyle.Render(fmt.Sprintf("❌ Failed wheels (%d):", len(report.Failures))))
		printModuleErrors(w, report.Failures)

		snippet, err := services.GenerateWhitelistSnippet(report.Failures, snippetMaxLength)
		if err != nil {
			return fmt.Errorf("failed to generate whitelist snippet: %w", err)
		}
		fmt.Fprintln(w, rule)
		fmt.Fprintln(w, "To whitelist these errors, add to your whitelist.json:")
		fmt.Fprintln(w, rule)
		fmt.Fprintln(w, snippet)
		fmt.Fprintln(w)
	}

	if len(report.Unused) > 0 {
		fmt.Fprintln(w, rule)
		fmt.Fprintln(w, WarningStyle.Render("⚠️  Unused whitelist entries (can be removed):"))
		fmt.Fprintln(w, rule)
		for _, pkg := range sortedKeys(report.Unused) {
			fmt.Fprintf(w, "  %s\n", pkg)
			for _, module := range report.Unused[pkg] {
				fmt.Fprintf(w, "    - %s\n", module)
			}
		}
		fmt.Fprintln(w)
	}

	return nil
}

func printModuleErrors(w io.Writer, byPackage map[string][]entities.ModuleError) {
	for _, pkg := range sortedKeys(byPackage) {
		fmt.Fprintf(w, "  %s\n", pkg)
		for _, e := range byPackage[pkg] {
			fmt.Fprintf(w, "    - %s: %s\n", e.Module, MutedStyle.Render(e.Error))
		}
		fmt.Fprintln(w)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// writeJSONReport writes report to path as indented JSON
func writeJSONReport(path string, report *entities.RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')

	//nolint:gosec // G306: report is meant to be read by CI tooling
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
