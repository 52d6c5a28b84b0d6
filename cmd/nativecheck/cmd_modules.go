package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ochairo/nativecheck/internal/domain-adapters/gateways"
	"github.com/ochairo/nativecheck/internal/domain/entities"
	"github.com/ochairo/nativecheck/internal/domain/services"
	"github.com/ochairo/nativecheck/internal/external-adapters/charmlog"
)

func newModulesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "modules <wheel>...",
		Short: "List the native modules a check would import, without installing",
		Example: `  nativecheck modules dist/numpy-1.26.4-cp311-cp311-manylinux_2_17_x86_64.whl
  nativecheck modules packages/*.whl`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return setupError(err)
			}
			logger := charmlog.New(cmd.ErrOrStderr(), cfg.LogLevel)
			classifier := services.NewModuleClassifier(gateways.NewZipArchiveOpener(), cfg.Classifier, logger)

			out := cmd.OutOrStdout()
			unreadable := 0
			for i, path := range args {
				if i > 0 {
					fmt.Fprintln(out)
				}
				pkg := entities.NewPackage(path)
				result := classifier.Classify(pkg.Path)
				printClassification(cmd, pkg, result)
				if result.Warning != "" {
					unreadable++
				}
			}

			if unreadable > 0 {
				return &ExitError{Code: 1, Err: fmt.Errorf("%d of %d archive(s) could not be read", unreadable, len(args))}
			}
			return nil
		},
	}
}

func printClassification(cmd *cobra.Command, pkg entities.Package, result entities.ClassificationResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render(pkg.Name))

	if !pkg.Tags.IsZero() {
		fmt.Fprintf(out, "  Distribution: %s %s\n", pkg.Tags.Distribution, pkg.Tags.Version)
		fmt.Fprintf(out, "  Tags: %s-%s-%s\n", pkg.Tags.Python, pkg.Tags.ABI, pkg.Tags.Platform)
	}
	if result.Warning != "" {
		fmt.Fprintf(out, "  %s\n", WarningStyle.Render(result.Warning))
		return
	}
	if len(result.TopLevel) > 0 {
		fmt.Fprintf(out, "  Top-level: %s\n", strings.Join(result.TopLevel, ", "))
	}
	if result.Empty() {
		fmt.Fprintln(out, MutedStyle.Render("  No native modules found (pure Python package)"))
		return
	}
	if result.UsedFallback {
		fmt.Fprintln(out, WarningStyle.Render("  Module paths not recognized, using top-level names"))
	}
	fmt.Fprintf(out, "  Native modules (%d):\n", len(result.Modules))
	for _, module := range result.Modules {
		fmt.Fprintf(out, "    - %s\n", module)
	}
}
