package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ochairo/nativecheck/internal/external-adapters/whitelist"
)

func newValidateWhitelistCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "validate-whitelist <whitelist.json>",
		Short:         "Check that a whitelist file is well formed",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			//nolint:gosec // G304: path is the user-provided whitelist file
			data, err := os.ReadFile(path)
			if err != nil {
				return setupError(fmt.Errorf("cannot read whitelist file: %w", err))
			}

			wl, err := whitelist.NewLoader(nil).Parse(path, data)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("❌ Invalid whitelist"))
				return setupError(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d wheel(s), %d entr%s)\n",
				SuccessStyle.Render("✓ Valid whitelist:"), path, wl.Len(), len(wl.Keys()), plural(len(wl.Keys()), "y", "ies"))
			return nil
		},
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
