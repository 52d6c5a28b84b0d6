package main

import (
	"github.com/spf13/cobra"

	"github.com/ochairo/nativecheck/internal/domain/entities"
	"github.com/ochairo/nativecheck/internal/external-adapters/config"
)

// rootOptions holds flag values shared by all commands
type rootOptions struct {
	configFile string
	envFile    string
	logLevel   string
	python     string

	packagesDir       string
	workers           int
	jsonOutput        string
	metricsFile       string
	keyring           string
	requireSignatures bool
	skipChecksums     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "nativecheck [whitelist.json]",
		Short: "Install built wheels and import their native modules",
		Long: TitleStyle.Render("nativecheck") + MutedStyle.Render(" - release gate for wheels with native extensions") + `

Each wheel in the packages directory is installed into its own virtual
environment, using only the packages directory as the package index. Every
compiled extension module found inside the wheel is then imported in a
separate interpreter process.

Known failures can be suppressed with a whitelist file:

  {"<wheel file name>": {"<dotted module>": "<expected error substring>"}}

Exit status is 0 when every failure is whitelisted and 1 otherwise.`,
		Example: `  nativecheck
  nativecheck whitelist.json
  nativecheck --packages-dir dist --workers 4 whitelist.json
  nativecheck --json-output report.json --metrics-file nativecheck.prom`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			whitelistPath := ""
			if len(args) == 1 {
				whitelistPath = args[0]
			}
			return runCheck(cmd, opts, whitelistPath)
		},
	}

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&opts.configFile, "config", "", "YAML config file")
	persistent.StringVar(&opts.envFile, "env-file", ".env", "dotenv file with NATIVECHECK_* variables")
	persistent.StringVar(&opts.logLevel, "log-level", "", "diagnostic log level (debug, info, warn, error)")
	persistent.StringVar(&opts.python, "python", "", "interpreter used to create virtual environments")

	flags := cmd.Flags()
	flags.StringVar(&opts.packagesDir, "packages-dir", "", "directory holding the wheels (default <python>/../../packages, then ./packages)")
	flags.IntVarP(&opts.workers, "workers", "j", 0, "parallel verifications (0 = number of CPUs)")
	flags.StringVar(&opts.jsonOutput, "json-output", "", "write the run report as JSON to this file")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")
	flags.StringVar(&opts.keyring, "keyring", "", "OpenPGP keyring used to verify .asc/.sig signatures")
	flags.BoolVar(&opts.requireSignatures, "require-signatures", false, "fail wheels without a valid signature")
	flags.BoolVar(&opts.skipChecksums, "skip-checksums", false, "ignore .sha256 sidecar files")

	cmd.AddCommand(newModulesCmd(opts))
	cmd.AddCommand(newValidateWhitelistCmd())

	return cmd
}

// loadConfig layers defaults, the config file, the environment and explicitly set flags
func (o *rootOptions) loadConfig(cmd *cobra.Command) (entities.CheckerConfig, error) {
	if o.envFile != "" {
		config.LoadDotEnv(o.envFile)
	}

	loader := config.NewLoader()
	cfg, err := loader.Load(o.configFile)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("python") {
		cfg.Python = o.python
	}
	if flags.Changed("packages-dir") {
		cfg.PackagesDir = o.packagesDir
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("keyring") {
		cfg.Integrity.Keyring = o.keyring
	}
	if flags.Changed("require-signatures") {
		cfg.Integrity.RequireSignatures = o.requireSignatures
	}
	if flags.Changed("skip-checksums") {
		cfg.Integrity.VerifyChecksums = !o.skipChecksums
	}

	return cfg, loader.Validate(cfg)
}
