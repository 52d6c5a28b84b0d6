package entities

import "time"

// CheckerConfig holds all tunables of a run
type CheckerConfig struct {
	Python           string `validate:"required"`
	PackagesDir      string
	PackageExtension string `validate:"required,startswith=."`
	Workers          int    `validate:"gte=0"`
	LogLevel         string `validate:"omitempty,oneof=debug info warn warning error"`
	Timeouts         TimeoutConfig
	Classifier       ClassifierConfig
	Probe            ProbeConfig
	Integrity        IntegrityConfig
	Report           ReportConfig
}

// TimeoutConfig bounds each external step
type TimeoutConfig struct {
	Venv    time.Duration `validate:"gt=0"`
	Install time.Duration `validate:"gt=0"`
	Import  time.Duration `validate:"gt=0"`
}

// ClassifierConfig controls how archive entries are recognized as native modules
type ClassifierConfig struct {
	NativeSuffixes  []string `validate:"min=1,dive,startswith=."`
	ABITagPrefixes  []string `validate:"min=1,dive,required"`
	ExcludedDirs    []string `validate:"dive,required"`
	TopLevelMarker  string   `validate:"required"`
	LibraryPrefix   string   `validate:"required"`
	LibrarySuffixes []string `validate:"dive,startswith=."` // Suffixes whose lib-prefixed files are bundled libraries unless ABI-tagged
}

// ProbeConfig controls interpretation of import failures
type ProbeConfig struct {
	SkipMarkers []string // Failures whose stderr contains one of these are not counted
}

// IntegrityConfig controls optional archive checks before install
type IntegrityConfig struct {
	VerifyChecksums   bool
	Keyring           string
	RequireSignatures bool
}

// ReportConfig controls summary rendering
type ReportConfig struct {
	SnippetMaxLength int `validate:"gt=0"`
}

// DefaultCheckerConfig returns the built-in defaults
func DefaultCheckerConfig() CheckerConfig {
	return CheckerConfig{
		Python:           "python3",
		PackageExtension: ".whl",
		LogLevel:         "info",
		Timeouts: TimeoutConfig{
			Venv:    60 * time.Second,
			Install: 120 * time.Second,
			Import:  30 * time.Second,
		},
		Classifier: DefaultClassifierConfig(),
		Probe: ProbeConfig{
			SkipMarkers: []string{
				"dynamic module does not define module export function",
				"ModuleNotFoundError",
			},
		},
		Integrity: IntegrityConfig{
			VerifyChecksums: true,
		},
		Report: ReportConfig{
			SnippetMaxLength: 100,
		},
	}
}

// DefaultClassifierConfig recognizes extension modules on Linux, macOS and Windows
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		NativeSuffixes:  []string{".so", ".pyd", ".dylib", ".dll"},
		ABITagPrefixes:  []string{"cpython-", "abi3", "pypy", "cp3"},
		ExcludedDirs:    []string{".dist-info/", ".data/", ".libs/", ".dylibs/"},
		TopLevelMarker:  ".dist-info/top_level.txt",
		LibraryPrefix:   "lib",
		LibrarySuffixes: []string{".dylib", ".dll"},
	}
}
