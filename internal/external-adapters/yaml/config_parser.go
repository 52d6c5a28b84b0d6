// Package yaml provides YAML-based configuration parsing.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ochairo/nativecheck/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlConfig represents the raw YAML structure. Nil fields keep the base value.
type yamlConfig struct {
	Python           *string        `yaml:"python"`
	PackagesDir      *string        `yaml:"packages_dir"`
	PackageExtension *string        `yaml:"package_extension"`
	Workers          *int           `yaml:"workers"`
	LogLevel         *string        `yaml:"log_level"`
	Timeouts         yamlTimeouts   `yaml:"timeouts"`
	Classifier       yamlClassifier `yaml:"classifier"`
	Probe            yamlProbe      `yaml:"probe"`
	Integrity        yamlIntegrity  `yaml:"integrity"`
	Report           yamlReport     `yaml:"report"`
}

type yamlTimeouts struct {
	VenvSeconds    *int `yaml:"venv_seconds"`
	InstallSeconds *int `yaml:"install_seconds"`
	ImportSeconds  *int `yaml:"import_seconds"`
}

type yamlClassifier struct {
	NativeSuffixes  []string `yaml:"native_suffixes"`
	ABITagPrefixes  []string `yaml:"abi_tag_prefixes"`
	ExcludedDirs    []string `yaml:"excluded_dirs"`
	TopLevelMarker  *string  `yaml:"top_level_marker"`
	LibraryPrefix   *string  `yaml:"library_prefix"`
	LibrarySuffixes []string `yaml:"library_suffixes"`
}

type yamlProbe struct {
	SkipMarkers []string `yaml:"skip_markers"`
}

type yamlIntegrity struct {
	VerifyChecksums   *bool   `yaml:"verify_checksums"`
	Keyring           *string `yaml:"keyring"`
	RequireSignatures *bool   `yaml:"require_signatures"`
}

type yamlReport struct {
	SnippetMaxLength *int `yaml:"snippet_max_length"`
}

// ConfigParser parses YAML configuration files
type ConfigParser struct{}

// NewConfigParser creates a new YAML parser
func NewConfigParser() *ConfigParser {
	return &ConfigParser{}
}

// ParseFile overlays the YAML file at filePath onto base
func (p *ConfigParser) ParseFile(filePath string, base entities.CheckerConfig) (entities.CheckerConfig, error) {
	//nolint:gosec // G304: filePath is the user-selected config file
	data, err := os.ReadFile(filePath)
	if err != nil {
		return base, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data, base)
}

// Parse overlays YAML bytes onto base. Unknown keys are rejected.
func (p *ConfigParser) Parse(data []byte, base entities.CheckerConfig) (entities.CheckerConfig, error) {
	var raw yamlConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg := base
	setString(&cfg.Python, raw.Python)
	setString(&cfg.PackagesDir, raw.PackagesDir)
	setString(&cfg.PackageExtension, raw.PackageExtension)
	setString(&cfg.LogLevel, raw.LogLevel)
	if raw.Workers != nil {
		cfg.Workers = *raw.Workers
	}

	setSeconds(&cfg.Timeouts.Venv, raw.Timeouts.VenvSeconds)
	setSeconds(&cfg.Timeouts.Install, raw.Timeouts.InstallSeconds)
	setSeconds(&cfg.Timeouts.Import, raw.Timeouts.ImportSeconds)

	cfg.Classifier = convertClassifier(raw.Classifier, base.Classifier)
	if raw.Probe.SkipMarkers != nil {
		cfg.Probe.SkipMarkers = raw.Probe.SkipMarkers
	}

	if raw.Integrity.VerifyChecksums != nil {
		cfg.Integrity.VerifyChecksums = *raw.Integrity.VerifyChecksums
	}
	setString(&cfg.Integrity.Keyring, raw.Integrity.Keyring)
	if raw.Integrity.RequireSignatures != nil {
		cfg.Integrity.RequireSignatures = *raw.Integrity.RequireSignatures
	}

	if raw.Report.SnippetMaxLength != nil {
		cfg.Report.SnippetMaxLength = *raw.Report.SnippetMaxLength
	}

	return cfg, nil
}

func convertClassifier(yc yamlClassifier, base entities.ClassifierConfig) entities.ClassifierConfig {
	cfg := base
	if yc.NativeSuffixes != nil {
		cfg.NativeSuffixes = yc.NativeSuffixes
	}
	if yc.ABITagPrefixes != nil {
		cfg.ABITagPrefixes = yc.ABITagPrefixes
	}
	if yc.ExcludedDirs != nil {
		cfg.ExcludedDirs = yc.ExcludedDirs
	}
	if yc.LibrarySuffixes != nil {
		cfg.LibrarySuffixes = yc.LibrarySuffixes
	}
	setString(&cfg.TopLevelMarker, yc.TopLevelMarker)
	setString(&cfg.LibraryPrefix, yc.LibraryPrefix)
	return cfg
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}

func setSeconds(dst *time.Duration, seconds *int) {
	if seconds != nil {
		*dst = time.Duration(*seconds) * time.Second
	}
}
