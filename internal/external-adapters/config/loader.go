// Package config layers defaults, a YAML file and NATIVECHECK_* environment variables into a validated configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/ochairo/nativecheck/internal/domain/entities"
	"github.com/ochairo/nativecheck/internal/external-adapters/yaml"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "NATIVECHECK_"

// ValidationError reports every invalid configuration field
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Fields, "; ")
}

// Loader builds a CheckerConfig
type Loader struct {
	parser    *yaml.ConfigParser
	validate  *validator.Validate
	lookupEnv func(string) (string, bool)
}

// NewLoader creates a loader reading the process environment
func NewLoader() *Loader {
	return &Loader{
		parser:    yaml.NewConfigParser(),
		validate:  validator.New(),
		lookupEnv: os.LookupEnv,
	}
}

// LoadDotEnv loads a .env file into the environment when one exists. Existing variables win.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// Load returns defaults overlaid by configPath (optional) and the environment, validated
func (l *Loader) Load(configPath string) (entities.CheckerConfig, error) {
	cfg := entities.DefaultCheckerConfig()

	if configPath != "" {
		parsed, err := l.parser.ParseFile(configPath, cfg)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = parsed
	}

	if err := l.applyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, l.Validate(cfg)
}

// Validate checks struct constraints on cfg
func (l *Loader) Validate(cfg entities.CheckerConfig) error {
	err := l.validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return &ValidationError{Fields: fields}
}

func (l *Loader) applyEnv(cfg *entities.CheckerConfig) error {
	l.setString("PYTHON", &cfg.Python)
	l.setString("PACKAGES_DIR", &cfg.PackagesDir)
	l.setString("PACKAGE_EXTENSION", &cfg.PackageExtension)
	l.setString("LOG_LEVEL", &cfg.LogLevel)
	l.setString("KEYRING", &cfg.Integrity.Keyring)

	if err := l.setInt("WORKERS", &cfg.Workers); err != nil {
		return err
	}
	if err := l.setInt("SNIPPET_MAX_LENGTH", &cfg.Report.SnippetMaxLength); err != nil {
		return err
	}
	if err := l.setSeconds("VENV_TIMEOUT", &cfg.Timeouts.Venv); err != nil {
		return err
	}
	if err := l.setSeconds("INSTALL_TIMEOUT", &cfg.Timeouts.Install); err != nil {
		return err
	}
	if err := l.setSeconds("IMPORT_TIMEOUT", &cfg.Timeouts.Import); err != nil {
		return err
	}
	if err := l.setBool("VERIFY_CHECKSUMS", &cfg.Integrity.VerifyChecksums); err != nil {
		return err
	}
	return l.setBool("REQUIRE_SIGNATURES", &cfg.Integrity.RequireSignatures)
}

func (l *Loader) lookup(name string) (string, bool) {
	value, ok := l.lookupEnv(EnvPrefix + name)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func (l *Loader) setString(name string, dst *string) {
	if value, ok := l.lookup(name); ok {
		*dst = value
	}
}

func (l *Loader) setInt(name string, dst *int) error {
	value, ok := l.lookup(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s%s must be an integer: %w", EnvPrefix, name, err)
	}
	*dst = n
	return nil
}

func (l *Loader) setSeconds(name string, dst *time.Duration) error {
	value, ok := l.lookup(name)
	if !ok {
		return nil
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s%s must be a number of seconds: %w", EnvPrefix, name, err)
	}
	*dst = time.Duration(seconds) * time.Second
	return nil
}

func (l *Loader) setBool(name string, dst *bool) error {
	value, ok := l.lookup(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s%s must be a boolean: %w", EnvPrefix, name, err)
	}
	*dst = b
	return nil
}
