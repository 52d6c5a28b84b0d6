// Package whitelist loads and strictly validates whitelist JSON files using JSON Schema.
package whitelist

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ochairo/nativecheck/internal/domain/entities"
	"github.com/ochairo/nativecheck/internal/domain/interfaces"
)

//go:embed schema.json
var schemaJSON string

// SchemaJSON returns the JSON Schema every whitelist file must satisfy
func SchemaJSON() string {
	return schemaJSON
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// LoadError is a fatal whitelist problem: unreadable, malformed JSON or wrong shape
type LoadError struct {
	Path    string
	Message string
	Fields  []FieldError
	Cause   error
}

func (e *LoadError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", e.Message, e.Path)
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	for i, fe := range e.Fields {
		fmt.Fprintf(&sb, "\n  %d. %s: %s", i+1, fe.Field, fe.Message)
	}
	return sb.String()
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Loader reads whitelist files
type Loader struct {
	schema    *gojsonschema.Schema
	schemaErr error
	logger    interfaces.Logger
}

// NewLoader creates a loader with the embedded schema compiled once
func NewLoader(logger interfaces.Logger) *Loader {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	return &Loader{
		schema:    schema,
		schemaErr: err,
		logger:    interfaces.OrNoOp(logger),
	}
}

// Load reads the whitelist at path. An empty path or a missing file yields an empty whitelist.
func (l *Loader) Load(path string) (*entities.Whitelist, error) {
	if path == "" {
		return entities.EmptyWhitelist(), nil
	}

	//nolint:gosec // G304: path is the user-provided whitelist file
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("whitelist file not found, continuing without suppressions", interfaces.F("path", path))
		return entities.EmptyWhitelist(), nil
	}
	if err != nil {
		return nil, &LoadError{Path: path, Message: "cannot read whitelist file", Cause: err}
	}

	whitelist, err := l.Parse(path, data)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("loaded whitelist",
		interfaces.F("path", path),
		interfaces.F("packages", whitelist.Len()))
	return whitelist, nil
}

// Parse validates data and builds an immutable whitelist. source names the data in errors.
func (l *Loader) Parse(source string, data []byte) (*entities.Whitelist, error) {
	if l.schemaErr != nil {
		return nil, &LoadError{Path: source, Message: "invalid whitelist schema", Cause: l.schemaErr}
	}

	var document interface{}
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, &LoadError{Path: source, Message: "failed to parse whitelist file", Cause: err}
	}

	result, err := l.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &LoadError{Path: source, Message: "failed to validate whitelist file", Cause: err}
	}
	if !result.Valid() {
		fields := make([]FieldError, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			fields = append(fields, FieldError{Field: field, Message: desc.Description()})
		}
		return nil, &LoadError{Path: source, Message: "whitelist does not match the expected shape", Fields: fields}
	}

	var entries map[string]map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &LoadError{Path: source, Message: "failed to decode whitelist file", Cause: err}
	}
	return entities.NewWhitelist(entries), nil
}
