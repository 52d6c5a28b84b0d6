package services

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"

	"github.com/ochairo/nativecheck/internal/domain/entities"
)

// GenerateWhitelistSnippet renders failures as a whitelist document ready to paste.
// Error type prefixes such as "ImportError: " are stripped and each pattern is cut to maxLength runes.
func GenerateWhitelistSnippet(failures map[string][]entities.ModuleError, maxLength int) (string, error) {
	snippet := make(map[string]map[string]string, len(failures))
	for pkg, errs := range failures {
		if len(errs) == 0 {
			continue
		}
		modules := make(map[string]string, len(errs))
		for _, e := range errs {
			modules[e.Module] = SnippetPattern(e.Error, maxLength)
		}
		snippet[pkg] = modules
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snippet); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// SnippetPattern derives a whitelist pattern from a diagnostic
func SnippetPattern(errorText string, maxLength int) string {
	text := StripErrorType(errorText)
	if maxLength > 0 {
		if runes := []rune(text); len(runes) > maxLength {
			text = string(runes[:maxLength])
		}
	}
	return strings.TrimSpace(text)
}

// StripErrorType removes a leading "SomeError: " or "SomeException: " type name
func StripErrorType(errorText string) string {
	prefix, rest, found := strings.Cut(errorText, ": ")
	if !found || !isErrorTypeName(prefix) {
		return errorText
	}
	return rest
}

func isErrorTypeName(name string) bool {
	if !strings.HasSuffix(name, "Error") && !strings.HasSuffix(name, "Exception") {
		return false
	}
	for _, r := range name {
		if r != '.' && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
