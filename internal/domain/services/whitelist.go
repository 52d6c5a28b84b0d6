package services

import (
	"sort"
	"strings"

	"github.com/ochairo/nativecheck/internal/domain/entities"
)

// IsWhitelisted reports whether errorText is an accepted failure for packageName/module.
// Matching is case-insensitive substring containment; any missing or empty value fails closed.
func IsWhitelisted(packageName, module, errorText string, whitelist *entities.Whitelist) bool {
	if packageName == "" || module == "" || errorText == "" {
		return false
	}

	pattern, ok := whitelist.Pattern(packageName, module)
	if !ok || pattern == "" {
		return false
	}

	return strings.Contains(strings.ToLower(errorText), strings.ToLower(pattern))
}

// WhitelistMatcher applies a whitelist and records which entries suppressed a failure
type WhitelistMatcher struct {
	whitelist *entities.Whitelist
	used      entities.WhitelistUsage
}

// NewWhitelistMatcher creates a matcher bound to one whitelist
func NewWhitelistMatcher(whitelist *entities.Whitelist) *WhitelistMatcher {
	return &WhitelistMatcher{
		whitelist: whitelist,
		used:      entities.WhitelistUsage{},
	}
}

// Match reports whether the failure is whitelisted and marks the entry as used when it is
func (m *WhitelistMatcher) Match(packageName, module, errorText string) bool {
	if !IsWhitelisted(packageName, module, errorText, m.whitelist) {
		return false
	}
	m.used.Add(entities.WhitelistKey{Package: packageName, Module: module})
	return true
}

// Used returns the entries consumed so far
func (m *WhitelistMatcher) Used() entities.WhitelistUsage {
	return m.used
}

// FindUnusedEntries returns declared entries never present in used, grouped by package.
// Module lists are sorted; packages without unused entries are omitted.
func FindUnusedEntries(whitelist *entities.Whitelist, used entities.WhitelistUsage) map[string][]string {
	unused := make(map[string][]string)
	for _, key := range whitelist.Keys() {
		if used.Contains(key) {
			continue
		}
		unused[key.Package] = append(unused[key.Package], key.Module)
	}
	for pkg := range unused {
		sort.Strings(unused[pkg])
	}
	return unused
}
