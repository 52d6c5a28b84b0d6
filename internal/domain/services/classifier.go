// Package services implements the core domain logic of a run.
package services

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/ochairo/nativecheck/internal/domain/entities"
	"github.com/ochairo/nativecheck/internal/domain/interfaces"
	"github.com/ochairo/nativecheck/internal/domain/interfaces/gateways"
)

// ModuleClassifier statically derives native module names from a package archive
type ModuleClassifier struct {
	opener gateways.ArchiveOpener
	config entities.ClassifierConfig
	logger interfaces.Logger
}

// NewModuleClassifier creates a classifier
func NewModuleClassifier(opener gateways.ArchiveOpener, config entities.ClassifierConfig, logger interfaces.Logger) *ModuleClassifier {
	return &ModuleClassifier{
		opener: opener,
		config: config,
		logger: interfaces.OrNoOp(logger),
	}
}

// Classify lists the native modules of the archive at archivePath.
// An unreadable archive yields an empty result with Warning set.
func (c *ModuleClassifier) Classify(archivePath string) entities.ClassificationResult {
	archive, err := c.opener.Open(archivePath)
	if err != nil {
		warning := fmt.Sprintf("Cannot read wheel file %s: %v", archivePath, err)
		c.logger.Warn("cannot read package archive",
			interfaces.F("path", archivePath),
			interfaces.F("error", err.Error()))
		return entities.ClassificationResult{Warning: warning}
	}
	//nolint:errcheck // Defer close on read-only archive
	defer archive.Close()

	return c.ClassifyEntries(archive)
}

// ClassifyEntries classifies an already opened archive
func (c *ModuleClassifier) ClassifyEntries(archive gateways.ArchiveReader) entities.ClassificationResult {
	entries := archive.Entries()
	result := entities.ClassificationResult{
		TopLevel: c.readTopLevel(archive, entries),
	}

	seen := make(map[string]struct{})
	for _, name := range entries {
		if c.isExcludedDir(name) {
			continue
		}

		suffix, ok := c.nativeSuffix(name)
		if !ok {
			continue
		}
		result.HasNativeFiles = true

		if c.isBundledLibrary(path.Base(name), suffix) {
			continue
		}

		module := c.moduleName(name, suffix)
		if module == "" {
			continue
		}
		seen[module] = struct{}{}
	}

	for module := range seen {
		result.Modules = append(result.Modules, module)
	}
	sort.Strings(result.Modules)

	if len(result.Modules) == 0 && result.HasNativeFiles && len(result.TopLevel) > 0 {
		result.Modules = append([]string(nil), result.TopLevel...)
		result.UsedFallback = true
	}

	return result
}

// readTopLevel parses the first top-level names file found. Read errors are ignored.
func (c *ModuleClassifier) readTopLevel(archive gateways.ArchiveReader, entries []string) []string {
	for _, name := range entries {
		if !strings.HasSuffix(name, c.config.TopLevelMarker) {
			continue
		}
		data, err := archive.ReadEntry(name)
		if err != nil {
			c.logger.Debug("cannot read top-level names",
				interfaces.F("entry", name),
				interfaces.F("error", err.Error()))
			return nil
		}
		return ParseTopLevelNames(string(data))
	}
	return nil
}

// ParseTopLevelNames splits a top-level names file into trimmed, non-blank lines
func ParseTopLevelNames(content string) []string {
	var names []string
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

func (c *ModuleClassifier) isExcludedDir(name string) bool {
	for _, marker := range c.config.ExcludedDirs {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

func (c *ModuleClassifier) nativeSuffix(name string) (string, bool) {
	for _, suffix := range c.config.NativeSuffixes {
		if strings.HasSuffix(name, suffix) {
			return suffix, true
		}
	}
	return "", false
}

// isBundledLibrary detects shared libraries shipped for linking, e.g. libfoo.so.1 or libbar.dylib
func (c *ModuleClassifier) isBundledLibrary(base, suffix string) bool {
	if !strings.HasPrefix(base, c.config.LibraryPrefix) {
		return false
	}
	if strings.Contains(base, ".so.") {
		return true
	}
	for _, libSuffix := range c.config.LibrarySuffixes {
		if suffix == libSuffix {
			return !c.hasABITag(strings.TrimSuffix(base, suffix))
		}
	}
	return false
}

// hasABITag reports whether any dot-separated segment after the first is an ABI tag
func (c *ModuleClassifier) hasABITag(stem string) bool {
	parts := strings.Split(stem, ".")
	for _, part := range parts[1:] {
		if c.isABITag(part) {
			return true
		}
	}
	return false
}

func (c *ModuleClassifier) isABITag(segment string) bool {
	for _, prefix := range c.config.ABITagPrefixes {
		if strings.HasPrefix(segment, prefix) {
			return true
		}
	}
	return false
}

// moduleName turns pkg/sub/_native.cpython-311-x86_64-linux-gnu.so into pkg.sub._native
func (c *ModuleClassifier) moduleName(name, suffix string) string {
	stem := strings.TrimSuffix(name, suffix)

	parts := strings.Split(stem, ".")
	kept := parts[:1]
	for _, part := range parts[1:] {
		if c.isABITag(part) {
			break
		}
		kept = append(kept, part)
	}

	module := strings.ReplaceAll(strings.Join(kept, "."), "/", ".")
	return strings.Trim(module, ".")
}
