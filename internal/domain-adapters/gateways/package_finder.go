package gateways

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ochairo/nativecheck/internal/domain/entities"
)

// PackageFinder locates package archives on disk
type PackageFinder struct {
	extension string
}

// NewPackageFinder creates a finder for files ending in extension, e.g. ".whl"
func NewPackageFinder(extension string) *PackageFinder {
	return &PackageFinder{extension: extension}
}

// ListPackages returns the archives directly inside dir, sorted by file name
func (f *PackageFinder) ListPackages(dir string) ([]entities.Package, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("packages directory does not exist: %s", dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("packages path is not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read packages directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), f.extension) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	pkgs := make([]entities.Package, 0, len(names))
	for _, name := range names {
		pkgs = append(pkgs, entities.NewPackage(filepath.Join(dir, name)))
	}
	return pkgs, nil
}

// PackagesDirCandidates returns the conventional locations in lookup order:
// <interpreter dir>/../packages, then <cwd>/packages.
func PackagesDirCandidates(interpreterPath, cwd string) []string {
	var candidates []string
	if interpreterPath != "" {
		candidates = append(candidates, filepath.Join(filepath.Dir(filepath.Dir(interpreterPath)), "packages"))
	}
	return append(candidates, filepath.Join(cwd, "packages"))
}

// LocatePackagesDir returns the first existing candidate directory
func LocatePackagesDir(candidates []string) (string, error) {
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
	}

	var b strings.Builder
	b.WriteString("cannot find packages directory. Tried:")
	for _, candidate := range candidates {
		fmt.Fprintf(&b, "\n  - %s", candidate)
	}
	return "", errors.New(b.String())
}
