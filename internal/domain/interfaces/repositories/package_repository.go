// Package repositories defines interfaces for data access layers.
package repositories

import "github.com/ochairo/nativecheck/internal/domain/entities"

// PackageRepository discovers package archives
type PackageRepository interface {
	// ListPackages returns every package archive in dir, sorted by name
	ListPackages(dir string) ([]entities.Package, error)
}
