// Package entities defines core domain models and data structures.
package entities

import (
	"path/filepath"
	"strings"
)

// Package represents one package archive to verify
type Package struct {
	Name string // File name, e.g. "numpy-1.26.4-cp311-cp311-manylinux_2_17_x86_64.whl"
	Path string
	Tags WheelTags
}

// WheelTags holds the fields encoded in a wheel file name.
// All fields are empty when the name does not follow the wheel naming convention.
type WheelTags struct {
	Distribution string
	Version      string
	Build        string
	Python       string
	ABI          string
	Platform     string
}

// NewPackage creates a Package from an archive path
func NewPackage(path string) Package {
	name := filepath.Base(path)
	return Package{
		Name: name,
		Path: path,
		Tags: ParseWheelFilename(name),
	}
}

// ParseWheelFilename splits {dist}-{version}(-{build})?-{python}-{abi}-{platform}.whl.
// Unparseable names yield zero WheelTags.
func ParseWheelFilename(name string) WheelTags {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(stem, "-")

	switch len(parts) {
	case 5:
		return WheelTags{
			Distribution: parts[0],
			Version:      parts[1],
			Python:       parts[2],
			ABI:          parts[3],
			Platform:     parts[4],
		}
	case 6:
		return WheelTags{
			Distribution: parts[0],
			Version:      parts[1],
			Build:        parts[2],
			Python:       parts[3],
			ABI:          parts[4],
			Platform:     parts[5],
		}
	default:
		return WheelTags{}
	}
}

// IsZero reports whether no tags were parsed
func (t WheelTags) IsZero() bool {
	return t == WheelTags{}
}
