package entities

// ClassificationResult lists the native modules found inside a package archive
type ClassificationResult struct {
	Modules        []string // Sorted, unique dotted import paths
	TopLevel       []string // Names declared by the package metadata
	HasNativeFiles bool     // At least one entry carried a native suffix
	UsedFallback   bool     // Modules were taken from TopLevel
	Warning        string   // Set when the archive could not be read
}

// Empty reports whether there is nothing to probe
func (c ClassificationResult) Empty() bool {
	return len(c.Modules) == 0
}
