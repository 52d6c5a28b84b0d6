// Package gateways defines contracts for the external collaborators of a run.
package gateways

// ArchiveReader lists and reads entries of an opened package archive
type ArchiveReader interface {
	// Entries returns every entry path in archive order
	Entries() []string

	// ReadEntry returns the bytes of one entry
	ReadEntry(name string) ([]byte, error)

	// Close releases the archive
	Close() error
}

// ArchiveOpener opens package archives for inspection
type ArchiveOpener interface {
	Open(path string) (ArchiveReader, error)
}
