package gateways

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/ochairo/nativecheck/internal/domain/interfaces/gateways"
)

// maxEntrySize bounds how much of a single entry ReadEntry will load
const maxEntrySize = 16 << 20

// ZipArchiveOpener opens wheel files, which are zip archives
type ZipArchiveOpener struct{}

// NewZipArchiveOpener creates a new zip archive opener
func NewZipArchiveOpener() *ZipArchiveOpener {
	return &ZipArchiveOpener{}
}

// Open opens the archive at path
func (o *ZipArchiveOpener) Open(path string) (gateways.ArchiveReader, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}

	archive := &zipArchive{
		reader: reader,
		files:  make(map[string]*zip.File, len(reader.File)),
	}
	for _, f := range reader.File {
		archive.names = append(archive.names, f.Name)
		if _, seen := archive.files[f.Name]; !seen {
			archive.files[f.Name] = f
		}
	}
	return archive, nil
}

type zipArchive struct {
	reader *zip.ReadCloser
	names  []string
	files  map[string]*zip.File
}

func (a *zipArchive) Entries() []string {
	return a.names
}

func (a *zipArchive) ReadEntry(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("entry not found: %s", name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open entry %s: %w", name, err)
	}
	//nolint:errcheck // Defer close on read-only entry
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read entry %s: %w", name, err)
	}
	if len(data) > maxEntrySize {
		return nil, fmt.Errorf("entry %s exceeds %d bytes", name, maxEntrySize)
	}
	return data, nil
}

func (a *zipArchive) Close() error {
	return a.reader.Close()
}
