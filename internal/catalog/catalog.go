// Package catalog persists named descriptor collections on disk, one
// gob-encoded file per indexed image, and rebuilds them from an input
// directory of images.
package catalog

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kozaktomas/imgmatch/internal/descriptor"
)

// FileExt is the extension of persisted descriptor files.
const FileExt = ".desc"

// ErrNotFound is returned when a catalog entry does not exist.
var ErrNotFound = errors.New("catalog entry not found")

// Entry pairs a catalog name with its descriptor collection.
type Entry struct {
	Name        string
	Descriptors descriptor.Collection
}

// EntryName derives the catalog name from a source image path: the base
// filename with its extension stripped. Input files must therefore have
// unique basenames across the traversed set.
func EntryName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Save persists a descriptor collection under dir as <name>.desc.
func Save(dir, name string, descriptors descriptor.Collection) error {
	path := filepath.Join(dir, name+FileExt)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create catalog entry file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(descriptors); err != nil {
		return fmt.Errorf("failed to encode descriptors: %w", err)
	}
	return nil
}

// Load reads a persisted descriptor collection from path.
func Load(path string) (descriptor.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open catalog entry: %w", err)
	}
	defer f.Close()

	var descriptors descriptor.Collection
	if err := gob.NewDecoder(f).Decode(&descriptors); err != nil {
		return nil, fmt.Errorf("failed to decode descriptors: %w", err)
	}
	return descriptors, nil
}

// List returns the paths of all catalog entry files in dir, sorted by
// name.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != FileExt {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
