package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kozaktomas/imgmatch/internal/descriptor"
	"github.com/schollz/progressbar/v3"
)

// SupportedExts is the case-sensitive set of image file extensions the
// builder recognizes.
var SupportedExts = map[string]bool{
	".bmp": true, ".dib": true,
	".jpeg": true, ".jpg": true, ".jpe": true, ".jp2": true,
	".png": true,
	".pbm": true, ".pgm": true, ".ppm": true,
	".sr": true, ".ras": true,
	".tiff": true, ".tif": true,
}

// skipPrefix marks input files the builder ignores.
const skipPrefix = "_"

// Eligible reports whether a file with the given basename is indexed by
// the builder.
func Eligible(name string) bool {
	return !strings.HasPrefix(name, skipPrefix) && SupportedExts[filepath.Ext(name)]
}

// FileError records a single input file that failed during a build.
type FileError struct {
	Path string
	Err  error
}

// Result summarizes a catalog build.
type Result struct {
	Built   int         // entries written
	Skipped int         // ineligible files (prefix or extension)
	Failed  []FileError // files that failed to extract or persist
}

// Builder walks an input directory and persists one descriptor file per
// eligible image.
type Builder struct {
	extractor *descriptor.Extractor
	progress  bool
}

// NewBuilder creates a builder using the given extractor. When progress
// is true a progress bar is rendered during the build.
func NewBuilder(extractor *descriptor.Extractor, progress bool) *Builder {
	return &Builder{
		extractor: extractor,
		progress:  progress,
	}
}

// Build extracts descriptors for every eligible image under inputDir and
// persists them to outputDir, one entry per file. A file that fails to
// load, extract or persist is recorded in the result and skipped; the
// rest of the build continues. Stale entries from a previous build are
// not removed.
func (b *Builder) Build(ctx context.Context, inputDir, outputDir string) (*Result, error) {
	result := &Result{}

	var eligible []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !Eligible(d.Name()) {
			result.Skipped++
			return nil
		}
		eligible = append(eligible, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk input directory: %w", err)
	}

	if err := ensureDir(outputDir); err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if b.progress {
		bar = progressbar.Default(int64(len(eligible)), "building catalog")
	}

	for _, path := range eligible {
		if bar != nil {
			_ = bar.Add(1)
		}

		descriptors, err := b.extractor.Extract(ctx, path)
		if err != nil {
			result.Failed = append(result.Failed, FileError{Path: path, Err: err})
			continue
		}
		if err := Save(outputDir, EntryName(path), descriptors); err != nil {
			result.Failed = append(result.Failed, FileError{Path: path, Err: err})
			continue
		}
		result.Built++
	}

	return result, nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
