package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ironsheep/texpack/internal/imaging"
)

// Discover lists the image files directly inside dir, sorted by name.
// Subdirectories and files with unrecognized extensions are skipped.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !imaging.IsImageFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// FrameName returns the frame name used for the file at path: its base name,
// extension included.
func FrameName(path string) string {
	return filepath.Base(path)
}
