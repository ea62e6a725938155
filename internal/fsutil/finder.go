// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// FindDocuments returns the paths of all .hcl documents under rootPath,
// sorted lexically so callers see a stable order. rootPath may also name a
// single file, in which case it is returned as-is.
func FindDocuments(rootPath string) ([]string, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", rootPath, err)
	}
	if !info.IsDir() {
		return []string{rootPath}, nil
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(rootPath, "**", "*.hcl"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob %s: %w", rootPath, err)
	}
	sort.Strings(matches)
	return matches, nil
}
