// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/folder2pdf/internal/natsort"
	"github.com/pdiddy/folder2pdf/pkg/types"
)

// ImageFile is a qualifying image found in the input folder.
type ImageFile struct {
	// Path is the absolute path to the file.
	Path string

	// Name is the base file name, used for ordering and in log lines.
	Name string

	// Ext is the lower-cased extension.
	Ext string
}

// Discover lists the immediate entries of folder whose lower-cased name
// ends with one of exts and returns them in natural order of their names.
// Subdirectories are ignored. An empty result is not an error.
func Discover(folder string, exts []string) ([]ImageFile, error) {
	exts = types.MergeExtensions(exts)
	if len(exts) == 0 {
		return nil, fmt.Errorf("%w: no file extensions allowed", ErrDiscovery)
	}

	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDiscovery, folder, err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDiscovery, folder, err)
	}

	var files []ImageFile
	for _, e := range entries {
		name := e.Name()
		if !hasAllowedSuffix(name, exts) {
			continue
		}
		path := filepath.Join(abs, name)
		if !isFile(e, path) {
			continue
		}
		files = append(files, ImageFile{
			Path: path,
			Name: name,
			Ext:  strings.ToLower(filepath.Ext(name)),
		})
	}

	natsort.Sort(files, func(f ImageFile) string { return f.Name })
	return files, nil
}

func hasAllowedSuffix(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// isFile reports whether the entry is a regular file, following symlinks.
func isFile(e os.DirEntry, path string) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
