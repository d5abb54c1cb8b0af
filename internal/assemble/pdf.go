// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble builds PDF documents from decoded images and merges
// them into a single output file. All PDF work is delegated to pdfcpu.
package assemble

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/folder2pdf/internal/fsutil"
	"github.com/pdiddy/folder2pdf/pkg/types"
)

var (
	// ErrEncode is wrapped when a batch cannot be rendered to a document.
	ErrEncode = errors.New("rendering document")

	// ErrMerge is wrapped when a document cannot be added to a merge.
	ErrMerge = errors.New("appending document")

	// ErrWrite is wrapped when the merged output cannot be written.
	ErrWrite = errors.New("writing output")
)

func init() {
	// Keep pdfcpu from creating a config directory under the user's home.
	api.DisableConfigDir()
}

// PDF renders image batches to documents with pdfcpu. Each image becomes
// one page sized from its pixel dimensions at DPI.
type PDF struct {
	// DPI sets the page size from the image size (default 100).
	DPI int

	// Quality is the JPEG quality used for embedded page images (default 95).
	Quality int
}

// New returns a PDF assembler using the given resolution and quality.
// Non-positive values fall back to the defaults.
func New(dpi, quality int) *PDF {
	if dpi <= 0 {
		dpi = types.DefaultDPI
	}
	if quality <= 0 || quality > 100 {
		quality = types.DefaultJPEGQuality
	}
	return &PDF{DPI: dpi, Quality: quality}
}

// configuration returns the pdfcpu settings shared by every operation.
func configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Render writes images to a new document at path, one page per image in
// order. The first image forms the base page and the rest are appended.
// On failure no file is left at path.
func (p *PDF) Render(images []image.Image, path string) error {
	if len(images) == 0 {
		return fmt.Errorf("%w %s: no images", ErrEncode, filepath.Base(path))
	}

	pages := make([]io.Reader, len(images))
	for i, img := range images {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.Quality}); err != nil {
			return fmt.Errorf("%w %s: encoding page %d: %w", ErrEncode, filepath.Base(path), i+1, err)
		}
		pages[i] = &buf
	}

	imp := pdfcpu.DefaultImportConfig()
	imp.DPI = p.DPI

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrEncode, filepath.Base(path), err)
	}
	if err := api.ImportImages(nil, f, pages, imp, configuration()); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("%w %s: %w", ErrEncode, filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("%w %s: %w", ErrEncode, filepath.Base(path), err)
	}
	return nil
}

// NewMerge returns an empty merge accumulator.
func (p *PDF) NewMerge() Merge {
	return &fileMerge{}
}

// Merge accumulates documents in append order and writes them out as one.
type Merge interface {
	// Append validates the document at path and queues its pages.
	Append(path string) error

	// Write produces the merged document at outputPath.
	Write(outputPath string) error

	// Pages returns the number of pages queued so far.
	Pages() int

	// Documents returns the number of documents queued so far.
	Documents() int
}

// fileMerge queues document paths. The documents stay on disk until
// Write, so queued pages cost no memory.
type fileMerge struct {
	paths []string
	pages int
}

func (m *fileMerge) Append(path string) error {
	n, err := api.PageCountFile(path)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrMerge, filepath.Base(path), err)
	}
	if n == 0 {
		return fmt.Errorf("%w %s: document has no pages", ErrMerge, filepath.Base(path))
	}
	m.paths = append(m.paths, path)
	m.pages += n
	return nil
}

func (m *fileMerge) Write(outputPath string) error {
	if len(m.paths) == 0 {
		return fmt.Errorf("%w %s: nothing to write", ErrWrite, outputPath)
	}
	err := fsutil.WriteAtomic(outputPath, func(tmp string) error {
		if len(m.paths) == 1 {
			return fsutil.CopyFile(m.paths[0], tmp)
		}
		return mergeFiles(m.paths, tmp)
	})
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, outputPath, err)
	}
	return nil
}

func (m *fileMerge) Pages() int     { return m.pages }
func (m *fileMerge) Documents() int { return len(m.paths) }

// mergeFiles concatenates the documents at paths into dst.
func mergeFiles(paths []string, dst string) error {
	readers := make([]io.ReadSeeker, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll(readers)
			return fmt.Errorf("opening %s: %w", p, err)
		}
		readers = append(readers, f)
	}
	defer closeAll(readers)

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if err := api.MergeRaw(readers, out, false, configuration()); err != nil {
		out.Close()
		return fmt.Errorf("merging %d documents: %w", len(paths), err)
	}
	return out.Close()
}

func closeAll(readers []io.ReadSeeker) {
	for _, r := range readers {
		if c, ok := r.(io.Closer); ok {
			c.Close()
		}
	}
}
