// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the configuration and result types shared by the
// conversion pipeline, the session worker and the CLI.
package types

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every error returned from Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	// DefaultBatchSize bounds how many decoded images are resident at once.
	DefaultBatchSize = 50

	// DefaultOutputDir receives one <folder>.pdf per converted folder.
	DefaultOutputDir = "result"

	// DefaultDPI is the resolution used to size a page from its image.
	DefaultDPI = 100

	// DefaultJPEGQuality is the quality of the JPEG stream embedded per page.
	DefaultJPEGQuality = 95
)

// ConversionConfig holds settings shared by every folder in a run.
type ConversionConfig struct {
	// Format names an extension preset (jpg, webp, png, all).
	Format Format `json:"format" yaml:"format"`

	// Extensions adds suffixes on top of the preset (e.g. ".jfif").
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`

	// BatchSize is the number of images decoded per batch (default 50).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// OutputDir is the directory for generated PDFs (default "result").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// DPI is the page resolution (default 100).
	DPI int `json:"dpi" yaml:"dpi"`

	// JPEGQuality is the page image quality, 1-100 (default 95).
	JPEGQuality int `json:"jpeg_quality" yaml:"jpeg_quality"`

	// TempDir is the parent directory for scoped workspaces. Empty means
	// the OS default.
	TempDir string `json:"temp_dir,omitempty" yaml:"temp_dir,omitempty"`
}

// DefaultConversionConfig returns the settings used when nothing is configured.
func DefaultConversionConfig() ConversionConfig {
	return ConversionConfig{
		Format:      FormatJPEG,
		BatchSize:   DefaultBatchSize,
		OutputDir:   DefaultOutputDir,
		DPI:         DefaultDPI,
		JPEGQuality: DefaultJPEGQuality,
	}
}

// AllowedExtensions returns the preset's suffixes merged with the extra
// Extensions, normalized and de-duplicated.
func (c ConversionConfig) AllowedExtensions() ([]string, error) {
	base, err := c.Format.Extensions()
	if err != nil {
		return nil, err
	}
	return MergeExtensions(base, c.Extensions), nil
}

// Validate checks the configuration and returns an error wrapping
// ErrInvalidConfig describing the first problem found.
func (c ConversionConfig) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidConfig, c.BatchSize)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("%w: dpi must be positive, got %d", ErrInvalidConfig, c.DPI)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("%w: jpeg quality must be between 1 and 100, got %d", ErrInvalidConfig, c.JPEGQuality)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output directory is empty", ErrInvalidConfig)
	}
	exts, err := c.AllowedExtensions()
	if err != nil {
		return err
	}
	if len(exts) == 0 {
		return fmt.Errorf("%w: no file extensions selected", ErrInvalidConfig)
	}
	return nil
}
