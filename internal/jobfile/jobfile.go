// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jobfile reads and writes YAML job files. A job file lists the
// folders to convert together with the settings to convert them with, so a
// run can be repeated without retyping its arguments.
package jobfile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/folder2pdf/pkg/types"
)

// Job is the on-disk representation of a conversion run.
type Job struct {
	Folders     []string     `yaml:"folders"`
	OutputDir   string       `yaml:"output_dir,omitempty"`
	Format      types.Format `yaml:"format,omitempty"`
	Extensions  []string     `yaml:"extensions,omitempty"`
	BatchSize   int          `yaml:"batch_size,omitempty"`
	DPI         int          `yaml:"dpi,omitempty"`
	JPEGQuality int          `yaml:"jpeg_quality,omitempty"`
	SavedAt     time.Time    `yaml:"saved_at,omitempty"`
}

// FromConfig builds a Job from the folders and configuration of a run.
func FromConfig(folders []string, cfg types.ConversionConfig) Job {
	return Job{
		Folders:     append([]string(nil), folders...),
		OutputDir:   cfg.OutputDir,
		Format:      cfg.Format,
		Extensions:  cfg.Extensions,
		BatchSize:   cfg.BatchSize,
		DPI:         cfg.DPI,
		JPEGQuality: cfg.JPEGQuality,
	}
}

// Apply overlays the job's non-zero settings on cfg and returns the result.
func (j Job) Apply(cfg types.ConversionConfig) types.ConversionConfig {
	if j.OutputDir != "" {
		cfg.OutputDir = j.OutputDir
	}
	if j.Format != "" {
		cfg.Format = j.Format
	}
	if len(j.Extensions) > 0 {
		cfg.Extensions = j.Extensions
	}
	if j.BatchSize > 0 {
		cfg.BatchSize = j.BatchSize
	}
	if j.DPI > 0 {
		cfg.DPI = j.DPI
	}
	if j.JPEGQuality > 0 {
		cfg.JPEGQuality = j.JPEGQuality
	}
	return cfg
}

// Write saves job to path as YAML, stamping SavedAt.
func Write(path string, job Job) error {
	job.SavedAt = time.Now().UTC().Truncate(time.Second)
	data, err := yaml.Marshal(&job)
	if err != nil {
		return fmt.Errorf("marshaling job file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Read loads a job file. Relative folder and output paths are resolved
// against the directory containing the job file.
func Read(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading job file: %w", err)
	}
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parsing job file: %w", err)
	}
	if len(job.Folders) == 0 {
		return nil, fmt.Errorf("parsing job file %s: no folders listed", path)
	}

	base := filepath.Dir(path)
	for i, f := range job.Folders {
		job.Folders[i] = resolve(base, f)
	}
	if job.OutputDir != "" {
		job.OutputDir = resolve(base, job.OutputDir)
	}
	return &job, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
