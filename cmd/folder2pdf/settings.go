// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/folder2pdf/internal/jobfile"
	"github.com/pdiddy/folder2pdf/pkg/types"
)

// addSelectionFlags registers the flags that choose which files qualify.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "extension preset: jpg, webp, png, all (or 1-4)")
	cmd.Flags().StringSlice("ext", nil, "extra file extension to include (repeatable)")
}

// addConversionFlags registers the flags that shape the output documents.
func addConversionFlags(cmd *cobra.Command) {
	cmd.Flags().String("output-dir", "", "directory for generated PDFs (default \"result\")")
	cmd.Flags().Int("batch-size", 0, "images decoded per batch (default 50)")
	cmd.Flags().Int("dpi", 0, "page resolution (default 100)")
	cmd.Flags().Int("jpeg-quality", 0, "quality of page images, 1-100 (default 95)")
	cmd.Flags().String("temp-dir", "", "parent directory for temporary workspaces")
}

// loadSettings resolves the conversion settings. Later sources win:
// defaults, config file and FOLDER2PDF_* environment, the job file (when
// given), then flags set on the command line.
func loadSettings(cmd *cobra.Command, job *jobfile.Job) (types.ConversionConfig, error) {
	cfg := types.DefaultConversionConfig()

	if s := viper.GetString("format"); s != "" {
		f, err := types.ParseFormat(s)
		if err != nil {
			return cfg, err
		}
		cfg.Format = f
	}
	if exts := viper.GetStringSlice("extensions"); len(exts) > 0 {
		cfg.Extensions = exts
	}
	if s := viper.GetString("output_dir"); s != "" {
		cfg.OutputDir = s
	}
	if n := viper.GetInt("batch_size"); n != 0 {
		cfg.BatchSize = n
	}
	if n := viper.GetInt("dpi"); n != 0 {
		cfg.DPI = n
	}
	if n := viper.GetInt("jpeg_quality"); n != 0 {
		cfg.JPEGQuality = n
	}
	if s := viper.GetString("temp_dir"); s != "" {
		cfg.TempDir = s
	}

	if job != nil {
		cfg = job.Apply(cfg)
	}

	fs := cmd.Flags()
	if fs.Changed("format") {
		s, _ := fs.GetString("format")
		f, err := types.ParseFormat(s)
		if err != nil {
			return cfg, err
		}
		cfg.Format = f
	}
	if fs.Changed("ext") {
		cfg.Extensions, _ = fs.GetStringSlice("ext")
	}
	if fs.Changed("output-dir") {
		cfg.OutputDir, _ = fs.GetString("output-dir")
	}
	if fs.Changed("batch-size") {
		cfg.BatchSize, _ = fs.GetInt("batch-size")
	}
	if fs.Changed("dpi") {
		cfg.DPI, _ = fs.GetInt("dpi")
	}
	if fs.Changed("jpeg-quality") {
		cfg.JPEGQuality, _ = fs.GetInt("jpeg-quality")
	}
	if fs.Changed("temp-dir") {
		cfg.TempDir, _ = fs.GetString("temp-dir")
	}

	return cfg, cfg.Validate()
}
