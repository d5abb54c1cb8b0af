// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/folder2pdf/internal/jobfile"
	"github.com/pdiddy/folder2pdf/pkg/types"
)

func newSettingsCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetEnvPrefix("FOLDER2PDF")
	viper.AutomaticEnv()

	cmd := &cobra.Command{Use: "test"}
	addSelectionFlags(cmd)
	addConversionFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoadSettings_Defaults(t *testing.T) {
	cfg, err := loadSettings(newSettingsCmd(t), nil)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConversionConfig(), cfg)
}

func TestLoadSettings_Precedence(t *testing.T) {
	t.Setenv("FOLDER2PDF_BATCH_SIZE", "7")
	t.Setenv("FOLDER2PDF_DPI", "150")
	t.Setenv("FOLDER2PDF_FORMAT", "png")
	job := &jobfile.Job{DPI: 300, OutputDir: "/jobs/out"}

	cmd := newSettingsCmd(t, "--output-dir", "/flag/out", "--format", "4", "--ext", ".jfif")
	cfg, err := loadSettings(cmd, job)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.BatchSize, "environment")
	assert.Equal(t, 300, cfg.DPI, "job file beats environment")
	assert.Equal(t, "/flag/out", cfg.OutputDir, "flag beats job file")
	assert.Equal(t, types.FormatAll, cfg.Format, "flag beats environment")
	assert.Equal(t, []string{".jfif"}, cfg.Extensions)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"--format", "tiff"}},
		{"negative batch size", []string{"--batch-size=-1"}},
		{"quality out of range", []string{"--jpeg-quality", "101"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadSettings(newSettingsCmd(t, tt.args...), nil)
			assert.ErrorIs(t, err, types.ErrInvalidConfig)
		})
	}
}
