// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the folder2pdf CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/folder2pdf/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from --log-level and --log-format before any subcommand runs.
var logger = zerolog.Nop()

// rootCmd is the base command for the folder2pdf CLI.
var rootCmd = &cobra.Command{
	Use:   "folder2pdf",
	Short: "Combine folders of scanned images into PDF files",
	Long: `folder2pdf turns each selected folder of page images into one PDF.
Images are ordered by natural filename order (page2 before page10), decoded
in memory-bounded batches, and merged into <output-dir>/<folder>.pdf.

Settings come from flags, FOLDER2PDF_* environment variables (also read from
.env.local), or folder2pdf.yaml in the current directory or
~/.config/folder2pdf/.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loadEnvFile()
		l, err := logging.New(logging.Config{
			Level:  viper.GetString("log_level"),
			Format: logging.Format(viper.GetString("log_format")),
			Output: os.Stderr,
		})
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./folder2pdf.yaml or ~/.config/folder2pdf/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console or json")

	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("folder2pdf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "folder2pdf"))
		}
	}

	viper.SetEnvPrefix("FOLDER2PDF")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadEnvFile reads .env.local from the working directory, falling back to
// its parent. Variables already set in the environment win.
func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}
	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
