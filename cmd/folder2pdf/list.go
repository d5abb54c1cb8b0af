// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/folder2pdf/internal/convert"
)

var listCmd = &cobra.Command{
	Use:   "list <folder>",
	Short: "Show the images a folder would contribute, in page order",
	Long: `List prints the qualifying files of a folder in the order they would
become pages, without decoding or writing anything.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd, nil)
		if err != nil {
			return err
		}
		exts, err := cfg.AllowedExtensions()
		if err != nil {
			return err
		}
		files, err := convert.Discover(args[0], exts)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, f := range files {
			fmt.Fprintf(out, "%4d  %s\n", i+1, f.Name)
		}
		fmt.Fprintf(out, "%d files\n", len(files))
		return nil
	},
}

func init() {
	addSelectionFlags(listCmd)

	rootCmd.AddCommand(listCmd)
}
