// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/folder2pdf/pkg/types"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the extension presets accepted by --format",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, name := range types.FormatNames() {
			exts, err := types.Format(name).Extensions()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-5s %s\n", name, strings.Join(exts, " "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
