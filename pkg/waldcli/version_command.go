// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package waldcli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archmagece/wald"
	"github.com/archmagece/wald/pkg/cliutil"
)

func (f *CommandFactory) newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: cliutil.QuickStartHelp(`  # Show full version info
  wald version

  # Show short version number
  wald version --short`),
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, wald.ShortVersion())
				return
			}
			fmt.Fprintln(out, wald.VersionString())
			fmt.Fprintf(out, "\nGo version: %s\n", wald.VersionInfo()["goVersion"])
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the version number")
	return cmd
}
