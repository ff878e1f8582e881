// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package waldcli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archmagece/wald/pkg/workspace"
)

func (f *CommandFactory) newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Initialize a wald workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			ws, err := workspace.Init(root, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized wald workspace at %s\n", ws.Root)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "reinitialize a workspace that already exists at this path")
	return cmd
}
