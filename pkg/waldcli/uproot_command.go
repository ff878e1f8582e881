// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package waldcli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archmagece/wald/pkg/baum"
)

func (f *CommandFactory) newUprootCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "uproot <container>",
		Short: "Remove every worktree of a baum and delete its container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			git := newGit()
			mgr := baum.New(ws, git)

			if err := mgr.Uproot(cmd.Context(), args[0], force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uprooted %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "tolerate individual worktree-removal failures")
	return cmd
}
