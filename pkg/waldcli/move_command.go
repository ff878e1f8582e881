// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package waldcli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archmagece/wald/pkg/baum"
)

func (f *CommandFactory) newMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <old-container> <new-container>",
		Short: "Relocate a baum, keeping Git's worktree registry coherent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			git := newGit()
			mgr := baum.New(ws, git)

			if err := mgr.Move(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "moved %s to %s\n", args[0], args[1])
			return nil
		},
	}
	return cmd
}
