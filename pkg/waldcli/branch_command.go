// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package waldcli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archmagece/wald/pkg/baum"
)

func (f *CommandFactory) newBranchCmd() *cobra.Command {
	var force, reuse bool

	cmd := &cobra.Command{
		Use:   "branch <container> <branch>",
		Short: "Add a single worktree to an existing baum",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			git := newGit()
			mgr := baum.New(ws, git)

			result, err := mgr.Branch(cmd.Context(), args[0], args[1], trackingMode(force, reuse))
			if err != nil {
				return err
			}
			if err := ws.Save(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s\n", args[1], result.Container)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing tracking branch even if it has unpushed commits")
	cmd.Flags().BoolVar(&reuse, "reuse", false, "reuse an existing tracking branch if it has no unpushed commits")
	return cmd
}
