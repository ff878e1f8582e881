// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package waldcli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archmagece/wald/pkg/baum"
)

func (f *CommandFactory) newPruneCmd() *cobra.Command {
	var (
		branchesFlag bool
		force        bool
		branchNames  []string
	)

	cmd := &cobra.Command{
		Use:   "prune [container]",
		Short: "Remove worktrees from a baum, or dangling wald/ tracking branches workspace-wide",
		Long: `With a container argument, prune removes the worktrees named by
--branch from that baum. With --branches instead, it scans every
registered repository's bare clone and deletes any wald/<id>/<branch>
tracking branch no longer referenced by a planted baum.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			git := newGit()
			mgr := baum.New(ws, git)

			if branchesFlag {
				result, err := mgr.PruneWorkspaceBranches(cmd.Context(), force)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d tracking branches, skipped %d\n", result.Removed, result.Skipped)
				return nil
			}

			if len(args) != 1 {
				return fmt.Errorf("prune requires a container argument unless --branches is set")
			}
			if len(branchNames) == 0 {
				return fmt.Errorf("prune requires at least one --branch when pruning a baum")
			}
			if err := mgr.PruneBaum(cmd.Context(), args[0], branchNames, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %v from %s\n", branchNames, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&branchesFlag, "branches", false, "prune dangling wald/ tracking branches across the whole workspace")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "tolerate removal failures and unpushed commits")
	cmd.Flags().StringSliceVar(&branchNames, "branch", nil, "branch(es) to remove from the baum")
	return cmd
}
