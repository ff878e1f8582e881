// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package waldcli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archmagece/wald/pkg/baum"
	"github.com/archmagece/wald/pkg/gitops"
)

func (f *CommandFactory) newPlantCmd() *cobra.Command {
	var (
		branches    []string
		force       bool
		reuse       bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "plant <container> [repo-reference]",
		Short: "Create or extend a baum at container",
		Long: `Plant creates a new baum at container projecting the given
repository's default branch, or extends an existing baum with
additional branches via --branch.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			git := newGit()
			mgr := baum.New(ws, git)

			opts := baum.PlantOptions{Branches: branches, Mode: trackingMode(force, reuse)}
			if len(args) == 2 {
				opts.RepoRef = args[1]
			}

			if interactive && opts.RepoRef == "" && len(branches) == 0 {
				wizardOpts, err := runPlantWizard(ws)
				if err != nil {
					return err
				}
				opts.RepoRef = wizardOpts.RepoRef
				opts.Branches = wizardOpts.Branches
			}

			result, err := mgr.Plant(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			if err := ws.Save(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "planted %s at %s: %v\n", result.Descriptor.RepoID, result.Container, result.Added)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&branches, "branch", nil, "branch(es) to project (default: the repository's default branch)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing tracking branch even if it has unpushed commits")
	cmd.Flags().BoolVar(&reuse, "reuse", false, "reuse an existing tracking branch if it has no unpushed commits")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for the repository and branches to plant")
	return cmd
}

func trackingMode(force, reuse bool) gitops.TrackingMode {
	switch {
	case force:
		return gitops.ModeForce
	case reuse:
		return gitops.ModeReuse
	default:
		return gitops.ModeDefault
	}
}
