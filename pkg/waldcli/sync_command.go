// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package waldcli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/archmagece/wald/pkg/sync"
)

func (f *CommandFactory) newSyncCmd() *cobra.Command {
	var opts sync.Options

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull the outer workspace repository and replay any baum moves it brought in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			git := newGit()

			result, err := sync.Run(cmd.Context(), ws, git, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Before == result.After {
				fmt.Fprintln(out, "already up to date")
				return nil
			}
			fmt.Fprintf(out, "%s -> %s\n", result.Before, result.After)
			for _, outcome := range result.Outcomes {
				reportOutcome(out, outcome)
			}
			if result.Pushed {
				fmt.Fprintln(out, "pushed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Push, "push", false, "push the outer repository after a successful sync")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "on divergent history, report git's raw pull error instead of the divergence error")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report what would happen without persisting sync state")
	return cmd
}

func reportOutcome(out io.Writer, outcome sync.ReplayOutcome) {
	switch outcome.Action {
	case sync.ActionNoop:
		fmt.Fprintf(out, "  %s -> %s: already in place\n", outcome.Move.OldContainer, outcome.Move.NewContainer)
	case sync.ActionMoved:
		fmt.Fprintf(out, "  %s -> %s: replayed\n", outcome.Move.OldContainer, outcome.Move.NewContainer)
	case sync.ActionConflict:
		fmt.Fprintf(out, "  %s -> %s: conflict: %v\n", outcome.Move.OldContainer, outcome.Move.NewContainer, outcome.Err)
	case sync.ActionNotABaum:
		fmt.Fprintf(out, "  %s -> %s: not a baum, skipped\n", outcome.Move.OldContainer, outcome.Move.NewContainer)
	}
}
