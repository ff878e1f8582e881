// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package waldcli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/archmagece/wald/pkg/waldcli/tui"
)

func (f *CommandFactory) newStatusCmd() *cobra.Command {
	var useTUI bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show dirty and unpushed worktrees across every planted baum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			git := newGit()

			rows, err := collectStatusRows(cmd.Context(), ws, git)
			if err != nil {
				return err
			}

			if useTUI {
				if !isatty.IsTerminal(os.Stdout.Fd()) {
					return fmt.Errorf("--tui requires an interactive terminal")
				}
				program := tea.NewProgram(tui.NewStatusModel(rows))
				_, err := program.Run()
				return err
			}

			printStatusRows(cmd.OutOrStdout(), rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&useTUI, "tui", false, "launch the interactive status dashboard")
	return cmd
}

func printStatusRows(out io.Writer, rows []tui.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "no planted baums found")
		return
	}
	for _, r := range rows {
		state := "clean"
		switch {
		case r.Issue != "":
			state = "issue: " + r.Issue
		case r.Dirty && r.Unpushed:
			state = "dirty, unpushed"
		case r.Dirty:
			state = "dirty"
		case r.Unpushed:
			state = "unpushed"
		}
		fmt.Fprintf(out, "%-40s %-20s %-10s %s\n", r.Container, r.Branch, r.RepoID, state)
	}
}
