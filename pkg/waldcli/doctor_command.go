// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package waldcli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/archmagece/wald/pkg/doctor"
	"github.com/archmagece/wald/pkg/forge"
	"github.com/archmagece/wald/pkg/gitops"
	"github.com/archmagece/wald/pkg/workspace"
)

func (f *CommandFactory) newDoctorCmd() *cobra.Command {
	var (
		fix        bool
		watch      bool
		checkForge bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose drift between recorded workspace state and what's on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			git := newGit()

			if watch {
				return runDoctorWatch(cmd, ws, git, fix)
			}

			report, err := doctor.Run(cmd.Context(), ws, git)
			if err != nil {
				return err
			}

			if checkForge {
				cfg, err := forge.LoadConfig(ws.StateDir())
				if err != nil {
					return err
				}
				report.Issues = append(report.Issues, doctor.CheckForgeDrift(cmd.Context(), ws, git, cfg)...)
			}

			printReport(cmd.OutOrStdout(), report, fix, cmd.Context())
			if report.HasErrors() {
				return fmt.Errorf("doctor found unrecoverable issues")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "apply automatic remediation for fixable issues")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-run diagnostics every time the workspace tree changes")
	cmd.Flags().BoolVar(&checkForge, "forge", false, "also query each repository's forge API for default-branch drift")
	return cmd
}

func printReport(out io.Writer, report *doctor.Report, fix bool, ctx context.Context) {
	if len(report.Issues) == 0 {
		fmt.Fprintln(out, "no issues found")
		return
	}
	for _, issue := range report.Issues {
		fmt.Fprintf(out, "[%s] %s\n", issue.Severity, issue.Message)
		if fix && issue.Fixable {
			if err := issue.Fix(ctx); err != nil {
				fmt.Fprintf(out, "  fix failed: %v\n", err)
				continue
			}
			fmt.Fprintln(out, "  fixed")
		}
	}
}

func runDoctorWatch(cmd *cobra.Command, ws *workspace.Workspace, git *gitops.Git, fix bool) error {
	ctx := cmd.Context()
	reports, err := doctor.Watch(ctx, ws, git, doctor.WatchOptions{})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for report := range reports {
		fmt.Fprintln(out, "---")
		printReport(out, report, fix, ctx)
	}
	return nil
}
